// Package validation provides input validation for procedures.
//
// Struct tags are checked with go-playground/validator; failures become
// INVALID_INPUT errors whose details list every failed field under "fields".
//
//	type CreateUser struct {
//	    Name  string `json:"name" validate:"required,min=2"`
//	    Email string `json:"email" validate:"required,email"`
//	}
//	err := validation.Validate(cmd)
//
// Struct and JSON return schemas that plug into procedure definitions as
// input validators. Check adds rules that tags cannot express:
//
//	input := validation.Struct[CreateUser]().Check(func(c *validation.Checks, in CreateUser) {
//	    c.Custom(in.Name != in.Email, "name", "must differ from email")
//	})
package validation
