package validation

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/kbukum/rpckit/errors"
)

type createUser struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Age      int    `json:"age" validate:"gte=0,lte=150"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=admin member"`
	Password string `json:"password,omitempty"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   createUser
		wantErr bool
		fields  []string
	}{
		{"valid", createUser{Name: "Ann", Email: "ann@example.com", Age: 30}, false, nil},
		{"missing name", createUser{Email: "ann@example.com"}, true, []string{"name"}},
		{"bad email and age", createUser{Name: "Ann", Email: "nope", Age: 200}, true, []string{"email", "age"}},
		{"bad role", createUser{Name: "Ann", Email: "ann@example.com", Role: "root"}, true, []string{"role"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.input)
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			appErr, ok := errors.AsAppError(err)
			if !ok || appErr.Code != errors.ErrCodeInvalidInput {
				t.Fatalf("expected INVALID_INPUT, got %v", err)
			}
			fieldErrors, ok := appErr.Details["fields"].([]FieldError)
			if !ok {
				t.Fatalf("expected field details, got %v", appErr.Details)
			}
			if len(fieldErrors) != len(tc.fields) {
				t.Fatalf("expected %d field errors, got %v", len(tc.fields), fieldErrors)
			}
			for i, field := range tc.fields {
				if fieldErrors[i].Field != field {
					t.Errorf("expected field %q, got %q", field, fieldErrors[i].Field)
				}
			}
		})
	}
}

func TestValidate_MessageUsesJSONNames(t *testing.T) {
	err := Validate(createUser{Email: "ann@example.com"})
	if err == nil || !strings.Contains(errors.MessageOf(err), "name: is required") {
		t.Errorf("expected json field name in message, got %v", err)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Name":      "name",
		"FirstName": "first_name",
		"userID":    "user_i_d",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSchema_ValidateSync(t *testing.T) {
	schema := Struct[createUser]()

	got, err := schema.ValidateSync(map[string]any{"name": "Ann", "email": "ann@example.com", "age": "41"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Ann" || got.Age != 41 {
		t.Errorf("unexpected decoded value %+v", got)
	}

	got, err = schema.ValidateSync([]byte(`{"name":"Bob","email":"bob@example.com","age":7}`))
	if err != nil || got.Age != 7 {
		t.Fatalf("expected JSON bytes to decode, got %+v, %v", got, err)
	}

	typed := createUser{Name: "Cy", Email: "cy@example.com"}
	if got, err = schema.ValidateSync(typed); err != nil || got != typed {
		t.Fatalf("expected typed value to pass through, got %+v, %v", got, err)
	}

	_, err = schema.ValidateSync(map[string]any{"name": "A", "email": "a@example.com"})
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for short name, got %v", err)
	}

	_, err = schema.ValidateSync("bad")
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for a string, got %v", err)
	}

	_, err = schema.ValidateSync(nil)
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected required fields to fail on nil input, got %v", err)
	}
}

func TestSchema_Scalar(t *testing.T) {
	n, err := Struct[int]().ValidateSync("12")
	if err != nil || n != 12 {
		t.Fatalf("expected weakly typed 12, got %d, %v", n, err)
	}
}

func TestSchema_Check(t *testing.T) {
	base := Struct[createUser]()
	strict := base.Check(func(c *Checks, in createUser) {
		c.Custom(in.Password == "" || len(in.Password) >= 8, "password", "must be at least 8 characters")
	})
	input := map[string]any{"name": "Ann", "email": "ann@example.com", "password": "short"}

	if _, err := base.ValidateSync(input); err != nil {
		t.Fatalf("expected base schema to ignore the check, got %v", err)
	}
	_, err := strict.ValidateSync(input)
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	if appErr.Message != "password: must be at least 8 characters" {
		t.Errorf("unexpected message %q", appErr.Message)
	}
}

func TestJSONSchema_Parse(t *testing.T) {
	schema := JSON[createUser]()

	got, err := schema.Parse(map[string]any{"name": "Ann", "email": "ann@example.com", "age": float64(30)})
	if err != nil || got.Age != 30 {
		t.Fatalf("expected decoded value, got %+v, %v", got, err)
	}

	if _, err := schema.Parse(map[string]any{"name": "Ann", "email": "ann@example.com", "age": "30"}); !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected strict typing to reject a string age, got %v", err)
	}

	n, err := JSON[int]().Parse(float64(5))
	if err != nil || n != 5 {
		t.Errorf("expected 5, got %d, %v", n, err)
	}
	if _, err := JSON[int]().Parse("bad"); !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
	s, err := JSON[string]().Parse("hello")
	if err != nil || s != "hello" {
		t.Errorf("expected string to pass through, got %q, %v", s, err)
	}
}

func TestChecks(t *testing.T) {
	c := &Checks{}
	c.Required("name", "  ").
		UUID("id", "not-a-uuid").
		UUID("other", uuid.Nil.String()).
		UUID("optional", "").
		MaxLength("bio", "abcdef", 3).
		Range("age", 200, 0, 150).
		Pattern("code", "abc", `^\d+$`).
		OneOf("role", "root", []string{"admin", "member"}).
		OneOf("empty", "", []string{"admin"})

	want := []string{"name", "id", "other", "bio", "age", "code", "role"}
	got := c.Errors()
	if len(got) != len(want) {
		t.Fatalf("expected %d errors, got %v", len(want), got)
	}
	for i, field := range want {
		if got[i].Field != field {
			t.Errorf("error %d: expected field %q, got %q", i, field, got[i].Field)
		}
	}
	if !errors.IsCode(c.Err(), errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", c.Err())
	}

	if (&Checks{}).Required("name", "Ann").UUID("id", uuid.NewString()).Err() != nil {
		t.Error("expected no errors for valid values")
	}
}
