package validation

import (
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-json"

	"github.com/kbukum/rpckit/errors"
)

// CheckFunc adds rule failures for a decoded value to c.
type CheckFunc[T any] func(c *Checks, in T)

// rules runs struct-tag validation followed by custom checks.
type rules[T any] struct {
	checks []CheckFunc[T]
}

func (r rules[T]) with(fn CheckFunc[T]) rules[T] {
	checks := make([]CheckFunc[T], 0, len(r.checks)+1)
	checks = append(checks, r.checks...)
	return rules[T]{checks: append(checks, fn)}
}

func (r rules[T]) validate(in T) error {
	if isStruct[T]() {
		if err := Validate(in); err != nil {
			return err
		}
	}
	if len(r.checks) == 0 {
		return nil
	}
	c := &Checks{}
	for _, fn := range r.checks {
		fn(c, in)
	}
	return c.Err()
}

func isStruct[T any]() bool {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// Schema validates loosely typed input, such as decoded JSON objects or
// query-string maps, into T. Map keys follow the json tags of T and scalar
// strings are converted where T expects numbers or booleans. It exposes
// ValidateSync and can be used directly as a procedure input validator.
type Schema[T any] struct {
	rules[T]
}

// Struct returns a Schema for T.
func Struct[T any]() *Schema[T] {
	return &Schema[T]{}
}

// Check returns a copy of s that also runs fn after tag validation.
func (s *Schema[T]) Check(fn CheckFunc[T]) *Schema[T] {
	return &Schema[T]{rules: s.rules.with(fn)}
}

// ValidateSync decodes raw into T and validates it.
func (s *Schema[T]) ValidateSync(raw any) (T, error) {
	var out T
	switch v := raw.(type) {
	case T:
		out = v
	case []byte:
		if err := json.Unmarshal(v, &out); err != nil {
			return out, errors.Wrap(errors.ErrCodeInvalidInput, err, "")
		}
	default:
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &out,
			TagName:          "json",
			WeaklyTypedInput: true,
		})
		if err != nil {
			return out, errors.Internal(err)
		}
		if err := dec.Decode(raw); err != nil {
			return out, errors.Wrap(errors.ErrCodeInvalidInput, err, "")
		}
	}
	return out, s.validate(out)
}

// JSONSchema parses JSON-shaped input into T with strict typing: values
// must already have the JSON types T expects. It exposes Parse and can be
// used directly as a procedure input validator.
type JSONSchema[T any] struct {
	rules[T]
}

// JSON returns a JSONSchema for T.
func JSON[T any]() *JSONSchema[T] {
	return &JSONSchema[T]{}
}

// Check returns a copy of s that also runs fn after tag validation.
func (s *JSONSchema[T]) Check(fn CheckFunc[T]) *JSONSchema[T] {
	return &JSONSchema[T]{rules: s.rules.with(fn)}
}

// Parse decodes raw into T and validates it. Raw bytes are read as a JSON
// document; any other value is treated as already decoded JSON.
func (s *JSONSchema[T]) Parse(raw any) (T, error) {
	var out T
	switch v := raw.(type) {
	case T:
		out = v
	case []byte:
		if err := json.Unmarshal(v, &out); err != nil {
			return out, errors.Wrap(errors.ErrCodeInvalidInput, err, "")
		}
	default:
		data, err := json.Marshal(raw)
		if err != nil {
			return out, errors.Wrap(errors.ErrCodeInvalidInput, err, "")
		}
		if err := json.Unmarshal(data, &out); err != nil {
			return out, errors.Wrap(errors.ErrCodeInvalidInput, err, "")
		}
	}
	return out, s.validate(out)
}
