package procedure

import (
	stderrors "errors"
	"fmt"
	"reflect"

	"github.com/kbukum/rpckit/errors"
)

// ErrNoValidator is returned at construction when an input validator has
// none of the supported shapes.
var ErrNoValidator = stderrors.New("procedure: could not find a validator fn")

// ParseFunc turns raw input into typed input or fails.
type ParseFunc[T any] func(raw any) (T, error)

// Parser is a validator exposing Parse.
type Parser[T any] interface {
	Parse(raw any) (T, error)
}

// SyncValidator is a validator exposing ValidateSync.
type SyncValidator[T any] interface {
	ValidateSync(raw any) (T, error)
}

// ParseFn normalizes validator into a ParseFunc. Functions, including
// named function types, are returned as is; otherwise Parse is preferred over ValidateSync. Any other shape is a
// configuration error wrapping ErrNoValidator.
func ParseFn[T any](validator any) (ParseFunc[T], error) {
	switch v := validator.(type) {
	case ParseFunc[T]:
		if v == nil {
			break
		}
		return v, nil
	case func(any) (T, error):
		if v == nil {
			break
		}
		return v, nil
	case Parser[T]:
		return v.Parse, nil
	case SyncValidator[T]:
		return v.ValidateSync, nil
	}
	if fn, ok := convertFunc[T](validator); ok {
		return fn, nil
	}
	return nil, fmt.Errorf("%w: unsupported validator %T", ErrNoValidator, validator)
}

// convertFunc converts a non-nil function whose underlying type is
// func(any) (T, error).
func convertFunc[T any](validator any) (ParseFunc[T], bool) {
	v := reflect.ValueOf(validator)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, false
	}
	want := reflect.TypeFor[ParseFunc[T]]()
	if !v.Type().ConvertibleTo(want) {
		return nil, false
	}
	return v.Convert(want).Interface().(ParseFunc[T]), true
}

// noInput is the parser of procedures defined without an input validator.
func noInput[T any](raw any) (T, error) {
	var zero T
	if !isAbsent(raw) {
		return zero, errors.BadRequest("No input expected")
	}
	return zero, nil
}

// isAbsent reports whether raw is nil or a typed nil.
func isAbsent(raw any) bool {
	if raw == nil {
		return true
	}
	v := reflect.ValueOf(raw)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
