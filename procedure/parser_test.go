package procedure_test

import (
	stderrors "errors"
	"strconv"
	"testing"

	"github.com/kbukum/rpckit/procedure"
)

type parseOnly struct{}

func (parseOnly) Parse(raw any) (int, error) {
	s, ok := raw.(string)
	if !ok {
		return 0, stderrors.New("expected string")
	}
	return strconv.Atoi(s)
}

type validateOnly struct{}

func (validateOnly) ValidateSync(raw any) (int, error) {
	n, ok := raw.(int)
	if !ok {
		return 0, stderrors.New("expected int")
	}
	return n * 10, nil
}

type namedParse func(any) (int, error)

type both struct{}

func (both) Parse(any) (int, error)        { return 1, nil }
func (both) ValidateSync(any) (int, error) { return 2, nil }

func TestParseFn_Shapes(t *testing.T) {
	tests := []struct {
		name      string
		validator any
		raw       any
		want      int
	}{
		{"named func", procedure.ParseFunc[int](func(raw any) (int, error) { return raw.(int) + 1, nil }), 1, 2},
		{"plain func", func(raw any) (int, error) { return raw.(int) + 2, nil }, 1, 3},
		{"user-defined func type", namedParse(func(raw any) (int, error) { return raw.(int) + 3, nil }), 1, 4},
		{"parse method", parseOnly{}, "42", 42},
		{"validateSync method", validateOnly{}, 4, 40},
		{"parse preferred", both{}, nil, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parse, err := procedure.ParseFn[int](tc.validator)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, err := parse(tc.raw)
			if err != nil {
				t.Fatalf("unexpected parse error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestParseFn_Unsupported(t *testing.T) {
	tests := []struct {
		name      string
		validator any
	}{
		{"string", "not a validator"},
		{"wrong output type", func(any) (string, error) { return "", nil }},
		{"nil func", procedure.ParseFunc[int](nil)},
		{"nil user-defined func", namedParse(nil)},
		{"wrong arity", func(any) int { return 0 }},
		{"nil", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := procedure.ParseFn[int](tc.validator); !stderrors.Is(err, procedure.ErrNoValidator) {
				t.Fatalf("expected ErrNoValidator, got %v", err)
			}
		})
	}
}

func TestParseFn_MethodOutputMustMatch(t *testing.T) {
	if _, err := procedure.ParseFn[string](parseOnly{}); !stderrors.Is(err, procedure.ErrNoValidator) {
		t.Fatalf("expected ErrNoValidator for Parse returning int, got %v", err)
	}
}
