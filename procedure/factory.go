package procedure

import (
	stderrors "errors"
	"fmt"
)

// ErrNoResolver is returned by New for a definition without a resolver.
var ErrNoResolver = stderrors.New("procedure: definition has no resolver")

// Definition declares a procedure. Input is any value accepted by ParseFn;
// leaving it nil declares a procedure that takes no input.
type Definition[C, I, O any] struct {
	Input   any
	Resolve Resolver[C, I, O]
}

// New builds a procedure from def with an empty middleware list. The input
// validator is resolved here, once, so a malformed validator is reported at
// definition time rather than per call.
func New[C, I, O any](def Definition[C, I, O]) (*Procedure[C, I, O], error) {
	if def.Resolve == nil {
		return nil, ErrNoResolver
	}
	if def.Input == nil {
		return newProcedure[C, I, O](nil, noInput[I], def.Resolve, false), nil
	}
	parse, err := ParseFn[I](def.Input)
	if err != nil {
		return nil, fmt.Errorf("procedure: input: %w", err)
	}
	return newProcedure[C, I, O](nil, parse, def.Resolve, true), nil
}

// MustNew is New for package-level procedure definitions. It panics on a
// malformed definition.
func MustNew[C, I, O any](def Definition[C, I, O]) *Procedure[C, I, O] {
	p, err := New(def)
	if err != nil {
		panic(err)
	}
	return p
}
