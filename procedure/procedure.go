package procedure

import (
	"context"
	"slices"
)

// Procedure is the addressable unit of execution: an input parser, an
// ordered middleware list and a resolver. A Procedure is immutable;
// InheritMiddlewares derives new ones.
type Procedure[C, I, O any] struct {
	middlewares []MiddlewareFunc[C]
	parse       ParseFunc[I]
	resolve     Resolver[C, I, O]
	hasInput    bool
	steps       chain[C]
}

func newProcedure[C, I, O any](middlewares []MiddlewareFunc[C], parse ParseFunc[I], resolve Resolver[C, I, O], hasInput bool) *Procedure[C, I, O] {
	return &Procedure[C, I, O]{
		middlewares: middlewares,
		parse:       parse,
		resolve:     resolve,
		hasInput:    hasInput,
		steps:       newChain(middlewares, resolverStep(parse, resolve)),
	}
}

// Call runs the middleware chain and returns the resolver's output. Parser
// failures surface as BAD_REQUEST errors wrapping the original failure;
// errors from middlewares or the resolver are returned unchanged.
func (p *Procedure[C, I, O]) Call(ctx context.Context, opts CallOptions[C]) (O, error) {
	res, err := p.steps.run(ctx, opts)
	if err != nil {
		var zero O
		return zero, err
	}
	return outputOf[O](res, opts.Path, opts.Type)
}

// InheritMiddlewares returns a procedure whose middlewares are mws followed
// by p's own. Parser and resolver are shared; p is left untouched.
func (p *Procedure[C, I, O]) InheritMiddlewares(mws ...MiddlewareFunc[C]) *Procedure[C, I, O] {
	merged := make([]MiddlewareFunc[C], 0, len(mws)+len(p.middlewares))
	merged = append(merged, mws...)
	merged = append(merged, p.middlewares...)
	return newProcedure(merged, p.parse, p.resolve, p.hasInput)
}

// HasInput reports whether the procedure was defined with an input validator.
func (p *Procedure[C, I, O]) HasInput() bool { return p.hasInput }

// Middlewares returns a copy of the procedure's middleware list.
func (p *Procedure[C, I, O]) Middlewares() []MiddlewareFunc[C] {
	return slices.Clone(p.middlewares)
}

// AnyProcedure is the output-erased view of a procedure used by routers and
// transports that hold procedures of different input and output types.
type AnyProcedure[C any] interface {
	CallAny(ctx context.Context, opts CallOptions[C]) (any, error)
	InheritAny(mws ...MiddlewareFunc[C]) AnyProcedure[C]
	HasInput() bool
}

// CallAny is Call with the output boxed.
func (p *Procedure[C, I, O]) CallAny(ctx context.Context, opts CallOptions[C]) (any, error) {
	out, err := p.Call(ctx, opts)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// InheritAny is InheritMiddlewares returning the erased view.
func (p *Procedure[C, I, O]) InheritAny(mws ...MiddlewareFunc[C]) AnyProcedure[C] {
	return p.InheritMiddlewares(mws...)
}

var _ AnyProcedure[struct{}] = (*Procedure[struct{}, int, int])(nil)
