package procedure

import "context"

// Type is the kind of call a procedure is invoked as.
type Type string

const (
	TypeQuery        Type = "query"
	TypeMutation     Type = "mutation"
	TypeSubscription Type = "subscription"
)

// Valid reports whether t is one of the supported call types.
func (t Type) Valid() bool {
	switch t {
	case TypeQuery, TypeMutation, TypeSubscription:
		return true
	}
	return false
}

// CallOptions are the arguments of a single procedure call.
type CallOptions[C any] struct {
	// Context is the caller's call context. The engine never inspects it.
	Context C
	// RawInput is the untyped input handed to the parser, e.g. decoded JSON.
	RawInput any
	// Path is the address the procedure was called on.
	Path string
	Type Type
}

// ResolverOptions are what the terminal handler receives.
type ResolverOptions[C, I any] struct {
	Context C
	Input   I
	Type    Type
}

// Resolver is the terminal handler of a procedure.
type Resolver[C, I, O any] func(ctx context.Context, opts ResolverOptions[C, I]) (O, error)

// MiddlewareFunc intercepts a call. It continues the chain with opts.Next
// (or opts.NextWithContext) and may inspect or replace what comes back; not
// calling Next short-circuits the remaining middlewares and the handler.
type MiddlewareFunc[C any] func(ctx context.Context, opts MiddlewareOptions[C]) (Result, error)

// MiddlewareOptions carry the call arguments plus the continuation.
type MiddlewareOptions[C any] struct {
	Context  C
	RawInput any
	Path     string
	Type     Type

	next func(ctx context.Context, c C) (Result, error)
}

// Next runs the rest of the chain with the unchanged call context.
func (o MiddlewareOptions[C]) Next(ctx context.Context) (Result, error) {
	return o.next(ctx, o.Context)
}

// NextWithContext runs the rest of the chain with c as the call context.
func (o MiddlewareOptions[C]) NextWithContext(ctx context.Context, c C) (Result, error) {
	return o.next(ctx, c)
}

// marker tags results produced by a completed chain.
type marker struct{}

var middlewareMarker = &marker{}

// Result is what a middleware returns. Only the terminal handler step and
// Complete produce a Result carrying the completion marker; the zero Result
// does not, and a call ending with it fails as an internal error.
type Result struct {
	marker *marker
	Output any
}

// Complete returns a marked Result holding output. Middlewares that
// short-circuit use it to produce the call's output themselves.
func Complete(output any) Result {
	return Result{marker: middlewareMarker, Output: output}
}

// OK reports whether r carries the completion marker.
func (r Result) OK() bool {
	return r.marker == middlewareMarker
}
