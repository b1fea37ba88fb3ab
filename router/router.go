package router

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/kbukum/rpckit/errors"
	"github.com/kbukum/rpckit/procedure"
)

type entry[C any] struct {
	typ  procedure.Type
	proc procedure.AnyProcedure[C]
}

// Router maps paths to procedures. A Router is immutable: every method that
// adds something returns a new Router and leaves the receiver untouched, so
// routers can be shared and extended from package-level definitions.
type Router[C any] struct {
	middlewares []procedure.MiddlewareFunc[C]
	entries     map[string]entry[C]
}

// New returns an empty router.
func New[C any]() *Router[C] {
	return &Router[C]{entries: map[string]entry[C]{}}
}

func (r *Router[C]) clone() *Router[C] {
	return &Router[C]{
		middlewares: slices.Clone(r.middlewares),
		entries:     maps.Clone(r.entries),
	}
}

// Middleware returns a router whose subsequently added procedures run mws
// before their own middlewares. Procedures already registered are not
// affected.
func (r *Router[C]) Middleware(mws ...procedure.MiddlewareFunc[C]) *Router[C] {
	next := r.clone()
	next.middlewares = append(next.middlewares, mws...)
	return next
}

// Query registers p as a query on path.
func (r *Router[C]) Query(path string, p procedure.AnyProcedure[C]) *Router[C] {
	return r.add(procedure.TypeQuery, path, p)
}

// Mutation registers p as a mutation on path.
func (r *Router[C]) Mutation(path string, p procedure.AnyProcedure[C]) *Router[C] {
	return r.add(procedure.TypeMutation, path, p)
}

// Subscription registers p as a subscription on path.
func (r *Router[C]) Subscription(path string, p procedure.AnyProcedure[C]) *Router[C] {
	return r.add(procedure.TypeSubscription, path, p)
}

// add panics on a duplicate path: routers are assembled at startup and a
// clash is a programming error.
func (r *Router[C]) add(typ procedure.Type, path string, p procedure.AnyProcedure[C]) *Router[C] {
	if path == "" {
		panic("router: empty procedure path")
	}
	if _, exists := r.entries[path]; exists {
		panic(fmt.Sprintf("router: duplicate procedure path %q", path))
	}
	next := r.clone()
	if len(r.middlewares) > 0 {
		p = p.InheritAny(r.middlewares...)
	}
	next.entries[path] = entry[C]{typ: typ, proc: p}
	return next
}

// Merge returns a router that also serves every procedure of child under
// prefix. Merged procedures inherit r's middlewares ahead of child's.
func (r *Router[C]) Merge(prefix string, child *Router[C]) *Router[C] {
	next := r
	for _, path := range child.Paths() {
		e := child.entries[path]
		next = next.add(e.typ, prefix+path, e.proc)
	}
	return next
}

// Paths returns the registered paths in sorted order.
func (r *Router[C]) Paths() []string {
	return slices.Sorted(maps.Keys(r.entries))
}

// Lookup returns the type of the procedure on path.
func (r *Router[C]) Lookup(path string) (procedure.Type, bool) {
	e, ok := r.entries[path]
	return e.typ, ok
}

// Call invokes the procedure on path as typ. An unknown path fails with
// NOT_FOUND and a path registered under another type with
// METHOD_NOT_SUPPORTED; everything else is the procedure's own result.
func (r *Router[C]) Call(ctx context.Context, typ procedure.Type, path string, c C, rawInput any) (any, error) {
	e, ok := r.entries[path]
	if !ok {
		return nil, errors.NotFound(path)
	}
	if e.typ != typ {
		return nil, errors.MethodNotSupported(path, string(typ))
	}
	return e.proc.CallAny(ctx, procedure.CallOptions[C]{
		Context:  c,
		RawInput: rawInput,
		Path:     path,
		Type:     typ,
	})
}
