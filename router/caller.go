package router

import (
	"context"
	"fmt"

	"github.com/kbukum/rpckit/errors"
	"github.com/kbukum/rpckit/procedure"
)

// Caller invokes a router's procedures in-process with a fixed call
// context, bypassing any transport.
type Caller[C any] struct {
	router *Router[C]
	ctx    C
}

// CreateCaller returns a Caller bound to the call context c.
func (r *Router[C]) CreateCaller(c C) *Caller[C] {
	return &Caller[C]{router: r, ctx: c}
}

// Query calls the query on path.
func (c *Caller[C]) Query(ctx context.Context, path string, input any) (any, error) {
	return c.router.Call(ctx, procedure.TypeQuery, path, c.ctx, input)
}

// Mutation calls the mutation on path.
func (c *Caller[C]) Mutation(ctx context.Context, path string, input any) (any, error) {
	return c.router.Call(ctx, procedure.TypeMutation, path, c.ctx, input)
}

// Subscription calls the subscription on path.
func (c *Caller[C]) Subscription(ctx context.Context, path string, input any) (any, error) {
	return c.router.Call(ctx, procedure.TypeSubscription, path, c.ctx, input)
}

// As converts the result of a Caller method to O:
//
//	user, err := router.As[User](caller.Query(ctx, "user.byId", 1))
func As[O any](v any, err error) (O, error) {
	var zero O
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	out, ok := v.(O)
	if !ok {
		return zero, errors.Internal(fmt.Errorf("router: result is %T, not %T", v, zero))
	}
	return out, nil
}
