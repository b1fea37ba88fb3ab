package middleware

import (
	"context"

	"github.com/kbukum/rpckit/errors"
	"github.com/kbukum/rpckit/procedure"
)

// AuthorizeFunc decides whether the caller described by c may call path.
type AuthorizeFunc[C any] func(ctx context.Context, c C, path string) error

// Authorize returns a middleware that runs check before the rest of the
// chain. A rejection that is already an AppError (e.g. FORBIDDEN) is
// returned as is; any other error becomes UNAUTHORIZED.
func Authorize[C any](check AuthorizeFunc[C]) procedure.MiddlewareFunc[C] {
	return func(ctx context.Context, opts procedure.MiddlewareOptions[C]) (procedure.Result, error) {
		if err := check(ctx, opts.Context, opts.Path); err != nil {
			if appErr, ok := errors.AsAppError(err); ok {
				return procedure.Result{}, appErr
			}
			return procedure.Result{}, errors.Unauthorized("").WithCause(err)
		}
		return opts.Next(ctx)
	}
}

// DeriveFunc builds the call context the rest of the chain sees.
type DeriveFunc[C any] func(ctx context.Context, c C) (C, error)

// Derive returns a middleware that replaces the call context with the one
// derive returns, e.g. to attach the authenticated user. Errors abort the
// call unchanged.
func Derive[C any](derive DeriveFunc[C]) procedure.MiddlewareFunc[C] {
	return func(ctx context.Context, opts procedure.MiddlewareOptions[C]) (procedure.Result, error) {
		c, err := derive(ctx, opts.Context)
		if err != nil {
			return procedure.Result{}, err
		}
		return opts.NextWithContext(ctx, c)
	}
}
