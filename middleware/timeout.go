package middleware

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/kbukum/rpckit/errors"
	"github.com/kbukum/rpckit/procedure"
)

type outcome struct {
	res procedure.Result
	err error
}

// Timeout returns a middleware that bounds the rest of the chain to d. The
// downstream context is cancelled at the deadline and the call fails with a
// TIMEOUT error without waiting for the handler to return. A non-positive d
// disables it.
func Timeout[C any](d time.Duration) procedure.MiddlewareFunc[C] {
	return func(ctx context.Context, opts procedure.MiddlewareOptions[C]) (procedure.Result, error) {
		if d <= 0 {
			return opts.Next(ctx)
		}

		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		done := make(chan outcome, 1)
		go func() {
			// panics do not cross goroutines; report them like Recovery does
			defer func() {
				if r := recover(); r != nil {
					done <- outcome{err: errors.Internal(fmt.Errorf("panic: %v", r))}
				}
			}()
			res, err := opts.Next(ctx)
			done <- outcome{res: res, err: err}
		}()

		select {
		case o := <-done:
			return o.res, o.err
		case <-ctx.Done():
			if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
				return procedure.Result{}, errors.Timeout(opts.Path).WithCause(ctx.Err())
			}
			return procedure.Result{}, ctx.Err()
		}
	}
}
