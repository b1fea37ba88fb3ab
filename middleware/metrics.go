package middleware

import (
	"context"
	"time"

	"github.com/kbukum/rpckit/errors"
	"github.com/kbukum/rpckit/observability"
	"github.com/kbukum/rpckit/procedure"
)

// Metrics returns a middleware that records call count, duration, in-flight
// calls and errors by code. A panic unwinding through it is recorded as an
// INTERNAL_ERROR before it propagates. A nil m disables recording.
func Metrics[C any](m *observability.Metrics) procedure.MiddlewareFunc[C] {
	return func(ctx context.Context, opts procedure.MiddlewareOptions[C]) (res procedure.Result, err error) {
		if m == nil {
			return opts.Next(ctx)
		}

		typ := string(opts.Type)
		m.CallStarted(ctx, opts.Path, typ)
		start := time.Now()
		panicked := true
		defer func() {
			var code string
			switch {
			case panicked:
				code = string(errors.ErrCodeInternal)
			case err != nil:
				code = string(errors.From(err).Code)
			}
			m.CallFinished(ctx, opts.Path, typ, code, time.Since(start))
		}()

		res, err = opts.Next(ctx)
		panicked = false
		return res, err
	}
}
