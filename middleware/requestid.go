package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/kbukum/rpckit/logger"
	"github.com/kbukum/rpckit/procedure"
)

// RequestID returns a middleware that makes sure the Go context carries a
// request id, generating one when the transport did not supply it.
func RequestID[C any]() procedure.MiddlewareFunc[C] {
	return func(ctx context.Context, opts procedure.MiddlewareOptions[C]) (procedure.Result, error) {
		if logger.RequestIDFromContext(ctx) == "" {
			ctx = logger.ContextWithRequestID(ctx, uuid.New().String())
		}
		return opts.Next(ctx)
	}
}
