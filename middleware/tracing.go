package middleware

import (
	"context"

	"github.com/kbukum/rpckit/errors"
	"github.com/kbukum/rpckit/observability"
	"github.com/kbukum/rpckit/procedure"
)

// Tracing returns a middleware that wraps each call in an OpenTelemetry span
// named "{serviceName}.{path}".
func Tracing[C any](serviceName string) procedure.MiddlewareFunc[C] {
	return func(ctx context.Context, opts procedure.MiddlewareOptions[C]) (procedure.Result, error) {
		ctx, span := observability.StartSpan(ctx, serviceName+"."+opts.Path)
		defer span.End()

		observability.SetSpanAttributes(ctx, map[string]string{
			observability.AttrServiceName: serviceName,
			observability.AttrRPCPath:     opts.Path,
			observability.AttrRPCType:     string(opts.Type),
		})

		res, err := opts.Next(ctx)
		if err != nil {
			observability.SetSpanAttributes(ctx, map[string]string{
				observability.AttrErrorCode: string(errors.From(err).Code),
			})
			observability.SetSpanError(ctx, err)
		}

		return res, err
	}
}
