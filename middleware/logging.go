package middleware

import (
	"context"
	"time"

	"github.com/kbukum/rpckit/errors"
	"github.com/kbukum/rpckit/logger"
	"github.com/kbukum/rpckit/procedure"
)

// Logging returns a middleware that logs each call with its path, type and
// duration: debug on success, error on failure. A nil log uses the
// "procedure" component logger.
func Logging[C any](log *logger.Logger) procedure.MiddlewareFunc[C] {
	return func(ctx context.Context, opts procedure.MiddlewareOptions[C]) (procedure.Result, error) {
		start := time.Now()
		res, err := opts.Next(ctx)
		duration := time.Since(start)

		l := log
		if l == nil {
			l = logger.Get("procedure")
		}
		l = l.WithContext(ctx)

		fields := map[string]interface{}{
			logger.FieldPath:          opts.Path,
			logger.FieldProcedureType: string(opts.Type),
			logger.FieldDuration:      duration.Milliseconds(),
		}
		if err != nil {
			fields[logger.FieldError] = err.Error()
			fields[logger.FieldErrorCode] = string(errors.From(err).Code)
			l.Error("procedure call failed", fields)
		} else {
			l.Debug("procedure call ok", fields)
		}

		return res, err
	}
}
