package middleware

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/kbukum/rpckit/errors"
	"github.com/kbukum/rpckit/logger"
	"github.com/kbukum/rpckit/procedure"
)

// Recovery returns a middleware that turns a panic in the rest of the chain
// into an INTERNAL_ERROR and logs it with the stack. A nil log uses the
// "procedure" component logger.
func Recovery[C any](log *logger.Logger) procedure.MiddlewareFunc[C] {
	return func(ctx context.Context, opts procedure.MiddlewareOptions[C]) (res procedure.Result, err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			l := log
			if l == nil {
				l = logger.Get("procedure")
			}
			l.WithContext(ctx).Error("panic recovered", map[string]interface{}{
				logger.FieldPath:          opts.Path,
				logger.FieldProcedureType: string(opts.Type),
				logger.FieldError:         fmt.Sprintf("%v", r),
				"stack":                   string(debug.Stack()),
			})
			res, err = procedure.Result{}, errors.Internal(fmt.Errorf("panic: %v", r))
		}()
		return opts.Next(ctx)
	}
}
