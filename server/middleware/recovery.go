package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/goccy/go-json"

	"github.com/kbukum/rpckit/errors"
	"github.com/kbukum/rpckit/logger"
)

// Recovery returns middleware that recovers from panics outside the
// procedure chain, logs the stack and answers with an INTERNAL_ERROR body.
// A nil log uses the "http" component logger.
func Recovery(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				l := log
				if l == nil {
					l = logger.Get("http")
				}
				l.WithContext(r.Context()).Error("Panic recovered", map[string]interface{}{
					"panic":  fmt.Sprintf("%v", rec),
					"stack":  string(debug.Stack()),
					"path":   r.URL.Path,
					"method": r.Method,
				})
				WriteError(w, errors.Internal(fmt.Errorf("panic: %v", rec)))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// WriteError writes err as an errors.ErrorResponse with its HTTP status.
func WriteError(w http.ResponseWriter, err error) {
	appErr := errors.From(err)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(appErr.ToResponse())
}
