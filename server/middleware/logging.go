package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/rpckit/logger"
)

var probePaths = []string{"/health", "/alive", "/ready"}

// RequestLogger logs every request with method, path, status and duration.
// Probe endpoints are skipped. A nil log uses the "http" component logger.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isProbe(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)
			duration := time.Since(start)

			l := log
			if l == nil {
				l = logger.Get("http")
			}
			fields := map[string]interface{}{
				"method":             r.Method,
				"path":               r.URL.Path,
				"status":             sw.status,
				logger.FieldDuration: duration.Milliseconds(),
			}
			if duration > 500*time.Millisecond {
				fields["slow"] = true
			}
			logByStatus(l.WithContext(r.Context()), fields, sw.status)
		})
	}
}

func isProbe(path string) bool {
	for _, p := range probePaths {
		if path == p || strings.HasSuffix(path, p) {
			return true
		}
	}
	return false
}

func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Debug("Request completed", fields)
	}
}
