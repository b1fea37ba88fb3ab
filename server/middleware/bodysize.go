package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// DefaultMaxBodySize applies when the configured size cannot be parsed.
const DefaultMaxBodySize = 10 << 20

// BodySizeLimit restricts request bodies to maxSize (e.g. "10MB", "512KB").
// Procedure inputs are decoded from the body, so an oversized mutation fails
// with BAD_REQUEST at decode time.
func BodySizeLimit(maxSize string) Middleware {
	size := parseSize(maxSize, DefaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, size)
			next.ServeHTTP(w, r)
		})
	}
}

var sizeUnits = []struct {
	suffix string
	mult   int64
}{
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

// parseSize converts strings like "10MB" into bytes, falling back to def.
func parseSize(s string, def int64) int64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return def
	}
	for _, u := range sizeUnits {
		if num, ok := strings.CutSuffix(s, u.suffix); ok {
			n, err := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
			if err != nil || n <= 0 {
				return def
			}
			return n * u.mult
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
