package middleware

import (
	"fmt"
	"net/http"
	"strings"
)

// DefaultMaxBodySize is used when a size string cannot be parsed.
const DefaultMaxBodySize int64 = 10 * 1024 * 1024

// BodySizeLimit returns middleware that restricts request bodies to maxBytes.
// Reads past the limit fail with *http.MaxBytesError.
func BodySizeLimit(maxBytes int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ParseSize converts a size string such as "10MB", "512KB" or "1GB" to bytes.
// Bare numbers are bytes. Empty or malformed input returns defaultBytes.
func ParseSize(s string, defaultBytes int64) int64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return defaultBytes
	}

	var multiplier int64 = 1
	for _, unit := range []struct {
		suffix string
		factor int64
	}{
		{"GB", 1 << 30},
		{"MB", 1 << 20},
		{"KB", 1 << 10},
		{"B", 1},
	} {
		if strings.HasSuffix(s, unit.suffix) {
			multiplier = unit.factor
			s = strings.TrimSpace(strings.TrimSuffix(s, unit.suffix))
			break
		}
	}

	var val int64
	var rest string
	if n, _ := fmt.Sscanf(s, "%d%s", &val, &rest); n != 1 || val < 0 {
		return defaultBytes
	}
	return val * multiplier
}
