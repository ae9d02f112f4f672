package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/observability"
)

// slowRequest marks requests logged with "slow": true.
const slowRequest = 500 * time.Millisecond

// RequestLogger returns a Gin middleware that logs every request with method,
// route, status and duration, and records it on m when m is not nil.
// Probe endpoints are counted but not logged.
func RequestLogger(log *logger.Logger, m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		if m != nil {
			m.RecordRequest(c.Request.Context(), route, status, duration)
		}
		if isProbeEndpoint(c.Request.URL.Path) {
			return
		}

		fields := logger.Fields(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", route,
			logger.FieldStatus, status,
			logger.FieldDuration, duration.Milliseconds(),
			"client", c.ClientIP(),
		)
		if duration > slowRequest {
			fields["slow"] = true
		}
		if len(c.Errors) > 0 {
			fields[logger.FieldError] = c.Errors.String()
		}
		logByStatus(log.WithContext(c.Request.Context()), fields, status)
	}
}

func isProbeEndpoint(path string) bool {
	switch path {
	case "/healthz", "/livez":
		return true
	}
	return false
}

// logByStatus logs request fields at a level chosen by the HTTP status code.
func logByStatus(log *logger.Logger, fields map[string]any, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Debug("Request completed", fields)
	}
}
