package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/seqkit/observability"
	"github.com/kbukum/seqkit/version"
)

// Health returns a handler that aggregates component health. A service with
// a component down answers 503; degraded still answers 200.
func Health(serviceName string, checkers ...observability.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		sh := observability.CheckAll(c.Request.Context(), serviceName, version.Get().Version, checkers...)
		status := http.StatusOK
		if sh.Status == observability.HealthStatusDown {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, sh)
	}
}

// Liveness answers liveness probes without running any checks.
func Liveness(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, observability.ServiceHealth{
			Service: serviceName,
			Status:  observability.HealthStatusUp,
		})
	}
}
