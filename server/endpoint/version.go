package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/seqkit/version"
)

// startTime records when the process started for uptime calculation.
var startTime = time.Now()

// VersionResponse is the body of the version endpoint.
type VersionResponse struct {
	Service string `json:"service"`
	version.Info
	Uptime string `json:"uptime"`
}

// Version returns a handler that reports build information and uptime.
func Version(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, VersionResponse{
			Service: serviceName,
			Info:    version.Get(),
			Uptime:  time.Since(startTime).Round(time.Second).String(),
		})
	}
}
