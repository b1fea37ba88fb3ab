package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/rpckit/version"
)

var startTime = time.Now()

// Info returns a handler that reports the service's build information.
func Info(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := version.Get()
		c.JSON(http.StatusOK, gin.H{
			"service":    serviceName,
			"version":    v.String(),
			"build":      v,
			"uptime":     time.Since(startTime).Round(time.Second).String(),
			"started_at": startTime.UTC().Format(time.RFC3339),
		})
	}
}
