package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aie-portal-api/internal/service"
)

// Metrics records the latency and status of every request by route template, so /classes/:id
// is one series rather than one per id.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
