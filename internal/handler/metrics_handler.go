package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aie-portal-api/internal/service"
)

// connectionStats is satisfied by the realtime hub.
type connectionStats interface {
	Stats() (users, sockets int)
}

// MetricsHandler serves /metrics. Gauges that are cheaper to read than to track are refreshed
// on each scrape.
type MetricsHandler struct {
	metrics *service.MetricsService
	sockets connectionStats
}

// NewMetricsHandler constructs a metrics handler. sockets may be nil.
func NewMetricsHandler(metrics *service.MetricsService, sockets connectionStats) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, sockets: sockets}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	if h.sockets != nil {
		h.metrics.ObserveRealtimeConnections(h.sockets.Stats())
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
