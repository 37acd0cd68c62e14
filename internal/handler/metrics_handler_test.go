package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aie-portal-api/internal/service"
)

type fixedStats struct{ users, sockets int }

func (f fixedStats) Stats() (int, int) { return f.users, f.sockets }

func TestMetricsHandlerRefreshesConnectionGauges(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewMetricsHandler(service.NewMetricsService(), fixedStats{users: 2, sockets: 3})

	r := gin.New()
	r.GET("/metrics", h.Prometheus)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `realtime_connections{scope="users"} 2`)
	assert.Contains(t, w.Body.String(), `realtime_connections{scope="sockets"} 3`)
}

func TestMetricsHandlerUnavailableWithoutService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewMetricsHandler(nil, nil)

	r := gin.New()
	r.GET("/metrics", h.Prometheus)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
