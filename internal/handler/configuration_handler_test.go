package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aie-portal-api/internal/models"
	"github.com/noah-isme/aie-portal-api/internal/service"
)

type configurationServiceMock struct {
	ready    bool
	database string
}

func (m *configurationServiceMock) Version() service.VersionInfo {
	return service.VersionInfo{Version: "1.0.0", APIName: "AIE Portal API"}
}

func (m *configurationServiceMock) PublicConfig() service.PublicConfig {
	return service.PublicConfig{AppName: "AIE Portal", Version: "1.0.0", Features: []string{"timetable"}, MaxFileSize: 1024}
}

func (m *configurationServiceMock) Health(context.Context) service.HealthStatus {
	return service.HealthStatus{Status: "healthy", Database: m.database, Timestamp: time.Now()}
}

func (m *configurationServiceMock) Ready(context.Context) bool {
	return m.ready
}

type staticAnnouncements []models.Announcement

func (s staticAnnouncements) List() []models.Announcement {
	return s
}

func newSystemRouter(svc *configurationServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewConfigurationHandler(svc, staticAnnouncements{{ID: "1", Title: "Welcome", Type: "info"}})
	r := gin.New()
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/config", h.Config)
	r.GET("/announcements", h.Announcements)
	return r
}

func getJSON(t *testing.T, r http.Handler, path string) (int, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestConfigurationHandlerRoot(t *testing.T) {
	code, body := getJSON(t, newSystemRouter(&configurationServiceMock{}), "/")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "AIE Portal API is running", body["message"])
}

func TestConfigurationHandlerHealthReportsDatabase(t *testing.T) {
	code, body := getJSON(t, newSystemRouter(&configurationServiceMock{database: "disconnected"}), "/health")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "disconnected", body["database"])
}

func TestConfigurationHandlerReady(t *testing.T) {
	code, body := getJSON(t, newSystemRouter(&configurationServiceMock{ready: false}), "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not_ready", body["status"])

	code, body = getJSON(t, newSystemRouter(&configurationServiceMock{ready: true}), "/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body["status"])
}

func TestConfigurationHandlerConfigAndAnnouncements(t *testing.T) {
	r := newSystemRouter(&configurationServiceMock{})

	code, body := getJSON(t, r, "/config")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "AIE Portal", body["app_name"])
	assert.Equal(t, float64(1024), body["max_file_size"])

	code, body = getJSON(t, r, "/announcements")
	assert.Equal(t, http.StatusOK, code)
	list, ok := body["announcements"].([]interface{})
	require.True(t, ok)
	assert.Len(t, list, 1)
}
