package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aie-portal-api/internal/dto"
	"github.com/noah-isme/aie-portal-api/internal/middleware"
	"github.com/noah-isme/aie-portal-api/internal/models"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
)

type fakeDashboardSrv struct {
	resp     *dto.DashboardResponse
	err      error
	lastUser string
}

func (f *fakeDashboardSrv) Get(_ context.Context, userID string) (*dto.DashboardResponse, error) {
	f.lastUser = userID
	return f.resp, f.err
}

func TestDashboardHandlerUsesQueryUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDashboardSrv{resp: &dto.DashboardResponse{UnreadNotifications: 3}}
	handler := NewDashboardHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard?user_id=stu-1", nil)

	handler.Get(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stu-1", srv.lastUser)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(3), body["unread_notifications"])
	assert.Contains(t, body, "user_stats")
}

func TestDashboardHandlerPrefersTokenSubject(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDashboardSrv{resp: &dto.DashboardResponse{}}
	handler := NewDashboardHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard?user_id=stu-1", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "fac-1", Role: models.RoleFaculty})

	handler.Get(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fac-1", srv.lastUser)
}

func TestDashboardHandlerPropagatesErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{err: appErrors.Clone(appErrors.ErrNotFound, "user not found")})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard?user_id=ghost", nil)

	handler.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "user not found", body["detail"])
}
