package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aie-portal-api/internal/middleware"
	"github.com/noah-isme/aie-portal-api/internal/models"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
)

type notificationServiceMock struct {
	lastUser       string
	lastUnreadOnly bool
	owner          string
}

func (m *notificationServiceMock) List(_ context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	m.lastUser, m.lastUnreadOnly = userID, unreadOnly
	return []models.Notification{}, nil
}

func (m *notificationServiceMock) UnreadCount(_ context.Context, userID string) (int, error) {
	m.lastUser = userID
	return 4, nil
}

func (m *notificationServiceMock) MarkRead(_ context.Context, id, userID string) error {
	if userID != m.owner {
		return appErrors.Clone(appErrors.ErrForbidden, "not allowed to modify this notification")
	}
	return nil
}

func (m *notificationServiceMock) MarkAllRead(_ context.Context, userID string) (int64, error) {
	m.lastUser = userID
	return 2, nil
}

func (m *notificationServiceMock) Delete(context.Context, string, string) error {
	return nil
}

func newNotificationRouter(svc *notificationServiceMock, claims *models.JWTClaims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewNotificationHandler(svc)
	r := gin.New()
	if claims != nil {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.ContextUserKey, claims)
			c.Next()
		})
	}
	r.GET("/notifications", h.List)
	r.GET("/notifications/unread", h.Unread)
	r.GET("/notifications/unread-count", h.UnreadCount)
	r.PUT("/notifications/read-all", h.MarkAllRead)
	r.PUT("/notifications/:id/read", h.MarkRead)
	return r
}

func TestNotificationListReadsQuery(t *testing.T) {
	svc := &notificationServiceMock{}
	w := serve(newNotificationRouter(svc, nil), http.MethodGet, "/notifications?user_id=stu-1&unread_only=true", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "stu-1", svc.lastUser)
	assert.True(t, svc.lastUnreadOnly)
	assert.JSONEq(t, `{"notifications":[]}`, w.Body.String())
}

func TestNotificationUnreadListsOnlyUnread(t *testing.T) {
	svc := &notificationServiceMock{}
	w := serve(newNotificationRouter(svc, &models.JWTClaims{UserID: "stu-7", Role: models.RoleStudent}), http.MethodGet, "/notifications/unread", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "stu-7", svc.lastUser)
	assert.True(t, svc.lastUnreadOnly)
	assert.JSONEq(t, `{"notifications":[]}`, w.Body.String())
}

func TestNotificationUnreadCountUsesToken(t *testing.T) {
	svc := &notificationServiceMock{}
	w := serve(newNotificationRouter(svc, &models.JWTClaims{UserID: "fac-1", Role: models.RoleFaculty}), http.MethodGet, "/notifications/unread-count?user_id=stu-1", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fac-1", svc.lastUser)
	assert.JSONEq(t, `{"count":4}`, w.Body.String())
}

func TestNotificationMarkReadForbiddenForOthers(t *testing.T) {
	r := newNotificationRouter(&notificationServiceMock{owner: "stu-1"}, nil)

	w := serve(r, http.MethodPut, "/notifications/n1/read?user_id=stu-2", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(r, http.MethodPut, "/notifications/n1/read?user_id=stu-1", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNotificationMarkAllReadAcceptsBodyOrQuery(t *testing.T) {
	svc := &notificationServiceMock{}
	r := newNotificationRouter(svc, nil)

	w := serve(r, http.MethodPut, "/notifications/read-all", `{"user_id":"stu-1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "stu-1", svc.lastUser)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["updated"])

	req := httptest.NewRequest(http.MethodPut, "/notifications/read-all?user_id=stu-9", strings.NewReader(""))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stu-9", svc.lastUser)
}
