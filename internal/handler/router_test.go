package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/aie-portal-api/internal/models"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
	"github.com/noah-isme/aie-portal-api/pkg/response"
)

type routerTokens map[string]*models.JWTClaims

func (v routerTokens) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := v[token]; ok {
		return claims, nil
	}
	return nil, appErrors.ErrUnauthorized
}

var testTokens = routerTokens{
	"student": {UserID: "stu-1", Role: models.RoleStudent},
	"admin":   {UserID: "adm-1", Role: models.RoleAdmin},
}

func registeredRoutes(opts RouterOptions) (*gin.Engine, map[string]bool) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, Handlers{}, opts)
	seen := make(map[string]bool)
	for _, route := range r.Routes() {
		seen[route.Method+" "+route.Path] = true
	}
	return r, seen
}

func TestRegisterRoutesCatalogue(t *testing.T) {
	_, seen := registeredRoutes(RouterOptions{Tokens: testTokens})

	for _, want := range []string{
		"GET /",
		"GET /health",
		"GET /metrics",
		"POST /api/auth/login",
		"GET /api/auth/me",
		"GET /api/users/:id/stats",
		"GET /api/search/users",
		"GET /api/search/courses",
		"GET /api/search/assignments",
		"GET /api/search/resources",
		"GET /api/users/preferences",
		"GET /api/users/search",
		"GET /api/class-list",
		"DELETE /api/courses/:id/enroll",
		"GET /api/classes/week/export",
		"GET /api/classes/date/:date",
		"POST /api/admin/timetable",
		"POST /api/admin/saturday-class",
		"PUT /api/assignments/:id/submission",
		"POST /api/resources/:id/download",
		"GET /api/files/download/:token",
		"GET /api/project-types",
		"DELETE /api/projects/:id/members/:user_id",
		"PUT /api/ideas/:id/favorite",
		"PUT /api/notifications/read-all",
		"GET /api/notifications/unread",
		"GET /api/notifications/settings",
		"GET /api/ws",
		"GET /api/friend-requests/sent/:user_id",
		"GET /api/messages/:user_id/:friend_id",
		"GET /api/calendar/:year/:month/ics",
		"GET /api/chat/conversations/:id/messages",
		"GET /api/quick-access",
		"GET /api/stats/timeline",
	} {
		assert.True(t, seen[want], want)
	}
}

func TestRegisterRoutesHonoursPrefix(t *testing.T) {
	_, seen := registeredRoutes(RouterOptions{APIPrefix: "/v1", Tokens: testTokens})

	assert.True(t, seen["GET /v1/dashboard"])
	assert.False(t, seen["GET /api/dashboard"])
}

func TestRegisterRoutesMeRequiresToken(t *testing.T) {
	r, _ := registeredRoutes(RouterOptions{Tokens: testTokens})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterRoutesAdminRole(t *testing.T) {
	r, _ := registeredRoutes(RouterOptions{Tokens: testTokens, AdminRequiresRole: true})

	call := func(token string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/timetable", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, call(""))
	assert.Equal(t, http.StatusForbidden, call("student"))
}

func TestRegisterRoutesAuthLimiter(t *testing.T) {
	limited := func(c *gin.Context) {
		response.Error(c, appErrors.ErrTooManyRequests)
		c.Abort()
	}
	r, _ := registeredRoutes(RouterOptions{Tokens: testTokens, AuthLimiter: limited})

	for _, path := range []string{"/api/auth/login", "/api/auth/register"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code, path)
	}
}
