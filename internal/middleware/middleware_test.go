package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aie-portal-api/internal/models"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
)

type staticValidator map[string]*models.JWTClaims

func (v staticValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := v[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		subject := ""
		if v, ok := c.Get(ContextUserKey); ok {
			subject = v.(*models.JWTClaims).UserID
		}
		c.String(http.StatusOK, subject)
	})
	r.GET("/users/:id", handlers...)
	return r
}

func do(r *gin.Engine, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var tokens = staticValidator{
	"student-token": {UserID: "stu-1", Role: models.RoleStudent},
	"admin-token":   {UserID: "adm-1", Role: models.RoleAdmin},
}

func TestJWTRequiresBearerToken(t *testing.T) {
	r := newRouter(JWT(tokens))

	assert.Equal(t, http.StatusUnauthorized, do(r, "/users/x", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/users/x", "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/users/x", "Bearer nope").Code)

	w := do(r, "/users/x", "Bearer student-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "stu-1", w.Body.String())
}

func TestOptionalJWTNeverBlocks(t *testing.T) {
	r := newRouter(OptionalJWT(tokens))

	w := do(r, "/users/x", "Bearer nope")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(r, "/users/x", "bearer admin-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "adm-1", w.Body.String())
}

func TestRBAC(t *testing.T) {
	r := newRouter(OptionalJWT(tokens), RBAC(string(models.RoleAdmin), "SELF"))

	assert.Equal(t, http.StatusUnauthorized, do(r, "/users/stu-1", "").Code)
	assert.Equal(t, http.StatusOK, do(r, "/users/stu-1", "Bearer student-token").Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/users/stu-2", "Bearer student-token").Code)
	assert.Equal(t, http.StatusOK, do(r, "/users/stu-2", "Bearer admin-token").Code)
}
