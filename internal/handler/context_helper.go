package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aie-portal-api/internal/middleware"
	"github.com/noah-isme/aie-portal-api/internal/models"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// actingUser prefers the bearer token subject over an explicit user id parameter.
func actingUser(c *gin.Context, fallback string) string {
	if claims := claimsFromContext(c); claims != nil && claims.UserID != "" {
		return claims.UserID
	}
	return strings.TrimSpace(fallback)
}

// queryUser resolves the acting user from the token or the user_id query parameter.
func queryUser(c *gin.Context) string {
	return actingUser(c, c.Query("user_id"))
}

func bindJSON(c *gin.Context, dst interface{}, message string) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return appErrors.Validation(err, message)
	}
	return nil
}

// queryInt reads an optional integer query parameter.
func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Validation(err, key+" must be a number")
	}
	return value, nil
}

func paramInt(c *gin.Context, key string) (int, error) {
	value, err := strconv.Atoi(c.Param(key))
	if err != nil {
		return 0, appErrors.Validation(err, key+" must be a number")
	}
	return value, nil
}

func queryBool(c *gin.Context, key string) bool {
	value, err := strconv.ParseBool(c.Query(key))
	return err == nil && value
}
