package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aie-portal-api/internal/models"
	"github.com/noah-isme/aie-portal-api/internal/service"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
	"github.com/noah-isme/aie-portal-api/pkg/response"
)

// UserHandler exposes user profiles and directory search.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a user handler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// List godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"users": users})
}

// Get godoc
// @Summary Get user
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorBody
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"user": user})
}

// Me godoc
// @Summary Current user profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} response.ErrorBody
// @Router /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	user, err := h.service.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"user": user})
}

// UpdateMe godoc
// @Summary Update own profile
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} map[string]interface{}
// @Router /users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req models.UpdateProfileRequest
	if err := bindJSON(c, &req, "invalid profile payload"); err != nil {
		response.Error(c, err)
		return
	}
	user, err := h.service.UpdateProfile(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Profile updated successfully", "user": user})
}

// Stats godoc
// @Summary User counts per role
// @Tags Users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /users/stats [get]
func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"stats": stats})
}

// ActivityStats godoc
// @Summary Enrollment and submission counts of a user
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.UserActivityStats
// @Router /users/{id}/stats [get]
func (h *UserHandler) ActivityStats(c *gin.Context) {
	stats, err := h.service.ActivityStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}

// Search godoc
// @Summary Search users by name or email
// @Tags Users
// @Produce json
// @Param q query string true "Search text"
// @Param query query string false "Search text, read by /users/search"
// @Param current_user_id query string false "User to leave out"
// @Success 200 {object} map[string]interface{}
// @Router /search/users [get]
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		q = c.Query("query")
	}
	users, err := h.service.Search(c.Request.Context(), q, actingUser(c, c.Query("current_user_id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"users": users})
}

// Preferences godoc
// @Summary Stored user preferences
// @Tags Users
// @Produce json
// @Param user_id query string false "Only this user's preferences"
// @Success 200 {object} map[string]interface{}
// @Router /users/preferences [get]
func (h *UserHandler) Preferences(c *gin.Context) {
	prefs, err := h.service.Preferences(c.Request.Context(), queryUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"preferences": prefs})
}

// NotificationSettings godoc
// @Summary Notification settings of a user
// @Tags Notifications
// @Produce json
// @Param user_id query string false "User, when no bearer token is sent"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Router /notifications/settings [get]
func (h *UserHandler) NotificationSettings(c *gin.Context) {
	prefs, err := h.service.NotificationSettings(c.Request.Context(), queryUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if prefs == nil {
		response.OK(c, gin.H{"settings": gin.H{}})
		return
	}
	response.OK(c, gin.H{"settings": prefs})
}
