package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aie-portal-api/internal/models"
	"github.com/noah-isme/aie-portal-api/pkg/response"
)

type notificationService interface {
	List(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id, userID string) error
}

// NotificationHandler exposes a user's notification inbox.
type NotificationHandler struct {
	service notificationService
}

// NewNotificationHandler creates a notification handler.
func NewNotificationHandler(svc notificationService) *NotificationHandler {
	return &NotificationHandler{service: svc}
}

// List godoc
// @Summary Notifications of a user, newest first
// @Tags Notifications
// @Produce json
// @Param user_id query string false "Recipient, when no bearer token is sent"
// @Param unread_only query bool false "Only unread"
// @Success 200 {object} map[string]interface{}
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), queryUser(c), queryBool(c, "unread_only"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"notifications": items})
}

// Unread godoc
// @Summary Unread notifications of a user
// @Tags Notifications
// @Produce json
// @Param user_id query string false "Recipient"
// @Success 200 {object} map[string]interface{}
// @Router /notifications/unread [get]
func (h *NotificationHandler) Unread(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), queryUser(c), true)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"notifications": items})
}

// UnreadCount godoc
// @Summary Number of unread notifications
// @Tags Notifications
// @Produce json
// @Param user_id query string false "Recipient"
// @Success 200 {object} map[string]interface{}
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.service.UnreadCount(c.Request.Context(), queryUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"count": count})
}

// MarkRead godoc
// @Summary Mark a notification read
// @Tags Notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Param user_id query string false "Recipient"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} response.ErrorBody
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.service.MarkRead(c.Request.Context(), c.Param("id"), queryUser(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Notification marked as read"})
}

// MarkAllRead godoc
// @Summary Mark every notification read
// @Tags Notifications
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	var body struct {
		UserID string `json:"user_id"`
	}
	if c.Request.ContentLength > 0 {
		if err := bindJSON(c, &body, "invalid payload"); err != nil {
			response.Error(c, err)
			return
		}
	}
	userID := actingUser(c, body.UserID)
	if userID == "" {
		userID = c.Query("user_id")
	}
	updated, err := h.service.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "All notifications marked as read", "updated": updated})
}

// Delete godoc
// @Summary Delete a notification
// @Tags Notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Param user_id query string false "Recipient"
// @Success 200 {object} map[string]interface{}
// @Router /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), queryUser(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Notification deleted"})
}
