package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aie-portal-api/internal/models"
	"github.com/noah-isme/aie-portal-api/pkg/response"
)

type socialService interface {
	SendRequest(ctx context.Context, in models.FriendRequestInput) (*models.FriendRequest, error)
	Requests(ctx context.Context, userID, kind string) ([]models.FriendRequestDetail, error)
	Respond(ctx context.Context, requestID string, in models.FriendRequestAction) (*models.FriendRequest, error)
	Friends(ctx context.Context, userID string) []models.Friend
	Conversations(ctx context.Context, userID string) []models.Conversation
	Messages(ctx context.Context, userID, friendID string) ([]models.Message, error)
	SendMessage(ctx context.Context, in models.MessageInput) (*models.Message, error)
	MarkRead(ctx context.Context, in models.MarkReadInput) (int64, error)
}

// SocialHandler exposes friend requests, friendships and direct messages.
type SocialHandler struct {
	service socialService
}

// NewSocialHandler creates a social handler.
func NewSocialHandler(svc socialService) *SocialHandler {
	return &SocialHandler{service: svc}
}

// SendRequest godoc
// @Summary Send a friend request
// @Tags Friends
// @Accept json
// @Produce json
// @Param payload body models.FriendRequestInput true "Request"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} response.ErrorBody
// @Router /friend-requests [post]
func (h *SocialHandler) SendRequest(c *gin.Context) {
	var in models.FriendRequestInput
	if err := bindJSON(c, &in, "invalid friend request payload"); err != nil {
		response.Error(c, err)
		return
	}
	in.SenderID = actingUser(c, in.SenderID)
	request, err := h.service.SendRequest(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Friend request sent successfully", "request": request})
}

// Requests godoc
// @Summary Friend requests of a user
// @Tags Friends
// @Produce json
// @Param user_id path string true "User ID"
// @Param type query string false "received (default) or sent"
// @Success 200 {object} map[string]interface{}
// @Router /friend-requests/{user_id} [get]
func (h *SocialHandler) Requests(c *gin.Context) {
	kind := c.DefaultQuery("type", "received")
	h.requests(c, kind)
}

// SentRequests godoc
// @Summary Friend requests a user sent
// @Tags Friends
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /friend-requests/sent/{user_id} [get]
func (h *SocialHandler) SentRequests(c *gin.Context) {
	h.requests(c, "sent")
}

func (h *SocialHandler) requests(c *gin.Context, kind string) {
	requests, err := h.service.Requests(c.Request.Context(), c.Param("user_id"), kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"requests": requests})
}

// Respond godoc
// @Summary Accept or reject a friend request
// @Description Only the receiver may act, and only on pending requests
// @Tags Friends
// @Accept json
// @Produce json
// @Param request_id path string true "Request ID"
// @Param payload body models.FriendRequestAction true "Action"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /friend-requests/{request_id} [put]
func (h *SocialHandler) Respond(c *gin.Context) {
	var in models.FriendRequestAction
	if err := bindJSON(c, &in, "invalid friend request action"); err != nil {
		response.Error(c, err)
		return
	}
	in.UserID = actingUser(c, in.UserID)
	request, err := h.service.Respond(c.Request.Context(), c.Param("request_id"), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Friend request " + request.Status, "request": request})
}

// Friends godoc
// @Summary Friends of a user
// @Tags Friends
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /friends/{user_id} [get]
func (h *SocialHandler) Friends(c *gin.Context) {
	response.OK(c, gin.H{"friends": h.service.Friends(c.Request.Context(), c.Param("user_id"))})
}

// Conversations godoc
// @Summary Conversations with the latest message per friend
// @Tags Messages
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /conversations/{user_id} [get]
func (h *SocialHandler) Conversations(c *gin.Context) {
	response.OK(c, gin.H{"conversations": h.service.Conversations(c.Request.Context(), c.Param("user_id"))})
}

// Messages godoc
// @Summary Messages between two users
// @Tags Messages
// @Produce json
// @Param user_id path string true "User ID"
// @Param friend_id path string true "Friend ID"
// @Success 200 {object} map[string]interface{}
// @Router /messages/{user_id}/{friend_id} [get]
func (h *SocialHandler) Messages(c *gin.Context) {
	messages, err := h.service.Messages(c.Request.Context(), c.Param("user_id"), c.Param("friend_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"messages": messages})
}

// SendMessage godoc
// @Summary Send a direct message
// @Description Sender and receiver must be friends
// @Tags Messages
// @Accept json
// @Produce json
// @Param payload body models.MessageInput true "Message"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} response.ErrorBody
// @Router /messages [post]
func (h *SocialHandler) SendMessage(c *gin.Context) {
	var in models.MessageInput
	if err := bindJSON(c, &in, "invalid message payload"); err != nil {
		response.Error(c, err)
		return
	}
	in.SenderID = actingUser(c, in.SenderID)
	message, err := h.service.SendMessage(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Message sent successfully", "data": message})
}

// MarkRead godoc
// @Summary Mark a friend's messages read
// @Tags Messages
// @Accept json
// @Produce json
// @Param payload body models.MarkReadInput true "Conversation"
// @Success 200 {object} map[string]interface{}
// @Router /messages/mark-read [put]
func (h *SocialHandler) MarkRead(c *gin.Context) {
	var in models.MarkReadInput
	if err := bindJSON(c, &in, "invalid mark-read payload"); err != nil {
		response.Error(c, err)
		return
	}
	in.UserID = actingUser(c, in.UserID)
	updated, err := h.service.MarkRead(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Messages marked as read", "updated": updated})
}
