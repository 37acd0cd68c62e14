package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aie-portal-api/internal/service"
	"github.com/noah-isme/aie-portal-api/pkg/response"
)

// ChatHandler serves stored assistant conversations read-only.
type ChatHandler struct {
	service *service.ChatService
}

// NewChatHandler creates a chat handler.
func NewChatHandler(svc *service.ChatService) *ChatHandler {
	return &ChatHandler{service: svc}
}

// Conversations godoc
// @Summary Assistant conversations of a user
// @Tags Chat
// @Produce json
// @Param user_id query string false "User"
// @Success 200 {object} map[string]interface{}
// @Router /chat/conversations [get]
func (h *ChatHandler) Conversations(c *gin.Context) {
	conversations, err := h.service.Conversations(c.Request.Context(), queryUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"conversations": conversations})
}

// Conversation godoc
// @Summary Get an assistant conversation
// @Tags Chat
// @Produce json
// @Param id path string true "Conversation ID"
// @Success 200 {object} map[string]interface{}
// @Router /chat/conversations/{id} [get]
func (h *ChatHandler) Conversation(c *gin.Context) {
	conversation, err := h.service.Conversation(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"conversation": conversation})
}

// Messages godoc
// @Summary Messages of an assistant conversation in order
// @Tags Chat
// @Produce json
// @Param id path string true "Conversation ID"
// @Success 200 {object} map[string]interface{}
// @Router /chat/conversations/{id}/messages [get]
func (h *ChatHandler) Messages(c *gin.Context) {
	messages, err := h.service.Messages(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"messages": messages})
}
