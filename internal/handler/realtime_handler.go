package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
	"github.com/noah-isme/aie-portal-api/pkg/realtime"
	"github.com/noah-isme/aie-portal-api/pkg/response"
)

// RealtimeHandler upgrades clients to the push stream of notifications and messages.
type RealtimeHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewRealtimeHandler creates the websocket handler.
func NewRealtimeHandler(hub *realtime.Hub, allowedOrigins []string, logger *zap.Logger) *RealtimeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RealtimeHandler{hub: hub, upgrader: realtime.Upgrader(allowedOrigins), logger: logger}
}

// Connect godoc
// @Summary Realtime stream
// @Description Websocket carrying notification and message events for one user
// @Tags Notifications
// @Param user_id query string false "User, when no bearer token is sent"
// @Success 101
// @Failure 400 {object} response.ErrorBody
// @Router /ws [get]
func (h *RealtimeHandler) Connect(c *gin.Context) {
	userID := queryUser(c)
	if userID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "user_id is required"))
		return
	}
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.String("user_id", userID), zap.Error(err))
		return
	}
	h.hub.Attach(conn, userID)
}
