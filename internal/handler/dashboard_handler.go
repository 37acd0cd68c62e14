package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aie-portal-api/internal/dto"
	"github.com/noah-isme/aie-portal-api/pkg/response"
)

type dashboardService interface {
	Get(ctx context.Context, userID string) (*dto.DashboardResponse, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Get godoc
// @Summary Landing page summary
// @Description Today's classes, the current and next class, upcoming assignments, unread notifications and user stats
// @Tags Dashboard
// @Produce json
// @Param user_id query string false "User, when no bearer token is sent"
// @Success 200 {object} dto.DashboardResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	summary, err := h.service.Get(c.Request.Context(), queryUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary)
}
