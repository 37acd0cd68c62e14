package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aie-portal-api/internal/service"
	"github.com/noah-isme/aie-portal-api/pkg/response"
)

// StatsHandler serves the aggregate statistics pages. Every section degrades to zeros.
type StatsHandler struct {
	service *service.StatsService
}

// NewStatsHandler creates a stats handler.
func NewStatsHandler(svc *service.StatsService) *StatsHandler {
	return &StatsHandler{service: svc}
}

// Overview godoc
// @Summary Headline counts
// @Tags Stats
// @Produce json
// @Success 200 {object} dto.OverviewStats
// @Router /stats/overview [get]
func (h *StatsHandler) Overview(c *gin.Context) {
	response.OK(c, h.service.Overview(c.Request.Context()))
}

// Assignments godoc
// @Summary Assignment and submission counts
// @Tags Stats
// @Produce json
// @Success 200 {object} dto.AssignmentStats
// @Router /stats/assignments [get]
func (h *StatsHandler) Assignments(c *gin.Context) {
	response.OK(c, h.service.Assignments(c.Request.Context()))
}

// Academic godoc
// @Summary Academic averages
// @Tags Stats
// @Produce json
// @Success 200 {object} dto.AcademicStats
// @Router /stats/academic [get]
func (h *StatsHandler) Academic(c *gin.Context) {
	response.OK(c, h.service.Academic(c.Request.Context()))
}

// Resources godoc
// @Summary Resource counts
// @Tags Stats
// @Produce json
// @Success 200 {object} dto.ResourceStats
// @Router /stats/resources [get]
func (h *StatsHandler) Resources(c *gin.Context) {
	response.OK(c, h.service.Resources(c.Request.Context()))
}

// Projects godoc
// @Summary Projects by status
// @Tags Stats
// @Produce json
// @Success 200 {object} dto.ProjectStats
// @Router /stats/projects [get]
func (h *StatsHandler) Projects(c *gin.Context) {
	response.OK(c, h.service.Projects(c.Request.Context()))
}

// Timeline godoc
// @Summary Newest activity across the portal
// @Tags Stats
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /stats/timeline [get]
func (h *StatsHandler) Timeline(c *gin.Context) {
	response.OK(c, gin.H{"timeline": h.service.Timeline(c.Request.Context())})
}
