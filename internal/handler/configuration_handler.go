package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aie-portal-api/internal/models"
	"github.com/noah-isme/aie-portal-api/internal/service"
	"github.com/noah-isme/aie-portal-api/pkg/response"
)

type configurationService interface {
	Version() service.VersionInfo
	PublicConfig() service.PublicConfig
	Health(ctx context.Context) service.HealthStatus
	Ready(ctx context.Context) bool
}

type announcementLister interface {
	List() []models.Announcement
}

// ConfigurationHandler exposes health, version, client configuration and announcements.
type ConfigurationHandler struct {
	service       configurationService
	announcements announcementLister
}

// NewConfigurationHandler builds a new handler.
func NewConfigurationHandler(service configurationService, announcements announcementLister) *ConfigurationHandler {
	return &ConfigurationHandler{service: service, announcements: announcements}
}

// Root godoc
// @Summary API banner
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *ConfigurationHandler) Root(c *gin.Context) {
	v := h.service.Version()
	response.OK(c, gin.H{"message": v.APIName + " is running", "status": "ok", "version": v.Version})
}

// Health godoc
// @Summary Liveness with database status
// @Tags System
// @Produce json
// @Success 200 {object} service.HealthStatus
// @Router /health [get]
func (h *ConfigurationHandler) Health(c *gin.Context) {
	response.OK(c, h.service.Health(c.Request.Context()))
}

// Ready godoc
// @Summary Readiness
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /ready [get]
func (h *ConfigurationHandler) Ready(c *gin.Context) {
	if !h.service.Ready(c.Request.Context()) {
		response.JSON(c, http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}
	response.OK(c, gin.H{"status": "ready"})
}

// Version godoc
// @Summary API version
// @Tags System
// @Produce json
// @Success 200 {object} service.VersionInfo
// @Router /system/version [get]
func (h *ConfigurationHandler) Version(c *gin.Context) {
	response.OK(c, h.service.Version())
}

// Config godoc
// @Summary Client configuration
// @Tags System
// @Produce json
// @Success 200 {object} service.PublicConfig
// @Router /config [get]
func (h *ConfigurationHandler) Config(c *gin.Context) {
	response.OK(c, h.service.PublicConfig())
}

// Announcements godoc
// @Summary Portal announcements, newest first
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /announcements [get]
func (h *ConfigurationHandler) Announcements(c *gin.Context) {
	response.OK(c, gin.H{"announcements": h.announcements.List()})
}
