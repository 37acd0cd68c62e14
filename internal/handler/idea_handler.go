package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aie-portal-api/internal/models"
	"github.com/noah-isme/aie-portal-api/internal/service"
	"github.com/noah-isme/aie-portal-api/pkg/response"
)

// IdeaHandler exposes the idea board.
type IdeaHandler struct {
	service *service.IdeaService
}

// NewIdeaHandler creates an idea handler.
func NewIdeaHandler(svc *service.IdeaService) *IdeaHandler {
	return &IdeaHandler{service: svc}
}

func (h *IdeaHandler) list(c *gin.Context, q, category string) {
	ideas, err := h.service.List(c.Request.Context(), q, category)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"ideas": ideas})
}

// List godoc
// @Summary List ideas
// @Tags Ideas
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /ideas [get]
func (h *IdeaHandler) List(c *gin.Context) {
	h.list(c, "", "")
}

// Search godoc
// @Summary Search ideas
// @Tags Ideas
// @Produce json
// @Param q query string true "Search text"
// @Success 200 {object} map[string]interface{}
// @Router /ideas/search [get]
func (h *IdeaHandler) Search(c *gin.Context) {
	if c.Query("q") == "" {
		response.OK(c, gin.H{"ideas": []models.IdeaDetail{}})
		return
	}
	h.list(c, c.Query("q"), "")
}

// Filter godoc
// @Summary Filter ideas by category
// @Tags Ideas
// @Produce json
// @Param category query string false "Category"
// @Success 200 {object} map[string]interface{}
// @Router /ideas/filter [get]
func (h *IdeaHandler) Filter(c *gin.Context) {
	h.list(c, "", c.Query("category"))
}

// Tags godoc
// @Summary Distinct idea tags
// @Tags Ideas
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /ideas/tags [get]
func (h *IdeaHandler) Tags(c *gin.Context) {
	tags, err := h.service.Tags(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"tags": tags})
}

// Get godoc
// @Summary Get idea
// @Tags Ideas
// @Produce json
// @Param id path string true "Idea ID"
// @Success 200 {object} map[string]interface{}
// @Router /ideas/{id} [get]
func (h *IdeaHandler) Get(c *gin.Context) {
	idea, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"idea": idea})
}

// Create godoc
// @Summary Create idea
// @Tags Ideas
// @Accept json
// @Produce json
// @Param payload body models.IdeaRequest true "Idea"
// @Success 200 {object} map[string]interface{}
// @Router /ideas [post]
func (h *IdeaHandler) Create(c *gin.Context) {
	var req models.IdeaRequest
	if err := bindJSON(c, &req, "invalid idea payload"); err != nil {
		response.Error(c, err)
		return
	}
	if req.CreatedBy == nil {
		if claims := claimsFromContext(c); claims != nil {
			req.CreatedBy = &claims.UserID
		}
	}
	idea, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Idea created successfully", "idea": idea})
}

// Update godoc
// @Summary Update idea
// @Tags Ideas
// @Accept json
// @Produce json
// @Param id path string true "Idea ID"
// @Param payload body models.IdeaUpdateRequest true "Changed fields"
// @Success 200 {object} map[string]interface{}
// @Router /ideas/{id} [put]
func (h *IdeaHandler) Update(c *gin.Context) {
	var req models.IdeaUpdateRequest
	if err := bindJSON(c, &req, "invalid idea payload"); err != nil {
		response.Error(c, err)
		return
	}
	idea, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Idea updated successfully", "idea": idea})
}

// Delete godoc
// @Summary Delete idea
// @Tags Ideas
// @Produce json
// @Param id path string true "Idea ID"
// @Success 200 {object} map[string]interface{}
// @Router /ideas/{id} [delete]
func (h *IdeaHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Idea deleted successfully"})
}

// Favorite godoc
// @Summary Toggle the favorite flag
// @Tags Ideas
// @Produce json
// @Param id path string true "Idea ID"
// @Success 200 {object} map[string]interface{}
// @Router /ideas/{id}/favorite [put]
func (h *IdeaHandler) Favorite(c *gin.Context) {
	idea, err := h.service.ToggleFavorite(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Favorite updated", "idea": idea})
}
