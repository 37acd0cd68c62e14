package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aie-portal-api/internal/service"
	"github.com/noah-isme/aie-portal-api/pkg/response"
)

// SearchHandler serves global search and the small per-user lists around it.
type SearchHandler struct {
	service *service.SearchService
}

// NewSearchHandler creates a search handler.
func NewSearchHandler(svc *service.SearchService) *SearchHandler {
	return &SearchHandler{service: svc}
}

// Global godoc
// @Summary Search courses, assignments and resources
// @Tags Search
// @Produce json
// @Param q query string true "Search text"
// @Success 200 {object} map[string]interface{}
// @Router /search/global [get]
func (h *SearchHandler) Global(c *gin.Context) {
	response.OK(c, gin.H{"results": h.service.Global(c.Request.Context(), c.Query("q"))})
}

// Courses godoc
// @Summary Search courses by name, code or description
// @Tags Search
// @Produce json
// @Param q query string false "Search text; empty lists the first courses"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} response.ErrorBody
// @Router /search/courses [get]
func (h *SearchHandler) Courses(c *gin.Context) {
	courses, err := h.service.Courses(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"courses": courses})
}

// Assignments godoc
// @Summary Search assignments by title or description
// @Tags Search
// @Produce json
// @Param q query string false "Search text"
// @Success 200 {object} map[string]interface{}
// @Router /search/assignments [get]
func (h *SearchHandler) Assignments(c *gin.Context) {
	assignments, err := h.service.Assignments(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"assignments": assignments})
}

// Resources godoc
// @Summary Search resources by title or description
// @Tags Search
// @Produce json
// @Param q query string false "Search text"
// @Success 200 {object} map[string]interface{}
// @Router /search/resources [get]
func (h *SearchHandler) Resources(c *gin.Context) {
	resources, err := h.service.Resources(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"resources": resources})
}

// Suggestions godoc
// @Summary Title suggestions
// @Tags Search
// @Produce json
// @Param q query string true "Prefix"
// @Success 200 {object} map[string]interface{}
// @Router /search/suggestions [get]
func (h *SearchHandler) Suggestions(c *gin.Context) {
	response.OK(c, gin.H{"suggestions": h.service.Suggestions(c.Request.Context(), c.Query("q"))})
}

// History godoc
// @Summary Recent searches of a user
// @Tags Search
// @Produce json
// @Param user_id query string false "User"
// @Success 200 {object} map[string]interface{}
// @Router /search/history [get]
func (h *SearchHandler) History(c *gin.Context) {
	rows, err := h.service.History(c.Request.Context(), queryUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"search_history": rows})
}

// QuickAccess godoc
// @Summary Quick access links
// @Tags Search
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /quick-access [get]
func (h *SearchHandler) QuickAccess(c *gin.Context) {
	rows, err := h.service.QuickAccess(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"items": rows})
}

// Bookmarks godoc
// @Summary Bookmarks of a user
// @Tags Search
// @Produce json
// @Param user_id query string false "User"
// @Success 200 {object} map[string]interface{}
// @Router /bookmarks [get]
func (h *SearchHandler) Bookmarks(c *gin.Context) {
	rows, err := h.service.Bookmarks(c.Request.Context(), queryUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"bookmarks": rows})
}

// Activity godoc
// @Summary Newest activity rows
// @Tags Search
// @Produce json
// @Param user_id query string false "Only this user's activity"
// @Success 200 {object} map[string]interface{}
// @Router /activity [get]
func (h *SearchHandler) Activity(c *gin.Context) {
	rows, err := h.service.Activity(c.Request.Context(), queryUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"activities": rows})
}
