package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aie-portal-api/internal/service"
	"github.com/noah-isme/aie-portal-api/pkg/response"
)

// DirectoryHandler serves departments and class sections.
type DirectoryHandler struct {
	service *service.DirectoryService
}

// NewDirectoryHandler creates a directory handler.
func NewDirectoryHandler(svc *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: svc}
}

// Departments godoc
// @Summary List departments
// @Tags Directory
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /departments [get]
func (h *DirectoryHandler) Departments(c *gin.Context) {
	departments, err := h.service.Departments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"departments": departments})
}

// Department godoc
// @Summary Get department
// @Tags Directory
// @Produce json
// @Param id path string true "Department ID"
// @Success 200 {object} map[string]interface{}
// @Router /departments/{id} [get]
func (h *DirectoryHandler) Department(c *gin.Context) {
	department, err := h.service.Department(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"department": department})
}

// Courses godoc
// @Summary Courses of a department
// @Tags Directory
// @Produce json
// @Param id path string true "Department ID"
// @Success 200 {object} map[string]interface{}
// @Router /departments/{id}/courses [get]
func (h *DirectoryHandler) Courses(c *gin.Context) {
	courses, err := h.service.DepartmentCourses(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"courses": courses})
}

// Faculty godoc
// @Summary Faculty of a department
// @Tags Directory
// @Produce json
// @Param id path string true "Department ID"
// @Success 200 {object} map[string]interface{}
// @Router /departments/{id}/faculty [get]
func (h *DirectoryHandler) Faculty(c *gin.Context) {
	faculty, err := h.service.DepartmentFaculty(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"faculty": faculty})
}

// Classes godoc
// @Summary List class sections
// @Tags Directory
// @Produce json
// @Param dept query string false "Department code"
// @Success 200 {object} map[string]interface{}
// @Router /class-list [get]
func (h *DirectoryHandler) Classes(c *gin.Context) {
	classes, err := h.service.Classes(c.Request.Context(), c.Query("dept"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"classes": classes})
}
