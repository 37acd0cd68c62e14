package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aie-portal-api/internal/models"
	"github.com/noah-isme/aie-portal-api/internal/service"
	"github.com/noah-isme/aie-portal-api/pkg/response"
)

// ProjectHandler exposes student projects.
type ProjectHandler struct {
	service *service.ProjectService
}

// NewProjectHandler creates a project handler.
func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: svc}
}

// Types godoc
// @Summary Selectable project types
// @Tags Projects
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /project-types [get]
func (h *ProjectHandler) Types(c *gin.Context) {
	response.OK(c, gin.H{"types": h.service.Types()})
}

// List godoc
// @Summary List projects
// @Tags Projects
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.service.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"projects": projects})
}

// Get godoc
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Router /projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"project": project})
}

// Create godoc
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Param payload body models.ProjectRequest true "Project"
// @Success 200 {object} map[string]interface{}
// @Router /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req models.ProjectRequest
	if err := bindJSON(c, &req, "invalid project payload"); err != nil {
		response.Error(c, err)
		return
	}
	if req.CreatedBy == nil {
		if claims := claimsFromContext(c); claims != nil {
			req.CreatedBy = &claims.UserID
		}
	}
	project, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Project created successfully", "project": project})
}

// Update godoc
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param payload body models.ProjectUpdateRequest true "Changed fields"
// @Success 200 {object} map[string]interface{}
// @Router /projects/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	var req models.ProjectUpdateRequest
	if err := bindJSON(c, &req, "invalid project payload"); err != nil {
		response.Error(c, err)
		return
	}
	project, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Project updated successfully", "project": project})
}

// Progress godoc
// @Summary Set project progress
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param payload body models.ProgressRequest true "Progress 0-100"
// @Success 200 {object} map[string]interface{}
// @Router /projects/{id}/progress [put]
func (h *ProjectHandler) Progress(c *gin.Context) {
	var req models.ProgressRequest
	if err := bindJSON(c, &req, "invalid progress payload"); err != nil {
		response.Error(c, err)
		return
	}
	project, err := h.service.SetProgress(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Progress updated successfully", "project": project})
}

// Delete godoc
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Router /projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Project deleted successfully"})
}

// Members godoc
// @Summary Project members
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Router /projects/{id}/members [get]
func (h *ProjectHandler) Members(c *gin.Context) {
	members, err := h.service.Members(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"members": members})
}

// AddMember godoc
// @Summary Add a project member
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param payload body models.MemberRequest true "Member"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} response.ErrorBody
// @Router /projects/{id}/members [post]
func (h *ProjectHandler) AddMember(c *gin.Context) {
	var req models.MemberRequest
	if err := bindJSON(c, &req, "invalid member payload"); err != nil {
		response.Error(c, err)
		return
	}
	member, err := h.service.AddMember(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Member added successfully", "member": member})
}

// RemoveMember godoc
// @Summary Remove a project member
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Param user_id path string true "Member user ID"
// @Success 200 {object} map[string]interface{}
// @Router /projects/{id}/members/{user_id} [delete]
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	if err := h.service.RemoveMember(c.Request.Context(), c.Param("id"), c.Param("user_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Member removed successfully"})
}
