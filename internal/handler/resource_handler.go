package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aie-portal-api/internal/models"
	"github.com/noah-isme/aie-portal-api/internal/service"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
	"github.com/noah-isme/aie-portal-api/pkg/response"
)

// ResourceHandler exposes course materials.
type ResourceHandler struct {
	service *service.ResourceService
}

// NewResourceHandler creates a resource handler.
func NewResourceHandler(svc *service.ResourceService) *ResourceHandler {
	return &ResourceHandler{service: svc}
}

func (h *ResourceHandler) list(c *gin.Context, q service.ResourceQuery) {
	resources, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"resources": resources})
}

// List godoc
// @Summary List resources
// @Tags Resources
// @Produce json
// @Param faculty_id query string false "Uploader"
// @Param student_id query string false "Student (class or enrolled courses)"
// @Success 200 {object} map[string]interface{}
// @Router /resources [get]
func (h *ResourceHandler) List(c *gin.Context) {
	var q service.ResourceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid resource query"))
		return
	}
	h.list(c, q)
}

// Filter godoc
// @Summary Filter resources
// @Tags Resources
// @Produce json
// @Param type query string false "Resource type"
// @Param category query string false "syllabus, announcements or materials"
// @Param course_id query string false "Course"
// @Success 200 {object} map[string]interface{}
// @Router /resources/filter [get]
func (h *ResourceHandler) Filter(c *gin.Context) {
	h.list(c, service.ResourceQuery{
		ResourceType: c.Query("type"),
		Category:     c.Query("category"),
		CourseID:     c.Query("course_id"),
	})
}

// ByCourse godoc
// @Summary Resources of a course
// @Tags Resources
// @Produce json
// @Param course_id path string true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Router /resources/course/{course_id} [get]
func (h *ResourceHandler) ByCourse(c *gin.Context) {
	h.list(c, service.ResourceQuery{CourseID: c.Param("course_id")})
}

// My godoc
// @Summary Resources uploaded by or visible to the acting user
// @Tags Resources
// @Produce json
// @Param user_id query string false "User, when no bearer token is sent"
// @Success 200 {object} map[string]interface{}
// @Router /resources/my [get]
func (h *ResourceHandler) My(c *gin.Context) {
	resources, err := h.service.My(c.Request.Context(), queryUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"resources": resources})
}

// Search godoc
// @Summary Search resources by title, description or tag
// @Tags Resources
// @Produce json
// @Param q query string true "Search text"
// @Success 200 {object} map[string]interface{}
// @Router /resources/search [get]
func (h *ResourceHandler) Search(c *gin.Context) {
	resources, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"resources": resources})
}

// Get godoc
// @Summary Get resource
// @Tags Resources
// @Produce json
// @Param id path string true "Resource ID"
// @Success 200 {object} map[string]interface{}
// @Router /resources/{id} [get]
func (h *ResourceHandler) Get(c *gin.Context) {
	resource, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"resource": resource})
}

// Stats godoc
// @Summary Download counter of a resource
// @Tags Resources
// @Produce json
// @Param id path string true "Resource ID"
// @Success 200 {object} service.ResourceStats
// @Router /resources/{id}/stats [get]
func (h *ResourceHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}

// Download godoc
// @Summary Record a download
// @Tags Resources
// @Accept json
// @Produce json
// @Param id path string true "Resource ID"
// @Success 200 {object} map[string]interface{}
// @Router /resources/{id}/download [post]
func (h *ResourceHandler) Download(c *gin.Context) {
	var body struct {
		UserID string `json:"user_id"`
	}
	if c.Request.ContentLength > 0 {
		if err := bindJSON(c, &body, "invalid download payload"); err != nil {
			response.Error(c, err)
			return
		}
	}
	resource, err := h.service.Download(c.Request.Context(), c.Param("id"), actingUser(c, body.UserID))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Download recorded", "resource": resource, "download_count": resource.DownloadCount})
}

// Create godoc
// @Summary Create resource
// @Tags Resources
// @Accept json
// @Produce json
// @Param payload body models.ResourceRequest true "Resource"
// @Success 200 {object} map[string]interface{}
// @Router /resources [post]
func (h *ResourceHandler) Create(c *gin.Context) {
	var req models.ResourceRequest
	if err := bindJSON(c, &req, "invalid resource payload"); err != nil {
		response.Error(c, err)
		return
	}
	req.UploadedBy = actingUser(c, req.UploadedBy)
	resource, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Resource created successfully", "resource": resource})
}

// Update godoc
// @Summary Update resource
// @Description Only the uploader or an admin may update
// @Tags Resources
// @Accept json
// @Produce json
// @Param id path string true "Resource ID"
// @Param payload body models.ResourceUpdateRequest true "Changed fields"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} response.ErrorBody
// @Router /resources/{id} [put]
func (h *ResourceHandler) Update(c *gin.Context) {
	var req models.ResourceUpdateRequest
	if err := bindJSON(c, &req, "invalid resource payload"); err != nil {
		response.Error(c, err)
		return
	}
	req.UserID = actingUser(c, req.UserID)
	resource, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Resource updated successfully", "resource": resource})
}

// Delete godoc
// @Summary Delete resource
// @Tags Resources
// @Produce json
// @Param id path string true "Resource ID"
// @Param user_id query string false "Acting user"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} response.ErrorBody
// @Router /resources/{id} [delete]
func (h *ResourceHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), queryUser(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Resource deleted successfully"})
}
