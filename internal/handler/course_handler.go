package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aie-portal-api/internal/models"
	"github.com/noah-isme/aie-portal-api/internal/service"
	"github.com/noah-isme/aie-portal-api/pkg/response"
)

// CourseHandler exposes the course catalogue and enrollments.
type CourseHandler struct {
	service *service.CourseService
}

// NewCourseHandler creates a course handler.
func NewCourseHandler(svc *service.CourseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"courses": courses})
}

// Get godoc
// @Summary Get course
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"course": course})
}

// Overview godoc
// @Summary Course with assignment and class counts
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} models.CourseOverview
// @Router /courses/{id}/overview [get]
func (h *CourseHandler) Overview(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, overview)
}

// Students godoc
// @Summary Course roster
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Router /courses/{id}/students [get]
func (h *CourseHandler) Students(c *gin.Context) {
	students, err := h.service.Students(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"students": students})
}

// Enroll godoc
// @Summary Enroll a student
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body models.EnrollRequest true "Student"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} response.ErrorBody
// @Router /courses/{id}/enroll [post]
func (h *CourseHandler) Enroll(c *gin.Context) {
	var req models.EnrollRequest
	if err := bindJSON(c, &req, "invalid enrollment payload"); err != nil {
		response.Error(c, err)
		return
	}
	enrollment, err := h.service.Enroll(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Enrolled successfully", "enrollment": enrollment})
}

// Unenroll godoc
// @Summary Drop a student from a course
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Param student_id query string true "Student ID"
// @Success 200 {object} map[string]interface{}
// @Router /courses/{id}/enroll [delete]
func (h *CourseHandler) Unenroll(c *gin.Context) {
	if err := h.service.Unenroll(c.Request.Context(), c.Param("id"), c.Query("student_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Unenrolled successfully"})
}
