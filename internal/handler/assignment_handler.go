package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aie-portal-api/internal/models"
	"github.com/noah-isme/aie-portal-api/internal/service"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
	"github.com/noah-isme/aie-portal-api/pkg/response"
)

// AssignmentHandler exposes assignments and submissions.
type AssignmentHandler struct {
	service *service.AssignmentService
}

// NewAssignmentHandler creates an assignment handler.
func NewAssignmentHandler(svc *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

func assignmentQuery(c *gin.Context) (service.AssignmentQuery, error) {
	var q service.AssignmentQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return q, appErrors.Validation(err, "invalid assignment query")
	}
	return q, nil
}

// List godoc
// @Summary List assignments
// @Tags Assignments
// @Produce json
// @Param faculty_id query string false "Creator"
// @Param student_id query string false "Student (own class or enrolled courses)"
// @Success 200 {object} map[string]interface{}
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	q, err := assignmentQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	assignments, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"assignments": assignments})
}

// Upcoming godoc
// @Summary Assignments not yet due, soonest first
// @Tags Assignments
// @Produce json
// @Param student_id query string false "Student"
// @Param limit query int false "Maximum rows"
// @Success 200 {object} map[string]interface{}
// @Router /assignments/upcoming [get]
func (h *AssignmentHandler) Upcoming(c *gin.Context) {
	q, err := assignmentQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	assignments, err := h.service.Upcoming(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"assignments": assignments})
}

// Overdue godoc
// @Summary Assignments past their due date
// @Tags Assignments
// @Produce json
// @Param student_id query string false "Student"
// @Success 200 {object} map[string]interface{}
// @Router /assignments/overdue [get]
func (h *AssignmentHandler) Overdue(c *gin.Context) {
	q, err := assignmentQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	assignments, err := h.service.Overdue(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"assignments": assignments})
}

// My godoc
// @Summary Assignments of the acting user
// @Tags Assignments
// @Produce json
// @Param user_id query string false "User, when no bearer token is sent"
// @Success 200 {object} map[string]interface{}
// @Router /assignments/my [get]
func (h *AssignmentHandler) My(c *gin.Context) {
	assignments, err := h.service.My(c.Request.Context(), queryUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"assignments": assignments})
}

// ByCourse godoc
// @Summary Assignments of a course
// @Tags Assignments
// @Produce json
// @Param course_id path string true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Router /assignments/course/{course_id} [get]
func (h *AssignmentHandler) ByCourse(c *gin.Context) {
	assignments, err := h.service.ByCourse(c.Request.Context(), c.Param("course_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"assignments": assignments})
}

// Get godoc
// @Summary Get assignment
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} map[string]interface{}
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) Get(c *gin.Context) {
	assignment, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"assignment": assignment})
}

// Create godoc
// @Summary Create assignment
// @Description Only faculty and admins may create assignments
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body models.AssignmentRequest true "Assignment"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} response.ErrorBody
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req models.AssignmentRequest
	if err := bindJSON(c, &req, "invalid assignment payload"); err != nil {
		response.Error(c, err)
		return
	}
	req.CreatedBy = actingUser(c, req.CreatedBy)
	assignment, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Assignment created successfully", "assignment": assignment})
}

// Update godoc
// @Summary Update assignment
// @Description Only the creator or an admin may update
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body models.AssignmentUpdateRequest true "Changed fields"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} response.ErrorBody
// @Router /assignments/{id} [put]
func (h *AssignmentHandler) Update(c *gin.Context) {
	var req models.AssignmentUpdateRequest
	if err := bindJSON(c, &req, "invalid assignment payload"); err != nil {
		response.Error(c, err)
		return
	}
	req.UserID = actingUser(c, req.UserID)
	assignment, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Assignment updated successfully", "assignment": assignment})
}

// Delete godoc
// @Summary Delete assignment
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Param user_id query string false "Acting user"
// @Success 200 {object} map[string]interface{}
// @Router /assignments/{id} [delete]
func (h *AssignmentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), queryUser(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Assignment deleted successfully"})
}

// Submit godoc
// @Summary Submit an assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body models.SubmissionRequest true "Submission"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} response.ErrorBody
// @Router /assignments/{id}/submit [post]
func (h *AssignmentHandler) Submit(c *gin.Context) {
	var req models.SubmissionRequest
	if err := bindJSON(c, &req, "invalid submission payload"); err != nil {
		response.Error(c, err)
		return
	}
	req.StudentID = actingUser(c, req.StudentID)
	submission, err := h.service.Submit(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Assignment submitted successfully", "submission": submission})
}

// Submission godoc
// @Summary A student's submission
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Param student_id query string true "Student"
// @Success 200 {object} map[string]interface{}
// @Router /assignments/{id}/submission [get]
func (h *AssignmentHandler) Submission(c *gin.Context) {
	submission, err := h.service.Submission(c.Request.Context(), c.Param("id"), actingUser(c, c.Query("student_id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"submission": submission})
}

// UpdateSubmission godoc
// @Summary Replace a submission before grading
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body models.SubmissionRequest true "Submission"
// @Success 200 {object} map[string]interface{}
// @Router /assignments/{id}/submission [put]
func (h *AssignmentHandler) UpdateSubmission(c *gin.Context) {
	var req models.SubmissionRequest
	if err := bindJSON(c, &req, "invalid submission payload"); err != nil {
		response.Error(c, err)
		return
	}
	req.StudentID = actingUser(c, req.StudentID)
	submission, err := h.service.UpdateSubmission(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Submission updated successfully", "submission": submission})
}

// DeleteSubmission godoc
// @Summary Withdraw a submission
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Param student_id query string true "Student"
// @Success 200 {object} map[string]interface{}
// @Router /assignments/{id}/submission [delete]
func (h *AssignmentHandler) DeleteSubmission(c *gin.Context) {
	if err := h.service.DeleteSubmission(c.Request.Context(), c.Param("id"), actingUser(c, c.Query("student_id"))); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Submission deleted successfully"})
}
