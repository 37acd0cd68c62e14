package handler

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aie-portal-api/internal/dto"
	"github.com/noah-isme/aie-portal-api/internal/models"
	"github.com/noah-isme/aie-portal-api/internal/service"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
	"github.com/noah-isme/aie-portal-api/pkg/export"
	"github.com/noah-isme/aie-portal-api/pkg/response"
)

type timetableService interface {
	Today() models.Date
	List(ctx context.Context, req models.TimetableScope) ([]models.ClassSession, error)
	Get(ctx context.Context, id string) (*models.ClassSession, error)
	ByCourse(ctx context.Context, courseID string) ([]models.ClassSession, error)
	Week(ctx context.Context, req models.TimetableScope) (models.WeeklyTimetable, error)
	OnDate(ctx context.Context, date models.Date, req models.TimetableScope) (*service.DaySchedule, error)
	TodayClasses(ctx context.Context, req models.TimetableScope) (*service.DaySchedule, error)
	CurrentAndNext(ctx context.Context, req models.TimetableScope) (current, next *models.ResolvedClass, err error)
	Month(ctx context.Context, year int, month time.Month, req models.TimetableScope) (dto.MonthlyClasses, error)
	ExportWeek(ctx context.Context, req models.TimetableScope, rawFormat string) (*export.Document, error)
	Create(ctx context.Context, req models.TimetableRequest) (*models.ClassSession, error)
	Update(ctx context.Context, id string, req models.TimetableUpdateRequest) (*models.ClassSession, error)
	Delete(ctx context.Context, id, actorID string) error
	Overrides(ctx context.Context, class string) ([]models.SaturdayOverride, error)
	CreateOverride(ctx context.Context, req models.SaturdayOverrideRequest) (*models.SaturdayOverride, error)
	UpdateOverride(ctx context.Context, id string, req models.SaturdayOverrideRequest) (*models.SaturdayOverride, error)
	DeleteOverride(ctx context.Context, id, actorID string) error
}

// TimetableHandler serves the weekly timetable, resolved day views and Saturday overrides.
type TimetableHandler struct {
	service timetableService
}

// NewTimetableHandler creates a timetable handler.
func NewTimetableHandler(svc timetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// scopeFromRequest binds class, section, student_id and faculty_id. Without any of them the
// bearer token decides: students see their class, faculty their own courses.
func scopeFromRequest(c *gin.Context) (models.TimetableScope, error) {
	var scope models.TimetableScope
	if err := c.ShouldBindQuery(&scope); err != nil {
		return scope, appErrors.Validation(err, "invalid timetable query")
	}
	if scope.Class != "" || scope.Section != "" || scope.StudentID != "" || scope.FacultyID != "" {
		return scope, nil
	}
	if claims := claimsFromContext(c); claims != nil {
		switch claims.Role {
		case models.RoleStudent:
			scope.StudentID = claims.UserID
		case models.RoleFaculty:
			scope.FacultyID = claims.UserID
		}
	}
	return scope, nil
}

func (h *TimetableHandler) respondDay(c *gin.Context, day *service.DaySchedule) {
	response.OK(c, gin.H{"classes": day.Classes, "date": day.Date, "day": day.Day})
}

// List godoc
// @Summary List timetable entries
// @Tags Classes
// @Produce json
// @Param class query string false "Class code"
// @Param student_id query string false "Student ID"
// @Param faculty_id query string false "Faculty ID"
// @Success 200 {object} map[string]interface{}
// @Router /classes [get]
func (h *TimetableHandler) List(c *gin.Context) {
	scope, err := scopeFromRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	classes, err := h.service.List(c.Request.Context(), scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"classes": classes})
}

// Today godoc
// @Summary Today's classes with live status
// @Tags Classes
// @Produce json
// @Param class query string false "Class code"
// @Param student_id query string false "Student ID"
// @Param faculty_id query string false "Faculty ID"
// @Success 200 {object} map[string]interface{}
// @Router /classes/today [get]
func (h *TimetableHandler) Today(c *gin.Context) {
	scope, err := scopeFromRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	day, err := h.service.TodayClasses(c.Request.Context(), scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respondDay(c, day)
}

// OnDate godoc
// @Summary Classes on a date
// @Tags Classes
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param class query string false "Class code"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Router /classes/date/{date} [get]
func (h *TimetableHandler) OnDate(c *gin.Context) {
	date, err := models.ParseDate(c.Param("date"))
	if err != nil {
		response.Error(c, appErrors.Validation(err, "invalid date format, expected YYYY-MM-DD"))
		return
	}
	scope, err := scopeFromRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	day, err := h.service.OnDate(c.Request.Context(), date, scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respondDay(c, day)
}

// Week godoc
// @Summary Weekly timetable grouped by day
// @Tags Classes
// @Produce json
// @Param class query string false "Class code"
// @Success 200 {object} map[string]interface{}
// @Router /classes/week [get]
func (h *TimetableHandler) Week(c *gin.Context) {
	scope, err := scopeFromRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	week, err := h.service.Week(c.Request.Context(), scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"weekly_classes": week})
}

// Month godoc
// @Summary Resolved classes for every date of a month
// @Tags Classes
// @Produce json
// @Param year query int false "Year, defaults to the current year"
// @Param month query int false "Month 1-12, defaults to the current month"
// @Param class query string false "Class code"
// @Success 200 {object} map[string]interface{}
// @Router /classes/month [get]
func (h *TimetableHandler) Month(c *gin.Context) {
	today := h.service.Today()
	year, err := queryInt(c, "year", today.Year())
	if err != nil {
		response.Error(c, err)
		return
	}
	month, err := queryInt(c, "month", int(today.Month()))
	if err != nil {
		response.Error(c, err)
		return
	}
	if month < 1 || month > 12 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "month must be between 1 and 12"))
		return
	}
	scope, err := scopeFromRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	classes, err := h.service.Month(c.Request.Context(), year, time.Month(month), scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"monthly_classes": classes, "year": year, "month": month})
}

// Current godoc
// @Summary The class in progress now
// @Tags Classes
// @Produce json
// @Param class query string false "Class code"
// @Success 200 {object} map[string]interface{}
// @Router /classes/current [get]
func (h *TimetableHandler) Current(c *gin.Context) {
	current, _, ok := h.currentAndNext(c)
	if ok {
		response.OK(c, gin.H{"current_class": current})
	}
}

// Next godoc
// @Summary The next class today
// @Tags Classes
// @Produce json
// @Param class query string false "Class code"
// @Success 200 {object} map[string]interface{}
// @Router /classes/next [get]
func (h *TimetableHandler) Next(c *gin.Context) {
	_, next, ok := h.currentAndNext(c)
	if ok {
		response.OK(c, gin.H{"next_class": next})
	}
}

func (h *TimetableHandler) currentAndNext(c *gin.Context) (*models.ResolvedClass, *models.ResolvedClass, bool) {
	scope, err := scopeFromRequest(c)
	if err != nil {
		response.Error(c, err)
		return nil, nil, false
	}
	current, next, err := h.service.CurrentAndNext(c.Request.Context(), scope)
	if err != nil {
		response.Error(c, err)
		return nil, nil, false
	}
	return current, next, true
}

// ByCourse godoc
// @Summary Timetable entries of a course
// @Tags Classes
// @Produce json
// @Param course_id path string true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Router /classes/course/{course_id} [get]
func (h *TimetableHandler) ByCourse(c *gin.Context) {
	classes, err := h.service.ByCourse(c.Request.Context(), c.Param("course_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"classes": classes})
}

// Export godoc
// @Summary Download the weekly timetable
// @Tags Classes
// @Produce text/csv,application/pdf,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param class query string false "Class code"
// @Param format query string false "csv, pdf or xlsx"
// @Success 200 {file} file
// @Router /classes/week/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	scope, err := scopeFromRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	doc, err := h.service.ExportWeek(c.Request.Context(), scope, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, doc.Filename, doc.ContentType, doc.Data)
}

// Get godoc
// @Summary Get timetable entry
// @Tags Classes
// @Produce json
// @Param id path string true "Timetable entry ID"
// @Success 200 {object} map[string]interface{}
// @Router /classes/{id} [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	class, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"class": class})
}

// Create godoc
// @Summary Add a timetable entry
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body models.TimetableRequest true "Timetable entry"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Router /classes [post]
func (h *TimetableHandler) Create(c *gin.Context) {
	h.create(c, "class")
}

// CreateAdmin godoc
// @Summary Add a timetable entry (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body models.TimetableRequest true "Timetable entry"
// @Success 200 {object} map[string]interface{}
// @Router /admin/timetable [post]
func (h *TimetableHandler) CreateAdmin(c *gin.Context) {
	h.create(c, "timetable")
}

func (h *TimetableHandler) create(c *gin.Context, key string) {
	var req models.TimetableRequest
	if err := bindJSON(c, &req, "invalid timetable payload"); err != nil {
		response.Error(c, err)
		return
	}
	req.UserID = actingUser(c, req.UserID)
	class, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Class created successfully", key: class})
}

// Update godoc
// @Summary Update a timetable entry
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path string true "Timetable entry ID"
// @Param payload body models.TimetableUpdateRequest true "Changed fields"
// @Success 200 {object} map[string]interface{}
// @Router /classes/{id} [put]
func (h *TimetableHandler) Update(c *gin.Context) {
	var req models.TimetableUpdateRequest
	if err := bindJSON(c, &req, "invalid timetable payload"); err != nil {
		response.Error(c, err)
		return
	}
	req.UserID = actingUser(c, req.UserID)
	class, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Class updated successfully", "class": class})
}

// Delete godoc
// @Summary Delete a timetable entry
// @Tags Classes
// @Produce json
// @Param id path string true "Timetable entry ID"
// @Success 200 {object} map[string]interface{}
// @Router /classes/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), queryUser(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Class deleted successfully"})
}

// Overrides godoc
// @Summary List Saturday overrides
// @Tags Saturday classes
// @Produce json
// @Param class query string false "Class code"
// @Success 200 {object} map[string]interface{}
// @Router /saturday-class [get]
func (h *TimetableHandler) Overrides(c *gin.Context) {
	class := strings.TrimSpace(c.Query("class"))
	if class == "" {
		class = strings.TrimSpace(c.Query("section"))
	}
	overrides, err := h.service.Overrides(c.Request.Context(), class)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"saturday_class": overrides})
}

// CreateOverride godoc
// @Summary Make a Saturday follow a weekday timetable
// @Tags Saturday classes
// @Accept json
// @Produce json
// @Param payload body models.SaturdayOverrideRequest true "Override"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /saturday-class [post]
func (h *TimetableHandler) CreateOverride(c *gin.Context) {
	var req models.SaturdayOverrideRequest
	if err := bindJSON(c, &req, "invalid saturday class payload"); err != nil {
		response.Error(c, err)
		return
	}
	req.UserID = actingUser(c, req.UserID)
	override, err := h.service.CreateOverride(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Saturday class created successfully", "saturday_class": override})
}

// UpdateOverride godoc
// @Summary Update a Saturday override
// @Tags Saturday classes
// @Accept json
// @Produce json
// @Param id path string true "Override ID"
// @Param payload body models.SaturdayOverrideRequest true "Override"
// @Success 200 {object} map[string]interface{}
// @Router /saturday-class/{id} [put]
func (h *TimetableHandler) UpdateOverride(c *gin.Context) {
	var req models.SaturdayOverrideRequest
	if err := bindJSON(c, &req, "invalid saturday class payload"); err != nil {
		response.Error(c, err)
		return
	}
	req.UserID = actingUser(c, req.UserID)
	override, err := h.service.UpdateOverride(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Saturday class updated successfully", "saturday_class": override})
}

// DeleteOverride godoc
// @Summary Delete a Saturday override
// @Tags Saturday classes
// @Produce json
// @Param id path string true "Override ID"
// @Success 200 {object} map[string]interface{}
// @Router /saturday-class/{id} [delete]
func (h *TimetableHandler) DeleteOverride(c *gin.Context) {
	if err := h.service.DeleteOverride(c.Request.Context(), c.Param("id"), queryUser(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Saturday class deleted successfully"})
}
