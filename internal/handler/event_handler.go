package handler

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aie-portal-api/internal/dto"
	"github.com/noah-isme/aie-portal-api/internal/models"
	"github.com/noah-isme/aie-portal-api/internal/service"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
	"github.com/noah-isme/aie-portal-api/pkg/response"
)

type eventService interface {
	List(ctx context.Context, q service.EventQuery) ([]models.EventDetail, error)
	My(ctx context.Context, userID string) ([]models.EventDetail, error)
	Get(ctx context.Context, id string) (*models.EventDetail, error)
	Create(ctx context.Context, req models.EventRequest) (*models.EventDetail, error)
	Update(ctx context.Context, id string, req models.EventUpdateRequest) (*models.EventDetail, error)
	Delete(ctx context.Context, id, userID string) error
	Month(ctx context.Context, year, month int, userID string) (*dto.CalendarMonth, error)
	ICS(ctx context.Context, year, month int, userID string) ([]byte, error)
}

// EventHandler exposes calendar events and the monthly calendar.
type EventHandler struct {
	service eventService
}

// NewEventHandler creates an event handler.
func NewEventHandler(svc eventService) *EventHandler {
	return &EventHandler{service: svc}
}

// List godoc
// @Summary Public events plus the user's personal events
// @Tags Events
// @Produce json
// @Param year query int false "Year"
// @Param month query int false "Month 1-12"
// @Param user_id query string false "User"
// @Success 200 {object} map[string]interface{}
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	var q service.EventQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid event query"))
		return
	}
	q.UserID = actingUser(c, q.UserID)
	events, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"events": events})
}

// My godoc
// @Summary Events created by the acting user
// @Tags Events
// @Produce json
// @Param user_id query string false "User"
// @Success 200 {object} map[string]interface{}
// @Router /events/my [get]
func (h *EventHandler) My(c *gin.Context) {
	events, err := h.service.My(c.Request.Context(), queryUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"events": events})
}

// Get godoc
// @Summary Get event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]interface{}
// @Router /events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"event": event})
}

// Create godoc
// @Summary Create event
// @Description Students can only create personal events
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body models.EventRequest true "Event"
// @Success 200 {object} map[string]interface{}
// @Router /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req models.EventRequest
	if err := bindJSON(c, &req, "invalid event payload"); err != nil {
		response.Error(c, err)
		return
	}
	req.CreatedBy = actingUser(c, req.CreatedBy)
	event, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Event created successfully", "event": event})
}

// Update godoc
// @Summary Update event
// @Description Only the creator or an admin may update
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body models.EventUpdateRequest true "Changed fields"
// @Success 200 {object} map[string]interface{}
// @Router /events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	var req models.EventUpdateRequest
	if err := bindJSON(c, &req, "invalid event payload"); err != nil {
		response.Error(c, err)
		return
	}
	req.UserID = actingUser(c, req.UserID)
	event, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Event updated successfully", "event": event})
}

// Delete godoc
// @Summary Delete event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Param user_id query string false "Acting user"
// @Success 200 {object} map[string]interface{}
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), queryUser(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Event deleted successfully"})
}

func yearMonth(c *gin.Context) (int, int, error) {
	year, err := paramInt(c, "year")
	if err != nil {
		return 0, 0, err
	}
	month, err := paramInt(c, "month")
	if err != nil {
		return 0, 0, err
	}
	return year, month, nil
}

// Calendar godoc
// @Summary Events of a month grouped by date
// @Tags Events
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month 1-12"
// @Param user_id query string false "User"
// @Success 200 {object} dto.CalendarMonth
// @Router /calendar/{year}/{month} [get]
func (h *EventHandler) Calendar(c *gin.Context) {
	year, month, err := yearMonth(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	calendar, err := h.service.Month(c.Request.Context(), year, month, queryUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, calendar)
}

// ICS godoc
// @Summary Month calendar feed
// @Tags Events
// @Produce text/calendar
// @Param year path int true "Year"
// @Param month path int true "Month 1-12"
// @Param user_id query string false "User"
// @Success 200 {file} file
// @Router /calendar/{year}/{month}/ics [get]
func (h *EventHandler) ICS(c *gin.Context) {
	year, month, err := yearMonth(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	feed, err := h.service.ICS(c.Request.Context(), year, month, queryUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, fmt.Sprintf("calendar-%04d-%02d.ics", year, month), "text/calendar; charset=utf-8", feed)
}
