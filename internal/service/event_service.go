package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/aie-portal-api/internal/dto"
	"github.com/noah-isme/aie-portal-api/internal/models"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
	"github.com/noah-isme/aie-portal-api/pkg/export"
)

const defaultEventType = "general"

type eventRepository interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.EventDetail, error)
	FindByID(ctx context.Context, id string) (*models.EventDetail, error)
	Create(ctx context.Context, e *models.Event) error
	Update(ctx context.Context, e *models.Event) error
	Delete(ctx context.Context, id string) error
}

// EventQuery selects events visible to UserID, optionally within one month.
type EventQuery struct {
	UserID    string `form:"user_id"`
	Year      int    `form:"year"`
	Month     int    `form:"month"`
	CourseID  string `form:"course_id"`
	EventType string `form:"event_type"`
}

// EventService manages calendar events and renders monthly calendars.
type EventService struct {
	repo      eventRepository
	users     actorLookup
	notifier  Notifier
	validator *validator.Validate
	logger    *zap.Logger
	loc       *time.Location
	now       func() time.Time
}

// NewEventService constructs an EventService. Event times are interpreted in loc.
func NewEventService(repo eventRepository, users actorLookup, notifier Notifier, validate *validator.Validate, logger *zap.Logger, loc *time.Location) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &EventService{repo: repo, users: users, notifier: notifier, validator: validate, logger: logger, loc: loc, now: time.Now}
}

func monthWindow(year, month int) (models.Date, models.Date, error) {
	if month < 1 || month > 12 {
		return models.Date{}, models.Date{}, appErrors.Clone(appErrors.ErrValidation, "month must be between 1 and 12")
	}
	if year < 1 {
		return models.Date{}, models.Date{}, appErrors.Clone(appErrors.ErrValidation, "year is invalid")
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return models.NewDate(first), models.NewDate(first.AddDate(0, 1, -1)), nil
}

// List returns public events plus the user's personal ones. Year and month narrow the window;
// a month without a year uses the current year.
func (s *EventService) List(ctx context.Context, q EventQuery) ([]models.EventDetail, error) {
	filter := models.EventFilter{UserID: q.UserID, CourseID: q.CourseID, EventType: q.EventType}
	if q.Month != 0 {
		year := q.Year
		if year == 0 {
			year = s.now().In(s.loc).Year()
		}
		from, to, err := monthWindow(year, q.Month)
		if err != nil {
			return nil, err
		}
		filter.From, filter.To = &from, &to
	}
	events, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list events")
	}
	return events, nil
}

// My lists the events a user created.
func (s *EventService) My(ctx context.Context, userID string) ([]models.EventDetail, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user_id is required")
	}
	events, err := s.repo.List(ctx, models.EventFilter{UserID: userID, OnlyMine: true})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list events")
	}
	return events, nil
}

// Get returns one event.
func (s *EventService) Get(ctx context.Context, id string) (*models.EventDetail, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "event")
	}
	return event, nil
}

// Create adds an event. Students can only create personal events.
func (s *EventService) Create(ctx context.Context, req models.EventRequest) (*models.EventDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "title, start_date and created_by are required")
	}
	if req.StartDate.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date is required")
	}
	creator, err := requireActor(ctx, s.users, req.CreatedBy)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		Title:        req.Title,
		Description:  req.Description,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		IsAllDay:     req.IsAllDay,
		EventType:    firstNonEmpty(req.EventType, defaultEventType),
		Priority:     firstNonEmpty(req.Priority, models.PriorityMedium),
		Color:        firstNonEmpty(req.Color, models.DefaultEventColor),
		Location:     req.Location,
		CourseID:     strPtr(deref(req.CourseID)),
		AssignmentID: strPtr(deref(req.AssignmentID)),
		Class:        strPtr(deref(req.Class)),
		CreatedBy:    creator.ID,
		IsPersonal:   req.IsPersonal || creator.Role == models.RoleStudent,
	}
	if err := setEventTimes(event, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, writeError(err, "create event")
	}
	created, err := s.Get(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, created, "New event", true)
	return created, nil
}

// Update patches an event; only its creator or an admin may change it.
func (s *EventService) Update(ctx context.Context, id string, req models.EventUpdateRequest) (*models.EventDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid event update")
	}
	actor, current, err := s.authorize(ctx, id, req.UserID)
	if err != nil {
		return nil, err
	}
	event := current.Event
	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	if req.StartDate != nil {
		event.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		event.EndDate = req.EndDate
	}
	if req.IsAllDay != nil {
		event.IsAllDay = *req.IsAllDay
	}
	if req.EventType != nil {
		event.EventType = firstNonEmpty(*req.EventType, defaultEventType)
	}
	if req.Priority != nil {
		event.Priority = firstNonEmpty(*req.Priority, models.PriorityMedium)
	}
	if req.Color != nil {
		event.Color = firstNonEmpty(*req.Color, models.DefaultEventColor)
	}
	if req.Location != nil {
		event.Location = req.Location
	}
	if req.CourseID != nil {
		event.CourseID = strPtr(*req.CourseID)
	}
	if req.Class != nil {
		event.Class = strPtr(*req.Class)
	}
	if req.IsPersonal != nil {
		event.IsPersonal = *req.IsPersonal || actor.Role == models.RoleStudent
	}
	startTime, endTime := event.StartTime, event.EndTime
	if req.StartTime != nil {
		startTime = req.StartTime
	}
	if req.EndTime != nil {
		endTime = req.EndTime
	}
	if err := setEventTimes(&event, startTime, endTime); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &event); err != nil {
		return nil, writeError(err, "update event")
	}
	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, updated, "Event updated", true)
	return updated, nil
}

// Delete removes an event; only its creator or an admin may delete it.
func (s *EventService) Delete(ctx context.Context, id, userID string) error {
	_, current, err := s.authorize(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "delete event")
	}
	s.notify(ctx, current, "Event cancelled", false)
	return nil
}

func (s *EventService) authorize(ctx context.Context, id, userID string) (*models.User, *models.EventDetail, error) {
	actor, err := requireActor(ctx, s.users, userID)
	if err != nil {
		return nil, nil, err
	}
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if actor.Role != models.RoleAdmin && event.CreatedBy != actor.ID {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "only the creator or an admin can modify this event")
	}
	return actor, event, nil
}

// setEventTimes validates the date range and normalises optional clock times.
func setEventTimes(e *models.Event, start, end *string) error {
	if e.EndDate != nil && !e.EndDate.IsZero() && e.EndDate.Before(e.StartDate.Time) {
		return appErrors.Clone(appErrors.ErrValidation, "end_date must not be before start_date")
	}
	e.StartTime, e.EndTime = nil, nil
	if e.IsAllDay {
		return nil
	}
	if deref(start) != "" {
		clock, err := models.ClockTime(*start)
		if err != nil {
			return appErrors.Validation(err, "invalid start_time")
		}
		e.StartTime = &clock
	}
	if deref(end) != "" {
		clock, err := models.ClockTime(*end)
		if err != nil {
			return appErrors.Validation(err, "invalid end_time")
		}
		e.EndTime = &clock
	}
	if e.StartTime != nil && e.EndTime != nil && e.LastDay().Equal(e.StartDate.Time) && *e.EndTime <= *e.StartTime {
		return appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}
	return nil
}

// notify announces non-personal events to their class, or else their course.
func (s *EventService) notify(ctx context.Context, e *models.EventDetail, title string, link bool) {
	if s.notifier == nil || e.IsPersonal {
		return
	}
	var audience models.Audience
	switch {
	case deref(e.Class) != "":
		audience.Class = *e.Class
	case deref(e.CourseID) != "":
		audience.CourseID = *e.CourseID
	default:
		return
	}
	event := models.NotificationEvent{
		Type:     models.NotifEvent,
		Title:    title,
		Message:  fmt.Sprintf("%s on %s", e.Title, e.StartDate),
		ActorID:  e.CreatedBy,
		Meta:     map[string]interface{}{"event_id": e.ID, "start_date": e.StartDate.String(), "priority": e.Priority},
		Audience: audience,
	}
	if link {
		event.Links.EventID = e.ID
	}
	s.notifier.Notify(ctx, event)
}

// Month groups a month's visible events by day; a failed read yields an empty calendar.
func (s *EventService) Month(ctx context.Context, year, month int, userID string) (*dto.CalendarMonth, error) {
	from, to, err := monthWindow(year, month)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.List(ctx, models.EventFilter{UserID: userID, From: &from, To: &to})
	events = degradeToEmpty(s.logger, "calendar_month", events, err, []models.EventDetail{})

	cal := &dto.CalendarMonth{
		EventsByDate: make(map[string][]models.EventDetail),
		TotalEvents:  len(events),
		Year:         year,
		Month:        month,
	}
	for _, ev := range events {
		first, last := ev.StartDate.Time, ev.LastDay().Time
		if first.Before(from.Time) {
			first = from.Time
		}
		if last.After(to.Time) {
			last = to.Time
		}
		for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
			key := d.Format(models.DateLayout)
			cal.EventsByDate[key] = append(cal.EventsByDate[key], ev)
		}
	}
	return cal, nil
}

// ICS renders a month's visible events as an iCalendar feed.
func (s *EventService) ICS(ctx context.Context, year, month int, userID string) ([]byte, error) {
	from, to, err := monthWindow(year, month)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.List(ctx, models.EventFilter{UserID: userID, From: &from, To: &to})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load events")
	}

	out := make([]export.CalendarEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, s.calendarEvent(ev))
	}
	name := fmt.Sprintf("AIE Portal %04d-%02d", year, month)
	return export.RenderICS(name, out, s.now().UTC()), nil
}

func (s *EventService) calendarEvent(ev models.EventDetail) export.CalendarEvent {
	ce := export.CalendarEvent{
		UID:         ev.ID + "@aie-portal",
		Summary:     ev.Title,
		Description: deref(ev.Description),
		Location:    deref(ev.Location),
	}
	if ev.IsAllDay || ev.StartTime == nil {
		ce.AllDay = true
		ce.Start, ce.End = ev.StartDate.Time, ev.LastDay().Time
		return ce
	}
	ce.Start = s.at(ev.StartDate, *ev.StartTime)
	if ev.EndTime != nil {
		ce.End = s.at(ev.LastDay(), *ev.EndTime)
	} else {
		ce.End = ce.Start.Add(time.Hour)
	}
	return ce
}

// at combines a date and an HH:MM:SS clock in the configured location.
func (s *EventService) at(d models.Date, clock string) time.Time {
	t, err := time.Parse("15:04:05", clock)
	if err != nil {
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, s.loc)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), 0, s.loc)
}
