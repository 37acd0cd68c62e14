package models

import "time"

// Event priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	DefaultEventColor = "#3b82f6"
)

// Event is a row of events.
type Event struct {
	ID           string    `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Description  *string   `db:"description" json:"description"`
	StartDate    Date      `db:"start_date" json:"start_date"`
	EndDate      *Date     `db:"end_date" json:"end_date"`
	StartTime    *string   `db:"start_time" json:"start_time"`
	EndTime      *string   `db:"end_time" json:"end_time"`
	IsAllDay     bool      `db:"is_all_day" json:"is_all_day"`
	EventType    string    `db:"event_type" json:"event_type"`
	Priority     string    `db:"priority" json:"priority"`
	Color        string    `db:"color" json:"color"`
	Location     *string   `db:"location" json:"location"`
	CourseID     *string   `db:"course_id" json:"course_id"`
	AssignmentID *string   `db:"assignment_id" json:"assignment_id"`
	Class        *string   `db:"class" json:"class"`
	CreatedBy    string    `db:"created_by" json:"created_by"`
	IsPersonal   bool      `db:"is_personal" json:"is_personal"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// LastDay is EndDate, or StartDate for single-day events.
func (e *Event) LastDay() Date {
	if e.EndDate != nil && !e.EndDate.IsZero() {
		return *e.EndDate
	}
	return e.StartDate
}

// EventDetail adds course and creator names.
type EventDetail struct {
	Event
	CourseName  *string `db:"course_name" json:"course_name"`
	CreatorName *string `db:"creator_name" json:"creator_name"`
}

// EventFilter narrows event listings. A non-empty UserID includes that user's personal events
// alongside public ones; From/To select events overlapping the window.
type EventFilter struct {
	UserID    string
	From      *Date
	To        *Date
	OnlyMine  bool
	CourseID  string
	EventType string
}

// EventRequest creates an event.
type EventRequest struct {
	Title        string  `json:"title" validate:"required"`
	Description  *string `json:"description"`
	StartDate    Date    `json:"start_date" validate:"required"`
	EndDate      *Date   `json:"end_date"`
	StartTime    *string `json:"start_time"`
	EndTime      *string `json:"end_time"`
	IsAllDay     bool    `json:"is_all_day"`
	EventType    string  `json:"event_type"`
	Priority     string  `json:"priority" validate:"omitempty,oneof=low medium high"`
	Color        string  `json:"color" validate:"omitempty,hexcolor"`
	Location     *string `json:"location"`
	CourseID     *string `json:"course_id"`
	AssignmentID *string `json:"assignment_id"`
	Class        *string `json:"class"`
	CreatedBy    string  `json:"created_by" validate:"required"`
	IsPersonal   bool    `json:"is_personal"`
}

// EventUpdateRequest patches an event; UserID is the acting user.
type EventUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	StartDate   *Date   `json:"start_date"`
	EndDate     *Date   `json:"end_date"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	IsAllDay    *bool   `json:"is_all_day"`
	EventType   *string `json:"event_type"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
	Location    *string `json:"location"`
	CourseID    *string `json:"course_id"`
	Class       *string `json:"class"`
	IsPersonal  *bool   `json:"is_personal"`
	UserID      string  `json:"user_id"`
}
