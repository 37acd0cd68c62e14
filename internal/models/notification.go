package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Notification types.
const (
	NotifAssignment    = "assignment"
	NotifEvent         = "event"
	NotifTimetable     = "timetable"
	NotifSaturdayClass = "saturday_class"
	NotifResource      = "resource"
	NotifFriendRequest = "friend_request"
	NotifChat          = "chat"
)

// Notification is a row of notifications.
type Notification struct {
	ID            string         `db:"id" json:"id"`
	RecipientID   string         `db:"recipient_id" json:"recipient_id"`
	ActorID       *string        `db:"actor_id" json:"actor_id"`
	NotifType     string         `db:"notif_type" json:"notif_type"`
	Title         string         `db:"title" json:"title"`
	Message       *string        `db:"message" json:"message"`
	Meta          types.JSONText `db:"meta" json:"meta"`
	IsRead        bool           `db:"is_read" json:"is_read"`
	ResourceID    *string        `db:"resource_id" json:"resource_id"`
	AssignmentID  *string        `db:"assignment_id" json:"assignment_id"`
	EventID       *string        `db:"event_id" json:"event_id"`
	TimetableID   *string        `db:"timetable_id" json:"timetable_id"`
	SaturdayRowID *string        `db:"saturday_row_id" json:"saturday_row_id"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}

// NotificationLinks are the optional foreign keys a notification points at.
type NotificationLinks struct {
	ResourceID    string
	AssignmentID  string
	EventID       string
	TimetableID   string
	SaturdayRowID string
}

// Audience selects recipients: explicit users, the students of a class, or a course's enrolled
// students. When several are set they are unioned.
type Audience struct {
	UserIDs  []string
	Class    string
	CourseID string
}

// Empty reports whether the audience selects nobody.
func (a Audience) Empty() bool {
	return len(a.UserIDs) == 0 && a.Class == "" && a.CourseID == ""
}

// NotificationEvent is published by mutating operations and fanned out asynchronously.
type NotificationEvent struct {
	Type     string
	Title    string
	Message  string
	ActorID  string
	Meta     map[string]interface{}
	Links    NotificationLinks
	Audience Audience
}

// NotificationFilter narrows a user's inbox.
type NotificationFilter struct {
	RecipientID string
	UnreadOnly  bool
	Limit       uint64
}
