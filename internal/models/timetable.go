package models

import (
	"fmt"
	"strings"
	"time"
)

// DayOfWeek is the lower-case weekday name used by timetable rows.
type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
	Sunday    DayOfWeek = "sunday"
)

// WeekDays lists Monday through Sunday in order.
var WeekDays = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// DayOfWeekFrom converts a time.Weekday.
func DayOfWeekFrom(w time.Weekday) DayOfWeek {
	if w == time.Sunday {
		return Sunday
	}
	return WeekDays[int(w)-1]
}

// ParseDayOfWeek accepts any letter case.
func ParseDayOfWeek(raw string) (DayOfWeek, bool) {
	d := DayOfWeek(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range WeekDays {
		if d == known {
			return d, true
		}
	}
	return "", false
}

// ClassStatus is the live state of a class relative to the wall clock.
type ClassStatus string

const (
	StatusUpcoming  ClassStatus = "upcoming"
	StatusOngoing   ClassStatus = "ongoing"
	StatusCompleted ClassStatus = "completed"
)

// TimetableEntry is a row of timetable: one weekly recurring class.
type TimetableEntry struct {
	ID        string    `db:"id" json:"id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Room      *string   `db:"room" json:"room"`
	Class     string    `db:"class" json:"class"`
	DayOfWeek DayOfWeek `db:"day_of_week" json:"day_of_week"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ClassSession is a timetable entry joined with its course.
type ClassSession struct {
	TimetableEntry
	CourseName *string `db:"course_name" json:"course_name"`
	CourseCode *string `db:"course_code" json:"course_code"`
	FacultyID  *string `db:"faculty_id" json:"faculty_id"`
}

// ResolvedClass is a session placed on a concrete date. DayOfWeek holds the weekday whose
// timetable applied, which differs from the calendar day when a Saturday override is in force.
type ResolvedClass struct {
	ClassSession
	Date        string      `json:"date"`
	FollowedDay *DayOfWeek  `json:"followed_day,omitempty"`
	Status      ClassStatus `json:"status"`
}

// SaturdayOverride is a row of saturday_class: on Date, Class follows the TTFollowed timetable.
type SaturdayOverride struct {
	ID         string    `db:"id" json:"id"`
	Date       Date      `db:"date" json:"date"`
	Class      string    `db:"class" json:"class"`
	TTFollowed DayOfWeek `db:"tt_followed" json:"tt_followed"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// TimetableFilter narrows timetable lookups. FacultyID restricts to that faculty's courses.
type TimetableFilter struct {
	Class     string
	FacultyID string
	CourseID  string
	Day       DayOfWeek
}

// TimetableScope is what a client asks for: an explicit class, a student, or a faculty member.
type TimetableScope struct {
	Class     string `form:"class"`
	Section   string `form:"section"`
	StudentID string `form:"student_id"`
	FacultyID string `form:"faculty_id"`
}

// TimetableRequest creates or replaces a timetable entry. Section is accepted as an alias of Class.
type TimetableRequest struct {
	CourseID  string  `json:"course_id" validate:"required"`
	Room      *string `json:"room"`
	Class     string  `json:"class"`
	Section   string  `json:"section"`
	DayOfWeek string  `json:"day_of_week" validate:"required"`
	StartTime string  `json:"start_time" validate:"required"`
	EndTime   string  `json:"end_time" validate:"required"`
	UserID    string  `json:"user_id"`
}

// ClassCode returns Class or, when empty, Section.
func (r TimetableRequest) ClassCode() string {
	return firstNonEmpty(r.Class, r.Section)
}

// TimetableUpdateRequest patches a timetable entry.
type TimetableUpdateRequest struct {
	CourseID  *string `json:"course_id"`
	Room      *string `json:"room"`
	Class     *string `json:"class"`
	Section   *string `json:"section"`
	DayOfWeek *string `json:"day_of_week"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	UserID    string  `json:"user_id"`
}

// SaturdayOverrideRequest declares which weekday a class follows on a Saturday.
type SaturdayOverrideRequest struct {
	Date       string `json:"date" validate:"required"`
	Class      string `json:"class"`
	Section    string `json:"section"`
	TTFollowed string `json:"tt_followed" validate:"required"`
	UserID     string `json:"user_id"`
}

// ClassCode returns Class or, when empty, Section.
func (r SaturdayOverrideRequest) ClassCode() string {
	return firstNonEmpty(r.Class, r.Section)
}

// WeeklyTimetable groups sessions by weekday.
type WeeklyTimetable map[DayOfWeek][]ClassSession

// ClockTime parses "HH:MM" or "HH:MM:SS" and returns the canonical "HH:MM:SS" form.
func ClockTime(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", fmt.Errorf("invalid time %q, expected HH:MM or HH:MM:SS", raw)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
