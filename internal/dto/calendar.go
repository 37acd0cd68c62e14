package dto

import "github.com/noah-isme/aie-portal-api/internal/models"

// CalendarMonth groups a month's events by day. Multi-day events appear under every day
// they cover within the month.
type CalendarMonth struct {
	EventsByDate map[string][]models.EventDetail `json:"events_by_date"`
	TotalEvents  int                             `json:"total_events"`
	Year         int                             `json:"year"`
	Month        int                             `json:"month"`
}

// MonthlyClasses maps each date of a month to its resolved classes.
type MonthlyClasses map[string][]models.ResolvedClass
