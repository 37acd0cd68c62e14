package dto

import "github.com/noah-isme/aie-portal-api/internal/models"

// DashboardStats summarises a user's standing.
type DashboardStats struct {
	EnrolledCourses      int      `json:"enrolled_courses"`
	PendingAssignments   int      `json:"pending_assignments"`
	CompletedAssignments int      `json:"completed_assignments"`
	CGPA                 *float64 `json:"cgpa"`
	TotalCredits         *int     `json:"total_credits"`
}

// DashboardResponse is the landing page payload. Each section degrades to its zero value
// independently when its query fails.
type DashboardResponse struct {
	TodayClasses        []models.ResolvedClass    `json:"today_classes"`
	CurrentClass        *models.ResolvedClass     `json:"current_class"`
	NextClass           *models.ResolvedClass     `json:"next_class"`
	UpcomingAssignments []models.AssignmentDetail `json:"upcoming_assignments"`
	UnreadNotifications int                       `json:"unread_notifications"`
	RecentNotifications []models.Notification     `json:"recent_notifications"`
	UserStats           DashboardStats            `json:"user_stats"`
}
