package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/aie-portal-api/internal/dto"
	"github.com/noah-isme/aie-portal-api/internal/models"
)

type todayLister interface {
	TodayClasses(ctx context.Context, req models.TimetableScope) (*DaySchedule, error)
}

type upcomingLister interface {
	Upcoming(ctx context.Context, q AssignmentQuery) ([]models.AssignmentDetail, error)
}

type inboxReader interface {
	List(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
}

type activityCounter interface {
	ActivityStats(ctx context.Context, id string) (*models.UserActivityStats, error)
}

// DashboardServiceConfig tunes dashboard section sizes.
type DashboardServiceConfig struct {
	UpcomingAssignmentsLimit int
	RecentNotificationsLimit int
}

// DashboardService composes the landing page from the other services.
type DashboardService struct {
	users         actorLookup
	activity      activityCounter
	timetable     todayLister
	assignments   upcomingLister
	notifications inboxReader
	logger        *zap.Logger
	cfg           DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Users         actorLookup
	Activity      activityCounter
	Timetable     todayLister
	Assignments   upcomingLister
	Notifications inboxReader
	Logger        *zap.Logger
	Config        DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := params.Config
	if cfg.UpcomingAssignmentsLimit <= 0 {
		cfg.UpcomingAssignmentsLimit = 5
	}
	if cfg.RecentNotificationsLimit <= 0 {
		cfg.RecentNotificationsLimit = 5
	}
	return &DashboardService{
		users:         params.Users,
		activity:      params.Activity,
		timetable:     params.Timetable,
		assignments:   params.Assignments,
		notifications: params.Notifications,
		logger:        logger,
		cfg:           cfg,
	}
}

// Get builds the dashboard for userID. Only an unknown or missing user is an error; every
// section falls back to its empty value on its own.
func (s *DashboardService) Get(ctx context.Context, userID string) (*dto.DashboardResponse, error) {
	user, err := requireActor(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	var (
		scope      models.TimetableScope
		assignment AssignmentQuery
	)
	switch user.Role {
	case models.RoleStudent:
		scope.StudentID, assignment.StudentID = user.ID, user.ID
	case models.RoleFaculty:
		scope.FacultyID, assignment.FacultyID = user.ID, user.ID
	}
	assignment.Limit = uint64(s.cfg.UpcomingAssignmentsLimit)

	resp := &dto.DashboardResponse{
		TodayClasses:        []models.ResolvedClass{},
		UpcomingAssignments: []models.AssignmentDetail{},
		RecentNotifications: []models.Notification{},
		UserStats: dto.DashboardStats{
			CGPA:         user.CGPA,
			TotalCredits: user.TotalCredits,
		},
	}

	var classes []models.ResolvedClass
	today, err := s.timetable.TodayClasses(ctx, scope)
	if err == nil {
		classes = today.Classes
	}
	resp.TodayClasses = degradeToEmpty(s.logger, "today_classes", classes, err, resp.TodayClasses)
	resp.CurrentClass, resp.NextClass = pickCurrentAndNext(resp.TodayClasses)

	upcoming, err := s.assignments.Upcoming(ctx, assignment)
	resp.UpcomingAssignments = degradeToEmpty(s.logger, "upcoming_assignments", upcoming, err, resp.UpcomingAssignments)

	unread, err := s.notifications.UnreadCount(ctx, user.ID)
	resp.UnreadNotifications = degradeToEmpty(s.logger, "unread_notifications", unread, err, 0)

	recent, err := s.notifications.List(ctx, user.ID, false)
	recent = degradeToEmpty(s.logger, "recent_notifications", recent, err, resp.RecentNotifications)
	if len(recent) > s.cfg.RecentNotificationsLimit {
		recent = recent[:s.cfg.RecentNotificationsLimit]
	}
	resp.RecentNotifications = recent

	counts, err := s.activity.ActivityStats(ctx, user.ID)
	counts = degradeToEmpty(s.logger, "user_stats", counts, err, &models.UserActivityStats{})
	resp.UserStats.EnrolledCourses = counts.EnrollmentsCount
	resp.UserStats.CompletedAssignments = counts.SubmissionsCount
	resp.UserStats.PendingAssignments = len(resp.UpcomingAssignments)

	return resp, nil
}
