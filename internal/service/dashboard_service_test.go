package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aie-portal-api/internal/models"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
)

type fakeToday struct {
	schedule *DaySchedule
	err      error
	scope    models.TimetableScope
}

func (f *fakeToday) TodayClasses(ctx context.Context, req models.TimetableScope) (*DaySchedule, error) {
	f.scope = req
	return f.schedule, f.err
}

type fakeUpcoming struct {
	items []models.AssignmentDetail
	err   error
	query AssignmentQuery
}

func (f *fakeUpcoming) Upcoming(ctx context.Context, q AssignmentQuery) ([]models.AssignmentDetail, error) {
	f.query = q
	return f.items, f.err
}

type fakeInbox struct {
	items   []models.Notification
	listErr error
	unread  int
}

func (f *fakeInbox) List(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	return f.items, f.listErr
}

func (f *fakeInbox) UnreadCount(ctx context.Context, userID string) (int, error) {
	return f.unread, nil
}

type fakeActivity struct {
	stats *models.UserActivityStats
	err   error
}

func (f *fakeActivity) ActivityStats(ctx context.Context, id string) (*models.UserActivityStats, error) {
	return f.stats, f.err
}

func TestDashboardComposesSections(t *testing.T) {
	cgpa := 3.6
	student := newUser("stu-1", models.RoleStudent, "AIE-A")
	student.CGPA = &cgpa

	today := &fakeToday{schedule: &DaySchedule{Classes: []models.ResolvedClass{
		{ClassSession: session("1", "AIE-A", models.Monday, "09:00:00", "10:00:00"), Status: models.StatusCompleted},
		{ClassSession: session("2", "AIE-A", models.Monday, "10:00:00", "11:00:00"), Status: models.StatusOngoing},
		{ClassSession: session("3", "AIE-A", models.Monday, "12:00:00", "13:00:00"), Status: models.StatusUpcoming},
	}}}
	upcoming := &fakeUpcoming{items: []models.AssignmentDetail{{}, {}}}
	inbox := &fakeInbox{items: make([]models.Notification, 8), unread: 3}

	svc := NewDashboardService(DashboardServiceParams{
		Users:         stubUsers{"stu-1": student},
		Activity:      &fakeActivity{stats: &models.UserActivityStats{EnrollmentsCount: 4, SubmissionsCount: 7}},
		Timetable:     today,
		Assignments:   upcoming,
		Notifications: inbox,
	})

	resp, err := svc.Get(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, "stu-1", today.scope.StudentID)
	assert.Equal(t, "stu-1", upcoming.query.StudentID)
	assert.Equal(t, uint64(5), upcoming.query.Limit)

	require.NotNil(t, resp.CurrentClass)
	require.NotNil(t, resp.NextClass)
	assert.Equal(t, "2", resp.CurrentClass.ID)
	assert.Equal(t, "3", resp.NextClass.ID)
	assert.Len(t, resp.TodayClasses, 3)
	assert.Len(t, resp.UpcomingAssignments, 2)
	assert.Len(t, resp.RecentNotifications, 5)
	assert.Equal(t, 3, resp.UnreadNotifications)
	assert.Equal(t, 4, resp.UserStats.EnrolledCourses)
	assert.Equal(t, 7, resp.UserStats.CompletedAssignments)
	assert.Equal(t, 2, resp.UserStats.PendingAssignments)
	assert.Equal(t, &cgpa, resp.UserStats.CGPA)
}

func TestDashboardSectionsDegradeIndependently(t *testing.T) {
	svc := NewDashboardService(DashboardServiceParams{
		Users:         stubUsers{"fac-1": newUser("fac-1", models.RoleFaculty, "")},
		Activity:      &fakeActivity{err: errors.New("stats down")},
		Timetable:     &fakeToday{err: errors.New("timetable down")},
		Assignments:   &fakeUpcoming{err: errors.New("assignments down")},
		Notifications: &fakeInbox{listErr: errors.New("inbox down"), unread: 1},
	})

	resp, err := svc.Get(context.Background(), "fac-1")
	require.NoError(t, err)
	assert.NotNil(t, resp.TodayClasses)
	assert.Empty(t, resp.TodayClasses)
	assert.Nil(t, resp.CurrentClass)
	assert.Empty(t, resp.UpcomingAssignments)
	assert.NotNil(t, resp.RecentNotifications)
	assert.Equal(t, 1, resp.UnreadNotifications)
	assert.Equal(t, 0, resp.UserStats.EnrolledCourses)
}

func TestDashboardRequiresKnownUser(t *testing.T) {
	svc := NewDashboardService(DashboardServiceParams{Users: stubUsers{}})

	_, err := svc.Get(context.Background(), "")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	_, err = svc.Get(context.Background(), "ghost")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
