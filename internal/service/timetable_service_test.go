package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aie-portal-api/internal/models"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
)

type mockTimetableRepo struct {
	sessions  []models.ClassSession
	overrides []models.SaturdayOverride
	listErr   error
	created   *models.TimetableEntry
	listCalls int
}

func (m *mockTimetableRepo) List(ctx context.Context, filter models.TimetableFilter) ([]models.ClassSession, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.ClassSession
	for _, s := range m.sessions {
		if filter.Class != "" && s.Class != filter.Class {
			continue
		}
		if filter.Day != "" && s.DayOfWeek != filter.Day {
			continue
		}
		if filter.CourseID != "" && s.CourseID != filter.CourseID {
			continue
		}
		if filter.FacultyID != "" && deref(s.FacultyID) != filter.FacultyID {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *mockTimetableRepo) FindByID(ctx context.Context, id string) (*models.ClassSession, error) {
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			s := m.sessions[i]
			return &s, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockTimetableRepo) Create(ctx context.Context, entry *models.TimetableEntry) error {
	entry.ID = "tt-new"
	m.created = entry
	m.sessions = append(m.sessions, models.ClassSession{TimetableEntry: *entry})
	return nil
}

func (m *mockTimetableRepo) Update(ctx context.Context, entry *models.TimetableEntry) error {
	for i := range m.sessions {
		if m.sessions[i].ID == entry.ID {
			m.sessions[i].TimetableEntry = *entry
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockTimetableRepo) Delete(ctx context.Context, id string) error {
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			m.sessions = append(m.sessions[:i], m.sessions[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockTimetableRepo) ListOverrides(ctx context.Context, date *models.Date, class string) ([]models.SaturdayOverride, error) {
	var out []models.SaturdayOverride
	for _, o := range m.overrides {
		if date != nil && o.Date.String() != date.String() {
			continue
		}
		if class != "" && o.Class != class {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (m *mockTimetableRepo) FindOverride(ctx context.Context, id string) (*models.SaturdayOverride, error) {
	for i := range m.overrides {
		if m.overrides[i].ID == id {
			o := m.overrides[i]
			return &o, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockTimetableRepo) OverrideExists(ctx context.Context, date models.Date, class, excludeID string) (bool, error) {
	for _, o := range m.overrides {
		if o.Date.String() == date.String() && o.Class == class && o.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTimetableRepo) CreateOverride(ctx context.Context, override *models.SaturdayOverride) error {
	override.ID = "sat-new"
	m.overrides = append(m.overrides, *override)
	return nil
}

func (m *mockTimetableRepo) UpdateOverride(ctx context.Context, override *models.SaturdayOverride) error {
	for i := range m.overrides {
		if m.overrides[i].ID == override.ID {
			m.overrides[i] = *override
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockTimetableRepo) DeleteOverride(ctx context.Context, id string) error {
	return nil
}

type stubCourses map[string]*models.CourseDetail

func (s stubCourses) FindByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	if c, ok := s[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func session(id, class string, day models.DayOfWeek, start, end string) models.ClassSession {
	code := "CS" + id
	return models.ClassSession{
		TimetableEntry: models.TimetableEntry{ID: id, CourseID: "course-" + id, Class: class, DayOfWeek: day, StartTime: start, EndTime: end},
		CourseCode:     &code,
	}
}

func mustDate(t *testing.T, raw string) models.Date {
	t.Helper()
	d, err := models.ParseDate(raw)
	require.NoError(t, err)
	return d
}

func newTimetableService(repo *mockTimetableRepo, notifier Notifier, now time.Time) *TimetableService {
	users := stubUsers{
		"stu-a": newUser("stu-a", models.RoleStudent, "AIE-A"),
		"stu-x": newUser("stu-x", models.RoleStudent, ""),
	}
	courses := stubCourses{"course-1": {}}
	svc := NewTimetableService(repo, courses, users, notifier, nil, nil, time.UTC)
	svc.now = func() time.Time { return now }
	return svc
}

func fixtureTimetable() *mockTimetableRepo {
	return &mockTimetableRepo{
		sessions: []models.ClassSession{
			session("1", "AIE-A", models.Monday, "10:00:00", "11:00:00"),
			session("2", "AIE-A", models.Monday, "09:00:00", "10:00:00"),
			session("3", "AIE-B", models.Monday, "09:00:00", "10:00:00"),
			session("4", "AIE-A", models.Wednesday, "13:00:00", "14:00:00"),
			session("5", "AIE-A", models.Saturday, "08:00:00", "09:00:00"),
		},
	}
}

func TestTimetableOnDateWeekdaySortedByStart(t *testing.T) {
	repo := fixtureTimetable()
	svc := newTimetableService(repo, nil, time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC))

	day, err := svc.OnDate(context.Background(), mustDate(t, "2025-01-06"), models.TimetableScope{Class: "AIE-A"})
	require.NoError(t, err)
	require.Len(t, day.Classes, 2)
	assert.Equal(t, models.Monday, day.Day)
	assert.Equal(t, "2", day.Classes[0].ID)
	assert.Equal(t, "1", day.Classes[1].ID)
	assert.Equal(t, models.StatusUpcoming, day.Classes[0].Status)
}

func TestTimetableSaturdayWithoutOverrideIsEmpty(t *testing.T) {
	repo := fixtureTimetable()
	svc := newTimetableService(repo, nil, time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC))

	day, err := svc.OnDate(context.Background(), mustDate(t, "2025-01-04"), models.TimetableScope{Class: "AIE-A"})
	require.NoError(t, err)
	assert.Empty(t, day.Classes)
	assert.Equal(t, 0, repo.listCalls)
}

func TestTimetableSaturdayFollowsOverrideForOwnClassOnly(t *testing.T) {
	repo := fixtureTimetable()
	repo.overrides = []models.SaturdayOverride{
		{ID: "sat-1", Date: mustDate(t, "2025-01-04"), Class: "AIE-A", TTFollowed: models.Monday},
	}
	svc := newTimetableService(repo, nil, time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC))

	day, err := svc.OnDate(context.Background(), mustDate(t, "2025-01-04"), models.TimetableScope{})
	require.NoError(t, err)
	require.Len(t, day.Classes, 2)
	for _, c := range day.Classes {
		assert.Equal(t, "AIE-A", c.Class)
		assert.Equal(t, models.Monday, c.DayOfWeek)
		require.NotNil(t, c.FollowedDay)
		assert.Equal(t, models.Monday, *c.FollowedDay)
		assert.Equal(t, "2025-01-04", c.Date)
	}

	other, err := svc.OnDate(context.Background(), mustDate(t, "2025-01-04"), models.TimetableScope{Class: "AIE-B"})
	require.NoError(t, err)
	assert.Empty(t, other.Classes)
}

func TestTimetableStatusBoundsAreInclusive(t *testing.T) {
	cases := []struct {
		clock string
		want  models.ClassStatus
	}{
		{"08:59:59", models.StatusUpcoming},
		{"09:00:00", models.StatusOngoing},
		{"09:30:00", models.StatusOngoing},
		{"10:00:00", models.StatusOngoing},
		{"10:01:00", models.StatusCompleted},
	}
	for _, tc := range cases {
		now, err := time.Parse("2006-01-02 15:04:05", "2025-01-06 "+tc.clock)
		require.NoError(t, err)
		assert.Equal(t, tc.want, classStatus("2025-01-06", "09:00:00", "10:00:00", now), tc.clock)
	}

	now := time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, models.StatusCompleted, classStatus("2025-01-05", "09:00:00", "10:00:00", now))
	assert.Equal(t, models.StatusUpcoming, classStatus("2025-01-07", "09:00:00", "10:00:00", now))
}

func TestTimetableCurrentAndNext(t *testing.T) {
	repo := fixtureTimetable()
	svc := newTimetableService(repo, nil, time.Date(2025, 1, 6, 9, 30, 0, 0, time.UTC))

	current, next, err := svc.CurrentAndNext(context.Background(), models.TimetableScope{StudentID: "stu-a"})
	require.NoError(t, err)
	require.NotNil(t, current)
	require.NotNil(t, next)
	assert.Equal(t, "2", current.ID)
	assert.Equal(t, "1", next.ID)
}

func TestTimetableStudentWithoutClassSeesNothing(t *testing.T) {
	repo := fixtureTimetable()
	svc := newTimetableService(repo, nil, time.Date(2025, 1, 6, 9, 30, 0, 0, time.UTC))

	classes, err := svc.List(context.Background(), models.TimetableScope{StudentID: "stu-x"})
	require.NoError(t, err)
	assert.Empty(t, classes)

	_, err = svc.List(context.Background(), models.TimetableScope{StudentID: "ghost"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestTimetableWeekHasEveryDay(t *testing.T) {
	repo := fixtureTimetable()
	svc := newTimetableService(repo, nil, time.Now())

	week, err := svc.Week(context.Background(), models.TimetableScope{Section: "AIE-A"})
	require.NoError(t, err)
	assert.Len(t, week, 7)
	assert.Len(t, week[models.Monday], 2)
	assert.Empty(t, week[models.Tuesday])
}

func TestTimetableMonthAppliesOverrides(t *testing.T) {
	repo := fixtureTimetable()
	repo.overrides = []models.SaturdayOverride{
		{ID: "sat-1", Date: mustDate(t, "2025-01-11"), Class: "AIE-A", TTFollowed: models.Wednesday},
	}
	svc := newTimetableService(repo, nil, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))

	month, err := svc.Month(context.Background(), 2025, time.January, models.TimetableScope{Class: "AIE-A"})
	require.NoError(t, err)
	assert.Len(t, month, 31)
	assert.Empty(t, month["2025-01-04"])
	require.Len(t, month["2025-01-11"], 1)
	assert.Equal(t, "4", month["2025-01-11"][0].ID)
	assert.Equal(t, models.StatusCompleted, month["2025-01-06"][0].Status)

	_, err = svc.Month(context.Background(), 2025, 13, models.TimetableScope{})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestTimetableCreateValidatesSlotAndNotifiesClass(t *testing.T) {
	repo := &mockTimetableRepo{}
	notifier := &recordingNotifier{}
	svc := newTimetableService(repo, notifier, time.Now())

	_, err := svc.Create(context.Background(), models.TimetableRequest{
		CourseID: "course-1", Class: "AIE-A", DayOfWeek: "Monday", StartTime: "10:00", EndTime: "09:00",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)

	_, err = svc.Create(context.Background(), models.TimetableRequest{
		CourseID: "course-1", Class: "AIE-A", DayOfWeek: "funday", StartTime: "09:00", EndTime: "10:00",
	})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Create(context.Background(), models.TimetableRequest{
		CourseID: "missing", Class: "AIE-A", DayOfWeek: "monday", StartTime: "09:00", EndTime: "10:00",
	})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	created, err := svc.Create(context.Background(), models.TimetableRequest{
		CourseID: "course-1", Section: "AIE-A", DayOfWeek: "Monday", StartTime: "9:00", EndTime: "10:30", UserID: "admin-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "09:00:00", created.StartTime)
	assert.Equal(t, models.Monday, created.DayOfWeek)
	require.Equal(t, 1, notifier.count())
	ev := notifier.last()
	assert.Equal(t, models.NotifTimetable, ev.Type)
	assert.Equal(t, "AIE-A", ev.Audience.Class)
	assert.Equal(t, "tt-new", ev.Links.TimetableID)
	assert.Equal(t, "admin-1", ev.ActorID)
}

func TestTimetableOverrideRules(t *testing.T) {
	repo := &mockTimetableRepo{overrides: []models.SaturdayOverride{
		{ID: "sat-1", Date: mustDate(t, "2025-01-04"), Class: "AIE-A", TTFollowed: models.Monday},
	}}
	notifier := &recordingNotifier{}
	svc := newTimetableService(repo, notifier, time.Now())
	ctx := context.Background()

	_, err := svc.CreateOverride(ctx, models.SaturdayOverrideRequest{Date: "2025-01-06", Class: "AIE-A", TTFollowed: "monday"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation), "non-saturday date")

	_, err = svc.CreateOverride(ctx, models.SaturdayOverrideRequest{Date: "2025-01-11", Class: "AIE-A", TTFollowed: "sunday"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation), "sunday timetable")

	_, err = svc.CreateOverride(ctx, models.SaturdayOverrideRequest{Date: "2025-01-04", Class: "AIE-A", TTFollowed: "tuesday"})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	created, err := svc.CreateOverride(ctx, models.SaturdayOverrideRequest{Date: "2025-01-11", Section: "AIE-A", TTFollowed: "Friday"})
	require.NoError(t, err)
	assert.Equal(t, models.Friday, created.TTFollowed)
	ev := notifier.last()
	assert.Equal(t, models.NotifSaturdayClass, ev.Type)
	assert.Equal(t, "sat-new", ev.Links.SaturdayRowID)
	assert.Equal(t, "AIE-A", ev.Audience.Class)

	updated, err := svc.UpdateOverride(ctx, "sat-1", models.SaturdayOverrideRequest{TTFollowed: "thursday"})
	require.NoError(t, err)
	assert.Equal(t, models.Thursday, updated.TTFollowed)
	assert.Equal(t, "2025-01-04", updated.Date.String())

	err = svc.DeleteOverride(ctx, "missing", "")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestTimetableExportWeekRejectsUnknownFormat(t *testing.T) {
	svc := newTimetableService(fixtureTimetable(), nil, time.Now())

	_, err := svc.ExportWeek(context.Background(), models.TimetableScope{Class: "AIE-A"}, "docx")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	doc, err := svc.ExportWeek(context.Background(), models.TimetableScope{Class: "AIE-A"}, "csv")
	require.NoError(t, err)
	assert.Contains(t, string(doc.Data), "CS1")
}
