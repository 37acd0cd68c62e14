package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aie-portal-api/internal/models"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
)

type mockAssignmentRepo struct {
	assignments map[string]*models.AssignmentDetail
	submissions map[string]*models.Submission
	lastFilter  models.AssignmentFilter
	deleted     []string
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{
		assignments: map[string]*models.AssignmentDetail{},
		submissions: map[string]*models.Submission{},
	}
}

func (m *mockAssignmentRepo) List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, error) {
	m.lastFilter = filter
	out := make([]models.AssignmentDetail, 0, len(m.assignments))
	for _, a := range m.assignments {
		out = append(out, *a)
	}
	return out, nil
}

func (m *mockAssignmentRepo) FindByID(ctx context.Context, id string) (*models.AssignmentDetail, error) {
	if a, ok := m.assignments[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAssignmentRepo) Create(ctx context.Context, a *models.Assignment) error {
	a.ID = "asg-new"
	m.assignments[a.ID] = &models.AssignmentDetail{Assignment: *a}
	return nil
}

func (m *mockAssignmentRepo) Update(ctx context.Context, a *models.Assignment) error {
	if _, ok := m.assignments[a.ID]; !ok {
		return sql.ErrNoRows
	}
	m.assignments[a.ID].Assignment = *a
	return nil
}

func (m *mockAssignmentRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.assignments, id)
	return nil
}

func (m *mockAssignmentRepo) FindSubmission(ctx context.Context, assignmentID, studentID string) (*models.Submission, error) {
	if s, ok := m.submissions[assignmentID+"/"+studentID]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAssignmentRepo) CreateSubmission(ctx context.Context, s *models.Submission) error {
	s.ID = "sub-1"
	m.submissions[s.AssignmentID+"/"+s.StudentID] = s
	return nil
}

func (m *mockAssignmentRepo) UpdateSubmission(ctx context.Context, s *models.Submission) error {
	return nil
}

func (m *mockAssignmentRepo) DeleteSubmission(ctx context.Context, id string) error {
	return nil
}

func newAssignmentService(repo *mockAssignmentRepo, notifier Notifier, now time.Time) *AssignmentService {
	users := stubUsers{
		"fac-1": newUser("fac-1", models.RoleFaculty, ""),
		"fac-2": newUser("fac-2", models.RoleFaculty, ""),
		"adm-1": newUser("adm-1", models.RoleAdmin, ""),
		"stu-1": newUser("stu-1", models.RoleStudent, "AIE-A"),
	}
	svc := NewAssignmentService(repo, stubCourses{"course-1": {}}, users, notifier, nil, nil)
	svc.now = func() time.Time { return now }
	return svc
}

func TestAnnotateAssignmentStatus(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		due    time.Time
		status models.AssignmentStatus
		days   int
	}{
		{now.Add(-time.Hour), models.AssignmentOverdue, 0},
		{now.Add(-49 * time.Hour), models.AssignmentOverdue, -2},
		{now.Add(2 * time.Hour), models.AssignmentDueSoon, 1},
		{now.Add(72 * time.Hour), models.AssignmentDueSoon, 3},
		{now.Add(80 * time.Hour), models.AssignmentUpcoming, 4},
	}
	for _, tc := range cases {
		a := &models.AssignmentDetail{Assignment: models.Assignment{DueDate: tc.due}}
		annotateAssignment(a, now)
		assert.Equal(t, tc.status, a.Status, tc.due.String())
		assert.Equal(t, tc.days, a.DaysUntilDue, tc.due.String())
	}
}

func TestAssignmentListScopesStudentToClass(t *testing.T) {
	repo := newMockAssignmentRepo()
	svc := newAssignmentService(repo, nil, time.Now())

	_, err := svc.List(context.Background(), AssignmentQuery{StudentID: "stu-1"})
	require.NoError(t, err)
	assert.Equal(t, "stu-1", repo.lastFilter.StudentID)
	assert.Equal(t, "AIE-A", repo.lastFilter.StudentClass)

	_, err = svc.Upcoming(context.Background(), AssignmentQuery{FacultyID: "fac-1"})
	require.NoError(t, err)
	assert.Equal(t, "fac-1", repo.lastFilter.CreatedBy)
	assert.True(t, repo.lastFilter.Ascending)
	assert.NotNil(t, repo.lastFilter.DueAfter)
}

func TestAssignmentCreateRequiresFacultyAndNotifiesClass(t *testing.T) {
	repo := newMockAssignmentRepo()
	notifier := &recordingNotifier{}
	svc := newAssignmentService(repo, notifier, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	section := "AIE-A"

	_, err := svc.Create(context.Background(), models.AssignmentRequest{
		CourseID: "course-1", Title: "Lab 1", DueDate: "2025-03-12", CreatedBy: "stu-1",
	})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	_, err = svc.Create(context.Background(), models.AssignmentRequest{
		CourseID: "course-1", Title: "Lab 1", DueDate: "next week", CreatedBy: "fac-1",
	})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	created, err := svc.Create(context.Background(), models.AssignmentRequest{
		CourseID: "course-1", Section: &section, Title: "Lab 1", DueDate: "2025-03-12T23:59:00Z", CreatedBy: "fac-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "AIE-A", deref(created.Class))
	assert.Equal(t, models.AssignmentDueSoon, created.Status)

	ev := notifier.last()
	assert.Equal(t, models.NotifAssignment, ev.Type)
	assert.Equal(t, "AIE-A", ev.Audience.Class)
	assert.Equal(t, "asg-new", ev.Links.AssignmentID)
	assert.Equal(t, "fac-1", ev.ActorID)
}

func TestAssignmentWithoutClassNotifiesCourse(t *testing.T) {
	repo := newMockAssignmentRepo()
	notifier := &recordingNotifier{}
	svc := newAssignmentService(repo, notifier, time.Now())

	_, err := svc.Create(context.Background(), models.AssignmentRequest{
		CourseID: "course-1", Title: "Essay", DueDate: "2030-01-01", CreatedBy: "adm-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "course-1", notifier.last().Audience.CourseID)
	assert.Empty(t, notifier.last().Audience.Class)
}

func TestAssignmentUpdateAndDeleteOwnership(t *testing.T) {
	repo := newMockAssignmentRepo()
	owner := "fac-1"
	repo.assignments["a1"] = &models.AssignmentDetail{Assignment: models.Assignment{
		ID: "a1", CourseID: "course-1", Title: "Quiz", CreatedBy: &owner, DueDate: time.Now().Add(240 * time.Hour),
	}}
	notifier := &recordingNotifier{}
	svc := newAssignmentService(repo, notifier, time.Now())
	title := "Quiz 2"

	_, err := svc.Update(context.Background(), "a1", models.AssignmentUpdateRequest{Title: &title, UserID: "fac-2"})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	_, err = svc.Update(context.Background(), "a1", models.AssignmentUpdateRequest{Title: &title})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	updated, err := svc.Update(context.Background(), "a1", models.AssignmentUpdateRequest{Title: &title, UserID: "fac-1"})
	require.NoError(t, err)
	assert.Equal(t, "Quiz 2", updated.Title)

	require.NoError(t, svc.Delete(context.Background(), "a1", "adm-1"))
	assert.Equal(t, []string{"a1"}, repo.deleted)
	ev := notifier.last()
	assert.Empty(t, ev.Links.AssignmentID)
	assert.Equal(t, "a1", ev.Meta["assignment_id"])

	err = svc.Delete(context.Background(), "a1", "adm-1")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestAssignmentSubmitTwiceConflicts(t *testing.T) {
	repo := newMockAssignmentRepo()
	repo.assignments["a1"] = &models.AssignmentDetail{Assignment: models.Assignment{ID: "a1", CourseID: "course-1"}}
	svc := newAssignmentService(repo, nil, time.Now())
	content := "answer"

	submission, err := svc.Submit(context.Background(), "a1", models.SubmissionRequest{StudentID: "stu-1", Content: &content})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionSubmitted, submission.Status)

	_, err = svc.Submit(context.Background(), "a1", models.SubmissionRequest{StudentID: "stu-1", Content: &content})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	_, err = svc.Submit(context.Background(), "missing", models.SubmissionRequest{StudentID: "stu-1"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.Submission(context.Background(), "a1", "")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	graded := repo.submissions["a1/stu-1"]
	graded.Status = models.SubmissionGraded
	_, err = svc.UpdateSubmission(context.Background(), "a1", models.SubmissionRequest{StudentID: "stu-1", Content: &content})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
}
