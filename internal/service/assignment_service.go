package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/aie-portal-api/internal/models"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
)

// dueSoonDays is the window in which an assignment counts as due soon.
const dueSoonDays = 3

type assignmentRepository interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, error)
	FindByID(ctx context.Context, id string) (*models.AssignmentDetail, error)
	Create(ctx context.Context, a *models.Assignment) error
	Update(ctx context.Context, a *models.Assignment) error
	Delete(ctx context.Context, id string) error
	FindSubmission(ctx context.Context, assignmentID, studentID string) (*models.Submission, error)
	CreateSubmission(ctx context.Context, s *models.Submission) error
	UpdateSubmission(ctx context.Context, s *models.Submission) error
	DeleteSubmission(ctx context.Context, id string) error
}

// AssignmentQuery scopes assignment listings to a student or a faculty member.
type AssignmentQuery struct {
	FacultyID string `form:"faculty_id"`
	StudentID string `form:"student_id"`
	Query     string `form:"q"`
	Limit     uint64 `form:"limit"`
}

// AssignmentService manages assignments and student submissions.
type AssignmentService struct {
	repo      assignmentRepository
	courses   courseLookup
	users     actorLookup
	notifier  Notifier
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(repo assignmentRepository, courses courseLookup, users actorLookup, notifier Notifier, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AssignmentService{
		repo:      repo,
		courses:   courses,
		users:     users,
		notifier:  notifier,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *AssignmentService) filterFor(ctx context.Context, q AssignmentQuery) (models.AssignmentFilter, error) {
	filter := models.AssignmentFilter{Query: q.Query, Limit: q.Limit}
	switch {
	case q.StudentID != "":
		student, err := s.users.FindByID(ctx, q.StudentID)
		if err != nil {
			return filter, lookupError(err, "student")
		}
		filter.StudentID = student.ID
		filter.StudentClass = deref(student.Class)
	case q.FacultyID != "":
		filter.CreatedBy = q.FacultyID
	}
	return filter, nil
}

func (s *AssignmentService) list(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, error) {
	assignments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list assignments")
	}
	now := s.now()
	for i := range assignments {
		annotateAssignment(&assignments[i], now)
	}
	return assignments, nil
}

// List returns the assignments visible to the query's student or created by its faculty member.
func (s *AssignmentService) List(ctx context.Context, q AssignmentQuery) ([]models.AssignmentDetail, error) {
	filter, err := s.filterFor(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, filter)
}

// Upcoming lists assignments due from now on, soonest first.
func (s *AssignmentService) Upcoming(ctx context.Context, q AssignmentQuery) ([]models.AssignmentDetail, error) {
	filter, err := s.filterFor(ctx, q)
	if err != nil {
		return nil, err
	}
	now := s.now()
	filter.DueAfter = &now
	filter.Ascending = true
	return s.list(ctx, filter)
}

// Overdue lists assignments whose due date has passed.
func (s *AssignmentService) Overdue(ctx context.Context, q AssignmentQuery) ([]models.AssignmentDetail, error) {
	filter, err := s.filterFor(ctx, q)
	if err != nil {
		return nil, err
	}
	now := s.now()
	filter.DueBefore = &now
	return s.list(ctx, filter)
}

// My lists a student's assignments or the ones a faculty member created.
func (s *AssignmentService) My(ctx context.Context, userID string) ([]models.AssignmentDetail, error) {
	user, err := requireActor(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleStudent {
		return s.list(ctx, models.AssignmentFilter{StudentID: user.ID, StudentClass: deref(user.Class)})
	}
	return s.list(ctx, models.AssignmentFilter{CreatedBy: user.ID})
}

// ByCourse lists a course's assignments.
func (s *AssignmentService) ByCourse(ctx context.Context, courseID string) ([]models.AssignmentDetail, error) {
	return s.list(ctx, models.AssignmentFilter{CourseID: courseID})
}

// Get returns one assignment with its computed status.
func (s *AssignmentService) Get(ctx context.Context, id string) (*models.AssignmentDetail, error) {
	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "assignment")
	}
	annotateAssignment(assignment, s.now())
	return assignment, nil
}

// annotateAssignment sets status and whole days left, rounded up.
func annotateAssignment(a *models.AssignmentDetail, now time.Time) {
	left := a.DueDate.Sub(now)
	a.DaysUntilDue = int(math.Ceil(left.Hours() / 24))
	switch {
	case left < 0:
		a.Status = models.AssignmentOverdue
	case a.DaysUntilDue <= dueSoonDays:
		a.Status = models.AssignmentDueSoon
	default:
		a.Status = models.AssignmentUpcoming
	}
}

func parseDueDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02T15:04", models.DateLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid due_date %q", raw)
}

// Create adds an assignment; only faculty and admins may create one.
func (s *AssignmentService) Create(ctx context.Context, req models.AssignmentRequest) (*models.AssignmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "course_id, title, due_date and created_by are required")
	}
	creator, err := requireActor(ctx, s.users, req.CreatedBy)
	if err != nil {
		return nil, err
	}
	if creator.Role != models.RoleFaculty && creator.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only faculty or admins can create assignments")
	}
	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		return nil, lookupError(err, "course")
	}
	due, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, appErrors.Validation(err, "invalid due_date")
	}

	class := req.Class
	if class == nil || *class == "" {
		class = req.Section
	}
	assignment := &models.Assignment{
		CourseID:    req.CourseID,
		Class:       strPtr(deref(class)),
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		MaxPoints:   req.MaxPoints,
		CreatedBy:   &creator.ID,
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, writeError(err, "create assignment")
	}
	created, err := s.Get(ctx, assignment.ID)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, created, creator.ID, "New assignment", fmt.Sprintf("%s is due %s", created.Title, created.DueDate.Format(time.RFC1123)), true)
	return created, nil
}

// Update patches an assignment; only its creator or an admin may change it.
func (s *AssignmentService) Update(ctx context.Context, id string, req models.AssignmentUpdateRequest) (*models.AssignmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid assignment update")
	}
	current, err := s.authorize(ctx, id, req.UserID)
	if err != nil {
		return nil, err
	}
	assignment := current.Assignment
	if req.CourseID != nil {
		if _, err := s.courses.FindByID(ctx, *req.CourseID); err != nil {
			return nil, lookupError(err, "course")
		}
		assignment.CourseID = *req.CourseID
	}
	if req.Class != nil {
		assignment.Class = strPtr(*req.Class)
	}
	if req.Title != nil {
		assignment.Title = *req.Title
	}
	if req.Description != nil {
		assignment.Description = req.Description
	}
	if req.DueDate != nil {
		due, err := parseDueDate(*req.DueDate)
		if err != nil {
			return nil, appErrors.Validation(err, "invalid due_date")
		}
		assignment.DueDate = due
	}
	if req.MaxPoints != nil {
		assignment.MaxPoints = req.MaxPoints
	}

	if err := s.repo.Update(ctx, &assignment); err != nil {
		return nil, writeError(err, "update assignment")
	}
	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, updated, req.UserID, "Assignment updated", updated.Title+" was updated", true)
	return updated, nil
}

// Delete removes an assignment; only its creator or an admin may delete it.
func (s *AssignmentService) Delete(ctx context.Context, id, userID string) error {
	current, err := s.authorize(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "delete assignment")
	}
	s.notify(ctx, current, userID, "Assignment removed", current.Title+" was removed", false)
	return nil
}

func (s *AssignmentService) authorize(ctx context.Context, id, userID string) (*models.AssignmentDetail, error) {
	actor, err := requireActor(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}
	assignment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin && deref(assignment.CreatedBy) != actor.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the creator or an admin can modify this assignment")
	}
	return assignment, nil
}

// notify addresses the assignment's class, or the course's students when it has no class.
// Deleted rows are referenced through meta only.
func (s *AssignmentService) notify(ctx context.Context, a *models.AssignmentDetail, actorID, title, message string, link bool) {
	if s.notifier == nil {
		return
	}
	audience := models.Audience{CourseID: a.CourseID}
	if class := deref(a.Class); class != "" {
		audience = models.Audience{Class: class}
	}
	event := models.NotificationEvent{
		Type:    models.NotifAssignment,
		Title:   title,
		Message: message,
		ActorID: actorID,
		Meta: map[string]interface{}{
			"assignment_id": a.ID,
			"course_id":     a.CourseID,
			"due_date":      a.DueDate,
		},
		Audience: audience,
	}
	if link {
		event.Links.AssignmentID = a.ID
	}
	s.notifier.Notify(ctx, event)
}

// Submit records a student's submission; a second submission is a conflict.
func (s *AssignmentService) Submit(ctx context.Context, assignmentID string, req models.SubmissionRequest) (*models.Submission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "student_id is required and file_url must be a URL")
	}
	if _, err := s.Get(ctx, assignmentID); err != nil {
		return nil, err
	}
	if _, err := requireActor(ctx, s.users, req.StudentID); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindSubmission(ctx, assignmentID, req.StudentID)
	switch {
	case err == nil && existing != nil:
		return nil, appErrors.Clone(appErrors.ErrConflict, "assignment already submitted")
	case err != nil && !isNoRows(err):
		return nil, appErrors.Internal(err, "failed to check submission")
	}

	submission := &models.Submission{
		AssignmentID: assignmentID,
		StudentID:    req.StudentID,
		Content:      req.Content,
		FileURL:      req.FileURL,
		Status:       models.SubmissionSubmitted,
	}
	if err := s.repo.CreateSubmission(ctx, submission); err != nil {
		return nil, writeError(err, "submit assignment")
	}
	return submission, nil
}

// Submission returns a student's submission.
func (s *AssignmentService) Submission(ctx context.Context, assignmentID, studentID string) (*models.Submission, error) {
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student_id is required")
	}
	submission, err := s.repo.FindSubmission(ctx, assignmentID, studentID)
	if err != nil {
		return nil, lookupError(err, "submission")
	}
	return submission, nil
}

// UpdateSubmission replaces the content of a submission that is not graded yet.
func (s *AssignmentService) UpdateSubmission(ctx context.Context, assignmentID string, req models.SubmissionRequest) (*models.Submission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "student_id is required and file_url must be a URL")
	}
	submission, err := s.Submission(ctx, assignmentID, req.StudentID)
	if err != nil {
		return nil, err
	}
	if submission.Status == models.SubmissionGraded {
		return nil, appErrors.Clone(appErrors.ErrConflict, "graded submissions cannot be changed")
	}
	if req.Content != nil {
		submission.Content = req.Content
	}
	if req.FileURL != nil {
		submission.FileURL = req.FileURL
	}
	if err := s.repo.UpdateSubmission(ctx, submission); err != nil {
		return nil, writeError(err, "update submission")
	}
	return submission, nil
}

// DeleteSubmission withdraws a student's submission.
func (s *AssignmentService) DeleteSubmission(ctx context.Context, assignmentID, studentID string) error {
	submission, err := s.Submission(ctx, assignmentID, studentID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteSubmission(ctx, submission.ID); err != nil {
		return writeError(err, "delete submission")
	}
	return nil
}
