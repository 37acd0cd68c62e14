package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/aie-portal-api/internal/models"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context) ([]models.CourseDetail, error)
	FindByID(ctx context.Context, id string) (*models.CourseDetail, error)
	Workload(ctx context.Context, id string) (assignments, classes int, err error)
	Students(ctx context.Context, courseID string) ([]models.EnrolledStudent, error)
	FindEnrollment(ctx context.Context, courseID, studentID string) (*models.Enrollment, error)
	Enroll(ctx context.Context, enrollment *models.Enrollment) error
	SetEnrollmentStatus(ctx context.Context, id, status string) error
}

// CourseService serves the course catalogue and enrollments.
type CourseService struct {
	repo      courseRepository
	users     actorLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseRepository, users actorLookup, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CourseService{repo: repo, users: users, validator: validate, logger: logger}
}

// List returns all courses.
func (s *CourseService) List(ctx context.Context) ([]models.CourseDetail, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list courses")
	}
	return courses, nil
}

// Get returns one course.
func (s *CourseService) Get(ctx context.Context, id string) (*models.CourseDetail, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "course")
	}
	return course, nil
}

// Overview returns a course with its assignment and class counts.
func (s *CourseService) Overview(ctx context.Context, id string) (*models.CourseOverview, error) {
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	assignments, classes, err := s.repo.Workload(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count course workload")
	}
	return &models.CourseOverview{Course: *course, AssignmentsCount: assignments, ClassesCount: classes}, nil
}

// Students lists the course roster.
func (s *CourseService) Students(ctx context.Context, id string) ([]models.EnrolledStudent, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	students, err := s.repo.Students(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list course students")
	}
	return students, nil
}

// Enroll adds a student to a course, reactivating a dropped enrollment.
func (s *CourseService) Enroll(ctx context.Context, courseID string, req models.EnrollRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "student_id is required")
	}
	if _, err := s.Get(ctx, courseID); err != nil {
		return nil, err
	}
	student, err := requireActor(ctx, s.users, req.StudentID)
	if err != nil {
		return nil, err
	}
	if student.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrValidation, "only students can be enrolled")
	}

	existing, err := s.repo.FindEnrollment(ctx, courseID, req.StudentID)
	switch {
	case err == nil && existing.Status == models.EnrollmentActive:
		return nil, appErrors.Clone(appErrors.ErrConflict, "student already enrolled")
	case err == nil:
		if err := s.repo.SetEnrollmentStatus(ctx, existing.ID, models.EnrollmentActive); err != nil {
			return nil, writeError(err, "reactivate enrollment")
		}
		existing.Status = models.EnrollmentActive
		return existing, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, appErrors.Internal(err, "failed to check enrollment")
	}

	enrollment := &models.Enrollment{StudentID: req.StudentID, CourseID: courseID, Status: models.EnrollmentActive}
	if err := s.repo.Enroll(ctx, enrollment); err != nil {
		return nil, writeError(err, "enroll student")
	}
	return enrollment, nil
}

// Unenroll marks an enrollment dropped.
func (s *CourseService) Unenroll(ctx context.Context, courseID, studentID string) error {
	if studentID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "student_id is required")
	}
	existing, err := s.repo.FindEnrollment(ctx, courseID, studentID)
	if err != nil {
		return lookupError(err, "enrollment")
	}
	if existing.Status == models.EnrollmentDropped {
		return nil
	}
	if err := s.repo.SetEnrollmentStatus(ctx, existing.ID, models.EnrollmentDropped); err != nil {
		return writeError(err, "drop enrollment")
	}
	return nil
}
