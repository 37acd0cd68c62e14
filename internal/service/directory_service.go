package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/aie-portal-api/internal/models"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
)

type directoryRepository interface {
	ListDepartments(ctx context.Context) ([]models.Department, error)
	FindDepartment(ctx context.Context, id string) (*models.Department, error)
	ListFaculty(ctx context.Context, deptCode string) ([]models.UserSummary, error)
	ListClasses(ctx context.Context, deptCode string) ([]models.ClassSection, error)
}

type departmentCourses interface {
	ListByDepartment(ctx context.Context, deptCode string) ([]models.CourseDetail, error)
}

// DirectoryService lists departments, their faculty and class sections.
type DirectoryService struct {
	repo    directoryRepository
	courses departmentCourses
	logger  *zap.Logger
}

// NewDirectoryService constructs a DirectoryService.
func NewDirectoryService(repo directoryRepository, courses departmentCourses, logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{repo: repo, courses: courses, logger: logger}
}

// Departments lists all departments.
func (s *DirectoryService) Departments(ctx context.Context) ([]models.Department, error) {
	departments, err := s.repo.ListDepartments(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list departments")
	}
	return departments, nil
}

// Department returns one department.
func (s *DirectoryService) Department(ctx context.Context, id string) (*models.Department, error) {
	dept, err := s.repo.FindDepartment(ctx, id)
	if err != nil {
		return nil, lookupError(err, "department")
	}
	return dept, nil
}

// DepartmentCourses lists the courses offered by a department.
func (s *DirectoryService) DepartmentCourses(ctx context.Context, id string) ([]models.CourseDetail, error) {
	dept, err := s.Department(ctx, id)
	if err != nil {
		return nil, err
	}
	courses, err := s.courses.ListByDepartment(ctx, dept.Code)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list department courses")
	}
	return courses, nil
}

// DepartmentFaculty lists a department's faculty members.
func (s *DirectoryService) DepartmentFaculty(ctx context.Context, id string) ([]models.UserSummary, error) {
	dept, err := s.Department(ctx, id)
	if err != nil {
		return nil, err
	}
	faculty, err := s.repo.ListFaculty(ctx, dept.Code)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list faculty")
	}
	return faculty, nil
}

// Classes lists class sections, optionally for one department code.
func (s *DirectoryService) Classes(ctx context.Context, deptCode string) ([]models.ClassSection, error) {
	classes, err := s.repo.ListClasses(ctx, deptCode)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list classes")
	}
	return classes, nil
}
