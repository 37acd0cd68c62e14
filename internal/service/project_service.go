package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/aie-portal-api/internal/models"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
)

const defaultMemberRole = "member"

type projectRepository interface {
	List(ctx context.Context, status string) ([]models.ProjectDetail, error)
	FindByID(ctx context.Context, id string) (*models.ProjectDetail, error)
	Create(ctx context.Context, p *models.Project) error
	Update(ctx context.Context, p *models.Project) error
	UpdateProgress(ctx context.Context, id string, progress int) error
	Delete(ctx context.Context, id string) error
	Members(ctx context.Context, projectID string) ([]models.ProjectMemberDetail, error)
	MemberExists(ctx context.Context, projectID, userID string) (bool, error)
	AddMember(ctx context.Context, m *models.ProjectMember) error
	RemoveMember(ctx context.Context, projectID, userID string) error
}

// ProjectService manages student projects and their members.
type ProjectService struct {
	repo      projectRepository
	users     actorLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProjectService constructs a ProjectService.
func NewProjectService(repo projectRepository, users actorLookup, validate *validator.Validate, logger *zap.Logger) *ProjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ProjectService{repo: repo, users: users, validator: validate, logger: logger}
}

// Types returns the selectable project kinds.
func (s *ProjectService) Types() []models.Option {
	return models.ProjectTypes
}

// List returns projects, optionally only those with status.
func (s *ProjectService) List(ctx context.Context, status string) ([]models.ProjectDetail, error) {
	projects, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list projects")
	}
	return projects, nil
}

// Get returns one project.
func (s *ProjectService) Get(ctx context.Context, id string) (*models.ProjectDetail, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "project")
	}
	return project, nil
}

// Create adds a project in the planning state unless another status is given.
func (s *ProjectService) Create(ctx context.Context, req models.ProjectRequest) (*models.ProjectDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "title is required and status must be planning, in_progress, completed or on_hold")
	}
	if err := checkDateOrder(req.StartDate, req.DueDate); err != nil {
		return nil, err
	}
	project := &models.Project{
		Title:       req.Title,
		Description: req.Description,
		ProjectType: req.ProjectType,
		Status:      firstNonEmpty(req.Status, models.ProjectPlanning),
		CourseID:    req.CourseID,
		CreatedBy:   req.CreatedBy,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, writeError(err, "create project")
	}
	return s.Get(ctx, project.ID)
}

// Update patches a project.
func (s *ProjectService) Update(ctx context.Context, id string, req models.ProjectUpdateRequest) (*models.ProjectDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid project update")
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	project := current.Project
	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Description != nil {
		project.Description = req.Description
	}
	if req.ProjectType != nil {
		project.ProjectType = req.ProjectType
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.CourseID != nil {
		project.CourseID = strPtr(*req.CourseID)
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.DueDate != nil {
		project.DueDate = req.DueDate
	}
	if err := checkDateOrder(project.StartDate, project.DueDate); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &project); err != nil {
		return nil, writeError(err, "update project")
	}
	return s.Get(ctx, id)
}

// SetProgress records a completion percentage between 0 and 100.
func (s *ProjectService) SetProgress(ctx context.Context, id string, req models.ProgressRequest) (*models.ProjectDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "progress must be between 0 and 100")
	}
	if err := s.repo.UpdateProgress(ctx, id, *req.Progress); err != nil {
		return nil, writeError(err, "update project progress")
	}
	return s.Get(ctx, id)
}

// Delete removes a project with its memberships.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "delete project")
	}
	return nil
}

// Members lists a project's members with their profiles.
func (s *ProjectService) Members(ctx context.Context, projectID string) ([]models.ProjectMemberDetail, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}
	members, err := s.repo.Members(ctx, projectID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list project members")
	}
	return members, nil
}

// AddMember joins a user to a project once.
func (s *ProjectService) AddMember(ctx context.Context, projectID string, req models.MemberRequest) (*models.ProjectMember, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "user_id is required")
	}
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}
	if _, err := requireActor(ctx, s.users, req.UserID); err != nil {
		return nil, err
	}
	exists, err := s.repo.MemberExists(ctx, projectID, req.UserID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check project membership")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "user is already a member of this project")
	}
	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    req.UserID,
		Role:      firstNonEmpty(req.Role, defaultMemberRole),
	}
	if err := s.repo.AddMember(ctx, member); err != nil {
		return nil, writeError(err, "add project member")
	}
	return member, nil
}

// RemoveMember drops a user from a project.
func (s *ProjectService) RemoveMember(ctx context.Context, projectID, userID string) error {
	if err := s.repo.RemoveMember(ctx, projectID, userID); err != nil {
		if isNoRows(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "project member not found")
		}
		return appErrors.Internal(err, "failed to remove project member")
	}
	return nil
}

func checkDateOrder(start, due *models.Date) error {
	if start != nil && due != nil && !start.IsZero() && !due.IsZero() && due.Before(start.Time) {
		return appErrors.Clone(appErrors.ErrValidation, "due_date must not be before start_date")
	}
	return nil
}
