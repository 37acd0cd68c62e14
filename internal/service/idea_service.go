package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/aie-portal-api/internal/models"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
)

type ideaRepository interface {
	List(ctx context.Context, q, category string) ([]models.IdeaDetail, error)
	FindByID(ctx context.Context, id string) (*models.IdeaDetail, error)
	Create(ctx context.Context, idea *models.Idea) error
	Update(ctx context.Context, idea *models.Idea) error
	Delete(ctx context.Context, id string) error
	ToggleFavorite(ctx context.Context, id string) (bool, error)
	Tags(ctx context.Context) ([]string, error)
}

// IdeaService manages the idea board.
type IdeaService struct {
	repo      ideaRepository
	validator *validator.Validate
	logger    *zap.Logger
}

func NewIdeaService(repo ideaRepository, validate *validator.Validate, logger *zap.Logger) *IdeaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &IdeaService{repo: repo, validator: validate, logger: logger}
}

func (s *IdeaService) List(ctx context.Context, q, category string) ([]models.IdeaDetail, error) {
	ideas, err := s.repo.List(ctx, strings.TrimSpace(q), strings.TrimSpace(category))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list ideas")
	}
	return ideas, nil
}

func (s *IdeaService) Get(ctx context.Context, id string) (*models.IdeaDetail, error) {
	idea, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "idea")
	}
	return idea, nil
}

// Tags returns every distinct tag in use, sorted.
func (s *IdeaService) Tags(ctx context.Context) ([]string, error) {
	tags, err := s.repo.Tags(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list idea tags")
	}
	return tags, nil
}

func (s *IdeaService) Create(ctx context.Context, req models.IdeaRequest) (*models.IdeaDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "title is required")
	}
	idea := &models.Idea{
		Title:     req.Title,
		Content:   req.Content,
		Category:  req.Category,
		Tags:      pq.StringArray(normalizeTags(req.Tags)),
		CourseID:  req.CourseID,
		ProjectID: req.ProjectID,
		CreatedBy: req.CreatedBy,
	}
	if err := s.repo.Create(ctx, idea); err != nil {
		return nil, writeError(err, "create idea")
	}
	return s.Get(ctx, idea.ID)
}

func (s *IdeaService) Update(ctx context.Context, id string, req models.IdeaUpdateRequest) (*models.IdeaDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid idea update")
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	idea := current.Idea
	if req.Title != nil {
		idea.Title = *req.Title
	}
	if req.Content != nil {
		idea.Content = req.Content
	}
	if req.Category != nil {
		idea.Category = req.Category
	}
	if req.Tags != nil {
		idea.Tags = pq.StringArray(normalizeTags(*req.Tags))
	}
	if req.CourseID != nil {
		idea.CourseID = strPtr(*req.CourseID)
	}
	if req.ProjectID != nil {
		idea.ProjectID = strPtr(*req.ProjectID)
	}
	if err := s.repo.Update(ctx, &idea); err != nil {
		return nil, writeError(err, "update idea")
	}
	return s.Get(ctx, id)
}

func (s *IdeaService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "delete idea")
	}
	return nil
}

// ToggleFavorite flips the favourite flag and returns the updated idea.
func (s *IdeaService) ToggleFavorite(ctx context.Context, id string) (*models.IdeaDetail, error) {
	if _, err := s.repo.ToggleFavorite(ctx, id); err != nil {
		if isNoRows(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "idea not found")
		}
		return nil, appErrors.Internal(err, "failed to toggle favourite")
	}
	return s.Get(ctx, id)
}
