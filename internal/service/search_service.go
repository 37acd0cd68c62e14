package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/aie-portal-api/internal/dto"
	"github.com/noah-isme/aie-portal-api/internal/models"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
)

const (
	globalSearchLimit = 5
	browseLimit       = 10
	entitySearchLimit = 50
	suggestionLimit   = 10
	historyLimit      = 20
	activityLimit     = 50
)

type searchRepository interface {
	Courses(ctx context.Context, q string, limit uint64) ([]models.Course, error)
	Assignments(ctx context.Context, q string, limit uint64) ([]models.Assignment, error)
	Resources(ctx context.Context, q string, limit uint64) ([]models.Resource, error)
	Suggestions(ctx context.Context, q string, limit int) ([]models.Suggestion, error)
	History(ctx context.Context, userID string, limit int) ([]models.Row, error)
	QuickAccess(ctx context.Context) ([]models.Row, error)
	Bookmarks(ctx context.Context, userID string) ([]models.Row, error)
	Activity(ctx context.Context, userID string, limit int) ([]models.Row, error)
}

// SearchService runs cross-entity search and serves the listing-only tables.
type SearchService struct {
	repo   searchRepository
	logger *zap.Logger
}

func NewSearchService(repo searchRepository, logger *zap.Logger) *SearchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchService{repo: repo, logger: logger}
}

// Global searches courses, assignments and resources. Each group degrades to empty on failure.
func (s *SearchService) Global(ctx context.Context, q string) dto.GlobalSearchResults {
	results := dto.GlobalSearchResults{
		Courses:     []models.Course{},
		Assignments: []models.Assignment{},
		Resources:   []models.Resource{},
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return results
	}

	courses, err := s.repo.Courses(ctx, q, globalSearchLimit)
	results.Courses = degradeToEmpty(s.logger, "search_courses", courses, err, results.Courses)
	assignments, err := s.repo.Assignments(ctx, q, globalSearchLimit)
	results.Assignments = degradeToEmpty(s.logger, "search_assignments", assignments, err, results.Assignments)
	resources, err := s.repo.Resources(ctx, q, globalSearchLimit)
	results.Resources = degradeToEmpty(s.logger, "search_resources", resources, err, results.Resources)
	return results
}

// entityLimit caps a single-entity search; with no query it only shows a first page.
func entityLimit(q string) uint64 {
	if q == "" {
		return browseLimit
	}
	return entitySearchLimit
}

// Courses searches courses only.
func (s *SearchService) Courses(ctx context.Context, q string) ([]models.Course, error) {
	q = strings.TrimSpace(q)
	courses, err := s.repo.Courses(ctx, q, entityLimit(q))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to search courses")
	}
	return courses, nil
}

// Assignments searches assignments only.
func (s *SearchService) Assignments(ctx context.Context, q string) ([]models.Assignment, error) {
	q = strings.TrimSpace(q)
	assignments, err := s.repo.Assignments(ctx, q, entityLimit(q))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to search assignments")
	}
	return assignments, nil
}

// Resources searches resources only.
func (s *SearchService) Resources(ctx context.Context, q string) ([]models.Resource, error) {
	q = strings.TrimSpace(q)
	resources, err := s.repo.Resources(ctx, q, entityLimit(q))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to search resources")
	}
	return resources, nil
}

// Suggestions autocompletes q from course, assignment and resource titles.
func (s *SearchService) Suggestions(ctx context.Context, q string) []models.Suggestion {
	q = strings.TrimSpace(q)
	if q == "" {
		return []models.Suggestion{}
	}
	suggestions, err := s.repo.Suggestions(ctx, q, suggestionLimit)
	return degradeToEmpty(s.logger, "search_suggestions", suggestions, err, []models.Suggestion{})
}

func (s *SearchService) History(ctx context.Context, userID string) ([]models.Row, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user_id is required")
	}
	rows, err := s.repo.History(ctx, userID, historyLimit)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load search history")
	}
	return rows, nil
}

func (s *SearchService) QuickAccess(ctx context.Context) ([]models.Row, error) {
	rows, err := s.repo.QuickAccess(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load quick access links")
	}
	return rows, nil
}

func (s *SearchService) Bookmarks(ctx context.Context, userID string) ([]models.Row, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user_id is required")
	}
	rows, err := s.repo.Bookmarks(ctx, userID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load bookmarks")
	}
	return rows, nil
}

// Activity returns the newest activity rows, for one user when userID is set.
func (s *SearchService) Activity(ctx context.Context, userID string) ([]models.Row, error) {
	rows, err := s.repo.Activity(ctx, userID, activityLimit)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load activity")
	}
	return rows, nil
}
