package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/aie-portal-api/internal/models"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
)

const userSearchLimit = 20

type userRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Search(ctx context.Context, q, excludeID string, limit uint64) ([]models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	CountByRole(ctx context.Context) ([]models.RoleCount, error)
	ActivityStats(ctx context.Context, id string) (*models.UserActivityStats, error)
	Preferences(ctx context.Context, userID string) ([]models.UserPreferences, error)
}

// UserService exposes user profiles and directory search.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]models.UserView, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list users")
	}
	return models.Views(users), nil
}

// Get returns one user.
func (s *UserService) Get(ctx context.Context, id string) (*models.UserView, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "user")
	}
	view := user.View()
	return &view, nil
}

// Search matches names or email; the current user is left out.
func (s *UserService) Search(ctx context.Context, q, currentUserID string) ([]models.UserView, error) {
	if q == "" {
		return []models.UserView{}, nil
	}
	users, err := s.repo.Search(ctx, q, currentUserID, userSearchLimit)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to search users")
	}
	return models.Views(users), nil
}

// UpdateProfile applies the self-service profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.UserView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid profile payload")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "user")
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}
	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, writeError(err, "update profile")
	}
	view := user.View()
	return &view, nil
}

// Stats counts users per role.
func (s *UserService) Stats(ctx context.Context) (*models.UserStats, error) {
	counts, err := s.repo.CountByRole(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count users")
	}
	stats := &models.UserStats{ByRole: make(map[string]int, len(counts))}
	for _, c := range counts {
		stats.ByRole[c.Role] = c.Count
		stats.TotalUsers += c.Count
	}
	return stats, nil
}

// ActivityStats counts a user's enrollments and submissions.
func (s *UserService) ActivityStats(ctx context.Context, id string) (*models.UserActivityStats, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, lookupError(err, "user")
	}
	stats, err := s.repo.ActivityStats(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load user stats")
	}
	return stats, nil
}

// Preferences lists preference rows; an empty userID lists every user's.
func (s *UserService) Preferences(ctx context.Context, userID string) ([]models.UserPreferences, error) {
	prefs, err := s.repo.Preferences(ctx, userID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load preferences")
	}
	return prefs, nil
}

// NotificationSettings returns the user's preference row, or nil when none is stored.
func (s *UserService) NotificationSettings(ctx context.Context, userID string) (*models.UserPreferences, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user_id is required")
	}
	prefs, err := s.repo.Preferences(ctx, userID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load notification settings")
	}
	if len(prefs) == 0 {
		return nil, nil
	}
	return &prefs[0], nil
}
