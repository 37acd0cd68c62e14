package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/aie-portal-api/internal/models"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
)

// pqUniqueViolation is the SQLSTATE raised for duplicate keys.
const pqUniqueViolation = "23505"

type actorLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// lookupError maps a repository error to 404 for missing rows and 500 otherwise.
func lookupError(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	return appErrors.Internal(err, "failed to load "+entity)
}

// writeError maps a failed insert or update; unique violations become 409.
func writeError(err error, action string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, "record not found")
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "record already exists")
	}
	return appErrors.Internal(err, "failed to "+action)
}

// requireActor loads the acting user; an empty id is a 400 and an unknown id a 404.
func requireActor(ctx context.Context, users actorLookup, userID string) (*models.User, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user_id is required")
	}
	user, err := users.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "user")
	}
	return user, nil
}

// degradeToEmpty returns fallback in place of a failed read and logs the cause. It is used only
// by aggregate and listing views whose callers prefer an empty section to an error page.
func degradeToEmpty[T any](logger *zap.Logger, section string, value T, err error, fallback T) T {
	if err == nil {
		return value
	}
	logger.Warn("section degraded to empty", zap.String("section", section), zap.Error(err))
	return fallback
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
