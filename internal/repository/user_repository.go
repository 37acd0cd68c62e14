package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/aie-portal-api/internal/models"
)

const preferenceColumns = `id, user_id, theme, notifications_enabled, email_notifications, language, timezone, created_at, updated_at`

const userColumns = `id, email, password_hash, first_name, last_name, role, roll_no, dept, class, cgpa, total_credits, avatar_url, phone, bio, is_active, last_login, created_at, updated_at`

// UserRepository provides database access for users.
type UserRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db, sb: newBuilder()}
}

// FindByEmail returns a user by email address, compared case-insensitively.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1) LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// EmailExists reports whether any user has the email.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

// RollNoExists reports whether any user has the roll number.
func (r *UserRepository) RollNoExists(ctx context.Context, rollNo string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE roll_no = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, rollNo); err != nil {
		return false, fmt.Errorf("check roll number: %w", err)
	}
	return exists, nil
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	const query = `INSERT INTO users (id, email, password_hash, first_name, last_name, role, roll_no, dept, class, cgpa, total_credits, avatar_url, phone, bio, is_active, created_at, updated_at)
VALUES (:id, :email, :password_hash, :first_name, :last_name, :role, :roll_no, :dept, :class, :cgpa, :total_credits, :avatar_url, :phone, :bio, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UpdateLastLogin updates the last_login timestamp for a user.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE users SET last_login = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ts); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// UpdateProfile writes the self-service profile fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	const query = `UPDATE users SET first_name = :first_name, last_name = :last_name, phone = :phone, bio = :bio, avatar_url = :avatar_url, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns every user ordered by name.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY first_name, last_name`
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return emptyIfNil(users), nil
}

// Search matches first name, last name or email, excluding excludeID when set.
func (r *UserRepository) Search(ctx context.Context, q, excludeID string, limit uint64) ([]models.User, error) {
	pattern := ilike(q)
	builder := r.sb.Select(userColumns).From("users").
		Where(squirrel.Or{
			squirrel.ILike{"first_name": pattern},
			squirrel.ILike{"last_name": pattern},
			squirrel.ILike{"email": pattern},
		}).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("first_name", "last_name")
	if excludeID != "" {
		builder = builder.Where(squirrel.NotEq{"id": excludeID})
	}
	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user search: %w", err)
	}
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return emptyIfNil(users), nil
}

// CountByRole groups users by role.
func (r *UserRepository) CountByRole(ctx context.Context) ([]models.RoleCount, error) {
	const query = `SELECT role, COUNT(*) AS count FROM users GROUP BY role ORDER BY role`
	var counts []models.RoleCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count users by role: %w", err)
	}
	return counts, nil
}

// ActivityStats counts the user's enrollments and submissions.
func (r *UserRepository) ActivityStats(ctx context.Context, id string) (*models.UserActivityStats, error) {
	const query = `SELECT
	(SELECT COUNT(*) FROM enrollments WHERE student_id = $1) AS enrollments_count,
	(SELECT COUNT(*) FROM assignment_submissions WHERE student_id = $1) AS submissions_count`
	var stats models.UserActivityStats
	if err := r.db.GetContext(ctx, &stats, query, id); err != nil {
		return nil, fmt.Errorf("user activity stats: %w", err)
	}
	return &stats, nil
}

// Preferences returns preference rows, for one user when userID is set.
func (r *UserRepository) Preferences(ctx context.Context, userID string) ([]models.UserPreferences, error) {
	builder := r.sb.Select(preferenceColumns).From("user_preferences").OrderBy("created_at")
	if userID != "" {
		builder = builder.Where(squirrel.Eq{"user_id": userID})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build preferences query: %w", err)
	}
	var prefs []models.UserPreferences
	if err := r.db.SelectContext(ctx, &prefs, query, args...); err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	return emptyIfNil(prefs), nil
}
