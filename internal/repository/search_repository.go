package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/aie-portal-api/internal/models"
)

// SearchRepository runs cross-entity searches and reads the listing-only tables
// (search history, quick access, bookmarks, activity).
type SearchRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewSearchRepository creates a new SearchRepository.
func NewSearchRepository(db *sqlx.DB) *SearchRepository {
	return &SearchRepository{db: db, sb: newBuilder()}
}

// Courses matches course name, code or description. An empty q matches every course.
func (r *SearchRepository) Courses(ctx context.Context, q string, limit uint64) ([]models.Course, error) {
	query, args, err := r.sb.Select("id", "name", "code", "dept", "faculty_id", "credits", "description", "is_active", "created_at").
		From("courses").
		Where(containsAny(q, "name", "code", "description")).
		OrderBy("code").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build course search: %w", err)
	}
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}
	return emptyIfNil(courses), nil
}

// Assignments matches assignment title or description.
func (r *SearchRepository) Assignments(ctx context.Context, q string, limit uint64) ([]models.Assignment, error) {
	query, args, err := r.sb.Select("id", "course_id", "class", "title", "description", "due_date", "max_points", "created_by", "created_at", "updated_at").
		From("assignments").
		Where(containsAny(q, "title", "description")).
		OrderBy("due_date DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build assignment search: %w", err)
	}
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("search assignments: %w", err)
	}
	return emptyIfNil(assignments), nil
}

// Resources matches resource title or description.
func (r *SearchRepository) Resources(ctx context.Context, q string, limit uint64) ([]models.Resource, error) {
	query, args, err := r.sb.Select("id", "title", "description", "resource_type", "category", "class", "file_url", "file_name",
		"file_size", "file_type", "course_id", "uploaded_by", "is_external", "external_url", "tags", "download_count",
		"created_at", "updated_at").
		From("resources").
		Where(containsAny(q, "title", "description")).
		OrderBy("created_at DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build resource search: %w", err)
	}
	var resources []models.Resource
	if err := r.db.SelectContext(ctx, &resources, query, args...); err != nil {
		return nil, fmt.Errorf("search resources: %w", err)
	}
	return emptyIfNil(resources), nil
}

// Suggestions returns course and assignment titles starting with or containing q.
func (r *SearchRepository) Suggestions(ctx context.Context, q string, limit int) ([]models.Suggestion, error) {
	const query = `(SELECT 'course' AS type, name AS text FROM courses WHERE name ILIKE $1 ORDER BY name LIMIT $2)
UNION ALL
(SELECT 'assignment' AS type, title AS text FROM assignments WHERE title ILIKE $1 ORDER BY title LIMIT $2)
UNION ALL
(SELECT 'resource' AS type, title AS text FROM resources WHERE title ILIKE $1 ORDER BY title LIMIT $2)`
	var suggestions []models.Suggestion
	if err := r.db.SelectContext(ctx, &suggestions, query, ilike(q), limit); err != nil {
		return nil, fmt.Errorf("search suggestions: %w", err)
	}
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return emptyIfNil(suggestions), nil
}

// History returns a user's recent searches.
func (r *SearchRepository) History(ctx context.Context, userID string, limit int) ([]models.Row, error) {
	return r.rows(ctx, `SELECT * FROM search_history WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
}

// QuickAccess returns the portal's quick access links.
func (r *SearchRepository) QuickAccess(ctx context.Context) ([]models.Row, error) {
	return r.rows(ctx, `SELECT * FROM quick_access_items`)
}

// Bookmarks returns a user's bookmarks, newest first.
func (r *SearchRepository) Bookmarks(ctx context.Context, userID string) ([]models.Row, error) {
	return r.rows(ctx, `SELECT * FROM bookmarks WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

// Activity returns activity rows, newest first; an empty userID spans all users.
func (r *SearchRepository) Activity(ctx context.Context, userID string, limit int) ([]models.Row, error) {
	if userID == "" {
		return r.rows(ctx, `SELECT * FROM user_activity ORDER BY created_at DESC LIMIT $1`, limit)
	}
	return r.rows(ctx, `SELECT * FROM user_activity WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
}

func (r *SearchRepository) rows(ctx context.Context, query string, args ...interface{}) ([]models.Row, error) {
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	out := make([]models.Row, 0)
	for rows.Next() {
		row := models.Row{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, row.Normalize())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}
