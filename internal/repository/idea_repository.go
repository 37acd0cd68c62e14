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

// IdeaRepository stores ideas.
type IdeaRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewIdeaRepository creates a new IdeaRepository.
func NewIdeaRepository(db *sqlx.DB) *IdeaRepository {
	return &IdeaRepository{db: db, sb: newBuilder()}
}

func (r *IdeaRepository) selectDetail() squirrel.SelectBuilder {
	return r.sb.Select(
		"i.id", "i.title", "i.content", "i.category", "i.tags", "i.course_id", "i.project_id", "i.created_by",
		"i.is_favorite", "i.created_at", "i.updated_at", "c.name AS course_name", "p.title AS project_title",
	).From("ideas i").
		LeftJoin("courses c ON c.id = i.course_id").
		LeftJoin("projects p ON p.id = i.project_id")
}

// List returns ideas matching q (title, content or tag) and category, newest first.
func (r *IdeaRepository) List(ctx context.Context, q, category string) ([]models.IdeaDetail, error) {
	builder := r.selectDetail().OrderBy("i.created_at DESC")
	if q != "" {
		pattern := ilike(q)
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"i.title": pattern},
			squirrel.ILike{"i.content": pattern},
			squirrel.Expr("array_to_string(i.tags, ' ') ILIKE ?", pattern),
		})
	}
	if category != "" {
		builder = builder.Where(squirrel.Eq{"i.category": category})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build idea query: %w", err)
	}
	var ideas []models.IdeaDetail
	if err := r.db.SelectContext(ctx, &ideas, query, args...); err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}
	return emptyIfNil(ideas), nil
}

// FindByID returns an idea with its course and project.
func (r *IdeaRepository) FindByID(ctx context.Context, id string) (*models.IdeaDetail, error) {
	query, args, err := r.selectDetail().Where(squirrel.Eq{"i.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build idea lookup: %w", err)
	}
	var idea models.IdeaDetail
	if err := r.db.GetContext(ctx, &idea, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find idea: %w", err)
	}
	return &idea, nil
}

// Create inserts an idea.
func (r *IdeaRepository) Create(ctx context.Context, idea *models.Idea) error {
	if idea.ID == "" {
		idea.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	idea.CreatedAt, idea.UpdatedAt = now, now
	const query = `INSERT INTO ideas (id, title, content, category, tags, course_id, project_id, created_by, is_favorite, created_at, updated_at)
VALUES (:id, :title, :content, :category, :tags, :course_id, :project_id, :created_by, :is_favorite, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, idea); err != nil {
		return fmt.Errorf("create idea: %w", err)
	}
	return nil
}

// Update rewrites an idea's editable fields.
func (r *IdeaRepository) Update(ctx context.Context, idea *models.Idea) error {
	idea.UpdatedAt = time.Now().UTC()
	const query = `UPDATE ideas SET title = :title, content = :content, category = :category, tags = :tags, course_id = :course_id,
project_id = :project_id, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, idea)
	if err != nil {
		return fmt.Errorf("update idea: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an idea.
func (r *IdeaRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ideas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete idea: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ToggleFavorite flips is_favorite and returns the new value.
func (r *IdeaRepository) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	var favorite bool
	const query = `UPDATE ideas SET is_favorite = NOT is_favorite, updated_at = $2 WHERE id = $1 RETURNING is_favorite`
	if err := r.db.GetContext(ctx, &favorite, query, id, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, err
		}
		return false, fmt.Errorf("toggle idea favorite: %w", err)
	}
	return favorite, nil
}

// Tags returns every distinct tag in alphabetical order.
func (r *IdeaRepository) Tags(ctx context.Context) ([]string, error) {
	var tags []string
	const query = `SELECT DISTINCT tag FROM ideas, unnest(tags) AS tag WHERE tag <> '' ORDER BY tag`
	if err := r.db.SelectContext(ctx, &tags, query); err != nil {
		return nil, fmt.Errorf("list idea tags: %w", err)
	}
	return emptyIfNil(tags), nil
}
