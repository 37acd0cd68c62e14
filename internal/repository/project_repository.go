package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/aie-portal-api/internal/models"
)

const projectDetailSelect = `SELECT p.id, p.title, p.description, p.project_type, p.status, p.progress, p.course_id, p.created_by,
p.start_date, p.due_date, p.created_at, p.updated_at, c.name AS course_name, c.code AS course_code
FROM projects p LEFT JOIN courses c ON c.id = p.course_id`

const projectMemberSelect = `SELECT m.id, m.project_id, m.user_id, m.role, m.joined_at,
u.id AS "user.id", u.email AS "user.email", u.first_name AS "user.first_name", u.last_name AS "user.last_name",
u.role AS "user.role", u.avatar_url AS "user.avatar_url", u.class AS "user.class", u.dept AS "user.dept"
FROM project_members m JOIN users u ON u.id = m.user_id`

// ProjectRepository stores projects and their members.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// List returns projects, optionally restricted to one status, newest first.
func (r *ProjectRepository) List(ctx context.Context, status string) ([]models.ProjectDetail, error) {
	query := projectDetailSelect
	var args []interface{}
	if status != "" {
		query += ` WHERE p.status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY p.created_at DESC`

	var projects []models.ProjectDetail
	if err := r.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return emptyIfNil(projects), nil
}

// FindByID returns a project with its course.
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*models.ProjectDetail, error) {
	var project models.ProjectDetail
	if err := r.db.GetContext(ctx, &project, projectDetailSelect+` WHERE p.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return &project, nil
}

// Create inserts a project.
func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	const query = `INSERT INTO projects (id, title, description, project_type, status, progress, course_id, created_by, start_date, due_date, created_at, updated_at)
VALUES (:id, :title, :description, :project_type, :status, :progress, :course_id, :created_by, :start_date, :due_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// Update rewrites a project's editable fields.
func (r *ProjectRepository) Update(ctx context.Context, p *models.Project) error {
	p.UpdatedAt = time.Now().UTC()
	const query = `UPDATE projects SET title = :title, description = :description, project_type = :project_type, status = :status,
course_id = :course_id, start_date = :start_date, due_date = :due_date, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, p)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateProgress sets the completion percentage.
func (r *ProjectRepository) UpdateProgress(ctx context.Context, id string, progress int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE projects SET progress = $2, updated_at = $3 WHERE id = $1`, id, progress, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update project progress: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a project and its memberships.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete project: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM project_members WHERE project_id = $1`, id); err != nil {
		return fmt.Errorf("delete project members: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete project: %w", err)
	}
	return nil
}

// Members lists a project's members in join order.
func (r *ProjectRepository) Members(ctx context.Context, projectID string) ([]models.ProjectMemberDetail, error) {
	var members []models.ProjectMemberDetail
	query := projectMemberSelect + ` WHERE m.project_id = $1 ORDER BY m.joined_at ASC`
	if err := r.db.SelectContext(ctx, &members, query, projectID); err != nil {
		return nil, fmt.Errorf("list project members: %w", err)
	}
	return emptyIfNil(members), nil
}

// MemberExists reports whether the user already belongs to the project.
func (r *ProjectRepository) MemberExists(ctx context.Context, projectID, userID string) (bool, error) {
	var exists bool
	const query = `SELECT EXISTS(SELECT 1 FROM project_members WHERE project_id = $1 AND user_id = $2)`
	if err := r.db.GetContext(ctx, &exists, query, projectID, userID); err != nil {
		return false, fmt.Errorf("check project member: %w", err)
	}
	return exists, nil
}

// AddMember inserts a membership row.
func (r *ProjectRepository) AddMember(ctx context.Context, m *models.ProjectMember) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.JoinedAt = time.Now().UTC()
	const query = `INSERT INTO project_members (id, project_id, user_id, role, joined_at) VALUES (:id, :project_id, :user_id, :role, :joined_at)`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("add project member: %w", err)
	}
	return nil
}

// RemoveMember deletes a membership row.
func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		return fmt.Errorf("remove project member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
