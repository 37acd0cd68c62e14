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

var resourceColumns = []string{
	"r.id", "r.title", "r.description", "r.resource_type", "r.category", "r.class", "r.file_url", "r.file_name",
	"r.file_size", "r.file_type", "r.course_id", "r.uploaded_by", "r.is_external", "r.external_url", "r.tags",
	"r.download_count", "r.created_at", "r.updated_at",
	"c.name AS course_name", "c.code AS course_code",
	"NULLIF(TRIM(CONCAT(u.first_name, ' ', u.last_name)), '') AS uploader_name",
}

// ResourceRepository stores course resources and their download log.
type ResourceRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewResourceRepository creates a new ResourceRepository.
func NewResourceRepository(db *sqlx.DB) *ResourceRepository {
	return &ResourceRepository{db: db, sb: newBuilder()}
}

func (r *ResourceRepository) selectDetail() squirrel.SelectBuilder {
	return r.sb.Select(resourceColumns...).
		From("resources r").
		LeftJoin("courses c ON c.id = r.course_id").
		LeftJoin("users u ON u.id = r.uploaded_by")
}

// List returns resources matching filter, newest first.
func (r *ResourceRepository) List(ctx context.Context, filter models.ResourceFilter) ([]models.ResourceDetail, error) {
	builder := r.selectDetail().OrderBy("r.created_at DESC")
	if filter.ResourceType != "" {
		builder = builder.Where(squirrel.Eq{"r.resource_type": filter.ResourceType})
	}
	if filter.Category != "" {
		builder = builder.Where(squirrel.Eq{"r.category": filter.Category})
	}
	if filter.CourseID != "" {
		builder = builder.Where(squirrel.Eq{"r.course_id": filter.CourseID})
	}
	if filter.UploadedBy != "" {
		builder = builder.Where(squirrel.Eq{"r.uploaded_by": filter.UploadedBy})
	}
	if filter.Query != "" {
		pattern := ilike(filter.Query)
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"r.title": pattern},
			squirrel.ILike{"r.description": pattern},
			squirrel.Expr("array_to_string(r.tags, ' ') ILIKE ?", pattern),
		})
	}
	if filter.StudentID != "" {
		scope := squirrel.Or{
			squirrel.Expr("r.course_id IN (SELECT course_id FROM enrollments WHERE student_id = ? AND status = 'active')", filter.StudentID),
		}
		if filter.StudentClass != "" {
			scope = append(scope, squirrel.Eq{"r.class": filter.StudentClass})
		}
		builder = builder.Where(scope)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build resource query: %w", err)
	}
	var resources []models.ResourceDetail
	if err := r.db.SelectContext(ctx, &resources, query, args...); err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return emptyIfNil(resources), nil
}

// FindByID returns a resource with course and uploader names.
func (r *ResourceRepository) FindByID(ctx context.Context, id string) (*models.ResourceDetail, error) {
	query, args, err := r.selectDetail().Where(squirrel.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build resource lookup: %w", err)
	}
	var resource models.ResourceDetail
	if err := r.db.GetContext(ctx, &resource, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find resource: %w", err)
	}
	return &resource, nil
}

// Create inserts a resource.
func (r *ResourceRepository) Create(ctx context.Context, res *models.Resource) error {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	res.CreatedAt, res.UpdatedAt = now, now
	const query = `INSERT INTO resources (id, title, description, resource_type, category, class, file_url, file_name, file_size, file_type,
course_id, uploaded_by, is_external, external_url, tags, download_count, created_at, updated_at)
VALUES (:id, :title, :description, :resource_type, :category, :class, :file_url, :file_name, :file_size, :file_type,
:course_id, :uploaded_by, :is_external, :external_url, :tags, :download_count, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, res); err != nil {
		return fmt.Errorf("create resource: %w", err)
	}
	return nil
}

// Update rewrites a resource's descriptive fields.
func (r *ResourceRepository) Update(ctx context.Context, res *models.Resource) error {
	res.UpdatedAt = time.Now().UTC()
	const query = `UPDATE resources SET title = :title, description = :description, resource_type = :resource_type, category = :category,
class = :class, course_id = :course_id, external_url = :external_url, tags = :tags, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, res)
	if err != nil {
		return fmt.Errorf("update resource: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a resource.
func (r *ResourceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// RecordDownload bumps the counter and logs the download, returning the new count.
// The two statements are not atomic; a lost log row only under-reports history.
func (r *ResourceRepository) RecordDownload(ctx context.Context, resourceID, userID string) (int, error) {
	var count int
	const bump = `UPDATE resources SET download_count = download_count + 1 WHERE id = $1 RETURNING download_count`
	if err := r.db.GetContext(ctx, &count, bump, resourceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, err
		}
		return 0, fmt.Errorf("increment download count: %w", err)
	}

	var user *string
	if userID != "" {
		user = &userID
	}
	const logRow = `INSERT INTO resource_downloads (id, resource_id, user_id, downloaded_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, logRow, uuid.NewString(), resourceID, user, time.Now().UTC()); err != nil {
		return count, fmt.Errorf("log resource download: %w", err)
	}
	return count, nil
}

// DownloadStats returns the stored counter and the number of logged downloads.
func (r *ResourceRepository) DownloadStats(ctx context.Context, resourceID string) (counter, logged int, err error) {
	const query = `SELECT r.download_count AS counter, (SELECT COUNT(*) FROM resource_downloads d WHERE d.resource_id = r.id) AS logged
FROM resources r WHERE r.id = $1`
	var row struct {
		Counter int `db:"counter"`
		Logged  int `db:"logged"`
	}
	if err := r.db.GetContext(ctx, &row, query, resourceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, err
		}
		return 0, 0, fmt.Errorf("resource download stats: %w", err)
	}
	return row.Counter, row.Logged, nil
}
