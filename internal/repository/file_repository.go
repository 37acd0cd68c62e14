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

var fileColumns = []string{
	"f.id", "f.name", "f.file_type", "f.file_path", "f.file_size", "f.mime_type", "f.course_id",
	"f.uploaded_by", "f.created_at", "f.updated_at", "c.name AS course_name",
}

// FileRepository stores metadata of uploaded files.
type FileRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewFileRepository creates a new FileRepository.
func NewFileRepository(db *sqlx.DB) *FileRepository {
	return &FileRepository{db: db, sb: newBuilder()}
}

func (r *FileRepository) selectDetail() squirrel.SelectBuilder {
	return r.sb.Select(fileColumns...).From("files f").LeftJoin("courses c ON c.id = f.course_id")
}

// List returns files matching filter, newest first.
func (r *FileRepository) List(ctx context.Context, filter models.FileFilter) ([]models.FileDetail, error) {
	builder := r.selectDetail().OrderBy("f.created_at DESC")
	if filter.Query != "" {
		builder = builder.Where(squirrel.ILike{"f.name": ilike(filter.Query)})
	}
	if filter.FileType != "" {
		builder = builder.Where(squirrel.Eq{"f.file_type": filter.FileType})
	}
	if filter.CourseID != "" {
		builder = builder.Where(squirrel.Eq{"f.course_id": filter.CourseID})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build file query: %w", err)
	}
	var files []models.FileDetail
	if err := r.db.SelectContext(ctx, &files, query, args...); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return emptyIfNil(files), nil
}

// FindByID returns a file with its course name.
func (r *FileRepository) FindByID(ctx context.Context, id string) (*models.FileDetail, error) {
	query, args, err := r.selectDetail().Where(squirrel.Eq{"f.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build file lookup: %w", err)
	}
	var file models.FileDetail
	if err := r.db.GetContext(ctx, &file, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find file: %w", err)
	}
	return &file, nil
}

// Create inserts a file row. The caller sets ID so the storage key can embed it.
func (r *FileRepository) Create(ctx context.Context, f *models.File) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	f.CreatedAt, f.UpdatedAt = now, now
	const query = `INSERT INTO files (id, name, file_type, file_path, file_size, mime_type, course_id, uploaded_by, created_at, updated_at)
VALUES (:id, :name, :file_type, :file_path, :file_size, :mime_type, :course_id, :uploaded_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, f); err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	return nil
}

// Update rewrites a file's name, type and course.
func (r *FileRepository) Update(ctx context.Context, f *models.File) error {
	f.UpdatedAt = time.Now().UTC()
	const query = `UPDATE files SET name = :name, file_type = :file_type, course_id = :course_id, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, f)
	if err != nil {
		return fmt.Errorf("update file: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a file row.
func (r *FileRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
