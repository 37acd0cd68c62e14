package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/aie-portal-api/internal/models"
)

// DirectoryRepository reads departments and class sections.
type DirectoryRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewDirectoryRepository creates a new DirectoryRepository.
func NewDirectoryRepository(db *sqlx.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db, sb: newBuilder()}
}

// ListDepartments returns every department ordered by code.
func (r *DirectoryRepository) ListDepartments(ctx context.Context) ([]models.Department, error) {
	const query = `SELECT id, code, name FROM departments ORDER BY code`
	var departments []models.Department
	if err := r.db.SelectContext(ctx, &departments, query); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return emptyIfNil(departments), nil
}

// FindDepartment returns a department by id.
func (r *DirectoryRepository) FindDepartment(ctx context.Context, id string) (*models.Department, error) {
	const query = `SELECT id, code, name FROM departments WHERE id = $1`
	var dept models.Department
	if err := r.db.GetContext(ctx, &dept, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find department: %w", err)
	}
	return &dept, nil
}

// FindDepartmentByCode matches the code case-insensitively.
func (r *DirectoryRepository) FindDepartmentByCode(ctx context.Context, code string) (*models.Department, error) {
	const query = `SELECT id, code, name FROM departments WHERE UPPER(code) = UPPER($1) LIMIT 1`
	var dept models.Department
	if err := r.db.GetContext(ctx, &dept, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find department by code: %w", err)
	}
	return &dept, nil
}

// ListFaculty returns the faculty members of a department code.
func (r *DirectoryRepository) ListFaculty(ctx context.Context, deptCode string) ([]models.UserSummary, error) {
	const query = `SELECT id, email, first_name, last_name, role, avatar_url, class, dept FROM users
WHERE role = 'faculty' AND UPPER(dept) = UPPER($1) ORDER BY first_name, last_name`
	var faculty []models.UserSummary
	if err := r.db.SelectContext(ctx, &faculty, query, deptCode); err != nil {
		return nil, fmt.Errorf("list department faculty: %w", err)
	}
	return emptyIfNil(faculty), nil
}

// ListClasses returns class sections, optionally for one department.
func (r *DirectoryRepository) ListClasses(ctx context.Context, deptCode string) ([]models.ClassSection, error) {
	builder := r.sb.Select("id", "academic_year", "section", "dept", "class").From("class").OrderBy("class")
	if deptCode != "" {
		builder = builder.Where("UPPER(dept) = UPPER(?)", deptCode)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build class list: %w", err)
	}
	var classes []models.ClassSection
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return emptyIfNil(classes), nil
}

// FindClass returns the class section with the given code.
func (r *DirectoryRepository) FindClass(ctx context.Context, code string) (*models.ClassSection, error) {
	const query = `SELECT id, academic_year, section, dept, class FROM class WHERE class = $1 LIMIT 1`
	var class models.ClassSection
	if err := r.db.GetContext(ctx, &class, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find class: %w", err)
	}
	return &class, nil
}
