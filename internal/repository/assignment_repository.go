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

var assignmentColumns = []string{
	"a.id", "a.course_id", "a.class", "a.title", "a.description", "a.due_date", "a.max_points",
	"a.created_by", "a.created_at", "a.updated_at", "c.name AS course_name", "c.code AS course_code",
}

const submissionColumns = `id, assignment_id, student_id, content, file_url, status, grade, submitted_at, updated_at`

// AssignmentRepository stores assignments and their submissions.
type AssignmentRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db, sb: newBuilder()}
}

func (r *AssignmentRepository) selectDetail() squirrel.SelectBuilder {
	return r.sb.Select(assignmentColumns...).
		From("assignments a").
		LeftJoin("courses c ON c.id = a.course_id")
}

// List returns assignments matching filter ordered by due date.
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, error) {
	builder := r.selectDetail()
	if filter.CourseID != "" {
		builder = builder.Where(squirrel.Eq{"a.course_id": filter.CourseID})
	}
	if filter.CreatedBy != "" {
		builder = builder.Where(squirrel.Eq{"a.created_by": filter.CreatedBy})
	}
	if filter.StudentID != "" {
		scope := squirrel.Or{
			squirrel.Expr("a.course_id IN (SELECT course_id FROM enrollments WHERE student_id = ? AND status = 'active')", filter.StudentID),
		}
		if filter.StudentClass != "" {
			scope = append(scope, squirrel.Eq{"a.class": filter.StudentClass})
		}
		builder = builder.Where(scope)
	}
	if filter.DueAfter != nil {
		builder = builder.Where(squirrel.GtOrEq{"a.due_date": *filter.DueAfter})
	}
	if filter.DueBefore != nil {
		builder = builder.Where(squirrel.Lt{"a.due_date": *filter.DueBefore})
	}
	if filter.Query != "" {
		builder = builder.Where(squirrel.ILike{"a.title": ilike(filter.Query)})
	}
	if filter.Ascending {
		builder = builder.OrderBy("a.due_date ASC")
	} else {
		builder = builder.OrderBy("a.due_date DESC")
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build assignment query: %w", err)
	}
	var assignments []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return emptyIfNil(assignments), nil
}

// FindByID returns an assignment with its course.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.AssignmentDetail, error) {
	query, args, err := r.selectDetail().Where(squirrel.Eq{"a.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build assignment lookup: %w", err)
	}
	var assignment models.AssignmentDetail
	if err := r.db.GetContext(ctx, &assignment, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}
	return &assignment, nil
}

// Create inserts an assignment.
func (r *AssignmentRepository) Create(ctx context.Context, a *models.Assignment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	const query = `INSERT INTO assignments (id, course_id, class, title, description, due_date, max_points, created_by, created_at, updated_at)
VALUES (:id, :course_id, :class, :title, :description, :due_date, :max_points, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// Update rewrites an assignment's mutable fields.
func (r *AssignmentRepository) Update(ctx context.Context, a *models.Assignment) error {
	a.UpdatedAt = time.Now().UTC()
	const query = `UPDATE assignments SET course_id = :course_id, class = :class, title = :title, description = :description,
due_date = :due_date, max_points = :max_points, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, a)
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an assignment.
func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindSubmission returns a student's submission for an assignment.
func (r *AssignmentRepository) FindSubmission(ctx context.Context, assignmentID, studentID string) (*models.Submission, error) {
	const query = `SELECT ` + submissionColumns + ` FROM assignment_submissions WHERE assignment_id = $1 AND student_id = $2 LIMIT 1`
	var submission models.Submission
	if err := r.db.GetContext(ctx, &submission, query, assignmentID, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find submission: %w", err)
	}
	return &submission, nil
}

// CreateSubmission inserts a submission.
func (r *AssignmentRepository) CreateSubmission(ctx context.Context, s *models.Submission) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	s.SubmittedAt, s.UpdatedAt = now, now
	if s.Status == "" {
		s.Status = models.SubmissionSubmitted
	}
	const query = `INSERT INTO assignment_submissions (id, assignment_id, student_id, content, file_url, status, grade, submitted_at, updated_at)
VALUES (:id, :assignment_id, :student_id, :content, :file_url, :status, :grade, :submitted_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

// UpdateSubmission rewrites the content of a submission.
func (r *AssignmentRepository) UpdateSubmission(ctx context.Context, s *models.Submission) error {
	s.UpdatedAt = time.Now().UTC()
	const query = `UPDATE assignment_submissions SET content = :content, file_url = :file_url, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("update submission: %w", err)
	}
	return nil
}

// DeleteSubmission removes a submission.
func (r *AssignmentRepository) DeleteSubmission(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM assignment_submissions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	return nil
}

// CountSubmitted counts the student's submissions.
func (r *AssignmentRepository) CountSubmitted(ctx context.Context, studentID string) (int, error) {
	const query = `SELECT COUNT(*) FROM assignment_submissions WHERE student_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, studentID); err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return count, nil
}
