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

const courseDetailSelect = `SELECT c.id, c.name, c.code, c.dept, c.faculty_id, c.credits, c.description, c.is_active, c.created_at,
	NULLIF(TRIM(CONCAT(f.first_name, ' ', f.last_name)), '') AS faculty_name
FROM courses c
LEFT JOIN users f ON f.id = c.faculty_id`

// CourseRepository provides access to courses and enrollments.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns every course with its faculty name.
func (r *CourseRepository) List(ctx context.Context) ([]models.CourseDetail, error) {
	const query = courseDetailSelect + ` ORDER BY c.code`
	var courses []models.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return emptyIfNil(courses), nil
}

// ListByDepartment returns the courses whose dept matches the code.
func (r *CourseRepository) ListByDepartment(ctx context.Context, deptCode string) ([]models.CourseDetail, error) {
	const query = courseDetailSelect + ` WHERE UPPER(c.dept) = UPPER($1) ORDER BY c.code`
	var courses []models.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query, deptCode); err != nil {
		return nil, fmt.Errorf("list department courses: %w", err)
	}
	return emptyIfNil(courses), nil
}

// FindByID returns a course with its faculty name.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	const query = courseDetailSelect + ` WHERE c.id = $1`
	var course models.CourseDetail
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return &course, nil
}

// Workload counts a course's assignments and weekly timetable slots.
func (r *CourseRepository) Workload(ctx context.Context, id string) (assignments, classes int, err error) {
	const query = `SELECT
	(SELECT COUNT(*) FROM assignments WHERE course_id = $1) AS assignments,
	(SELECT COUNT(*) FROM timetable WHERE course_id = $1) AS classes`
	var row struct {
		Assignments int `db:"assignments"`
		Classes     int `db:"classes"`
	}
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return 0, 0, fmt.Errorf("course workload: %w", err)
	}
	return row.Assignments, row.Classes, nil
}

// Students returns the active roster of a course.
func (r *CourseRepository) Students(ctx context.Context, courseID string) ([]models.EnrolledStudent, error) {
	const query = `SELECT u.id, u.email, u.first_name, u.last_name, u.role, u.avatar_url, u.class, u.dept, u.roll_no, e.status, e.enrolled_at
FROM enrollments e
JOIN users u ON u.id = e.student_id
WHERE e.course_id = $1 AND e.status = 'active'
ORDER BY u.roll_no NULLS LAST, u.first_name`
	var students []models.EnrolledStudent
	if err := r.db.SelectContext(ctx, &students, query, courseID); err != nil {
		return nil, fmt.Errorf("list course students: %w", err)
	}
	return emptyIfNil(students), nil
}

// FindEnrollment returns the enrollment of a student in a course.
func (r *CourseRepository) FindEnrollment(ctx context.Context, courseID, studentID string) (*models.Enrollment, error) {
	const query = `SELECT id, student_id, course_id, status, enrolled_at FROM enrollments WHERE course_id = $1 AND student_id = $2 LIMIT 1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, courseID, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	return &enrollment, nil
}

// Enroll inserts an active enrollment.
func (r *CourseRepository) Enroll(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now().UTC()
	}
	enrollment.Status = models.EnrollmentActive
	const query = `INSERT INTO enrollments (id, student_id, course_id, status, enrolled_at) VALUES (:id, :student_id, :course_id, :status, :enrolled_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// SetEnrollmentStatus changes an enrollment's status.
func (r *CourseRepository) SetEnrollmentStatus(ctx context.Context, id, status string) error {
	const query = `UPDATE enrollments SET status = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status); err != nil {
		return fmt.Errorf("update enrollment status: %w", err)
	}
	return nil
}

// CountActiveEnrollments counts a student's active enrollments.
func (r *CourseRepository) CountActiveEnrollments(ctx context.Context, studentID string) (int, error) {
	const query = `SELECT COUNT(*) FROM enrollments WHERE student_id = $1 AND status = 'active'`
	var count int
	if err := r.db.GetContext(ctx, &count, query, studentID); err != nil {
		return 0, fmt.Errorf("count enrollments: %w", err)
	}
	return count, nil
}
