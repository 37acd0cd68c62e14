package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/aie-portal-api/internal/dto"
)

// StatsRepository computes portal-wide aggregates.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Overview counts the main entities.
func (r *StatsRepository) Overview(ctx context.Context) (*dto.OverviewStats, error) {
	const query = `SELECT
	(SELECT COUNT(*) FROM users) AS total_users,
	(SELECT COUNT(*) FROM courses) AS total_courses,
	(SELECT COUNT(*) FROM assignments) AS total_assignments,
	(SELECT COUNT(*) FROM resources) AS total_resources,
	(SELECT COUNT(*) FROM projects) AS total_projects`
	var stats dto.OverviewStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("overview stats: %w", err)
	}
	return &stats, nil
}

// Assignments compares assignments with their submissions.
func (r *StatsRepository) Assignments(ctx context.Context) (*dto.AssignmentStats, error) {
	const query = `SELECT
	(SELECT COUNT(*) FROM assignments) AS total_assignments,
	(SELECT COUNT(*) FROM assignment_submissions) AS total_submissions,
	(SELECT COUNT(*) FROM assignment_submissions WHERE grade IS NOT NULL) AS graded_submissions,
	(SELECT COUNT(*) FROM assignments WHERE due_date < NOW()) AS overdue_assignments,
	(SELECT COALESCE(AVG(grade), 0) FROM assignment_submissions WHERE grade IS NOT NULL) AS average_grade`
	var stats dto.AssignmentStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("assignment stats: %w", err)
	}
	return &stats, nil
}

// Academic aggregates users, enrollments and courses.
func (r *StatsRepository) Academic(ctx context.Context) (*dto.AcademicStats, error) {
	const query = `SELECT
	(SELECT COUNT(*) FROM users WHERE role = 'student') AS student_count,
	(SELECT COUNT(*) FROM users WHERE role = 'faculty') AS faculty_count,
	(SELECT COALESCE(AVG(cgpa), 0) FROM users WHERE role = 'student' AND cgpa IS NOT NULL) AS average_cgpa,
	(SELECT COUNT(*) FROM enrollments WHERE status = 'active') AS total_enrollments,
	(SELECT COUNT(*) FROM courses WHERE is_active = TRUE) AS active_courses`
	var stats dto.AcademicStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("academic stats: %w", err)
	}
	return &stats, nil
}

// Resources breaks resources down by type and category.
func (r *StatsRepository) Resources(ctx context.Context) (*dto.ResourceStats, error) {
	stats := &dto.ResourceStats{}
	const totals = `SELECT COUNT(*) AS total_resources, COALESCE(SUM(download_count), 0) AS total_downloads FROM resources`
	var row struct {
		Total     int `db:"total_resources"`
		Downloads int `db:"total_downloads"`
	}
	if err := r.db.GetContext(ctx, &row, totals); err != nil {
		return nil, fmt.Errorf("resource totals: %w", err)
	}
	stats.TotalResources, stats.TotalDownloads = row.Total, row.Downloads

	byType, err := r.buckets(ctx, `SELECT COALESCE(resource_type, '') AS key, COUNT(*) AS count FROM resources GROUP BY resource_type`)
	if err != nil {
		return nil, err
	}
	byCategory, err := r.buckets(ctx, `SELECT COALESCE(category, '') AS key, COUNT(*) AS count FROM resources GROUP BY category`)
	if err != nil {
		return nil, err
	}
	stats.ByType = dto.BucketMap(byType)
	stats.ByCategory = dto.BucketMap(byCategory)
	return stats, nil
}

// Projects breaks projects down by status.
func (r *StatsRepository) Projects(ctx context.Context) (*dto.ProjectStats, error) {
	var row struct {
		Total    int     `db:"total_projects"`
		Progress float64 `db:"average_progress"`
	}
	const totals = `SELECT COUNT(*) AS total_projects, COALESCE(AVG(progress), 0) AS average_progress FROM projects`
	if err := r.db.GetContext(ctx, &row, totals); err != nil {
		return nil, fmt.Errorf("project totals: %w", err)
	}
	byStatus, err := r.buckets(ctx, `SELECT COALESCE(status, '') AS key, COUNT(*) AS count FROM projects GROUP BY status`)
	if err != nil {
		return nil, err
	}
	return &dto.ProjectStats{
		TotalProjects:   row.Total,
		ByStatus:        dto.BucketMap(byStatus),
		AverageProgress: row.Progress,
	}, nil
}

func (r *StatsRepository) buckets(ctx context.Context, query string) ([]dto.Bucket, error) {
	var buckets []dto.Bucket
	if err := r.db.SelectContext(ctx, &buckets, query); err != nil {
		return nil, fmt.Errorf("group counts: %w", err)
	}
	return buckets, nil
}
