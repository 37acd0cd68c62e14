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

var sessionColumns = []string{
	"t.id", "t.course_id", "t.room", "t.class", "t.day_of_week",
	"to_char(t.start_time, 'HH24:MI:SS') AS start_time",
	"to_char(t.end_time, 'HH24:MI:SS') AS end_time",
	"t.created_at",
	"c.name AS course_name", "c.code AS course_code", "c.faculty_id",
}

const overrideColumns = `id, date, class, tt_followed, created_at`

// TimetableRepository stores weekly timetable slots and Saturday overrides.
type TimetableRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewTimetableRepository creates a new TimetableRepository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db, sb: newBuilder()}
}

// List returns sessions joined with their course, ordered by start time.
func (r *TimetableRepository) List(ctx context.Context, filter models.TimetableFilter) ([]models.ClassSession, error) {
	builder := r.sb.Select(sessionColumns...).
		From("timetable t").
		LeftJoin("courses c ON c.id = t.course_id").
		OrderBy("t.start_time", "t.class")
	if filter.Class != "" {
		builder = builder.Where(squirrel.Eq{"t.class": filter.Class})
	}
	if filter.Day != "" {
		builder = builder.Where(squirrel.Eq{"t.day_of_week": filter.Day})
	}
	if filter.CourseID != "" {
		builder = builder.Where(squirrel.Eq{"t.course_id": filter.CourseID})
	}
	if filter.FacultyID != "" {
		builder = builder.Where(squirrel.Eq{"c.faculty_id": filter.FacultyID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build timetable query: %w", err)
	}
	var sessions []models.ClassSession
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, fmt.Errorf("list timetable: %w", err)
	}
	return emptyIfNil(sessions), nil
}

// FindByID returns one session.
func (r *TimetableRepository) FindByID(ctx context.Context, id string) (*models.ClassSession, error) {
	query, args, err := r.sb.Select(sessionColumns...).
		From("timetable t").
		LeftJoin("courses c ON c.id = t.course_id").
		Where(squirrel.Eq{"t.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build timetable lookup: %w", err)
	}
	var session models.ClassSession
	if err := r.db.GetContext(ctx, &session, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find timetable entry: %w", err)
	}
	return &session, nil
}

// Create inserts a timetable slot.
func (r *TimetableRepository) Create(ctx context.Context, entry *models.TimetableEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO timetable (id, course_id, room, class, day_of_week, start_time, end_time, created_at)
VALUES (:id, :course_id, :room, :class, :day_of_week, :start_time, :end_time, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create timetable entry: %w", err)
	}
	return nil
}

// Update rewrites a timetable slot.
func (r *TimetableRepository) Update(ctx context.Context, entry *models.TimetableEntry) error {
	const query = `UPDATE timetable SET course_id = :course_id, room = :room, class = :class, day_of_week = :day_of_week,
start_time = :start_time, end_time = :end_time WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, entry)
	if err != nil {
		return fmt.Errorf("update timetable entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a timetable slot.
func (r *TimetableRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM timetable WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete timetable entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListOverrides returns Saturday overrides, filtered by date and class when given.
func (r *TimetableRepository) ListOverrides(ctx context.Context, date *models.Date, class string) ([]models.SaturdayOverride, error) {
	builder := r.sb.Select(overrideColumns).From("saturday_class").OrderBy("date DESC", "class")
	if date != nil {
		builder = builder.Where(squirrel.Eq{"date": date.String()})
	}
	if class != "" {
		builder = builder.Where(squirrel.Eq{"class": class})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build override query: %w", err)
	}
	var overrides []models.SaturdayOverride
	if err := r.db.SelectContext(ctx, &overrides, query, args...); err != nil {
		return nil, fmt.Errorf("list saturday overrides: %w", err)
	}
	return emptyIfNil(overrides), nil
}

// FindOverride returns one override by id.
func (r *TimetableRepository) FindOverride(ctx context.Context, id string) (*models.SaturdayOverride, error) {
	const query = `SELECT ` + overrideColumns + ` FROM saturday_class WHERE id = $1`
	var override models.SaturdayOverride
	if err := r.db.GetContext(ctx, &override, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find saturday override: %w", err)
	}
	return &override, nil
}

// OverrideExists reports whether (date, class) already has an override other than excludeID.
func (r *TimetableRepository) OverrideExists(ctx context.Context, date models.Date, class, excludeID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM saturday_class WHERE date = $1 AND class = $2 AND id::text <> $3)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, date.String(), class, excludeID); err != nil {
		return false, fmt.Errorf("check saturday override: %w", err)
	}
	return exists, nil
}

// CreateOverride inserts a Saturday override.
func (r *TimetableRepository) CreateOverride(ctx context.Context, override *models.SaturdayOverride) error {
	if override.ID == "" {
		override.ID = uuid.NewString()
	}
	if override.CreatedAt.IsZero() {
		override.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO saturday_class (id, date, class, tt_followed, created_at) VALUES (:id, :date, :class, :tt_followed, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, override); err != nil {
		return fmt.Errorf("create saturday override: %w", err)
	}
	return nil
}

// UpdateOverride rewrites a Saturday override.
func (r *TimetableRepository) UpdateOverride(ctx context.Context, override *models.SaturdayOverride) error {
	const query = `UPDATE saturday_class SET date = :date, class = :class, tt_followed = :tt_followed WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, override)
	if err != nil {
		return fmt.Errorf("update saturday override: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteOverride removes a Saturday override.
func (r *TimetableRepository) DeleteOverride(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM saturday_class WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete saturday override: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
