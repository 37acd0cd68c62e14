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

var eventColumns = []string{
	"e.id", "e.title", "e.description", "e.start_date", "e.end_date",
	"to_char(e.start_time, 'HH24:MI:SS') AS start_time",
	"to_char(e.end_time, 'HH24:MI:SS') AS end_time",
	"e.is_all_day", "e.event_type", "e.priority", "e.color", "e.location", "e.course_id", "e.assignment_id",
	"e.class", "e.created_by", "e.is_personal", "e.created_at", "e.updated_at",
	"c.name AS course_name",
	"NULLIF(TRIM(CONCAT(u.first_name, ' ', u.last_name)), '') AS creator_name",
}

// EventRepository stores calendar events.
type EventRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db, sb: newBuilder()}
}

func (r *EventRepository) selectDetail() squirrel.SelectBuilder {
	return r.sb.Select(eventColumns...).
		From("events e").
		LeftJoin("courses c ON c.id = e.course_id").
		LeftJoin("users u ON u.id = e.created_by")
}

// List returns events visible under filter ordered by start. Without a user only public
// events are returned.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.EventDetail, error) {
	builder := r.selectDetail().OrderBy("e.start_date", "e.start_time NULLS FIRST")

	switch {
	case filter.OnlyMine && filter.UserID != "":
		builder = builder.Where(squirrel.Eq{"e.created_by": filter.UserID})
	case filter.UserID != "":
		builder = builder.Where(squirrel.Or{
			squirrel.Eq{"e.is_personal": false},
			squirrel.Eq{"e.created_by": filter.UserID},
		})
	default:
		builder = builder.Where(squirrel.Eq{"e.is_personal": false})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.LtOrEq{"e.start_date": filter.To.String()})
	}
	if filter.From != nil {
		builder = builder.Where(squirrel.Expr("COALESCE(e.end_date, e.start_date) >= ?", filter.From.String()))
	}
	if filter.CourseID != "" {
		builder = builder.Where(squirrel.Eq{"e.course_id": filter.CourseID})
	}
	if filter.EventType != "" {
		builder = builder.Where(squirrel.Eq{"e.event_type": filter.EventType})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build event query: %w", err)
	}
	var events []models.EventDetail
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return emptyIfNil(events), nil
}

// FindByID returns an event with course and creator names.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.EventDetail, error) {
	query, args, err := r.selectDetail().Where(squirrel.Eq{"e.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build event lookup: %w", err)
	}
	var event models.EventDetail
	if err := r.db.GetContext(ctx, &event, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return &event, nil
}

// Create inserts an event.
func (r *EventRepository) Create(ctx context.Context, e *models.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	const query = `INSERT INTO events (id, title, description, start_date, end_date, start_time, end_time, is_all_day, event_type,
priority, color, location, course_id, assignment_id, class, created_by, is_personal, created_at, updated_at)
VALUES (:id, :title, :description, :start_date, :end_date, :start_time, :end_time, :is_all_day, :event_type,
:priority, :color, :location, :course_id, :assignment_id, :class, :created_by, :is_personal, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, e); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// Update rewrites an event's editable fields.
func (r *EventRepository) Update(ctx context.Context, e *models.Event) error {
	e.UpdatedAt = time.Now().UTC()
	const query = `UPDATE events SET title = :title, description = :description, start_date = :start_date, end_date = :end_date,
start_time = :start_time, end_time = :end_time, is_all_day = :is_all_day, event_type = :event_type, priority = :priority,
color = :color, location = :location, course_id = :course_id, class = :class, is_personal = :is_personal,
updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, e)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an event.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
