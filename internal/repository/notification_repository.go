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
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/aie-portal-api/internal/models"
)

const notificationColumns = `id, recipient_id, actor_id, notif_type, title, message, meta, is_read, resource_id, assignment_id,
event_id, timetable_id, saturday_row_id, created_at`

// NotificationRepository stores notifications and resolves their recipients.
type NotificationRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db, sb: newBuilder()}
}

// List returns a recipient's notifications, newest first.
func (r *NotificationRepository) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, error) {
	builder := r.sb.Select(notificationColumns).
		From("notifications").
		Where(squirrel.Eq{"recipient_id": filter.RecipientID}).
		OrderBy("created_at DESC")
	if filter.UnreadOnly {
		builder = builder.Where(squirrel.Eq{"is_read": false})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build notification query: %w", err)
	}
	var items []models.Notification
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return emptyIfNil(items), nil
}

// FindByID returns a notification.
func (r *NotificationRepository) FindByID(ctx context.Context, id string) (*models.Notification, error) {
	var n models.Notification
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	if err := r.db.GetContext(ctx, &n, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find notification: %w", err)
	}
	return &n, nil
}

// CountUnread counts a recipient's unread notifications.
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	var count int
	const query = `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`
	if err := r.db.GetContext(ctx, &count, query, recipientID); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flags one notification as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MarkAllRead flags every unread notification of the recipient and returns how many changed.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE recipient_id = $1 AND is_read = FALSE`, recipientID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Delete removes a notification.
func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// InsertBatch writes all rows in one statement, filling ids and timestamps.
func (r *NotificationRepository) InsertBatch(ctx context.Context, items []models.Notification) error {
	if len(items) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		if len(items[i].Meta) == 0 {
			items[i].Meta = types.JSONText("{}")
		}
		items[i].CreatedAt = now
	}
	const query = `INSERT INTO notifications (` + notificationColumns + `)
VALUES (:id, :recipient_id, :actor_id, :notif_type, :title, :message, :meta, :is_read, :resource_id, :assignment_id,
:event_id, :timetable_id, :saturday_row_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, items); err != nil {
		return fmt.Errorf("insert notifications: %w", err)
	}
	return nil
}

// StudentsInClass returns the ids of active students in a class.
func (r *NotificationRepository) StudentsInClass(ctx context.Context, class string) ([]string, error) {
	var ids []string
	const query = `SELECT id FROM users WHERE role = 'student' AND class = $1 AND is_active = TRUE`
	if err := r.db.SelectContext(ctx, &ids, query, class); err != nil {
		return nil, fmt.Errorf("list class students: %w", err)
	}
	return ids, nil
}

// StudentsInCourse returns the ids of students actively enrolled in a course.
func (r *NotificationRepository) StudentsInCourse(ctx context.Context, courseID string) ([]string, error) {
	var ids []string
	const query = `SELECT student_id FROM enrollments WHERE course_id = $1 AND status = 'active'`
	if err := r.db.SelectContext(ctx, &ids, query, courseID); err != nil {
		return nil, fmt.Errorf("list course students: %w", err)
	}
	return ids, nil
}
