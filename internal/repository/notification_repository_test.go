package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aie-portal-api/internal/models"
)

func TestNotificationRepositoryListUnreadOnly(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "recipient_id", "actor_id", "notif_type", "title", "message", "meta", "is_read",
		"resource_id", "assignment_id", "event_id", "timetable_id", "saturday_row_id", "created_at"}).
		AddRow("n-1", "user-1", "fac-1", "assignment", "New assignment", nil, []byte(`{"course_id":"c-1"}`), false,
			nil, "as-1", nil, nil, nil, time.Now())
	mock.ExpectQuery(`FROM notifications WHERE recipient_id = \$1 AND is_read = \$2 ORDER BY created_at DESC LIMIT 50`).
		WithArgs("user-1", false).
		WillReturnRows(rows)

	items, err := NewNotificationRepository(db).List(context.Background(), models.NotificationFilter{
		RecipientID: "user-1",
		UnreadOnly:  true,
		Limit:       50,
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.NotifAssignment, items[0].NotifType)
	assert.JSONEq(t, `{"course_id":"c-1"}`, string(items[0].Meta))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryInsertBatch(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications")).
		WillReturnResult(sqlmock.NewResult(0, 2))

	items := []models.Notification{
		{RecipientID: "u-1", NotifType: models.NotifEvent, Title: "Seminar"},
		{RecipientID: "u-2", NotifType: models.NotifEvent, Title: "Seminar"},
	}
	require.NoError(t, NewNotificationRepository(db).InsertBatch(context.Background(), items))
	for _, item := range items {
		assert.NotEmpty(t, item.ID)
		assert.Equal(t, "{}", string(item.Meta))
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryInsertBatchEmpty(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	require.NoError(t, NewNotificationRepository(db).InsertBatch(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryMarkAllRead(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET is_read = TRUE WHERE recipient_id = $1")).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := NewNotificationRepository(db).MarkAllRead(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
