package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aie-portal-api/internal/models"
)

func TestSocialRepositoryPendingBetweenChecksBothDirections(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("(sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)")).
		WithArgs("b", "a").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	pending, err := NewSocialRepository(db).PendingBetween(context.Background(), "b", "a")
	require.NoError(t, err)
	assert.True(t, pending)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSocialRepositoryAcceptCreatesOrderedFriendship(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	req := &models.FriendRequest{ID: "req-1", SenderID: "user-z", ReceiverID: "user-a", Status: models.RequestPending}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE friend_requests SET status = $2")).
		WithArgs("req-1", models.RequestAccepted, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO friendships")).
		WithArgs(sqlmock.AnyArg(), "user-a", "user-z", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, NewSocialRepository(db).Respond(context.Background(), req, models.RequestAccepted))
	assert.Equal(t, models.RequestAccepted, req.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSocialRepositoryRejectSkipsFriendship(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	req := &models.FriendRequest{ID: "req-2", SenderID: "a", ReceiverID: "b", Status: models.RequestPending}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE friend_requests SET status = $2")).
		WithArgs("req-2", models.RequestRejected, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewSocialRepository(db).Respond(context.Background(), req, models.RequestRejected))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSocialRepositoryRespondToSettledRequest(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE friend_requests SET status = $2")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := NewSocialRepository(db).Respond(context.Background(), &models.FriendRequest{ID: "req-3"}, models.RequestAccepted)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSocialRepositoryAreFriendsOrdersPair(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("FROM friendships WHERE user1_id = $1 AND user2_id = $2")).
		WithArgs("alpha", "omega").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := NewSocialRepository(db).AreFriends(context.Background(), "omega", "alpha")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSocialRepositoryConversations(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"friend.id", "friend.email", "friend.first_name", "friend.last_name", "friend.role", "friend.avatar_url", "friend.class", "friend.dept",
		"last_id", "last_sender_id", "last_receiver_id", "last_content", "last_message_type", "last_is_read", "last_created_at", "unread_count",
	}).
		AddRow("f-1", "f1@aie.edu", "Citra", "Dewi", "student", nil, "AIE-A", "AIE",
			"m-9", "f-1", "me", "see you", "text", false, now, 2).
		AddRow("f-2", "f2@aie.edu", "Dimas", "Eka", "student", nil, "AIE-B", "AIE",
			nil, nil, nil, nil, nil, nil, nil, 0)
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN LATERAL")).
		WithArgs("me").
		WillReturnRows(rows)

	conversations, err := NewSocialRepository(db).Conversations(context.Background(), "me")
	require.NoError(t, err)
	require.Len(t, conversations, 2)
	assert.Equal(t, "f-1", conversations[0].Friend.ID)
	require.NotNil(t, conversations[0].LastMessage)
	assert.Equal(t, "see you", conversations[0].LastMessage.Content)
	assert.Equal(t, 2, conversations[0].UnreadCount)
	assert.Nil(t, conversations[1].LastMessage)
	require.NoError(t, mock.ExpectationsWereMet())
}
