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

const friendRequestSelect = `SELECT fr.id, fr.sender_id, fr.receiver_id, fr.message, fr.status, fr.created_at, fr.updated_at,
s.id AS "sender.id", s.email AS "sender.email", s.first_name AS "sender.first_name", s.last_name AS "sender.last_name",
s.role AS "sender.role", s.avatar_url AS "sender.avatar_url", s.class AS "sender.class", s.dept AS "sender.dept",
r.id AS "receiver.id", r.email AS "receiver.email", r.first_name AS "receiver.first_name", r.last_name AS "receiver.last_name",
r.role AS "receiver.role", r.avatar_url AS "receiver.avatar_url", r.class AS "receiver.class", r.dept AS "receiver.dept"
FROM friend_requests fr
JOIN users s ON s.id = fr.sender_id
JOIN users r ON r.id = fr.receiver_id`

// friend is the side of a friendship row that is not $1.
const friendSide = `CASE WHEN f.user1_id = $1 THEN f.user2_id ELSE f.user1_id END`

const friendsQuery = `SELECT u.id, u.email, u.first_name, u.last_name, u.role, u.avatar_url, u.class, u.dept,
f.created_at AS friends_since
FROM friendships f
JOIN users u ON u.id = ` + friendSide + `
WHERE f.user1_id = $1 OR f.user2_id = $1
ORDER BY u.first_name, u.last_name`

const conversationsQuery = `SELECT u.id AS "friend.id", u.email AS "friend.email", u.first_name AS "friend.first_name",
u.last_name AS "friend.last_name", u.role AS "friend.role", u.avatar_url AS "friend.avatar_url", u.class AS "friend.class",
u.dept AS "friend.dept",
lm.id AS last_id, lm.sender_id AS last_sender_id, lm.receiver_id AS last_receiver_id, lm.content AS last_content,
lm.message_type AS last_message_type, lm.is_read AS last_is_read, lm.created_at AS last_created_at,
(SELECT COUNT(*) FROM messages um WHERE um.sender_id = u.id AND um.receiver_id = $1 AND um.is_read = FALSE) AS unread_count
FROM friendships f
JOIN users u ON u.id = ` + friendSide + `
LEFT JOIN LATERAL (
	SELECT m.id, m.sender_id, m.receiver_id, m.content, m.message_type, m.is_read, m.created_at
	FROM messages m
	WHERE (m.sender_id = $1 AND m.receiver_id = u.id) OR (m.sender_id = u.id AND m.receiver_id = $1)
	ORDER BY m.created_at DESC
	LIMIT 1
) lm ON TRUE
WHERE f.user1_id = $1 OR f.user2_id = $1
ORDER BY lm.created_at DESC NULLS LAST, u.first_name`

// SocialRepository stores friend requests, friendships and direct messages.
type SocialRepository struct {
	db *sqlx.DB
}

// NewSocialRepository creates a new SocialRepository.
func NewSocialRepository(db *sqlx.DB) *SocialRepository {
	return &SocialRepository{db: db}
}

// PendingBetween reports whether a pending request exists in either direction.
func (r *SocialRepository) PendingBetween(ctx context.Context, a, b string) (bool, error) {
	var exists bool
	const query = `SELECT EXISTS(SELECT 1 FROM friend_requests WHERE status = 'pending'
AND ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)))`
	if err := r.db.GetContext(ctx, &exists, query, a, b); err != nil {
		return false, fmt.Errorf("check pending friend request: %w", err)
	}
	return exists, nil
}

// CreateRequest inserts a pending friend request.
func (r *SocialRepository) CreateRequest(ctx context.Context, req *models.FriendRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	req.CreatedAt, req.UpdatedAt = now, now
	if req.Status == "" {
		req.Status = models.RequestPending
	}
	const query = `INSERT INTO friend_requests (id, sender_id, receiver_id, message, status, created_at, updated_at)
VALUES (:id, :sender_id, :receiver_id, :message, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("create friend request: %w", err)
	}
	return nil
}

// FindRequest returns a friend request.
func (r *SocialRepository) FindRequest(ctx context.Context, id string) (*models.FriendRequest, error) {
	var req models.FriendRequest
	const query = `SELECT id, sender_id, receiver_id, message, status, created_at, updated_at FROM friend_requests WHERE id = $1`
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find friend request: %w", err)
	}
	return &req, nil
}

// ListRequests returns pending requests received (or sent, when sent is true) by the user.
func (r *SocialRepository) ListRequests(ctx context.Context, userID string, sent bool) ([]models.FriendRequestDetail, error) {
	column := "fr.receiver_id"
	if sent {
		column = "fr.sender_id"
	}
	query := friendRequestSelect + ` WHERE ` + column + ` = $1 AND fr.status = 'pending' ORDER BY fr.created_at DESC`
	var requests []models.FriendRequestDetail
	if err := r.db.SelectContext(ctx, &requests, query, userID); err != nil {
		return nil, fmt.Errorf("list friend requests: %w", err)
	}
	return emptyIfNil(requests), nil
}

// Respond sets the request status and, on accept, creates the friendship in the same transaction.
func (r *SocialRepository) Respond(ctx context.Context, req *models.FriendRequest, status string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin friend request response: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `UPDATE friend_requests SET status = $2, updated_at = $3 WHERE id = $1 AND status = 'pending'`, req.ID, status, now)
	if err != nil {
		return fmt.Errorf("update friend request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	if status == models.RequestAccepted {
		u1, u2 := models.OrderedPair(req.SenderID, req.ReceiverID)
		const insert = `INSERT INTO friendships (id, user1_id, user2_id, created_at) VALUES ($1, $2, $3, $4)
ON CONFLICT (user1_id, user2_id) DO NOTHING`
		if _, err := tx.ExecContext(ctx, insert, uuid.NewString(), u1, u2, now); err != nil {
			return fmt.Errorf("create friendship: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit friend request response: %w", err)
	}
	req.Status = status
	req.UpdatedAt = now
	return nil
}

// AreFriends reports whether a friendship row links a and b.
func (r *SocialRepository) AreFriends(ctx context.Context, a, b string) (bool, error) {
	u1, u2 := models.OrderedPair(a, b)
	var exists bool
	const query = `SELECT EXISTS(SELECT 1 FROM friendships WHERE user1_id = $1 AND user2_id = $2)`
	if err := r.db.GetContext(ctx, &exists, query, u1, u2); err != nil {
		return false, fmt.Errorf("check friendship: %w", err)
	}
	return exists, nil
}

// Friends lists the user's friends by name.
func (r *SocialRepository) Friends(ctx context.Context, userID string) ([]models.Friend, error) {
	var friends []models.Friend
	if err := r.db.SelectContext(ctx, &friends, friendsQuery, userID); err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	return emptyIfNil(friends), nil
}

// Conversations returns one row per friend with the latest message and the unread count.
func (r *SocialRepository) Conversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	var rows []models.ConversationRow
	if err := r.db.SelectContext(ctx, &rows, conversationsQuery, userID); err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	conversations := make([]models.Conversation, 0, len(rows))
	for _, row := range rows {
		conversations = append(conversations, row.Conversation())
	}
	return conversations, nil
}

// Messages returns the messages exchanged by two users, oldest first.
func (r *SocialRepository) Messages(ctx context.Context, userID, friendID string) ([]models.Message, error) {
	var messages []models.Message
	const query = `SELECT id, sender_id, receiver_id, content, message_type, is_read, created_at FROM messages
WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &messages, query, userID, friendID); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return emptyIfNil(messages), nil
}

// CreateMessage inserts a direct message.
func (r *SocialRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO messages (id, sender_id, receiver_id, content, message_type, is_read, created_at)
VALUES (:id, :sender_id, :receiver_id, :content, :message_type, :is_read, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, msg); err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// MarkRead flags every message from friendID to userID as read.
func (r *SocialRepository) MarkRead(ctx context.Context, userID, friendID string) (int64, error) {
	const query = `UPDATE messages SET is_read = TRUE WHERE receiver_id = $1 AND sender_id = $2 AND is_read = FALSE`
	res, err := r.db.ExecContext(ctx, query, userID, friendID)
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
