package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/aie-portal-api/internal/models"
)

// ChatRepository reads stored assistant conversations.
type ChatRepository struct {
	db *sqlx.DB
}

// NewChatRepository creates a new ChatRepository.
func NewChatRepository(db *sqlx.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Conversations lists conversations, most recently updated first. An empty userID lists all.
func (r *ChatRepository) Conversations(ctx context.Context, userID string) ([]models.AIConversation, error) {
	query := `SELECT id, user_id, title, created_at, updated_at FROM ai_conversations`
	var args []interface{}
	if userID != "" {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY updated_at DESC`

	var conversations []models.AIConversation
	if err := r.db.SelectContext(ctx, &conversations, query, args...); err != nil {
		return nil, fmt.Errorf("list ai conversations: %w", err)
	}
	return emptyIfNil(conversations), nil
}

// FindConversation returns one conversation.
func (r *ChatRepository) FindConversation(ctx context.Context, id string) (*models.AIConversation, error) {
	var conv models.AIConversation
	const query = `SELECT id, user_id, title, created_at, updated_at FROM ai_conversations WHERE id = $1`
	if err := r.db.GetContext(ctx, &conv, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find ai conversation: %w", err)
	}
	return &conv, nil
}

// Messages returns a conversation's messages in order.
func (r *ChatRepository) Messages(ctx context.Context, conversationID string) ([]models.AIMessage, error) {
	var messages []models.AIMessage
	const query = `SELECT id, conversation_id, role, content, message_order, created_at FROM ai_messages
WHERE conversation_id = $1 ORDER BY message_order ASC`
	if err := r.db.SelectContext(ctx, &messages, query, conversationID); err != nil {
		return nil, fmt.Errorf("list ai messages: %w", err)
	}
	return emptyIfNil(messages), nil
}
