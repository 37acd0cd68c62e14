package models

import "time"

// AIConversation is a row of ai_conversations.
type AIConversation struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Title     *string   `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AIMessage is a row of ai_messages.
type AIMessage struct {
	ID             string    `db:"id" json:"id"`
	ConversationID string    `db:"conversation_id" json:"conversation_id"`
	Role           string    `db:"role" json:"role"`
	Content        string    `db:"content" json:"content"`
	MessageOrder   int       `db:"message_order" json:"message_order"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
