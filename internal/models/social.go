package models

import "time"

// Friend request states.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// FriendRequest is a row of friend_requests.
type FriendRequest struct {
	ID         string    `db:"id" json:"id"`
	SenderID   string    `db:"sender_id" json:"sender_id"`
	ReceiverID string    `db:"receiver_id" json:"receiver_id"`
	Message    *string   `db:"message" json:"message"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// FriendRequestDetail carries both parties' profiles.
type FriendRequestDetail struct {
	FriendRequest
	Sender   UserSummary `db:"sender" json:"sender"`
	Receiver UserSummary `db:"receiver" json:"receiver"`
}

// FriendRequestInput sends a friend request.
type FriendRequestInput struct {
	SenderID   string  `json:"sender_id" validate:"required"`
	ReceiverID string  `json:"receiver_id" validate:"required"`
	Message    *string `json:"message"`
}

// FriendRequestAction answers a pending request.
type FriendRequestAction struct {
	Action string `json:"action" validate:"required,oneof=accept reject"`
	UserID string `json:"user_id"`
}

// Friendship is a row of friendships; User1ID < User2ID always holds.
type Friendship struct {
	ID        string    `db:"id" json:"id"`
	User1ID   string    `db:"user1_id" json:"user1_id"`
	User2ID   string    `db:"user2_id" json:"user2_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// OrderedPair returns a and b with the smaller id first.
func OrderedPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// Friend is the other side of a friendship.
type Friend struct {
	UserSummary
	FriendsSince time.Time `db:"friends_since" json:"friends_since"`
}

// Message is a row of messages.
type Message struct {
	ID          string    `db:"id" json:"id"`
	SenderID    string    `db:"sender_id" json:"sender_id"`
	ReceiverID  string    `db:"receiver_id" json:"receiver_id"`
	Content     string    `db:"content" json:"content"`
	MessageType string    `db:"message_type" json:"message_type"`
	IsRead      bool      `db:"is_read" json:"is_read"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// MessageInput sends a direct message.
type MessageInput struct {
	SenderID    string `json:"sender_id" validate:"required"`
	ReceiverID  string `json:"receiver_id" validate:"required"`
	Content     string `json:"content" validate:"required"`
	MessageType string `json:"message_type" validate:"omitempty,oneof=text image file"`
}

// MarkReadInput marks a conversation as read for UserID.
type MarkReadInput struct {
	UserID   string `json:"user_id"`
	FriendID string `json:"friend_id" validate:"required"`
}

// Conversation summarises a chat with one friend.
type Conversation struct {
	Friend      UserSummary `json:"friend"`
	LastMessage *Message    `json:"last_message"`
	UnreadCount int         `json:"unread_count"`
}

// ConversationRow is the flat result of the conversations query.
type ConversationRow struct {
	Friend      UserSummary `db:"friend"`
	LastID      *string     `db:"last_id"`
	LastSender  *string     `db:"last_sender_id"`
	LastRecv    *string     `db:"last_receiver_id"`
	LastContent *string     `db:"last_content"`
	LastType    *string     `db:"last_message_type"`
	LastRead    *bool       `db:"last_is_read"`
	LastAt      *time.Time  `db:"last_created_at"`
	UnreadCount int         `db:"unread_count"`
}

// Conversation converts the flat row.
func (r ConversationRow) Conversation() Conversation {
	conv := Conversation{Friend: r.Friend, UnreadCount: r.UnreadCount}
	if r.LastID != nil {
		msg := &Message{ID: *r.LastID}
		if r.LastSender != nil {
			msg.SenderID = *r.LastSender
		}
		if r.LastRecv != nil {
			msg.ReceiverID = *r.LastRecv
		}
		if r.LastContent != nil {
			msg.Content = *r.LastContent
		}
		if r.LastType != nil {
			msg.MessageType = *r.LastType
		}
		if r.LastRead != nil {
			msg.IsRead = *r.LastRead
		}
		if r.LastAt != nil {
			msg.CreatedAt = *r.LastAt
		}
		conv.LastMessage = msg
	}
	return conv
}
