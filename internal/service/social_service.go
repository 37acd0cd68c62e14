package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/aie-portal-api/internal/models"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
)

const (
	requestsReceived = "received"
	requestsSent     = "sent"
)

type socialRepository interface {
	PendingBetween(ctx context.Context, a, b string) (bool, error)
	CreateRequest(ctx context.Context, req *models.FriendRequest) error
	FindRequest(ctx context.Context, id string) (*models.FriendRequest, error)
	ListRequests(ctx context.Context, userID string, sent bool) ([]models.FriendRequestDetail, error)
	Respond(ctx context.Context, req *models.FriendRequest, status string) error
	AreFriends(ctx context.Context, a, b string) (bool, error)
	Friends(ctx context.Context, userID string) ([]models.Friend, error)
	Conversations(ctx context.Context, userID string) ([]models.Conversation, error)
	Messages(ctx context.Context, userID, friendID string) ([]models.Message, error)
	CreateMessage(ctx context.Context, msg *models.Message) error
	MarkRead(ctx context.Context, userID, friendID string) (int64, error)
}

type messagePusher interface {
	PushMessage(ctx context.Context, msg *models.Message)
}

// SocialService handles friend requests, friendships and direct messages.
type SocialService struct {
	repo      socialRepository
	users     actorLookup
	notifier  Notifier
	pusher    messagePusher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSocialService constructs a SocialService. pusher delivers new messages to connected clients.
func NewSocialService(repo socialRepository, users actorLookup, notifier Notifier, pusher messagePusher, validate *validator.Validate, logger *zap.Logger) *SocialService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SocialService{repo: repo, users: users, notifier: notifier, pusher: pusher, validator: validate, logger: logger}
}

// SendRequest creates a pending friend request. Self requests are invalid; existing friends and
// a pending request in either direction are conflicts.
func (s *SocialService) SendRequest(ctx context.Context, in models.FriendRequestInput) (*models.FriendRequest, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, appErrors.Validation(err, "sender_id and receiver_id are required")
	}
	if in.SenderID == in.ReceiverID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cannot send a friend request to yourself")
	}
	sender, err := s.users.FindByID(ctx, in.SenderID)
	if err != nil {
		return nil, lookupError(err, "sender")
	}
	if _, err := s.users.FindByID(ctx, in.ReceiverID); err != nil {
		return nil, lookupError(err, "receiver")
	}

	friends, err := s.repo.AreFriends(ctx, in.SenderID, in.ReceiverID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check friendship")
	}
	if friends {
		return nil, appErrors.Clone(appErrors.ErrConflict, "already friends")
	}
	pending, err := s.repo.PendingBetween(ctx, in.SenderID, in.ReceiverID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check friend requests")
	}
	if pending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a friend request is already pending")
	}

	req := &models.FriendRequest{SenderID: in.SenderID, ReceiverID: in.ReceiverID, Message: in.Message, Status: models.RequestPending}
	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return nil, writeError(err, "send friend request")
	}
	s.notifyUser(ctx, models.NotifFriendRequest, in.ReceiverID, sender.ID,
		"New friend request", sender.FullName()+" sent you a friend request",
		map[string]interface{}{"request_id": req.ID, "sender_id": sender.ID})
	return req, nil
}

// Requests lists the requests a user received or sent.
func (s *SocialService) Requests(ctx context.Context, userID, kind string) ([]models.FriendRequestDetail, error) {
	var sent bool
	switch kind {
	case "", requestsReceived:
	case requestsSent:
		sent = true
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "type must be received or sent")
	}
	requests, err := s.repo.ListRequests(ctx, userID, sent)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list friend requests")
	}
	return requests, nil
}

// Respond accepts or rejects a pending request. Only the receiver may answer.
func (s *SocialService) Respond(ctx context.Context, requestID string, in models.FriendRequestAction) (*models.FriendRequest, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, appErrors.Validation(err, "action must be accept or reject")
	}
	if in.UserID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user_id is required")
	}
	req, err := s.repo.FindRequest(ctx, requestID)
	if err != nil {
		return nil, lookupError(err, "friend request")
	}
	if req.ReceiverID != in.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the receiver can respond to this request")
	}
	if req.Status != models.RequestPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "friend request already "+req.Status)
	}

	status := models.RequestRejected
	if in.Action == "accept" {
		status = models.RequestAccepted
	}
	if err := s.repo.Respond(ctx, req, status); err != nil {
		if isNoRows(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "friend request is no longer pending")
		}
		return nil, appErrors.Internal(err, "failed to respond to friend request")
	}
	req.Status = status

	if status == models.RequestAccepted {
		name := "Your friend"
		if receiver, err := s.users.FindByID(ctx, req.ReceiverID); err == nil {
			name = receiver.FullName()
		}
		s.notifyUser(ctx, models.NotifFriendRequest, req.SenderID, req.ReceiverID,
			"Friend request accepted", name+" accepted your friend request",
			map[string]interface{}{"request_id": req.ID, "status": status})
	}
	return req, nil
}

// Friends lists a user's friends; failures degrade to an empty list.
func (s *SocialService) Friends(ctx context.Context, userID string) []models.Friend {
	friends, err := s.repo.Friends(ctx, userID)
	return degradeToEmpty(s.logger, "friends", friends, err, []models.Friend{})
}

// Conversations summarises each friend chat; failures degrade to an empty list.
func (s *SocialService) Conversations(ctx context.Context, userID string) []models.Conversation {
	conversations, err := s.repo.Conversations(ctx, userID)
	return degradeToEmpty(s.logger, "conversations", conversations, err, []models.Conversation{})
}

// Messages returns the chat between two users, oldest first.
func (s *SocialService) Messages(ctx context.Context, userID, friendID string) ([]models.Message, error) {
	messages, err := s.repo.Messages(ctx, userID, friendID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load messages")
	}
	return messages, nil
}

// SendMessage stores a message between friends and pushes it to the receiver.
func (s *SocialService) SendMessage(ctx context.Context, in models.MessageInput) (*models.Message, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, appErrors.Validation(err, "sender_id, receiver_id and content are required")
	}
	if in.SenderID == in.ReceiverID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cannot message yourself")
	}
	friends, err := s.repo.AreFriends(ctx, in.SenderID, in.ReceiverID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check friendship")
	}
	if !friends {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you can only message friends")
	}

	msg := &models.Message{
		SenderID:    in.SenderID,
		ReceiverID:  in.ReceiverID,
		Content:     in.Content,
		MessageType: firstNonEmpty(in.MessageType, "text"),
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, writeError(err, "send message")
	}

	if s.pusher != nil {
		s.pusher.PushMessage(ctx, msg)
	}
	name := "A friend"
	if sender, err := s.users.FindByID(ctx, in.SenderID); err == nil {
		name = sender.FullName()
	}
	s.notifyUser(ctx, models.NotifChat, in.ReceiverID, in.SenderID, "New message from "+name, preview(in.Content),
		map[string]interface{}{"message_id": msg.ID, "sender_id": in.SenderID})
	return msg, nil
}

// MarkRead marks every message from friendID to userID as read.
func (s *SocialService) MarkRead(ctx context.Context, in models.MarkReadInput) (int64, error) {
	if err := s.validator.Struct(in); err != nil {
		return 0, appErrors.Validation(err, "friend_id is required")
	}
	if in.UserID == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "user_id is required")
	}
	updated, err := s.repo.MarkRead(ctx, in.UserID, in.FriendID)
	if err != nil {
		return 0, appErrors.Internal(err, "failed to mark messages read")
	}
	return updated, nil
}

func (s *SocialService) notifyUser(ctx context.Context, kind, recipient, actor, title, message string, meta map[string]interface{}) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, models.NotificationEvent{
		Type:     kind,
		Title:    title,
		Message:  message,
		ActorID:  actor,
		Meta:     meta,
		Audience: models.Audience{UserIDs: []string{recipient}},
	})
}

// preview shortens message content for notification bodies.
func preview(content string) string {
	const max = 80
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max-1]) + "…"
}
