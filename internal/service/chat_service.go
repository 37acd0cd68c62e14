package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/aie-portal-api/internal/models"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
)

type chatRepository interface {
	Conversations(ctx context.Context, userID string) ([]models.AIConversation, error)
	FindConversation(ctx context.Context, id string) (*models.AIConversation, error)
	Messages(ctx context.Context, conversationID string) ([]models.AIMessage, error)
}

// ChatService exposes stored assistant conversations read-only.
type ChatService struct {
	repo   chatRepository
	logger *zap.Logger
}

func NewChatService(repo chatRepository, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{repo: repo, logger: logger}
}

// Conversations lists a user's conversations, most recently updated first.
func (s *ChatService) Conversations(ctx context.Context, userID string) ([]models.AIConversation, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user_id is required")
	}
	conversations, err := s.repo.Conversations(ctx, userID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list conversations")
	}
	return conversations, nil
}

func (s *ChatService) Conversation(ctx context.Context, id string) (*models.AIConversation, error) {
	conversation, err := s.repo.FindConversation(ctx, id)
	if err != nil {
		return nil, lookupError(err, "conversation")
	}
	return conversation, nil
}

// Messages returns a conversation's messages in order.
func (s *ChatService) Messages(ctx context.Context, conversationID string) ([]models.AIMessage, error) {
	if _, err := s.Conversation(ctx, conversationID); err != nil {
		return nil, err
	}
	messages, err := s.repo.Messages(ctx, conversationID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load conversation messages")
	}
	return messages, nil
}
