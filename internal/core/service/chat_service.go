package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/xchange/skill-exchange/internal/core/domain"
	"github.com/xchange/skill-exchange/internal/core/ports"
)

type ChatService struct {
	messages ports.MessageRepository
	users    ports.UserRepository
	logger   zerolog.Logger
}

func NewChatService(messages ports.MessageRepository, users ports.UserRepository, logger zerolog.Logger) *ChatService {
	return &ChatService{messages: messages, users: users, logger: logger}
}

// SendMessage persists a message. The store assigns the creation timestamp.
func (s *ChatService) SendMessage(ctx context.Context, input ports.SendMessageInput) (*domain.Message, error) {
	msg := &domain.Message{
		Sender:   input.Sender,
		Receiver: input.Receiver,
		Content:  input.Content,
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	saved, err := s.messages.Create(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("persist message: %w", err)
	}
	return saved, nil
}

// History returns the conversation between two users, oldest first.
func (s *ChatService) History(ctx context.Context, userA, userB string) ([]*domain.Message, error) {
	if userA == "" || userB == "" {
		return nil, fmt.Errorf("%w: sender and receiver IDs are required", domain.ErrBadInput)
	}
	return s.messages.Conversation(ctx, userA, userB)
}

// ForRecipient returns everything addressed to recipientID, newest first.
func (s *ChatService) ForRecipient(ctx context.Context, recipientID string) ([]*domain.Message, error) {
	if recipientID == "" {
		return nil, fmt.Errorf("%w: recipient ID is required", domain.ErrBadInput)
	}
	return s.messages.ForRecipient(ctx, recipientID)
}

// ChatUsers returns every user userID has exchanged messages with, in either
// direction. Order is unspecified. An empty userID has no partners.
func (s *ChatService) ChatUsers(ctx context.Context, userID string) ([]*domain.User, error) {
	if userID == "" {
		return []*domain.User{}, nil
	}

	ids, err := s.messages.Partners(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("chat partners: %w", err)
	}
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}

	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	return s.users.FindByIDs(ctx, unique)
}
