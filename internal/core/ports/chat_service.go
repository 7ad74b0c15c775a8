package ports

import (
	"context"

	"github.com/xchange/skill-exchange/internal/core/domain"
)

// SendMessageInput is the payload of a sendMessage event.
type SendMessageInput struct {
	Sender   string
	Receiver string
	Content  string
}

type ChatService interface {
	// SendMessage validates and persists a message. Delivery to live
	// connections is the relay's job.
	SendMessage(ctx context.Context, input SendMessageInput) (*domain.Message, error)
	History(ctx context.Context, userA, userB string) ([]*domain.Message, error)
	ForRecipient(ctx context.Context, recipientID string) ([]*domain.Message, error)
	ChatUsers(ctx context.Context, userID string) ([]*domain.User, error)
}
