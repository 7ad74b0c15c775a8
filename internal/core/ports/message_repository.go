package ports

import (
	"context"

	"github.com/xchange/skill-exchange/internal/core/domain"
)

// MessageRepository persists direct messages.
type MessageRepository interface {
	// Create stores msg, assigning its ID and creation timestamp.
	Create(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	// Conversation returns messages exchanged between a and b in either
	// direction, oldest first.
	Conversation(ctx context.Context, a, b string) ([]*domain.Message, error)
	// ForRecipient returns messages addressed to recipientID, newest first.
	ForRecipient(ctx context.Context, recipientID string) ([]*domain.Message, error)
	// Partners returns the distinct receivers userID has written to and the
	// distinct senders that wrote to userID.
	Partners(ctx context.Context, userID string) ([]string, error)
}
