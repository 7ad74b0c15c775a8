package ports

import (
	"context"

	"github.com/xchange/skill-exchange/internal/core/domain"
)

// ConnectionService mutates the one-directional connection graph.
type ConnectionService interface {
	Connect(ctx context.Context, userID, targetID string) (*domain.User, error)
	Disconnect(ctx context.Context, userID, targetID string) (*domain.User, error)
	ListConnections(ctx context.Context, userID string) ([]*domain.User, error)
}
