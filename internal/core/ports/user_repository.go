package ports

import (
	"context"

	"github.com/xchange/skill-exchange/internal/core/domain"
)

// UserRepository persists users together with their embedded posts and
// ratings.
type UserRepository interface {
	// Create inserts a new user and returns it with its assigned ID.
	// A duplicate email yields domain.ErrEmailTaken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByIDs resolves the given ids. Missing users are skipped and the
	// result order is unspecified.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	// FindAll returns every user in store-default order.
	FindAll(ctx context.Context) ([]*domain.User, error)
	// Save replaces the stored document with user. Embedded posts without an
	// ID are assigned one, written back into user.
	Save(ctx context.Context, user *domain.User) error
}
