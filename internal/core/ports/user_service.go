package ports

import (
	"context"

	"github.com/xchange/skill-exchange/internal/core/domain"
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	FirstName  string
	LastName   string
	Email      string
	Password   string
	Skills     []string
	ProfilePic string // stored upload path, empty when no file was sent
}

type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}
