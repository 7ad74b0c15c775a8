package ports

import (
	"context"

	"github.com/xchange/skill-exchange/internal/core/domain"
)

// CreatePostInput is the decoded post form. Availabilities is still the
// serialized JSON string sent by the client.
type CreatePostInput struct {
	Email          string
	UserID         string // fallback owner lookup when Email is empty
	Availabilities string
	Learn          []string
	Teach          []string
	Description    string
	Banner         string
}

type PostService interface {
	CreatePost(ctx context.Context, input CreatePostInput) (*domain.Post, error)
	ListAllPosts(ctx context.Context) ([]domain.FeedPost, error)
}
