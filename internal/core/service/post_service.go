package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/xchange/skill-exchange/internal/core/domain"
	"github.com/xchange/skill-exchange/internal/core/ports"
)

type PostService struct {
	repo   ports.UserRepository
	serial ports.Serializer
	logger zerolog.Logger
	now    func() time.Time
}

func NewPostService(repo ports.UserRepository, serial ports.Serializer, logger zerolog.Logger) *PostService {
	return &PostService{
		repo:   repo,
		serial: serial,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// CreatePost appends a post to the owner's embedded list. The owner is
// resolved first, by email or by user ID when no email was supplied. A
// malformed availabilities payload then fails the whole call before anything
// is written.
func (s *PostService) CreatePost(ctx context.Context, input ports.CreatePostInput) (*domain.Post, error) {
	owner, err := s.resolveOwner(ctx, input)
	if err != nil {
		return nil, err
	}

	availabilities, err := domain.DecodeAvailabilities(input.Availabilities)
	if err != nil {
		return nil, err
	}

	post := domain.Post{
		Availabilities: availabilities,
		Learn:          nonNil(input.Learn),
		Teach:          nonNil(input.Teach),
		Description:    input.Description,
		CreatedAt:      s.now(),
		Banner:         input.Banner,
	}

	var created domain.Post
	err = s.serial.Do(ctx, owner.ID, func(ctx context.Context) error {
		user, err := s.repo.FindByID(ctx, owner.ID)
		if err != nil {
			return err
		}
		user.AddPost(post)
		if err := s.repo.Save(ctx, user); err != nil {
			return fmt.Errorf("save post: %w", err)
		}
		created, _ = user.LastPost()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", owner.ID).Str("post_id", created.ID).Msg("post created")
	return &created, nil
}

func (s *PostService) resolveOwner(ctx context.Context, input ports.CreatePostInput) (*domain.User, error) {
	if email := strings.TrimSpace(input.Email); email != "" {
		return s.repo.FindByEmail(ctx, email)
	}
	if input.UserID != "" {
		return s.repo.FindByID(ctx, input.UserID)
	}
	return nil, domain.ErrUserNotFound
}

// ListAllPosts flattens every user's posts into one feed. Users come in store
// order and posts keep their insertion order; there is no global sort.
func (s *PostService) ListAllPosts(ctx context.Context) ([]domain.FeedPost, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	feed := make([]domain.FeedPost, 0)
	for _, u := range users {
		feed = append(feed, u.Feed()...)
	}
	return feed, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
