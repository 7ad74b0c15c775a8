package service

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/xchange/skill-exchange/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID    map[string]*domain.User
	order   []string // insertion order, mirrors the store's natural order
	nextID  int
	saveErr error
	saves   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.Skills = slices.Clone(u.Skills)
	c.Posts = slices.Clone(u.Posts)
	c.Connections = slices.Clone(u.Connections)
	c.Ratings = slices.Clone(u.Ratings)
	return &c
}

// seed stores u as-is under its own ID.
func (r *stubUserRepo) seed(u *domain.User) *domain.User {
	r.byID[u.ID] = cloneUser(u)
	r.order = append(r.order, u.ID)
	return u
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	c := cloneUser(u)
	c.ID = fmt.Sprintf("user-%d", r.nextID)
	r.byID[c.ID] = c
	r.order = append(r.order, c.ID)
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, id := range r.order {
		if r.byID[id].Email == email {
			return cloneUser(r.byID[id]), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	// Reverse to prove callers don't depend on the store's ordering.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneUser(r.byID[id]))
	}
	return out, nil
}

func (r *stubUserRepo) Save(_ context.Context, u *domain.User) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if _, ok := r.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	for i := range u.Posts {
		if u.Posts[i].ID == "" {
			u.Posts[i].ID = fmt.Sprintf("%s-post-%d", u.ID, i+1)
		}
	}
	r.byID[u.ID] = cloneUser(u)
	r.saves++
	return nil
}

type stubMessageRepo struct {
	msgs      []*domain.Message
	createErr error
	clock     time.Time
}

func newStubMessageRepo() *stubMessageRepo {
	return &stubMessageRepo{clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (r *stubMessageRepo) Create(_ context.Context, m *domain.Message) (*domain.Message, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.clock = r.clock.Add(time.Second)
	c := *m
	c.ID = fmt.Sprintf("msg-%d", len(r.msgs)+1)
	c.CreatedAt = r.clock
	r.msgs = append(r.msgs, &c)
	out := c
	return &out, nil
}

func (r *stubMessageRepo) Conversation(_ context.Context, a, b string) ([]*domain.Message, error) {
	var out []*domain.Message
	for _, m := range r.msgs {
		if (m.Sender == a && m.Receiver == b) || (m.Sender == b && m.Receiver == a) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *stubMessageRepo) ForRecipient(_ context.Context, recipientID string) ([]*domain.Message, error) {
	var out []*domain.Message
	for _, m := range r.msgs {
		if m.Receiver == recipientID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Partners deliberately returns duplicates across both directions, the way
// two separate distinct queries would.
func (r *stubMessageRepo) Partners(_ context.Context, userID string) ([]string, error) {
	var sent, received []string
	seenSent := map[string]bool{}
	seenRecv := map[string]bool{}
	for _, m := range r.msgs {
		if m.Sender == userID && !seenSent[m.Receiver] {
			seenSent[m.Receiver] = true
			sent = append(sent, m.Receiver)
		}
		if m.Receiver == userID && !seenRecv[m.Sender] {
			seenRecv[m.Sender] = true
			received = append(received, m.Sender)
		}
	}
	return append(sent, received...), nil
}

// inlineSerializer runs fn on the caller's goroutine and records the keys.
type inlineSerializer struct {
	keys []string
}

func (s *inlineSerializer) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	s.keys = append(s.keys, key)
	return fn(ctx)
}

var discardLogger = zerolog.Nop()
