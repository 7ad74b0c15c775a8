package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/xchange/skill-exchange/internal/core/domain"
	"github.com/xchange/skill-exchange/internal/core/ports"
)

const sampleAvailabilities = `[{"day":"Mon","fromTime":"09:00","toTime":"10:00"}]`

func TestPostService_CreatePost_AppendsToOwner(t *testing.T) {
	repo := newStubUserRepo()
	repo.seed(&domain.User{ID: "u1", Email: "a@x.com"})
	serial := &inlineSerializer{}
	svc := NewPostService(repo, serial, discardLogger)

	post, err := svc.CreatePost(context.Background(), ports.CreatePostInput{
		Email:          "a@x.com",
		Availabilities: sampleAvailabilities,
		Learn:          []string{"piano"},
		Teach:          []string{"go", "sql"},
		Description:    "swap lessons",
		Banner:         "uploads/banner-1.png",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if post.ID == "" {
		t.Error("expected post ID to be assigned on save")
	}
	if post.UserID != "u1" {
		t.Errorf("expected owner u1, got %q", post.UserID)
	}
	if post.CreatedAt.IsZero() {
		t.Error("CreatedAt must not be zero")
	}
	if !reflect.DeepEqual(post.Teach, []string{"go", "sql"}) {
		t.Errorf("unexpected teach: %v", post.Teach)
	}
	if len(post.Availabilities) != 1 || post.Availabilities[0].Day != "Mon" {
		t.Errorf("unexpected availabilities: %+v", post.Availabilities)
	}
	if !reflect.DeepEqual(serial.keys, []string{"u1"}) {
		t.Errorf("expected mutation serialized on u1, got %v", serial.keys)
	}

	stored := repo.byID["u1"]
	if len(stored.Posts) != 1 || stored.Posts[0].ID != post.ID {
		t.Fatalf("post not persisted on owner: %+v", stored.Posts)
	}
}

func TestPostService_CreatePost_BadAvailabilitiesWritesNothing(t *testing.T) {
	repo := newStubUserRepo()
	repo.seed(&domain.User{ID: "u1", Email: "a@x.com"})
	svc := NewPostService(repo, &inlineSerializer{}, discardLogger)

	_, err := svc.CreatePost(context.Background(), ports.CreatePostInput{
		Email:          "a@x.com",
		Availabilities: "{not json",
	})
	if !errors.Is(err, domain.ErrBadInput) {
		t.Fatalf("expected ErrBadInput, got %v", err)
	}
	if repo.saves != 0 || len(repo.byID["u1"].Posts) != 0 {
		t.Fatal("no partial post may be written")
	}
}

func TestPostService_CreatePost_UnknownOwner(t *testing.T) {
	svc := NewPostService(newStubUserRepo(), &inlineSerializer{}, discardLogger)

	_, err := svc.CreatePost(context.Background(), ports.CreatePostInput{
		Email:          "ghost@x.com",
		Availabilities: sampleAvailabilities,
	})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPostService_CreatePost_UnknownOwnerWinsOverBadAvailabilities(t *testing.T) {
	svc := NewPostService(newStubUserRepo(), &inlineSerializer{}, discardLogger)

	_, err := svc.CreatePost(context.Background(), ports.CreatePostInput{
		Email:          "ghost@x.com",
		Availabilities: "{not json",
	})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPostService_CreatePost_TrimsOwnerEmail(t *testing.T) {
	repo := newStubUserRepo()
	repo.seed(&domain.User{ID: "u1", Email: "a@x.com"})
	svc := NewPostService(repo, &inlineSerializer{}, discardLogger)

	post, err := svc.CreatePost(context.Background(), ports.CreatePostInput{
		Email:          " a@x.com ",
		Availabilities: sampleAvailabilities,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.UserID != "u1" {
		t.Fatalf("expected owner u1, got %q", post.UserID)
	}
}

func TestPostService_CreatePost_FallsBackToUserID(t *testing.T) {
	repo := newStubUserRepo()
	repo.seed(&domain.User{ID: "u1", Email: "a@x.com"})
	svc := NewPostService(repo, &inlineSerializer{}, discardLogger)

	post, err := svc.CreatePost(context.Background(), ports.CreatePostInput{
		UserID:         "u1",
		Availabilities: "[]",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.UserID != "u1" {
		t.Fatalf("expected owner u1, got %q", post.UserID)
	}
	if post.Learn == nil || post.Teach == nil || post.Availabilities == nil {
		t.Fatal("list fields must never be nil")
	}
}

func TestPostService_ListAllPosts_ReflectsCurrentOwnerState(t *testing.T) {
	repo := newStubUserRepo()
	repo.seed(&domain.User{
		ID:        "u1",
		FirstName: "Ada",
		Email:     "a@x.com",
		Posts:     []domain.Post{{ID: "p1", UserID: "u1"}, {ID: "p2", UserID: "u1"}},
	})
	repo.seed(&domain.User{
		ID:        "u2",
		FirstName: "Bob",
		Email:     "b@x.com",
		Posts:     []domain.Post{{ID: "p3", UserID: "u2"}},
		Ratings:   []domain.Rating{{Rater: "u1", Value: 3}, {Rater: "u3", Value: 5}},
	})
	repo.seed(&domain.User{ID: "u3", FirstName: "NoPosts"})

	rating := NewRatingService(repo, &inlineSerializer{}, discardLogger)
	if _, err := rating.Rate(context.Background(), "u1", "u2", 5); err != nil {
		t.Fatalf("rate: %v", err)
	}

	svc := NewPostService(repo, &inlineSerializer{}, discardLogger)
	feed, err := svc.ListAllPosts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gotIDs := make([]string, len(feed))
	for i, fp := range feed {
		gotIDs[i] = fp.ID
	}
	if !reflect.DeepEqual(gotIDs, []string{"p1", "p2", "p3"}) {
		t.Fatalf("unexpected feed order: %v", gotIDs)
	}

	for _, fp := range feed[:2] {
		if fp.FirstName != "Ada" || fp.UserEmail != "a@x.com" || fp.AverageRating != 5 {
			t.Errorf("unexpected author fields for %s: %+v", fp.ID, fp)
		}
	}
	if feed[2].FirstName != "Bob" || feed[2].AverageRating != 4 {
		t.Errorf("unexpected author fields for p3: %+v", feed[2])
	}
}

func TestPostService_ListAllPosts_EmptyStore(t *testing.T) {
	svc := NewPostService(newStubUserRepo(), &inlineSerializer{}, discardLogger)

	feed, err := svc.ListAllPosts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if feed == nil || len(feed) != 0 {
		t.Fatalf("expected empty non-nil feed, got %v", feed)
	}
}
