package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/xchange/skill-exchange/internal/core/domain"
	"github.com/xchange/skill-exchange/internal/core/ports"
)

// --- Service stubs ---

type stubUserService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (*domain.User, error)
	getFn      func(ctx context.Context, id string) (*domain.User, error)
}

func (s *stubUserService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubUserService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubUserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

type stubPostService struct {
	createFn func(ctx context.Context, input ports.CreatePostInput) (*domain.Post, error)
	listFn   func(ctx context.Context) ([]domain.FeedPost, error)
}

func (s *stubPostService) CreatePost(ctx context.Context, input ports.CreatePostInput) (*domain.Post, error) {
	return s.createFn(ctx, input)
}

func (s *stubPostService) ListAllPosts(ctx context.Context) ([]domain.FeedPost, error) {
	return s.listFn(ctx)
}

type stubConnectionService struct {
	connectFn    func(ctx context.Context, userID, targetID string) (*domain.User, error)
	disconnectFn func(ctx context.Context, userID, targetID string) (*domain.User, error)
	listFn       func(ctx context.Context, userID string) ([]*domain.User, error)
}

func (s *stubConnectionService) Connect(ctx context.Context, userID, targetID string) (*domain.User, error) {
	return s.connectFn(ctx, userID, targetID)
}

func (s *stubConnectionService) Disconnect(ctx context.Context, userID, targetID string) (*domain.User, error) {
	return s.disconnectFn(ctx, userID, targetID)
}

func (s *stubConnectionService) ListConnections(ctx context.Context, userID string) ([]*domain.User, error) {
	return s.listFn(ctx, userID)
}

type stubRatingService struct {
	rateFn    func(ctx context.Context, userID, raterID string, value int) (float64, error)
	averageFn func(ctx context.Context, userID string) (float64, error)
}

func (s *stubRatingService) Rate(ctx context.Context, userID, raterID string, value int) (float64, error) {
	return s.rateFn(ctx, userID, raterID, value)
}

func (s *stubRatingService) AverageRating(ctx context.Context, userID string) (float64, error) {
	return s.averageFn(ctx, userID)
}

type stubChatService struct {
	sendFn         func(ctx context.Context, input ports.SendMessageInput) (*domain.Message, error)
	historyFn      func(ctx context.Context, userA, userB string) ([]*domain.Message, error)
	forRecipientFn func(ctx context.Context, recipientID string) ([]*domain.Message, error)
	chatUsersFn    func(ctx context.Context, userID string) ([]*domain.User, error)
}

func (s *stubChatService) SendMessage(ctx context.Context, input ports.SendMessageInput) (*domain.Message, error) {
	return s.sendFn(ctx, input)
}

func (s *stubChatService) History(ctx context.Context, userA, userB string) ([]*domain.Message, error) {
	return s.historyFn(ctx, userA, userB)
}

func (s *stubChatService) ForRecipient(ctx context.Context, recipientID string) ([]*domain.Message, error) {
	return s.forRecipientFn(ctx, recipientID)
}

func (s *stubChatService) ChatUsers(ctx context.Context, userID string) ([]*domain.User, error) {
	return s.chatUsersFn(ctx, userID)
}

type stubPresence map[string]bool

func (p stubPresence) IsOnline(_ context.Context, userID string) (bool, error) {
	return p[userID], nil
}

// memoryFiles records saved and removed uploads without touching disk.
type memoryFiles struct {
	saved   map[string][]byte
	removed []string
}

func newMemoryFiles() *memoryFiles {
	return &memoryFiles{saved: map[string][]byte{}}
}

func (m *memoryFiles) Save(field string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	path := "uploads/" + field + "-" + fh.Filename
	m.saved[path] = data
	return path, nil
}

func (m *memoryFiles) Remove(path string) error {
	m.removed = append(m.removed, path)
	delete(m.saved, path)
	return nil
}

// --- Request helpers ---

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

type formFile struct {
	field, name string
	data        []byte
}

// multipartBody encodes fields (repeated keys allowed) and files as a
// multipart form and returns the body with its content type.
func multipartBody(t *testing.T, fields [][2]string, files ...formFile) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, kv := range fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatalf("create file: %v", err)
		}
		if _, err := part.Write(f.data); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func newContext(e *echo.Echo, method, target string, body io.Reader, contentType string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
