package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/xchange/skill-exchange/internal/core/ports"
)

// PresenceChecker answers whether a user has a live relay connection.
type PresenceChecker interface {
	IsOnline(ctx context.Context, userID string) (bool, error)
}

// ChatHandler serves message history and presence queries. Sending happens
// over the WebSocket relay.
type ChatHandler struct {
	service  ports.ChatService
	presence PresenceChecker
}

func NewChatHandler(service ports.ChatService, presence PresenceChecker) *ChatHandler {
	return &ChatHandler{service: service, presence: presence}
}

// History handles GET /api/chat-history.
//
// @Summary      Conversation between two users, oldest first
// @Tags         chat
// @Produce      json
// @Param        sender    query     string  true  "One participant"
// @Param        receiver  query     string  true  "The other participant"
// @Success      200       {array}   domain.Message
// @Failure      400       {string}  string
// @Failure      500       {string}  string
// @Router       /chat-history [get]
func (h *ChatHandler) History(c echo.Context) error {
	msgs, err := h.service.History(c.Request().Context(), query(c, "sender"), query(c, "receiver"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msgs)
}

// ForRecipient handles GET /api/messages/recipient.
//
// @Summary      Messages addressed to a user, newest first
// @Tags         chat
// @Produce      json
// @Param        recipientId  query     string  true  "Recipient user ID"
// @Success      200          {array}   domain.Message
// @Failure      400          {string}  string
// @Failure      500          {string}  string
// @Router       /messages/recipient [get]
func (h *ChatHandler) ForRecipient(c echo.Context) error {
	msgs, err := h.service.ForRecipient(c.Request().Context(), query(c, "recipientId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msgs)
}

// ChatUsers handles GET /api/chat-users.
//
// @Summary      Users someone has exchanged messages with
// @Tags         chat
// @Produce      json
// @Param        userId  query     string  true  "User ID"
// @Success      200     {array}   domain.User
// @Failure      400     {string}  string
// @Failure      500     {string}  string
// @Router       /chat-users [get]
func (h *ChatHandler) ChatUsers(c echo.Context) error {
	users, err := h.service.ChatUsers(c.Request().Context(), query(c, "userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Presence handles GET /api/users/:userId/presence.
//
// @Summary      Whether a user has a live chat connection
// @Tags         chat
// @Produce      json
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  presenceResponse
// @Failure      500     {string}  string
// @Router       /users/{userId}/presence [get]
func (h *ChatHandler) Presence(c echo.Context) error {
	userID := c.Param("userId")
	online, err := h.presence.IsOnline(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, presenceResponse{UserID: userID, Online: online})
}

func query(c echo.Context, name string) string {
	return strings.TrimSpace(c.QueryParam(name))
}
