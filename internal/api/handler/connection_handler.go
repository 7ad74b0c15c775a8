package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xchange/skill-exchange/internal/api/metrics"
	"github.com/xchange/skill-exchange/internal/core/domain"
	"github.com/xchange/skill-exchange/internal/core/ports"
)

type ConnectionHandler struct {
	service ports.ConnectionService
}

func NewConnectionHandler(service ports.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{service: service}
}

// Connect handles POST /api/users/:userId/connect.
//
// @Summary      Add a one-directional connection
// @Tags         connections
// @Accept       json
// @Produce      json
// @Param        userId  path      string             true  "User ID"
// @Param        body    body      connectionRequest  true  "Target"
// @Success      200     {object}  domain.User
// @Failure      404     {string}  string
// @Failure      500     {string}  string
// @Router       /users/{userId}/connect [post]
func (h *ConnectionHandler) Connect(c echo.Context) error {
	var req connectionRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrBadInput)
	}

	user, err := h.service.Connect(c.Request().Context(), c.Param("userId"), req.ConnectUserID)
	if err != nil {
		return err
	}

	metrics.ConnectionMutationsTotal.WithLabelValues("connect").Inc()
	return c.JSON(http.StatusOK, user)
}

// Disconnect handles POST /api/users/:userId/disconnect.
//
// @Summary      Remove a connection
// @Tags         connections
// @Accept       json
// @Produce      json
// @Param        userId  path      string             true  "User ID"
// @Param        body    body      connectionRequest  true  "Target"
// @Success      200     {object}  domain.User
// @Failure      404     {string}  string
// @Failure      500     {string}  string
// @Router       /users/{userId}/disconnect [post]
func (h *ConnectionHandler) Disconnect(c echo.Context) error {
	var req connectionRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrBadInput)
	}

	user, err := h.service.Disconnect(c.Request().Context(), c.Param("userId"), req.ConnectUserID)
	if err != nil {
		return err
	}

	metrics.ConnectionMutationsTotal.WithLabelValues("disconnect").Inc()
	return c.JSON(http.StatusOK, user)
}

// List handles GET /api/users/:userId/connections.
//
// @Summary      List a user's connections
// @Tags         connections
// @Produce      json
// @Param        userId  path      string  true  "User ID"
// @Success      200     {array}   domain.User
// @Failure      404     {string}  string
// @Failure      500     {string}  string
// @Router       /users/{userId}/connections [get]
func (h *ConnectionHandler) List(c echo.Context) error {
	users, err := h.service.ListConnections(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}
