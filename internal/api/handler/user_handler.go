package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xchange/skill-exchange/internal/api/metrics"
	"github.com/xchange/skill-exchange/internal/core/domain"
	"github.com/xchange/skill-exchange/internal/core/ports"
)

// UserHandler handles registration, login and profile lookup.
type UserHandler struct {
	service ports.UserService
	files   FileStore
}

func NewUserHandler(service ports.UserService, files FileStore) *UserHandler {
	return &UserHandler{service: service, files: files}
}

// Register handles POST /api/users/register.
//
// @Summary      Register a user
// @Tags         users
// @Accept       multipart/form-data
// @Accept       json
// @Produce      json
// @Param        firstName   formData  string  false  "First name"
// @Param        lastName    formData  string  false  "Last name"
// @Param        email       formData  string  true   "Email (unique)"
// @Param        password    formData  string  true   "Password"
// @Param        skills      formData  []string  false  "Skills" collectionFormat(multi)
// @Param        profilePic  formData  file    false  "Avatar image"
// @Success      200  {object}  domain.User
// @Failure      400  {string}  string
// @Failure      409  {string}  string
// @Failure      500  {string}  string
// @Router       /users/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrBadInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	pic, err := saveUpload(c, h.files, "profilePic")
	if err != nil {
		return err
	}

	user, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Password:   req.Password,
		Skills:     req.Skills,
		ProfilePic: pic,
	})
	if err != nil {
		discardUpload(h.files, pic)
		return err
	}

	metrics.UsersRegisteredTotal.Inc()
	return c.JSON(http.StatusOK, user)
}

// Login handles POST /api/users/login.
//
// @Summary      Log in with email and password
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  domain.User
// @Failure      400   {string}  string  "Invalid email or password."
// @Failure      500   {string}  string
// @Router       /users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrBadInput)
	}

	user, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, user)
}

// Get handles GET /api/users/:id.
//
// @Summary      Get a user by ID
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      404  {string}  string
// @Failure      500  {string}  string
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
