package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xchange/skill-exchange/internal/api/metrics"
	"github.com/xchange/skill-exchange/internal/core/domain"
	"github.com/xchange/skill-exchange/internal/core/ports"
)

type PostHandler struct {
	service ports.PostService
	files   FileStore
}

func NewPostHandler(service ports.PostService, files FileStore) *PostHandler {
	return &PostHandler{service: service, files: files}
}

// Create handles POST /api/users/:userId/posts.
//
// The owner is resolved by the email field, falling back to the path's
// userId when no email is sent.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       multipart/form-data
// @Accept       json
// @Produce      json
// @Param        userId          path      string    true   "Owner user ID"
// @Param        email           formData  string    false  "Owner email"
// @Param        availabilities  formData  string    true   "JSON list of {day, fromTime, toTime}"
// @Param        learn           formData  []string  false  "Skills to learn" collectionFormat(multi)
// @Param        teach           formData  []string  false  "Skills to teach" collectionFormat(multi)
// @Param        description     formData  string    false  "Free text"
// @Param        banner          formData  file      false  "Banner image"
// @Success      201  {object}  domain.Post
// @Failure      400  {string}  string
// @Failure      404  {string}  string
// @Failure      500  {string}  string
// @Router       /users/{userId}/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrBadInput)
	}

	banner, err := saveUpload(c, h.files, "banner")
	if err != nil {
		return err
	}

	post, err := h.service.CreatePost(c.Request().Context(), ports.CreatePostInput{
		Email:          req.Email,
		UserID:         c.Param("userId"),
		Availabilities: string(req.Availabilities),
		Learn:          req.Learn,
		Teach:          req.Teach,
		Description:    req.Description,
		Banner:         banner,
	})
	if err != nil {
		discardUpload(h.files, banner)
		return err
	}

	metrics.PostsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, post)
}

// List handles GET /api/posts.
//
// @Summary      List every post with author details
// @Tags         posts
// @Produce      json
// @Success      200  {array}   domain.FeedPost
// @Failure      500  {string}  string
// @Router       /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	feed, err := h.service.ListAllPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, feed)
}
