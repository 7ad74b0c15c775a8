package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xchange/skill-exchange/internal/api/metrics"
	"github.com/xchange/skill-exchange/internal/core/domain"
	"github.com/xchange/skill-exchange/internal/core/ports"
)

type RatingHandler struct {
	service ports.RatingService
}

func NewRatingHandler(service ports.RatingService) *RatingHandler {
	return &RatingHandler{service: service}
}

// Rate handles POST /api/users/:userId/rate.
//
// @Summary      Rate a user from 1 to 5
// @Description  A rater's later rating replaces their earlier one.
// @Tags         ratings
// @Accept       json
// @Produce      json
// @Param        userId  path      string       true  "Rated user ID"
// @Param        body    body      rateRequest  true  "Rating"
// @Success      200     {object}  averageRatingResponse
// @Failure      400     {string}  string
// @Failure      404     {string}  string
// @Failure      500     {string}  string
// @Router       /users/{userId}/rate [post]
func (h *RatingHandler) Rate(c echo.Context) error {
	var req rateRequest
	if err := c.Bind(&req); err != nil {
		metrics.RatingsSubmittedTotal.WithLabelValues("rejected").Inc()
		return fmt.Errorf("%w: invalid payload", domain.ErrBadInput)
	}
	if err := c.Validate(&req); err != nil {
		metrics.RatingsSubmittedTotal.WithLabelValues("rejected").Inc()
		return err
	}

	avg, err := h.service.Rate(c.Request().Context(), c.Param("userId"), req.RaterID, req.Value)
	if err != nil {
		metrics.RatingsSubmittedTotal.WithLabelValues("rejected").Inc()
		return err
	}

	metrics.RatingsSubmittedTotal.WithLabelValues("accepted").Inc()
	return c.JSON(http.StatusOK, averageRatingResponse{AverageRating: avg})
}

// Get handles GET /api/users/:userId/rating.
//
// @Summary      Get a user's average rating
// @Tags         ratings
// @Produce      json
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  averageRatingResponse
// @Failure      404     {string}  string
// @Failure      500     {string}  string
// @Router       /users/{userId}/rating [get]
func (h *RatingHandler) Get(c echo.Context) error {
	avg, err := h.service.AverageRating(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, averageRatingResponse{AverageRating: avg})
}
