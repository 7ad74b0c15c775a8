package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/xchange/skill-exchange/internal/core/domain"
	"github.com/xchange/skill-exchange/internal/core/ports"
)

type RatingService struct {
	repo   ports.UserRepository
	serial ports.Serializer
	logger zerolog.Logger
}

func NewRatingService(repo ports.UserRepository, serial ports.Serializer, logger zerolog.Logger) *RatingService {
	return &RatingService{repo: repo, serial: serial, logger: logger}
}

// Rate records raterID's score of userID, replacing any earlier score by the
// same rater, and returns the recomputed average.
//
// A zero value is rejected together with a missing rater: callers cannot
// tell "absent" from 0 on this path.
func (s *RatingService) Rate(ctx context.Context, userID, raterID string, value int) (float64, error) {
	if raterID == "" || value == 0 {
		return 0, fmt.Errorf("%w: rater ID and rating value are required", domain.ErrBadInput)
	}
	if !domain.ValidRatingValue(value) {
		return 0, fmt.Errorf("%w: rating value must be between %d and %d",
			domain.ErrBadInput, domain.MinRatingValue, domain.MaxRatingValue)
	}

	var avg float64
	err := s.serial.Do(ctx, userID, func(ctx context.Context) error {
		user, err := s.repo.FindByID(ctx, userID)
		if err != nil {
			return err
		}

		replaced := user.Rate(raterID, value)
		if err := s.repo.Save(ctx, user); err != nil {
			return fmt.Errorf("save rating: %w", err)
		}
		avg = user.AverageRating()

		s.logger.Debug().
			Str("user_id", userID).
			Str("rater_id", raterID).
			Int("value", value).
			Bool("replaced", replaced).
			Msg("rating recorded")
		return nil
	})
	if err != nil {
		return 0, err
	}
	return avg, nil
}

func (s *RatingService) AverageRating(ctx context.Context, userID string) (float64, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.AverageRating(), nil
}
