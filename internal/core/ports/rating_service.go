package ports

import "context"

type RatingService interface {
	// Rate upserts raterID's rating of userID and returns the new average.
	Rate(ctx context.Context, userID, raterID string, value int) (float64, error)
	AverageRating(ctx context.Context, userID string) (float64, error)
}
