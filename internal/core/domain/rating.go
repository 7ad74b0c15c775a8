package domain

const (
	MinRatingValue = 1
	MaxRatingValue = 5
)

// Rating is one user's score of another. A ratee holds at most one Rating
// per rater.
type Rating struct {
	Rater string `json:"rater"`
	Value int    `json:"value"`
}

// ValidRatingValue reports whether v lies in [MinRatingValue, MaxRatingValue].
func ValidRatingValue(v int) bool {
	return v >= MinRatingValue && v <= MaxRatingValue
}

// AverageRating returns the arithmetic mean of the rating values, or exactly
// 0 for an empty list. No rounding is applied.
func AverageRating(ratings []Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	total := 0
	for _, r := range ratings {
		total += r.Value
	}
	return float64(total) / float64(len(ratings))
}
