package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Availability is a window in which the author can meet. Day and times are
// opaque strings chosen by the client.
type Availability struct {
	Day      string `json:"day"`
	FromTime string `json:"fromTime"`
	ToTime   string `json:"toTime"`
}

// Post is embedded in its owning User.
type Post struct {
	ID             string         `json:"_id"`
	Availabilities []Availability `json:"availabilities"`
	Learn          []string       `json:"learn"`
	Teach          []string       `json:"teach"`
	Description    string         `json:"description"`
	CreatedAt      time.Time      `json:"created_at"`
	Banner         string         `json:"banner,omitempty"`
	UserID         string         `json:"userId"`
}

// FeedPost is a Post merged with its author's denormalized fields.
type FeedPost struct {
	Post
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	UserEmail     string  `json:"userEmail"`
	ProfilePic    string  `json:"profilePic,omitempty"`
	AverageRating float64 `json:"averageRating"`
}

// DecodeAvailabilities parses the serialized availability list sent by
// multipart clients. Any decode failure is reported as ErrBadInput.
func DecodeAvailabilities(raw string) ([]Availability, error) {
	var out []Availability
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%w: availabilities: %v", ErrBadInput, err)
	}
	if out == nil {
		out = []Availability{}
	}
	return out, nil
}
