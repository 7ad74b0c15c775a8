package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StringList accepts either a JSON array of strings or a bare string, which
// becomes a one-element list. Multipart forms bind repeated keys into it
// directly, so a single form value also yields a one-element list.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("expected a string or a list of strings: %w", err)
	}
	*l = list
	return nil
}

// SerializedJSON carries a JSON document that multipart clients send as a
// string field. JSON clients may send the document inline instead; both
// arrive here as the raw document text.
type SerializedJSON string

func (s *SerializedJSON) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = SerializedJSON(str)
		return nil
	}
	*s = SerializedJSON(b)
	return nil
}

// --- Request types ---

type registerRequest struct {
	FirstName string     `json:"firstName" form:"firstName"`
	LastName  string     `json:"lastName"  form:"lastName"`
	Email     string     `json:"email"     form:"email"    validate:"required"`
	Password  string     `json:"password"  form:"password" validate:"required"`
	Skills    StringList `json:"skills"    form:"skills"`
}

type loginRequest struct {
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
}

type createPostRequest struct {
	Email          string         `json:"email"          form:"email"`
	Availabilities SerializedJSON `json:"availabilities" form:"availabilities"`
	Learn          StringList     `json:"learn"          form:"learn"`
	Teach          StringList     `json:"teach"          form:"teach"`
	Description    string         `json:"description"    form:"description"`
}

type connectionRequest struct {
	ConnectUserID string `json:"connectUserId" form:"connectUserId"`
}

// The required rule treats an omitted value and an explicit 0 alike.
type rateRequest struct {
	RaterID string `json:"raterId" form:"raterId" validate:"required"`
	Value   int    `json:"value"   form:"value"   validate:"required,min=1,max=5"`
}

// --- Response types ---

type averageRatingResponse struct {
	AverageRating float64 `json:"averageRating"`
}

type presenceResponse struct {
	UserID string `json:"userId"`
	Online bool   `json:"online"`
}
