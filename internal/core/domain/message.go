package domain

import (
	"fmt"
	"time"
)

// Message is a direct chat message. Messages are immutable once stored.
type Message struct {
	ID        string    `json:"_id"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate checks the fields the store requires before persisting.
func (m *Message) Validate() error {
	switch {
	case m.Sender == "":
		return fmt.Errorf("%w: sender is required", ErrBadInput)
	case m.Receiver == "":
		return fmt.Errorf("%w: receiver is required", ErrBadInput)
	case m.Content == "":
		return fmt.Errorf("%w: content is required", ErrBadInput)
	}
	return nil
}
