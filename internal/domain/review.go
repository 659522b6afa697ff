package domain

import "time"

// Review rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Review represents a product review left by a user.
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	ProductID string    `json:"product"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
