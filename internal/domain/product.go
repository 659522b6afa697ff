package domain

import "time"

// Product represents a catalog product. ID is the canonical hex string form
// of the store identifier; every lookup keyed by product identity uses it.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Brand       string    `json:"brand"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Rating      float64   `json:"rating"`
	RatingCount int       `json:"ratingCount"`
	CreatedAt   time.Time `json:"createdAt"`

	// Score is the text-relevance score attached by the retriever when the
	// candidate came from a text search. Transient, never persisted.
	Score *float64 `json:"score,omitempty"`
}
