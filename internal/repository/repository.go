// Package repository defines the persistence interfaces consumed by the
// service layer. Implementations live in the mongodb and memory subpackages.
package repository

import (
	"context"
	"time"

	"github.com/utafrali/catalogsearch/internal/domain"
)

// ProductRepository provides read access to the product catalog plus the
// rating update used by the review flow.
type ProductRepository interface {
	// TextSearch returns products matching the free-text term, ordered
	// descending by relevance, capped at limit. Each hit carries its
	// relevance score.
	TextSearch(ctx context.Context, term string, limit int) ([]domain.Product, error)

	// Recent returns the most recently created products, newest first,
	// capped at limit. No relevance score is attached.
	Recent(ctx context.Context, limit int) ([]domain.Product, error)

	// GetByID returns the product with the given canonical id, or
	// errors.ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// UpdateRating sets the product's mean rating and rating count.
	UpdateRating(ctx context.Context, id string, rating float64, count int) error
}

// OrderRepository provides read access to purchase records.
type OrderRepository interface {
	// SumQuantityByProduct returns total units sold per product for the
	// given candidate identities, keyed by canonical id. Line items may
	// reference products under either physical identity representation
	// (ObjectId or hex string); partial sums from both are merged additively
	// so no sale is lost to a representation mismatch.
	SumQuantityByProduct(ctx context.Context, productIDs []string) (map[string]int64, error)

	// GetByID returns the order with the given id, or errors.ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)

	// TopProductsByCategory returns the best-selling products created since
	// the given time, grouped by product category, at most perCategory
	// entries per category.
	TopProductsByCategory(ctx context.Context, since time.Time, perCategory int) ([]domain.CategoryTopProducts, error)
}

// ReviewRepository persists product reviews.
type ReviewRepository interface {
	// Create inserts a review and returns its generated id.
	Create(ctx context.Context, review *domain.Review) (string, error)

	// ListByProduct returns the product's reviews, newest first.
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)
}

// UserRepository provides read access to users.
type UserRepository interface {
	// GetByID returns the user with the given id, or errors.ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
