package memory

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/utafrali/catalogsearch/internal/domain"
)

// ReviewRepository is an in-memory implementation of repository.ReviewRepository.
type ReviewRepository struct {
	mu      sync.RWMutex
	reviews []domain.Review
}

// NewReviewRepository creates an empty in-memory review repository.
func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{}
}

// Create inserts a review and returns its generated id.
func (r *ReviewRepository) Create(_ context.Context, review *domain.Review) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *review
	stored.ID = primitive.NewObjectID().Hex()
	r.reviews = append(r.reviews, stored)
	return stored.ID, nil
}

// ListByProduct returns the product's reviews, newest first.
func (r *ReviewRepository) ListByProduct(_ context.Context, productID string) ([]domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.Review
	for _, rev := range r.reviews {
		if rev.ProductID == productID {
			result = append(result, rev)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
