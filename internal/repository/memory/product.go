// Package memory provides in-memory repository implementations. They back the
// unit tests and serve as a store-free fallback for local development.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/utafrali/catalogsearch/internal/domain"
	apperrors "github.com/utafrali/catalogsearch/pkg/errors"
)

// ProductRepository is an in-memory implementation of repository.ProductRepository.
// Thread-safe via sync.RWMutex.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

// NewProductRepository creates an empty in-memory product repository.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[string]domain.Product)}
}

// Add inserts or replaces a product. If the product has no ID, one is
// generated. A non-nil Score on the stored product is the relevance score
// TextSearch will attach when the product matches.
func (r *ProductRepository) Add(p domain.Product) domain.Product {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		p.ID = primitive.NewObjectID().Hex()
	}
	r.products[p.ID] = p
	return p
}

// TextSearch matches the term as a case-insensitive substring of name or
// description, ordered descending by the stored relevance score.
func (r *ProductRepository) TextSearch(_ context.Context, term string, limit int) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	termLower := strings.ToLower(term)
	var matched []domain.Product
	for _, p := range r.products {
		if strings.Contains(strings.ToLower(p.Name), termLower) ||
			strings.Contains(strings.ToLower(p.Description), termLower) {
			matched = append(matched, p)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return scoreOf(matched[i]) > scoreOf(matched[j])
	})

	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Recent returns products newest first, with no relevance score attached.
func (r *ProductRepository) Recent(_ context.Context, limit int) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		p.Score = nil
		all = append(all, p)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// GetByID returns the product with the given id.
func (r *ProductRepository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

// UpdateRating sets the product's mean rating and rating count.
func (r *ProductRepository) UpdateRating(_ context.Context, id string, rating float64, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	p.Rating = rating
	p.RatingCount = count
	r.products[id] = p
	return nil
}

func scoreOf(p domain.Product) float64 {
	if p.Score == nil {
		return 0
	}
	return *p.Score
}
