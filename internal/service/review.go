package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/catalogsearch/internal/domain"
	"github.com/utafrali/catalogsearch/internal/repository"
	apperrors "github.com/utafrali/catalogsearch/pkg/errors"
)

// ReviewEventPublisher publishes review domain events.
type ReviewEventPublisher interface {
	PublishReviewCreated(ctx context.Context, review *domain.Review) error
}

// ReviewService implements review CRUD and product rating maintenance.
type ReviewService struct {
	reviews   repository.ReviewRepository
	products  repository.ProductRepository
	publisher ReviewEventPublisher
	logger    *slog.Logger
}

// NewReviewService creates a new review service. publisher may be nil, in
// which case no events are emitted.
func NewReviewService(
	reviews repository.ReviewRepository,
	products repository.ProductRepository,
	publisher ReviewEventPublisher,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:   reviews,
		products:  products,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateReviewInput holds the parameters for posting a review.
type CreateReviewInput struct {
	UserID string
	Rating int
	Text   string
}

// Create inserts a review for the product and folds the new rating into the
// product's running mean.
func (s *ReviewService) Create(ctx context.Context, productID string, input CreateReviewInput) (*domain.Review, error) {
	if input.UserID == "" {
		return nil, apperrors.InvalidInput("user is required")
	}
	if input.Rating < domain.MinRating || input.Rating > domain.MaxRating {
		return nil, apperrors.InvalidInput(fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	review := &domain.Review{
		UserID:    input.UserID,
		ProductID: productID,
		Rating:    input.Rating,
		Text:      input.Text,
		CreatedAt: time.Now().UTC(),
	}

	id, err := s.reviews.Create(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	review.ID = id

	// Fold the new rating into the product's running mean.
	newCount := product.RatingCount + 1
	newRating := (product.Rating*float64(product.RatingCount) + float64(input.Rating)) / float64(newCount)
	if err := s.products.UpdateRating(ctx, productID, newRating, newCount); err != nil {
		return nil, fmt.Errorf("update product rating: %w", err)
	}

	// Event publication is best-effort; the review is already committed.
	if s.publisher != nil {
		if err := s.publisher.PublishReviewCreated(ctx, review); err != nil {
			s.logger.WarnContext(ctx, "failed to publish review.created",
				slog.String("review_id", review.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.String("product_id", productID),
		slog.Int("rating", input.Rating),
	)

	return review, nil
}

// ListByProduct returns the product's reviews, newest first.
func (s *ReviewService) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	reviews, err := s.reviews.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}
