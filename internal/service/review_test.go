package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/catalogsearch/internal/domain"
	"github.com/utafrali/catalogsearch/internal/repository/memory"
	apperrors "github.com/utafrali/catalogsearch/pkg/errors"
)

// capturingPublisher records published reviews; fail makes publishing error.
type capturingPublisher struct {
	mu        sync.Mutex
	published []*domain.Review
	fail      bool
}

func (p *capturingPublisher) PublishReviewCreated(_ context.Context, review *domain.Review) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker unreachable")
	}
	p.published = append(p.published, review)
	return nil
}

type reviewFixture struct {
	products  *memory.ProductRepository
	reviews   *memory.ReviewRepository
	publisher *capturingPublisher
	svc       *ReviewService
}

func newReviewFixture() *reviewFixture {
	products := memory.NewProductRepository()
	reviews := memory.NewReviewRepository()
	publisher := &capturingPublisher{}
	svc := NewReviewService(reviews, products, publisher, newTestLogger())
	return &reviewFixture{products: products, reviews: reviews, publisher: publisher, svc: svc}
}

func TestCreateReview_Success(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()

	product := f.products.Add(domain.Product{Name: "Keyboard", Price: 70})

	review, err := f.svc.Create(ctx, product.ID, CreateReviewInput{
		UserID: "user-1",
		Rating: 4,
		Text:   "solid build",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)
	assert.Equal(t, product.ID, review.ProductID)
	assert.Equal(t, 4, review.Rating)
	assert.NotZero(t, review.CreatedAt)

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, review.ID, f.publisher.published[0].ID)
}

func TestCreateReview_UpdatesRunningMean(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()

	product := f.products.Add(domain.Product{Name: "Monitor", Price: 250, Rating: 4.0, RatingCount: 3})

	_, err := f.svc.Create(ctx, product.ID, CreateReviewInput{UserID: "user-1", Rating: 2})
	require.NoError(t, err)

	updated, err := f.products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	// (4.0*3 + 2) / 4 = 3.5
	assert.InDelta(t, 3.5, updated.Rating, 1e-9)
	assert.Equal(t, 4, updated.RatingCount)
}

func TestCreateReview_FirstReviewSetsRating(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()

	product := f.products.Add(domain.Product{Name: "Mouse", Price: 30})

	_, err := f.svc.Create(ctx, product.ID, CreateReviewInput{UserID: "user-1", Rating: 5})
	require.NoError(t, err)

	updated, err := f.products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, updated.Rating, 1e-9)
	assert.Equal(t, 1, updated.RatingCount)
}

func TestCreateReview_ProductNotFound(t *testing.T) {
	f := newReviewFixture()

	review, err := f.svc.Create(context.Background(), "missing-id", CreateReviewInput{UserID: "user-1", Rating: 3})

	assert.Nil(t, review)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreateReview_MissingUser(t *testing.T) {
	f := newReviewFixture()

	review, err := f.svc.Create(context.Background(), "any", CreateReviewInput{Rating: 3})

	assert.Nil(t, review)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreateReview_RatingOutOfRange(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()

	for _, rating := range []int{0, 6, -1} {
		review, err := f.svc.Create(ctx, "any", CreateReviewInput{UserID: "user-1", Rating: rating})
		assert.Nil(t, review)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	}
}

func TestCreateReview_PublishFailureDoesNotFailRequest(t *testing.T) {
	f := newReviewFixture()
	f.publisher.fail = true
	ctx := context.Background()

	product := f.products.Add(domain.Product{Name: "Webcam", Price: 55})

	review, err := f.svc.Create(ctx, product.ID, CreateReviewInput{UserID: "user-1", Rating: 4})

	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)
}

func TestListReviews_NewestFirst(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()

	now := time.Now().UTC()
	_, err := f.reviews.Create(ctx, &domain.Review{ProductID: "p1", Rating: 3, CreatedAt: now.Add(-time.Hour)})
	require.NoError(t, err)
	_, err = f.reviews.Create(ctx, &domain.Review{ProductID: "p1", Rating: 5, CreatedAt: now})
	require.NoError(t, err)
	_, err = f.reviews.Create(ctx, &domain.Review{ProductID: "other", Rating: 1, CreatedAt: now})
	require.NoError(t, err)

	reviews, err := f.svc.ListByProduct(ctx, "p1")

	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, 5, reviews[0].Rating)
	assert.Equal(t, 3, reviews[1].Rating)
}

func TestListReviews_EmptyIsNotNil(t *testing.T) {
	f := newReviewFixture()

	reviews, err := f.svc.ListByProduct(context.Background(), "p1")

	require.NoError(t, err)
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)
}
