package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/utafrali/catalogsearch/internal/domain"
	apperrors "github.com/utafrali/catalogsearch/pkg/errors"
)

type reviewDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	User      string             `bson:"user"`
	Product   primitive.ObjectID `bson:"product"`
	Rating    int                `bson:"rating"`
	Text      string             `bson:"text,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d *reviewDoc) toDomain() domain.Review {
	return domain.Review{
		ID:        d.ID.Hex(),
		UserID:    d.User,
		ProductID: d.Product.Hex(),
		Rating:    d.Rating,
		Text:      d.Text,
		CreatedAt: d.CreatedAt,
	}
}

// ReviewRepository is the MongoDB implementation of repository.ReviewRepository.
type ReviewRepository struct {
	collection *mongo.Collection
}

// NewReviewRepository creates a review repository over the given database.
func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{collection: db.Collection(CollectionReviews)}
}

// Create inserts a review and returns the generated id.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) (string, error) {
	pid, err := primitive.ObjectIDFromHex(review.ProductID)
	if err != nil {
		return "", apperrors.InvalidInput("invalid product id: " + review.ProductID)
	}

	doc := reviewDoc{
		User:      review.UserID,
		Product:   pid,
		Rating:    review.Rating,
		Text:      review.Text,
		CreatedAt: review.CreatedAt,
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert review: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert review: unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// ListByProduct returns the product's reviews, newest first.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid product id: " + productID)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.collection.Find(ctx, bson.M{"product": pid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list reviews for product %s: %w", productID, err)
	}
	defer cur.Close(ctx)

	var reviews []domain.Review
	for cur.Next(ctx) {
		var doc reviewDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode review: %w", err)
		}
		reviews = append(reviews, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}
