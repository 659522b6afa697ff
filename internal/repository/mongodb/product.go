package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/utafrali/catalogsearch/internal/domain"
	apperrors "github.com/utafrali/catalogsearch/pkg/errors"
)

// productDoc is the BSON shape of a product document.
type productDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Category    string             `bson:"category"`
	Brand       string             `bson:"brand"`
	Price       float64            `bson:"price"`
	Stock       int                `bson:"stock"`
	Rating      float64            `bson:"rating"`
	RatingCount int                `bson:"ratingCount"`
	CreatedAt   time.Time          `bson:"createdAt"`
	Score       *float64           `bson:"score,omitempty"`
}

func (d *productDoc) toDomain() domain.Product {
	return domain.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Brand:       d.Brand,
		Price:       d.Price,
		Stock:       d.Stock,
		Rating:      d.Rating,
		RatingCount: d.RatingCount,
		CreatedAt:   d.CreatedAt,
		Score:       d.Score,
	}
}

// ProductRepository is the MongoDB implementation of repository.ProductRepository.
type ProductRepository struct {
	collection *mongo.Collection
}

// NewProductRepository creates a product repository over the given database.
func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{collection: db.Collection(CollectionProducts)}
}

// TextSearch runs a $text query against the products collection, projecting
// the textScore meta field and ordering by it descending.
func (r *ProductRepository) TextSearch(ctx context.Context, term string, limit int) ([]domain.Product, error) {
	filter := bson.M{"$text": bson.M{"$search": term}}
	opts := options.Find().
		SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSort(bson.D{{Key: "score", Value: bson.M{"$meta": "textScore"}}}).
		SetLimit(int64(limit))

	cur, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("text search %q: %w", term, err)
	}
	defer cur.Close(ctx)

	return decodeProducts(ctx, cur)
}

// Recent returns the most recently created products, newest first.
func (r *ProductRepository) Recent(ctx context.Context, limit int) ([]domain.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("recent products: %w", err)
	}
	defer cur.Close(ctx)

	return decodeProducts(ctx, cur)
}

// GetByID returns a single product by its canonical id.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid product id: " + id)
	}

	var doc productDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("product %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}

	p := doc.toDomain()
	return &p, nil
}

// UpdateRating sets the product's mean rating and rating count.
func (r *ProductRepository) UpdateRating(ctx context.Context, id string, rating float64, count int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.InvalidInput("invalid product id: " + id)
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"rating": rating, "ratingCount": count}},
	)
	if err != nil {
		return fmt.Errorf("update rating %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("product %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func decodeProducts(ctx context.Context, cur *mongo.Cursor) ([]domain.Product, error) {
	var products []domain.Product
	for cur.Next(ctx) {
		var doc productDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		products = append(products, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}
