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

// orderDoc is the BSON shape of an order document. User and item product refs
// are decoded as raw values because historical writers persisted them under
// both ObjectId and hex-string representations.
type orderDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	User      any                `bson:"user"`
	Items     []orderItemDoc     `bson:"items"`
	TotalCost float64            `bson:"totalCost"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type orderItemDoc struct {
	Product  any     `bson:"product"`
	Name     string  `bson:"name,omitempty"`
	Price    float64 `bson:"price,omitempty"`
	Quantity int64   `bson:"quantity"`
}

func (d *orderDoc) toDomain() domain.Order {
	items := make([]domain.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, domain.OrderItem{
			ProductID: CanonicalID(it.Product),
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}
	return domain.Order{
		ID:        d.ID.Hex(),
		UserID:    CanonicalID(d.User),
		Items:     items,
		TotalCost: d.TotalCost,
		Status:    d.Status,
		CreatedAt: d.CreatedAt,
	}
}

// OrderRepository is the MongoDB implementation of repository.OrderRepository.
type OrderRepository struct {
	collection *mongo.Collection
}

// NewOrderRepository creates an order repository over the given database.
func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{collection: db.Collection(CollectionOrders)}
}

// SumQuantityByProduct aggregates total units sold per candidate product.
// The aggregation runs once under the ObjectId representation of the ids and
// once under the string representation, and the partial sums are merged
// additively under the canonical hex form, so a sale recorded under either
// representation counts exactly once.
func (r *OrderRepository) SumQuantityByProduct(ctx context.Context, productIDs []string) (map[string]int64, error) {
	popularity := make(map[string]int64, len(productIDs))
	if len(productIDs) == 0 {
		return popularity, nil
	}

	objectRefs, stringRefs := identityRepresentations(productIDs)

	if err := r.sumInto(ctx, popularity, objectRefs); err != nil {
		return nil, fmt.Errorf("sum quantity (object ids): %w", err)
	}
	if err := r.sumInto(ctx, popularity, stringRefs); err != nil {
		return nil, fmt.Errorf("sum quantity (string ids): %w", err)
	}

	return popularity, nil
}

// sumInto runs the unwind/group pipeline for one identity representation and
// adds the per-product totals into acc.
func (r *OrderRepository) sumInto(ctx context.Context, acc map[string]int64, refs []any) error {
	if len(refs) == 0 {
		return nil
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"items.product": bson.M{"$in": refs}}}},
		bson.D{{Key: "$unwind", Value: "$items"}},
		bson.D{{Key: "$match", Value: bson.M{"items.product": bson.M{"$in": refs}}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":       "$items.product",
			"totalSold": bson.M{"$sum": "$items.quantity"},
		}}},
	}

	cur, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			ID        any   `bson:"_id"`
			TotalSold int64 `bson:"totalSold"`
		}
		if err := cur.Decode(&row); err != nil {
			return err
		}
		acc[CanonicalID(row.ID)] += row.TotalSold
	}
	return cur.Err()
}

// GetByID returns a single order by id.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid order id: " + id)
	}

	var doc orderDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("order %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}

	o := doc.toDomain()
	return &o, nil
}

// ListByUser returns the user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid user id: " + userID)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.collection.Find(ctx, bson.M{"user": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders for user %s: %w", userID, err)
	}
	defer cur.Close(ctx)

	var orders []domain.Order
	for cur.Next(ctx) {
		var doc orderDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		orders = append(orders, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

// TopProductsByCategory aggregates the best-selling products since the given
// time, grouped by product category. Line items are unwound, quantities
// summed per product, products joined in, then grouped by category with at
// most perCategory entries each.
func (r *OrderRepository) TopProductsByCategory(ctx context.Context, since time.Time, perCategory int) ([]domain.CategoryTopProducts, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": since}}}},
		bson.D{{Key: "$unwind", Value: "$items"}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":       "$items.product",
			"totalSold": bson.M{"$sum": "$items.quantity"},
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         CollectionProducts,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "product",
		}}},
		bson.D{{Key: "$unwind", Value: "$product"}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "totalSold", Value: -1}}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": "$product.category",
			"topProducts": bson.M{"$push": bson.M{
				"name": "$product.name",
				"sold": "$totalSold",
			}},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"topProducts": bson.M{"$slice": bson.A{"$topProducts", perCategory}},
		}}},
	}

	cur, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("top products aggregation: %w", err)
	}
	defer cur.Close(ctx)

	var result []domain.CategoryTopProducts
	for cur.Next(ctx) {
		var row struct {
			Category    string `bson:"_id"`
			TopProducts []struct {
				Name string `bson:"name"`
				Sold int64  `bson:"sold"`
			} `bson:"topProducts"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode top products: %w", err)
		}

		entry := domain.CategoryTopProducts{Category: row.Category}
		for _, tp := range row.TopProducts {
			entry.TopProducts = append(entry.TopProducts, domain.TopProduct{Name: tp.Name, Sold: tp.Sold})
		}
		result = append(result, entry)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate top products: %w", err)
	}
	return result, nil
}
