package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/utafrali/catalogsearch/internal/domain"
	apperrors "github.com/utafrali/catalogsearch/pkg/errors"
)

type userDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	Email         string             `bson:"email"`
	Location      string             `bson:"location,omitempty"`
	TotalSpent    float64            `bson:"totalSpent"`
	PurchaseCount int                `bson:"purchaseCount"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

func (d *userDoc) toDomain() domain.User {
	return domain.User{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Email:         d.Email,
		Location:      d.Location,
		TotalSpent:    d.TotalSpent,
		PurchaseCount: d.PurchaseCount,
		CreatedAt:     d.CreatedAt,
	}
}

// UserRepository is the MongoDB implementation of repository.UserRepository.
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a user repository over the given database.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{collection: db.Collection(CollectionUsers)}
}

// GetByID returns a single user by id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid user id: " + id)
	}

	var doc userDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}

	u := doc.toDomain()
	return &u, nil
}
