// Command seed clears and repopulates the catalog database with generated
// products, users, orders, and reviews. Order line items deliberately mix
// ObjectId and hex-string product references, matching what historical
// writers left in production data.
//
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/utafrali/catalogsearch/internal/repository/mongodb"
)

const (
	productCount = 200
	userCount    = 50
	orderCount   = 400
	reviewCount  = 300
)

var categories = []string{"phones", "laptops", "audio", "wearables", "cameras", "accessories"}

var brands = []string{"Apex", "Nordic", "Vertex", "Lumina", "Orbit", "Pulse"}

var adjectives = []string{"Pro", "Max", "Ultra", "Lite", "Mini", "Plus", "Air", "Neo"}

var nouns = map[string][]string{
	"phones":      {"Phone", "Smartphone", "Handset"},
	"laptops":     {"Laptop", "Notebook", "Ultrabook"},
	"audio":       {"Headphones", "Earbuds", "Speaker", "Soundbar"},
	"wearables":   {"Watch", "Band", "Tracker"},
	"cameras":     {"Camera", "Camcorder", "Action Cam"},
	"accessories": {"Charger", "Case", "Stand", "Hub"},
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	uri := getEnv("MONGO_URI", "mongodb://localhost:27017")
	dbName := getEnv("MONGO_DATABASE", "ecommerce")

	client, err := mongodb.Connect(ctx, uri)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database(dbName)

	// Fixed seed so re-runs produce the same data set.
	rng := rand.New(rand.NewSource(42))

	if err := run(ctx, db, rng); err != nil {
		log.Fatalf("seed: %v", err)
	}

	fmt.Println("seed complete:", productCount, "products,", userCount, "users,", orderCount, "orders,", reviewCount, "reviews")
}

func run(ctx context.Context, db *mongo.Database, rng *rand.Rand) error {
	products := db.Collection(mongodb.CollectionProducts)
	users := db.Collection(mongodb.CollectionUsers)
	orders := db.Collection(mongodb.CollectionOrders)
	reviews := db.Collection(mongodb.CollectionReviews)

	// Clear collections.
	for _, c := range []*mongo.Collection{products, users, orders, reviews} {
		if _, err := c.DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("clear %s: %w", c.Name(), err)
		}
	}

	// The search path depends on a text index over name and description.
	_, err := products.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}},
	})
	if err != nil {
		return fmt.Errorf("create text index: %w", err)
	}

	productIDs, productPrices, err := seedProducts(ctx, products, rng)
	if err != nil {
		return err
	}

	userIDs, err := seedUsers(ctx, users, rng)
	if err != nil {
		return err
	}

	if err := seedOrders(ctx, orders, rng, productIDs, productPrices, userIDs); err != nil {
		return err
	}

	return seedReviews(ctx, reviews, rng, productIDs, userIDs)
}

func seedProducts(ctx context.Context, coll *mongo.Collection, rng *rand.Rand) ([]primitive.ObjectID, map[primitive.ObjectID]float64, error) {
	ids := make([]primitive.ObjectID, 0, productCount)
	prices := make(map[primitive.ObjectID]float64, productCount)

	docs := make([]any, 0, productCount)
	now := time.Now().UTC()
	for i := 0; i < productCount; i++ {
		category := categories[rng.Intn(len(categories))]
		brand := brands[rng.Intn(len(brands))]
		noun := nouns[category][rng.Intn(len(nouns[category]))]
		name := fmt.Sprintf("%s %s %s %d", brand, noun, adjectives[rng.Intn(len(adjectives))], 100+rng.Intn(900))
		price := float64(10+rng.Intn(1990)) + float64(rng.Intn(100))/100

		id := primitive.NewObjectID()
		ids = append(ids, id)
		prices[id] = price

		docs = append(docs, bson.M{
			"_id":         id,
			"name":        name,
			"description": fmt.Sprintf("%s %s from %s in the %s range", noun, name, brand, category),
			"category":    category,
			"brand":       brand,
			"price":       price,
			"stock":       rng.Intn(500),
			"rating":      0.0,
			"ratingCount": 0,
			"createdAt":   now.Add(-time.Duration(rng.Intn(365*24)) * time.Hour),
		})
	}

	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return nil, nil, fmt.Errorf("insert products: %w", err)
	}
	return ids, prices, nil
}

func seedUsers(ctx context.Context, coll *mongo.Collection, rng *rand.Rand) ([]primitive.ObjectID, error) {
	locations := []string{"Istanbul", "Berlin", "Madrid", "Warsaw", "Lisbon"}

	ids := make([]primitive.ObjectID, 0, userCount)
	docs := make([]any, 0, userCount)
	now := time.Now().UTC()
	for i := 0; i < userCount; i++ {
		id := primitive.NewObjectID()
		ids = append(ids, id)
		docs = append(docs, bson.M{
			"_id":           id,
			"name":          fmt.Sprintf("Customer %03d", i+1),
			"email":         fmt.Sprintf("customer%03d@example.com", i+1),
			"location":      locations[rng.Intn(len(locations))],
			"totalSpent":    0.0,
			"purchaseCount": 0,
			"createdAt":     now.Add(-time.Duration(rng.Intn(2*365*24)) * time.Hour),
		})
	}

	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("insert users: %w", err)
	}
	return ids, nil
}

func seedOrders(
	ctx context.Context,
	coll *mongo.Collection,
	rng *rand.Rand,
	productIDs []primitive.ObjectID,
	productPrices map[primitive.ObjectID]float64,
	userIDs []primitive.ObjectID,
) error {
	statuses := []string{"placed", "shipped", "delivered"}

	docs := make([]any, 0, orderCount)
	now := time.Now().UTC()
	for i := 0; i < orderCount; i++ {
		itemCount := 1 + rng.Intn(3)
		items := make([]bson.M, 0, itemCount)
		total := 0.0
		for j := 0; j < itemCount; j++ {
			pid := productIDs[rng.Intn(len(productIDs))]
			qty := 1 + rng.Intn(4)
			total += productPrices[pid] * float64(qty)

			// Half of all line items reference the product by ObjectId, the
			// other half by its hex string.
			var ref any = pid
			if rng.Intn(2) == 0 {
				ref = pid.Hex()
			}

			items = append(items, bson.M{
				"product":  ref,
				"quantity": qty,
			})
		}

		docs = append(docs, bson.M{
			"user":      userIDs[rng.Intn(len(userIDs))],
			"items":     items,
			"totalCost": total,
			"status":    statuses[rng.Intn(len(statuses))],
			"createdAt": now.Add(-time.Duration(rng.Intn(90*24)) * time.Hour),
		})
	}

	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert orders: %w", err)
	}
	return nil
}

func seedReviews(
	ctx context.Context,
	coll *mongo.Collection,
	rng *rand.Rand,
	productIDs []primitive.ObjectID,
	userIDs []primitive.ObjectID,
) error {
	comments := []string{
		"Exactly as described.",
		"Great value for the price.",
		"Stopped working after a month.",
		"Would buy again.",
		"Average quality, fast shipping.",
	}

	docs := make([]any, 0, reviewCount)
	now := time.Now().UTC()
	for i := 0; i < reviewCount; i++ {
		docs = append(docs, bson.M{
			"user":      userIDs[rng.Intn(len(userIDs))].Hex(),
			"product":   productIDs[rng.Intn(len(productIDs))],
			"rating":    1 + rng.Intn(5),
			"text":      comments[rng.Intn(len(comments))],
			"createdAt": now.Add(-time.Duration(rng.Intn(60*24)) * time.Hour),
		})
	}

	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert reviews: %w", err)
	}
	return nil
}
