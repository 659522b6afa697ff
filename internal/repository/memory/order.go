package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/utafrali/catalogsearch/internal/domain"
	apperrors "github.com/utafrali/catalogsearch/pkg/errors"
)

// Representation tags for stored line-item product references, mirroring the
// two physical encodings found in the document store.
const (
	RefObjectID = "objectid"
	RefString   = "string"
)

// StoredOrder is the in-memory physical shape of an order.
type StoredOrder struct {
	ID        string
	UserID    string
	Items     []StoredItem
	TotalCost float64
	Status    string
	CreatedAt time.Time
}

// StoredItem is a line item holding the canonical product id plus the
// representation it was "persisted" under.
type StoredItem struct {
	ProductID      string
	Representation string
	Name           string
	Price          float64
	Quantity       int64
}

// OrderRepository is an in-memory implementation of repository.OrderRepository.
// It holds a product repository reference to resolve categories for the
// top-products aggregation, standing in for the store-side join.
type OrderRepository struct {
	mu       sync.RWMutex
	orders   map[string]StoredOrder
	products *ProductRepository
}

// NewOrderRepository creates an empty in-memory order repository.
func NewOrderRepository(products *ProductRepository) *OrderRepository {
	return &OrderRepository{
		orders:   make(map[string]StoredOrder),
		products: products,
	}
}

// Add inserts an order, generating an id when absent. Items without a
// representation tag default to RefObjectID.
func (r *OrderRepository) Add(o StoredOrder) StoredOrder {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o.ID == "" {
		o.ID = primitive.NewObjectID().Hex()
	}
	for i := range o.Items {
		if o.Items[i].Representation == "" {
			o.Items[i].Representation = RefObjectID
		}
	}
	r.orders[o.ID] = o
	return o
}

// SumQuantityByProduct sums units sold per candidate product. As in the
// document store, the sum runs once per identity representation and the
// partial sums merge additively under the canonical id.
func (r *OrderRepository) SumQuantityByProduct(_ context.Context, productIDs []string) (map[string]int64, error) {
	popularity := make(map[string]int64, len(productIDs))
	if len(productIDs) == 0 {
		return popularity, nil
	}

	candidates := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		if id != "" {
			candidates[id] = struct{}{}
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, representation := range []string{RefObjectID, RefString} {
		for _, o := range r.orders {
			for _, it := range o.Items {
				if it.Representation != representation {
					continue
				}
				if _, ok := candidates[it.ProductID]; !ok {
					continue
				}
				popularity[it.ProductID] += it.Quantity
			}
		}
	}

	return popularity, nil
}

// GetByID returns the order with the given id.
func (r *OrderRepository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	order := o.toDomain()
	return &order, nil
}

// ListByUser returns the user's orders, newest first.
func (r *OrderRepository) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			orders = append(orders, o.toDomain())
		}
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// TopProductsByCategory aggregates units sold per product since the given
// time and groups the best sellers by product category.
func (r *OrderRepository) TopProductsByCategory(ctx context.Context, since time.Time, perCategory int) ([]domain.CategoryTopProducts, error) {
	r.mu.RLock()
	sold := make(map[string]int64)
	for _, o := range r.orders {
		if o.CreatedAt.Before(since) {
			continue
		}
		for _, it := range o.Items {
			sold[it.ProductID] += it.Quantity
		}
	}
	r.mu.RUnlock()

	type productSold struct {
		name     string
		category string
		sold     int64
	}

	var rows []productSold
	for id, total := range sold {
		p, err := r.products.GetByID(ctx, id)
		if err != nil {
			// No matching product; the join drops it.
			continue
		}
		rows = append(rows, productSold{name: p.Name, category: p.Category, sold: total})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].sold > rows[j].sold })

	byCategory := make(map[string]*domain.CategoryTopProducts)
	var order []string
	for _, row := range rows {
		entry, ok := byCategory[row.category]
		if !ok {
			entry = &domain.CategoryTopProducts{Category: row.category}
			byCategory[row.category] = entry
			order = append(order, row.category)
		}
		if len(entry.TopProducts) < perCategory {
			entry.TopProducts = append(entry.TopProducts, domain.TopProduct{Name: row.name, Sold: row.sold})
		}
	}

	result := make([]domain.CategoryTopProducts, 0, len(order))
	for _, cat := range order {
		result = append(result, *byCategory[cat])
	}
	return result, nil
}

func (o StoredOrder) toDomain() domain.Order {
	items := make([]domain.OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, domain.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}
	return domain.Order{
		ID:        o.ID,
		UserID:    o.UserID,
		Items:     items,
		TotalCost: o.TotalCost,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
	}
}
