package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/catalogsearch/internal/domain"
	"github.com/utafrali/catalogsearch/internal/repository/memory"
	apperrors "github.com/utafrali/catalogsearch/pkg/errors"
)

type orderFixture struct {
	products *memory.ProductRepository
	orders   *memory.OrderRepository
	users    *memory.UserRepository
	svc      *OrderService
}

func newOrderFixture() *orderFixture {
	products := memory.NewProductRepository()
	orders := memory.NewOrderRepository(products)
	users := memory.NewUserRepository()
	svc := NewOrderService(orders, users, products, newTestLogger())
	return &orderFixture{products: products, orders: orders, users: users, svc: svc}
}

func TestGetOrder_PopulatesUserAndProducts(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	user := f.users.Add(domain.User{Name: "Ada", Email: "ada@example.com"})
	product := f.products.Add(domain.Product{Name: "Router", Brand: "Orbit", Price: 120})

	order := f.orders.Add(memory.StoredOrder{
		UserID: user.ID,
		Items: []memory.StoredItem{
			{ProductID: product.ID, Quantity: 2},
		},
		TotalCost: 240,
		Status:    domain.OrderStatusShipped,
		CreatedAt: time.Now().UTC(),
	})

	detail, err := f.svc.GetOrder(ctx, order.ID)

	require.NoError(t, err)
	require.NotNil(t, detail.User)
	assert.Equal(t, "Ada", detail.User.Name)
	assert.Equal(t, "ada@example.com", detail.User.Email)

	require.Len(t, detail.Items, 1)
	require.NotNil(t, detail.Items[0].Product)
	assert.Equal(t, "Router", detail.Items[0].Product.Name)
	assert.Equal(t, "Orbit", detail.Items[0].Product.Brand)
	assert.Equal(t, int64(2), detail.Items[0].Quantity)
}

func TestGetOrder_MissingProductLeftUnpopulated(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	order := f.orders.Add(memory.StoredOrder{
		Items: []memory.StoredItem{
			{ProductID: "gone", Quantity: 1},
		},
		Status:    domain.OrderStatusDelivered,
		CreatedAt: time.Now().UTC(),
	})

	detail, err := f.svc.GetOrder(ctx, order.ID)

	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	assert.Nil(t, detail.Items[0].Product)
	assert.Equal(t, "gone", detail.Items[0].ProductID)
}

func TestGetOrder_NotFound(t *testing.T) {
	f := newOrderFixture()

	detail, err := f.svc.GetOrder(context.Background(), "missing")

	assert.Nil(t, detail)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListUserOrders_NewestFirst(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	now := time.Now().UTC()
	f.orders.Add(memory.StoredOrder{UserID: "u1", Status: domain.OrderStatusPlaced, CreatedAt: now.Add(-time.Hour)})
	f.orders.Add(memory.StoredOrder{UserID: "u1", Status: domain.OrderStatusShipped, CreatedAt: now})
	f.orders.Add(memory.StoredOrder{UserID: "u2", Status: domain.OrderStatusPlaced, CreatedAt: now})

	orders, err := f.svc.ListUserOrders(ctx, "u1")

	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, domain.OrderStatusShipped, orders[0].Status)
	assert.Equal(t, domain.OrderStatusPlaced, orders[1].Status)
}

func TestListUserOrders_NoOrders(t *testing.T) {
	f := newOrderFixture()

	orders, err := f.svc.ListUserOrders(context.Background(), "nobody")

	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestTopProducts_GroupsByCategoryWithinWindow(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	phone := f.products.Add(domain.Product{Name: "Phone X", Category: "phones", Price: 600})
	laptop := f.products.Add(domain.Product{Name: "Laptop Y", Category: "laptops", Price: 1400})

	now := time.Now().UTC()
	f.orders.Add(memory.StoredOrder{
		Items:     []memory.StoredItem{{ProductID: phone.ID, Quantity: 7}},
		CreatedAt: now.Add(-24 * time.Hour),
	})
	f.orders.Add(memory.StoredOrder{
		Items:     []memory.StoredItem{{ProductID: laptop.ID, Quantity: 3}},
		CreatedAt: now.Add(-48 * time.Hour),
	})
	// Outside the aggregation window; must not count.
	f.orders.Add(memory.StoredOrder{
		Items:     []memory.StoredItem{{ProductID: phone.ID, Quantity: 100}},
		CreatedAt: now.Add(-45 * 24 * time.Hour),
	})

	result, err := f.svc.TopProducts(ctx)

	require.NoError(t, err)
	require.Len(t, result, 2)

	byCategory := make(map[string][]domain.TopProduct)
	for _, entry := range result {
		byCategory[entry.Category] = entry.TopProducts
	}

	require.Len(t, byCategory["phones"], 1)
	assert.Equal(t, "Phone X", byCategory["phones"][0].Name)
	assert.Equal(t, int64(7), byCategory["phones"][0].Sold)

	require.Len(t, byCategory["laptops"], 1)
	assert.Equal(t, int64(3), byCategory["laptops"][0].Sold)
}

func TestTopProducts_CapsPerCategory(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	now := time.Now().UTC()
	for i := 0; i < 8; i++ {
		p := f.products.Add(domain.Product{Name: "Gadget", Category: "accessories", Price: 20})
		f.orders.Add(memory.StoredOrder{
			Items:     []memory.StoredItem{{ProductID: p.ID, Quantity: int64(i + 1)}},
			CreatedAt: now.Add(-time.Hour),
		})
	}

	result, err := f.svc.TopProducts(ctx)

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Len(t, result[0].TopProducts, topProductsPerCategory)
	// Entries come back best-selling first.
	assert.Equal(t, int64(8), result[0].TopProducts[0].Sold)
}

func TestTopProducts_EmptyIsNotNil(t *testing.T) {
	f := newOrderFixture()

	result, err := f.svc.TopProducts(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}
