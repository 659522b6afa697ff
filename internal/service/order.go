package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/catalogsearch/internal/domain"
	"github.com/utafrali/catalogsearch/internal/repository"
)

// Top-products aggregation scope.
const (
	topProductsWindow      = 30 * 24 * time.Hour
	topProductsPerCategory = 5
)

// OrderService implements order reads: detail lookup with population,
// per-user history, and the best-sellers aggregation.
type OrderService struct {
	orders   repository.OrderRepository
	users    repository.UserRepository
	products repository.ProductRepository
	logger   *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orders repository.OrderRepository,
	users repository.UserRepository,
	products repository.ProductRepository,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		orders:   orders,
		users:    users,
		products: products,
		logger:   logger,
	}
}

// GetOrder returns a single order with the buyer and line-item products
// populated. Missing referenced documents leave the reference unpopulated
// rather than failing the lookup.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.OrderDetail, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	detail := s.populateItems(ctx, order)

	if order.UserID != "" {
		if user, err := s.users.GetByID(ctx, order.UserID); err == nil {
			detail.User = &domain.UserRef{ID: user.ID, Name: user.Name, Email: user.Email}
		}
	}

	return detail, nil
}

// ListUserOrders returns the user's orders newest first, with line-item
// products populated.
func (s *OrderService) ListUserOrders(ctx context.Context, userID string) ([]domain.OrderDetail, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}

	details := make([]domain.OrderDetail, 0, len(orders))
	for i := range orders {
		details = append(details, *s.populateItems(ctx, &orders[i]))
	}
	return details, nil
}

// TopProducts returns the best-selling products of the aggregation window,
// grouped by category.
func (s *OrderService) TopProducts(ctx context.Context) ([]domain.CategoryTopProducts, error) {
	since := time.Now().UTC().Add(-topProductsWindow)

	result, err := s.orders.TopProductsByCategory(ctx, since, topProductsPerCategory)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	if result == nil {
		result = []domain.CategoryTopProducts{}
	}
	return result, nil
}

// populateItems resolves each line item's product reference to a summary.
func (s *OrderService) populateItems(ctx context.Context, order *domain.Order) *domain.OrderDetail {
	items := make([]domain.OrderItemDetail, 0, len(order.Items))
	for _, it := range order.Items {
		detail := domain.OrderItemDetail{ProductID: it.ProductID, Quantity: it.Quantity}
		if it.ProductID != "" {
			if p, err := s.products.GetByID(ctx, it.ProductID); err == nil {
				detail.Product = &domain.ProductRef{ID: p.ID, Name: p.Name, Brand: p.Brand, Price: p.Price}
			} else {
				s.logger.DebugContext(ctx, "order item product not resolved",
					slog.String("order_id", order.ID),
					slog.String("product_id", it.ProductID),
				)
			}
		}
		items = append(items, detail)
	}

	return &domain.OrderDetail{
		ID:        order.ID,
		UserID:    order.UserID,
		Items:     items,
		TotalCost: order.TotalCost,
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
	}
}
