package domain

import "time"

// Order status constants.
const (
	OrderStatusPlaced    = "placed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCanceled  = "canceled"
)

// Order represents a customer purchase record.
type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user"`
	Items     []OrderItem `json:"items"`
	TotalCost float64     `json:"totalCost"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}

// OrderItem is a single line item within an order. ProductID is the canonical
// string form of the referenced product identity.
type OrderItem struct {
	ProductID string  `json:"product"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Quantity  int64   `json:"quantity"`
}

// UserRef is the populated buyer summary on an order detail.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProductRef is the populated product summary on an order line item.
type ProductRef struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Brand string  `json:"brand"`
	Price float64 `json:"price"`
}

// OrderItemDetail is a line item with its product reference resolved.
// Product is nil when the referenced product no longer exists.
type OrderItemDetail struct {
	ProductID string      `json:"product"`
	Product   *ProductRef `json:"productDetail,omitempty"`
	Quantity  int64       `json:"quantity"`
}

// OrderDetail is an order with buyer and line-item products populated.
type OrderDetail struct {
	ID        string            `json:"id"`
	User      *UserRef          `json:"user,omitempty"`
	UserID    string            `json:"userId"`
	Items     []OrderItemDetail `json:"items"`
	TotalCost float64           `json:"totalCost"`
	Status    string            `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}

// TopProduct is one entry in a per-category best-seller list.
type TopProduct struct {
	Name string `json:"name"`
	Sold int64  `json:"sold"`
}

// CategoryTopProducts groups the best-selling products of one category.
type CategoryTopProducts struct {
	Category    string       `json:"category"`
	TopProducts []TopProduct `json:"topProducts"`
}
