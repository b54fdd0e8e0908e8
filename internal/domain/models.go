package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the catalog entry a cart line points at
type Product struct {
	ID    string          `json:"_id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Media []string        `json:"media,omitempty"`
}

// Customer is the authenticated identity placing an order
type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// OrderRequest is the immutable payload built for one order submission
type OrderRequest struct {
	CartItems     []CartItem
	Customer      Customer
	PaymentMethod PaymentMethod
	TotalAmount   decimal.Decimal
}

// NewOrderRequest snapshots the cart for submission
func NewOrderRequest(cart Cart, customer Customer) OrderRequest {
	items := make([]CartItem, len(cart.Items))
	copy(items, cart.Items)

	return OrderRequest{
		CartItems:     items,
		Customer:      customer,
		PaymentMethod: PaymentMethodUPI,
		TotalAmount:   cart.Total(),
	}
}

// Order represents an order stored by the orders API
type Order struct {
	ID              uuid.UUID
	CustomerID      string
	CustomerEmail   string
	CustomerName    string
	PaymentMethod   PaymentMethod
	TotalAmount     decimal.Decimal
	Status          OrderStatus
	RejectionReason *string
	TrackingCarrier *string
	TrackingNumber  *string
	TrackingURL     *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem represents a line of an order
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID string
	Title     string
	Price     decimal.Decimal
	Quantity  int
	Color     *string
	Size      *string
	MediaURL  *string
	CreatedAt time.Time
}

// IdempotencyKey stores idempotency information
type IdempotencyKey struct {
	Key         string
	OrderID     uuid.UUID
	RequestHash string
	CreatedAt   time.Time
}

// OrderEvent represents an audit event for an order
type OrderEvent struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	EventType string
	EventData map[string]interface{} // JSONB
	CreatedAt time.Time
}
