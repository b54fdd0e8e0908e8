package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/borcelle/storefront/internal/domain"
)

// SessionStore persists storefront sessions between requests
type SessionStore interface {
	// Get returns the stored session or *errors.ErrNotFound
	Get(ctx context.Context, id string) (*domain.Session, error)
	// Update loads the session (a fresh one if absent), applies fn and saves
	// the result atomically. An error from fn aborts the write and is
	// returned unchanged.
	Update(ctx context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error)
}

// OrderRepository stores orders created by the orders API
type OrderRepository interface {
	// Create inserts the order, its items and (when non-nil) the idempotency
	// key in one transaction. A duplicate key yields *errors.ErrConflict.
	Create(ctx context.Context, order *domain.Order, items []*domain.OrderItem, key *domain.IdempotencyKey) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByCustomerID(ctx context.Context, customerID string, limit, offset int) ([]*domain.Order, error)
	ListByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]*domain.Order, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Order, error)
	// UpdateStatus and UpdateTracking only apply while the order is still in
	// status from; otherwise they return *errors.ErrInvalidStateTransition.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus, reason *string) error
	UpdateTracking(ctx context.Context, id uuid.UUID, from domain.OrderStatus, carrier, trackingNumber, trackingURL *string) error
}

type OrderItemRepository interface {
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error)
}

type IdempotencyKeyRepository interface {
	GetByKey(ctx context.Context, key string) (*domain.IdempotencyKey, error)
}

type OrderEventRepository interface {
	Create(ctx context.Context, event *domain.OrderEvent) error
}

// Repositories groups the orders API persistence
type Repositories struct {
	Order          OrderRepository
	OrderItem      OrderItemRepository
	IdempotencyKey IdempotencyKeyRepository
	OrderEvent     OrderEventRepository
}
