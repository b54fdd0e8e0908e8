package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/borcelle/storefront/internal/domain"
	"github.com/borcelle/storefront/internal/repository"
	"github.com/borcelle/storefront/pkg/errors"
)

// OrderStore keeps orders, items, idempotency keys and events in process
// memory. It backs the orders API when no database is configured.
type OrderStore struct {
	mu     sync.Mutex
	orders map[uuid.UUID]domain.Order
	items  map[uuid.UUID][]domain.OrderItem
	keys   map[string]domain.IdempotencyKey
	events []domain.OrderEvent
	now    func() time.Time
}

func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders: make(map[uuid.UUID]domain.Order),
		items:  make(map[uuid.UUID][]domain.OrderItem),
		keys:   make(map[string]domain.IdempotencyKey),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Repositories exposes the store through the repository interfaces
func (s *OrderStore) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Order:          s,
		OrderItem:      orderItems{s},
		IdempotencyKey: idempotencyKeys{s},
		OrderEvent:     orderEvents{s},
	}
}

func (s *OrderStore) Create(ctx context.Context, order *domain.Order, items []*domain.OrderItem, key *domain.IdempotencyKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if key != nil {
		if _, exists := s.keys[key.Key]; exists {
			return &errors.ErrConflict{Message: "idempotency key already used"}
		}
	}

	now := s.now()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = order.CreatedAt
	s.orders[order.ID] = *order

	stored := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.OrderID = order.ID
		item.CreatedAt = now
		stored = append(stored, *item)
	}
	s.items[order.ID] = stored

	if key != nil {
		key.OrderID = order.ID
		key.CreatedAt = now
		s.keys[key.Key] = *key
	}

	return nil
}

func (s *OrderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	return &order, nil
}

func (s *OrderStore) ListByCustomerID(ctx context.Context, customerID string, limit, offset int) ([]*domain.Order, error) {
	return s.list(limit, offset, func(o *domain.Order) bool { return o.CustomerID == customerID }), nil
}

func (s *OrderStore) ListByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]*domain.Order, error) {
	return s.list(limit, offset, func(o *domain.Order) bool { return o.Status == status }), nil
}

func (s *OrderStore) List(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	return s.list(limit, offset, func(*domain.Order) bool { return true }), nil
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus, reason *string) error {
	return s.update(id, from, to, func(o *domain.Order) {
		o.Status = to
		if reason != nil {
			o.RejectionReason = reason
		}
	})
}

func (s *OrderStore) UpdateTracking(ctx context.Context, id uuid.UUID, from domain.OrderStatus, carrier, trackingNumber, trackingURL *string) error {
	return s.update(id, from, domain.OrderStatusShipped, func(o *domain.Order) {
		o.Status = domain.OrderStatusShipped
		o.TrackingCarrier = carrier
		o.TrackingNumber = trackingNumber
		o.TrackingURL = trackingURL
	})
}

// Events returns the recorded audit events of an order, oldest first
func (s *OrderStore) Events(orderID uuid.UUID) []domain.OrderEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.OrderEvent
	for _, e := range s.events {
		if e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out
}

func (s *OrderStore) update(id uuid.UUID, from, to domain.OrderStatus, apply func(*domain.Order)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	if order.Status != from {
		return &errors.ErrInvalidStateTransition{
			Entity: "order",
			From:   string(order.Status),
			To:     string(to),
		}
	}
	apply(&order)
	order.UpdatedAt = s.now()
	s.orders[id] = order
	return nil
}

// list returns matching orders newest first
func (s *OrderStore) list(limit, offset int, keep func(*domain.Order) bool) []*domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Order
	for _, o := range s.orders {
		o := o
		if keep(&o) {
			out = append(out, &o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() > out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if offset >= len(out) {
		return nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

type orderItems struct{ s *OrderStore }

func (r orderItems) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := r.s.items[orderID]
	out := make([]*domain.OrderItem, len(stored))
	for i := range stored {
		item := stored[i]
		out[i] = &item
	}
	return out, nil
}

type idempotencyKeys struct{ s *OrderStore }

func (r idempotencyKeys) GetByKey(ctx context.Context, key string) (*domain.IdempotencyKey, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	k, ok := r.s.keys[key]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "idempotency key", ID: key}
	}
	return &k, nil
}

type orderEvents struct{ s *OrderStore }

func (r orderEvents) Create(ctx context.Context, event *domain.OrderEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = r.s.now()
	}
	r.s.events = append(r.s.events, *event)
	return nil
}
