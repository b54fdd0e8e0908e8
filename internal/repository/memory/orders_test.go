package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/borcelle/storefront/internal/domain"
	"github.com/borcelle/storefront/pkg/errors"
)

func newOrder(customerID string) *domain.Order {
	return &domain.Order{
		CustomerID:    customerID,
		PaymentMethod: domain.PaymentMethodUPI,
		TotalAmount:   decimal.RequireFromString("1249.00"),
		Status:        domain.OrderStatusUnverified,
	}
}

func TestOrderStore_CreateAndGet(t *testing.T) {
	store := NewOrderStore()
	repos := store.Repositories()
	ctx := context.Background()

	order := newOrder("user_1")
	items := []*domain.OrderItem{{ProductID: "a", Title: "Tee", Price: decimal.NewFromInt(10), Quantity: 2}}
	key := &domain.IdempotencyKey{Key: "attempt-1", RequestHash: "hash"}

	require.NoError(t, repos.Order.Create(ctx, order, items, key))
	assert.NotEqual(t, uuid.Nil, order.ID)
	assert.Equal(t, order.ID, key.OrderID)

	got, err := repos.Order.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "user_1", got.CustomerID)

	// returned values are copies
	got.Status = domain.OrderStatusDelivered
	again, err := repos.Order.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusUnverified, again.Status)

	gotItems, err := repos.OrderItem.GetByOrderID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, gotItems, 1)
	assert.Equal(t, order.ID, gotItems[0].OrderID)

	gotKey, err := repos.IdempotencyKey.GetByKey(ctx, "attempt-1")
	require.NoError(t, err)
	assert.Equal(t, order.ID, gotKey.OrderID)

	err = repos.Order.Create(ctx, newOrder("user_1"), nil, &domain.IdempotencyKey{Key: "attempt-1"})
	var conflict *errors.ErrConflict
	assert.ErrorAs(t, err, &conflict)

	_, err = repos.Order.GetByID(ctx, uuid.New())
	var notFound *errors.ErrNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestOrderStore_ListNewestFirst(t *testing.T) {
	store := NewOrderStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		order := newOrder("user_1")
		require.NoError(t, store.Create(ctx, order, nil, nil))
		ids = append(ids, order.ID)
	}
	require.NoError(t, store.Create(ctx, newOrder("user_2"), nil, nil))

	mine, err := store.ListByCustomerID(ctx, "user_1", 2, 0)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, ids[2], mine[0].ID)
	assert.Equal(t, ids[1], mine[1].ID)

	rest, err := store.ListByCustomerID(ctx, "user_1", 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, ids[0], rest[0].ID)

	require.NoError(t, store.UpdateStatus(ctx, ids[0], domain.OrderStatusUnverified, domain.OrderStatusConfirmed, nil))
	confirmed, err := store.ListByStatus(ctx, domain.OrderStatusConfirmed, 10, 0)
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, ids[0], confirmed[0].ID)

	all, err := store.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestOrderStore_UpdateTracking(t *testing.T) {
	store := NewOrderStore()
	ctx := context.Background()

	order := newOrder("user_1")
	require.NoError(t, store.Create(ctx, order, nil, nil))

	carrier, number := "DTDC", "123"
	require.NoError(t, store.UpdateTracking(ctx, order.ID, domain.OrderStatusUnverified, &carrier, &number, nil))

	got, err := store.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, got.Status)
	assert.Equal(t, "123", *got.TrackingNumber)

	err = store.UpdateStatus(ctx, uuid.New(), domain.OrderStatusUnverified, domain.OrderStatusConfirmed, nil)
	var notFound *errors.ErrNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestOrderStore_UpdateStatusGuardsCurrentStatus(t *testing.T) {
	store := NewOrderStore()
	ctx := context.Background()

	order := newOrder("user_1")
	require.NoError(t, store.Create(ctx, order, nil, nil))

	require.NoError(t, store.UpdateStatus(ctx, order.ID, domain.OrderStatusUnverified, domain.OrderStatusCancelled, nil))

	err := store.UpdateStatus(ctx, order.ID, domain.OrderStatusUnverified, domain.OrderStatusConfirmed, nil)
	var transitionErr *errors.ErrInvalidStateTransition
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, "CANCELLED", transitionErr.From)

	got, err := store.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, got.Status)
}
