package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/borcelle/storefront/internal/domain"
	"github.com/borcelle/storefront/pkg/errors"
)

func TestSessionStore_UpdateAndGet(t *testing.T) {
	store := NewSessionStore(time.Hour)
	ctx := context.Background()

	returned, err := store.Update(ctx, "s1", func(s *domain.Session) error {
		s.Cart.AddItem(domain.Product{ID: "p1", Price: decimal.NewFromInt(3)}, "", "")
		return nil
	})
	require.NoError(t, err)

	// mutating the returned copy must not leak into the store
	returned.Cart.Clear()

	loaded, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Cart.ItemCount())
}

func TestSessionStore_Expiry(t *testing.T) {
	store := NewSessionStore(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := store.Update(ctx, "s1", func(s *domain.Session) error { return nil })
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)

	_, err = store.Get(ctx, "s1")
	var notFound *errors.ErrNotFound
	assert.ErrorAs(t, err, &notFound)
}
