package domain

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id, price string) Product {
	return Product{ID: id, Title: "Product " + id, Price: decimal.RequireFromString(price)}
}

func TestCart_AddItem_NewAndExisting(t *testing.T) {
	var cart Cart

	cart.AddItem(product("p1", "10"), "red", "M")
	cart.AddItem(product("p2", "5"), "", "")
	cart.AddItem(product("p1", "10"), "blue", "L")

	require.Len(t, cart.Items, 2)
	assert.Equal(t, "p1", cart.Items[0].Item.ID)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "red", cart.Items[0].Color, "existing line keeps its original attributes")
	assert.Equal(t, "M", cart.Items[0].Size)
	assert.Equal(t, 1, cart.Items[1].Quantity)
}

func TestCart_IncreaseQuantity_UnknownIsNoop(t *testing.T) {
	var cart Cart
	cart.AddItem(product("p1", "10"), "", "")

	cart.IncreaseQuantity("missing")
	cart.IncreaseQuantity("p1")

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCart_DecreaseQuantity_RemovesAtOne(t *testing.T) {
	var cart Cart
	cart.AddItem(product("p1", "10"), "", "")
	cart.AddItem(product("p2", "20"), "", "")
	before := cart.ItemCount()

	cart.DecreaseQuantity("p1")

	assert.Equal(t, before-1, cart.ItemCount())
	for _, item := range cart.Items {
		assert.NotEqual(t, "p1", item.Item.ID)
	}
}

func TestCart_DecreaseQuantity_Decrements(t *testing.T) {
	var cart Cart
	cart.AddItem(product("p1", "10"), "", "")
	cart.IncreaseQuantity("p1")
	cart.IncreaseQuantity("p1")

	cart.DecreaseQuantity("p1")
	cart.DecreaseQuantity("missing")

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCart_RemoveItem_IgnoresQuantity(t *testing.T) {
	var cart Cart
	cart.AddItem(product("p1", "10"), "", "")
	cart.IncreaseQuantity("p1")
	cart.IncreaseQuantity("p1")

	cart.RemoveItem("p1")

	assert.True(t, cart.IsEmpty())
}

func TestCart_Total(t *testing.T) {
	tests := []struct {
		name  string
		build func(c *Cart)
		want  string
	}{
		{
			name:  "empty cart",
			build: func(c *Cart) {},
			want:  "0.00",
		},
		{
			name: "mixed quantities",
			build: func(c *Cart) {
				c.AddItem(product("a", "499.50"), "", "")
				c.IncreaseQuantity("a")
				c.AddItem(product("b", "250"), "", "")
			},
			want: "1249.00",
		},
		{
			name: "rounds to two places",
			build: func(c *Cart) {
				c.AddItem(product("a", "0.105"), "", "")
				c.IncreaseQuantity("a")
				c.IncreaseQuantity("a")
			},
			want: "0.32",
		},
		{
			name: "no float drift",
			build: func(c *Cart) {
				c.AddItem(product("a", "0.1"), "", "")
				c.AddItem(product("b", "0.2"), "", "")
			},
			want: "0.30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cart Cart
			tt.build(&cart)
			assert.Equal(t, tt.want, cart.Total().StringFixed(2))
		})
	}
}

func TestCart_Clear(t *testing.T) {
	var cart Cart
	cart.AddItem(product("a", "12.34"), "", "")
	cart.AddItem(product("b", "1"), "", "")

	cart.Clear()
	cart.Clear()

	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.Total().IsZero())
}

func TestCart_RandomOperationsKeepPositiveQuantities(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ids := []string{"a", "b", "c", "d"}
	prices := map[string]string{"a": "1.99", "b": "10", "c": "0.05", "d": "999.99"}

	var cart Cart
	for step := 0; step < 5000; step++ {
		id := ids[rng.Intn(len(ids))]
		switch rng.Intn(4) {
		case 0:
			cart.AddItem(product(id, prices[id]), "", "")
		case 1:
			cart.IncreaseQuantity(id)
		case 2:
			cart.DecreaseQuantity(id)
		case 3:
			cart.RemoveItem(id)
		}

		seen := map[string]bool{}
		expected := decimal.Zero
		for _, item := range cart.Items {
			require.GreaterOrEqual(t, item.Quantity, 1, "step %d", step)
			require.False(t, seen[item.Item.ID], "duplicate line for %s", item.Item.ID)
			seen[item.Item.ID] = true
			expected = expected.Add(item.Item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		require.True(t, expected.Round(2).Equal(cart.Total()), "step %d", step)
	}
}

func TestNewOrderRequest_SnapshotsCart(t *testing.T) {
	var cart Cart
	cart.AddItem(product("a", "499.50"), "", "")
	cart.IncreaseQuantity("a")
	cart.AddItem(product("b", "250"), "", "")

	req := NewOrderRequest(cart, Customer{ID: "user_1"})
	cart.Clear()

	assert.Len(t, req.CartItems, 2)
	assert.Equal(t, PaymentMethodUPI, req.PaymentMethod)
	assert.Equal(t, "1249", req.TotalAmount.String())
}
