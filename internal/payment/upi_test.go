package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/borcelle/storefront/internal/config"
	"github.com/borcelle/storefront/internal/domain"
)

func newTestUPI() *UPI {
	return NewUPI(config.PaymentConfig{
		UPIPayeeID:   "pdk7893@oksbi",
		UPIPayeeName: "Borcelle",
		StoreName:    "Borcelle Store",
		SupportPhone: "+917013418146",
	})
}

func testCart() *domain.Cart {
	cart := &domain.Cart{}
	cart.AddItem(domain.Product{ID: "a", Price: decimal.RequireFromString("499.50")}, "", "")
	cart.IncreaseQuantity("a")
	cart.AddItem(domain.Product{ID: "b", Price: decimal.NewFromInt(250)}, "", "")
	return cart
}

func TestLink_ExactFormat(t *testing.T) {
	upi := newTestUPI()

	link := upi.Link(testCart().Total(), upi.Note(2))

	assert.Equal(t,
		"upi://pay?pa=pdk7893@oksbi&am=1249&cu=INR&tn=Borcelle%20Store%20Order%20-%202%20items",
		link,
	)
}

func TestLink_FractionalAmount(t *testing.T) {
	upi := newTestUPI()

	assert.Contains(t, upi.Link(decimal.RequireFromString("499.50"), "x"), "&am=499.5&")
	assert.Contains(t, upi.Link(decimal.RequireFromString("10.456"), "x"), "&am=10.46&")
}

func TestEncodeURIComponent(t *testing.T) {
	tests := map[string]string{
		"plain":             "plain",
		"a b":               "a%20b",
		"a+b&c=d":           "a%2Bb%26c%3Dd",
		"keep-_.!~*'()":     "keep-_.!~*'()",
		"₹":                 "%E2%82%B9",
		"50% off/today?yes": "50%25%20off%2Ftoday%3Fyes",
	}

	for in, want := range tests {
		assert.Equal(t, want, EncodeURIComponent(in), in)
	}
}

func TestInstructions(t *testing.T) {
	upi := newTestUPI()

	ins := upi.Instructions(testCart())

	require.NotNil(t, ins)
	assert.Equal(t, "1249.00", ins.Amount)
	assert.Equal(t, "INR", ins.Currency)
	assert.Equal(t, 2, ins.ItemCount)
	assert.Equal(t, "Borcelle Store Order - 2 items", ins.Note)
	assert.Equal(t, "pdk7893@oksbi", ins.PayeeID)
	assert.Equal(t, "+917013418146", ins.SupportPhone)
	assert.Contains(t, ins.Link, "am=1249&")
	assert.Len(t, ins.Steps, 5)
	assert.Equal(t, "Send ₹1249.00 to UPI ID: pdk7893@oksbi", ins.Steps[1])
}
