package domain

import "github.com/shopspring/decimal"

// CartItem is one line of the cart, keyed by product id
type CartItem struct {
	Item     Product `json:"item"`
	Quantity int     `json:"quantity"`
	Color    string  `json:"color,omitempty"`
	Size     string  `json:"size,omitempty"`
}

// Subtotal returns price × quantity without rounding
func (ci CartItem) Subtotal() decimal.Decimal {
	return ci.Item.Price.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

// Cart holds the lines a session intends to buy. Every entry has quantity >= 1.
type Cart struct {
	Items []CartItem `json:"cartItems"`
}

// AddItem increments the line for product.ID, or appends a new line with
// quantity 1. An existing line keeps the color and size it was first added with.
func (c *Cart) AddItem(product Product, color, size string) {
	if i := c.indexOf(product.ID); i >= 0 {
		c.Items[i].Quantity++
		return
	}
	c.Items = append(c.Items, CartItem{
		Item:     product,
		Quantity: 1,
		Color:    color,
		Size:     size,
	})
}

// IncreaseQuantity adds one to the matching line. Unknown ids are ignored.
func (c *Cart) IncreaseQuantity(productID string) {
	if i := c.indexOf(productID); i >= 0 {
		c.Items[i].Quantity++
	}
}

// DecreaseQuantity removes one from the matching line, dropping the line
// instead of keeping it at zero.
func (c *Cart) DecreaseQuantity(productID string) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	if c.Items[i].Quantity <= 1 {
		c.removeAt(i)
		return
	}
	c.Items[i].Quantity--
}

// RemoveItem drops the matching line regardless of quantity
func (c *Cart) RemoveItem(productID string) {
	if i := c.indexOf(productID); i >= 0 {
		c.removeAt(i)
	}
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = nil
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount is the number of distinct lines, not the sum of quantities
func (c *Cart) ItemCount() int {
	return len(c.Items)
}

// Total is Σ(price × quantity) rounded to 2 decimal places
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total.Round(2)
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.Items {
		if c.Items[i].Item.ID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	if len(c.Items) == 0 {
		c.Items = nil
	}
}
