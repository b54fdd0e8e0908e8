package orderclient

// CreateOrderInput is the body of POST /orders
type CreateOrderInput struct {
	CartItems     []CartItemInput `json:"cartItems"`
	Customer      CustomerInput   `json:"customer"`
	PaymentMethod string          `json:"paymentMethod"`
	TotalAmount   float64         `json:"totalAmount"`
}

type CartItemInput struct {
	Item     ProductInput `json:"item"`
	Quantity int          `json:"quantity"`
	Color    string       `json:"color,omitempty"`
	Size     string       `json:"size,omitempty"`
}

type ProductInput struct {
	ID    string   `json:"_id"`
	Title string   `json:"title"`
	Price float64  `json:"price"`
	Media []string `json:"media,omitempty"`
}

// CustomerInput keeps the clerkId field name the admin dashboard reads
type CustomerInput struct {
	ID    string `json:"clerkId"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// CreateOrderResponse is the acknowledgement of a created order
type CreateOrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
