package service

// CreateOrderRequest is the POST /orders payload sent by the storefront
type CreateOrderRequest struct {
	CartItems     []OrderCartItem `json:"cartItems" binding:"required,min=1,dive"`
	Customer      OrderCustomer   `json:"customer" binding:"required"`
	PaymentMethod string          `json:"paymentMethod" binding:"required,oneof=UPI"`
	TotalAmount   float64         `json:"totalAmount" binding:"min=0"`
}

type OrderCartItem struct {
	Item     OrderProduct `json:"item" binding:"required"`
	Quantity int          `json:"quantity" binding:"required,min=1"`
	Color    string       `json:"color,omitempty"`
	Size     string       `json:"size,omitempty"`
}

type OrderProduct struct {
	ID    string   `json:"_id" binding:"required"`
	Title string   `json:"title" binding:"required"`
	Price float64  `json:"price" binding:"min=0"`
	Media []string `json:"media,omitempty"`
}

type OrderCustomer struct {
	ID    string `json:"clerkId" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
	Name  string `json:"name"`
}
