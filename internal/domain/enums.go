package domain

// OrderStatus represents the status of an order held by the orders API
type OrderStatus string

const (
	// OrderStatusUnverified is the initial status: the customer reported a UPI
	// payment that nobody has checked against the merchant account yet.
	OrderStatusUnverified OrderStatus = "UNVERIFIED"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusRejected   OrderStatus = "REJECTED"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// IsValid checks if the order status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusUnverified,
		OrderStatusConfirmed,
		OrderStatusRejected,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a status transition is valid
func (s OrderStatus) CanTransitionTo(newStatus OrderStatus) bool {
	switch s {
	case OrderStatusUnverified:
		return newStatus == OrderStatusConfirmed ||
			newStatus == OrderStatusRejected ||
			newStatus == OrderStatusCancelled
	case OrderStatusConfirmed:
		return newStatus == OrderStatusShipped ||
			newStatus == OrderStatusCancelled
	case OrderStatusShipped:
		return newStatus == OrderStatusDelivered
	case OrderStatusRejected, OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	default:
		return false
	}
}

// PaymentMethod identifies how the customer paid
type PaymentMethod string

const (
	PaymentMethodUPI PaymentMethod = "UPI"
)

// CheckoutState is the position of a session in the UPI checkout flow
type CheckoutState string

const (
	CheckoutStateIdle         CheckoutState = "IDLE"
	CheckoutStateAwaitingAuth CheckoutState = "AWAITING_AUTH"
	CheckoutStateModalOpen    CheckoutState = "MODAL_OPEN"
	CheckoutStateProcessing   CheckoutState = "PROCESSING"
	CheckoutStateCompleted    CheckoutState = "COMPLETED"
)

// CanTransitionTo checks if a checkout transition is valid
func (s CheckoutState) CanTransitionTo(next CheckoutState) bool {
	switch s {
	case "", CheckoutStateIdle, CheckoutStateCompleted:
		return next == CheckoutStateAwaitingAuth || next == CheckoutStateIdle
	case CheckoutStateAwaitingAuth:
		return next == CheckoutStateModalOpen || next == CheckoutStateIdle
	case CheckoutStateModalOpen:
		return next == CheckoutStateProcessing || next == CheckoutStateIdle
	case CheckoutStateProcessing:
		return next == CheckoutStateCompleted || next == CheckoutStateModalOpen
	default:
		return false
	}
}
