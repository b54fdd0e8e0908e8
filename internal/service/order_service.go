package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/borcelle/storefront/internal/domain"
	"github.com/borcelle/storefront/internal/repository"
	"github.com/borcelle/storefront/pkg/errors"
)

type OrderService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(repos *repository.Repositories, logger *zap.Logger) *OrderService {
	return &OrderService{
		repos:  repos,
		logger: logger,
	}
}

// CreateOrder stores an order submitted by the storefront. A repeated
// idempotency key with the same request hash returns the order created first
// and created=false.
func (s *OrderService) CreateOrder(
	ctx context.Context,
	req CreateOrderRequest,
	idempotencyKey string,
	requestHash string,
) (order *domain.Order, created bool, err error) {
	if idempotencyKey != "" {
		existing, err := s.repos.IdempotencyKey.GetByKey(ctx, idempotencyKey)
		if err == nil {
			order, err := s.replay(ctx, existing, requestHash)
			return order, false, err
		}
		if _, ok := err.(*errors.ErrNotFound); !ok {
			return nil, false, err
		}
	}

	if err := validateTotal(req); err != nil {
		return nil, false, err
	}

	order = &domain.Order{
		CustomerID:    req.Customer.ID,
		CustomerEmail: req.Customer.Email,
		CustomerName:  req.Customer.Name,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		TotalAmount:   decimal.NewFromFloat(req.TotalAmount).Round(2),
		Status:        domain.OrderStatusUnverified,
	}

	items := make([]*domain.OrderItem, 0, len(req.CartItems))
	for _, cartItem := range req.CartItems {
		item := &domain.OrderItem{
			ProductID: cartItem.Item.ID,
			Title:     cartItem.Item.Title,
			Price:     decimal.NewFromFloat(cartItem.Item.Price),
			Quantity:  cartItem.Quantity,
			Color:     optionalString(cartItem.Color),
			Size:      optionalString(cartItem.Size),
		}
		if len(cartItem.Item.Media) > 0 {
			item.MediaURL = optionalString(cartItem.Item.Media[0])
		}
		items = append(items, item)
	}

	var key *domain.IdempotencyKey
	if idempotencyKey != "" {
		key = &domain.IdempotencyKey{
			Key:         idempotencyKey,
			RequestHash: requestHash,
		}
	}

	if err := s.repos.Order.Create(ctx, order, items, key); err != nil {
		// a concurrent request with the same key won the insert
		if _, ok := err.(*errors.ErrConflict); ok && key != nil {
			existing, getErr := s.repos.IdempotencyKey.GetByKey(ctx, idempotencyKey)
			if getErr != nil {
				return nil, false, getErr
			}
			order, err := s.replay(ctx, existing, requestHash)
			return order, false, err
		}
		return nil, false, err
	}

	s.recordEvent(ctx, order.ID, "order_created", map[string]interface{}{
		"status":          order.Status,
		"payment_method":  order.PaymentMethod,
		"total_amount":    order.TotalAmount.StringFixed(2),
		"idempotency_key": idempotencyKey,
	})

	return order, true, nil
}

// GetOrder returns the order and its items
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, []*domain.OrderItem, error) {
	order, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.repos.OrderItem.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	return order, items, nil
}

// ListCustomerOrders backs the order-history view
func (s *OrderService) ListCustomerOrders(ctx context.Context, customerID string, limit, offset int) ([]*domain.Order, error) {
	return s.repos.Order.ListByCustomerID(ctx, customerID, limit, offset)
}

// ListOrders lists all orders, optionally filtered by status
func (s *OrderService) ListOrders(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]*domain.Order, error) {
	if status == "" {
		return s.repos.Order.List(ctx, limit, offset)
	}
	return s.repos.Order.ListByStatus(ctx, status, limit, offset)
}

// ConfirmOrder marks the UPI payment as verified by the merchant
func (s *OrderService) ConfirmOrder(ctx context.Context, orderID uuid.UUID) error {
	return s.transition(ctx, orderID, domain.OrderStatusConfirmed, nil, func(from domain.OrderStatus) error {
		return s.repos.Order.UpdateStatus(ctx, orderID, from, domain.OrderStatusConfirmed, nil)
	})
}

// RejectOrder rejects an order, typically because no payment arrived
func (s *OrderService) RejectOrder(ctx context.Context, orderID uuid.UUID, reason string) error {
	return s.transition(ctx, orderID, domain.OrderStatusRejected, map[string]interface{}{
		"reason": reason,
	}, func(from domain.OrderStatus) error {
		return s.repos.Order.UpdateStatus(ctx, orderID, from, domain.OrderStatusRejected, &reason)
	})
}

// ShipOrder marks an order as shipped with tracking information
func (s *OrderService) ShipOrder(ctx context.Context, orderID uuid.UUID, carrier, trackingNumber string, trackingURL *string) error {
	data := map[string]interface{}{
		"carrier":         carrier,
		"tracking_number": trackingNumber,
	}
	if trackingURL != nil {
		data["tracking_url"] = *trackingURL
	}

	return s.transition(ctx, orderID, domain.OrderStatusShipped, data, func(from domain.OrderStatus) error {
		return s.repos.Order.UpdateTracking(ctx, orderID, from, &carrier, &trackingNumber, trackingURL)
	})
}

// DeliverOrder marks a shipped order as delivered
func (s *OrderService) DeliverOrder(ctx context.Context, orderID uuid.UUID) error {
	return s.transition(ctx, orderID, domain.OrderStatusDelivered, nil, func(from domain.OrderStatus) error {
		return s.repos.Order.UpdateStatus(ctx, orderID, from, domain.OrderStatusDelivered, nil)
	})
}

// CancelOrder cancels an order that has not shipped
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID, reason string) error {
	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}
	return s.transition(ctx, orderID, domain.OrderStatusCancelled, map[string]interface{}{
		"reason": reason,
	}, func(from domain.OrderStatus) error {
		return s.repos.Order.UpdateStatus(ctx, orderID, from, domain.OrderStatusCancelled, reasonPtr)
	})
}

// transition checks the move against the current status, then has apply
// write it guarded by that status so a concurrent change makes it fail
func (s *OrderService) transition(
	ctx context.Context,
	orderID uuid.UUID,
	to domain.OrderStatus,
	data map[string]interface{},
	apply func(from domain.OrderStatus) error,
) error {
	order, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	// Validate state transition
	if !order.Status.CanTransitionTo(to) {
		return &errors.ErrInvalidStateTransition{
			Entity: "order",
			From:   string(order.Status),
			To:     string(to),
		}
	}

	if err := apply(order.Status); err != nil {
		return err
	}

	eventData := map[string]interface{}{
		"from": order.Status,
		"to":   to,
	}
	for k, v := range data {
		eventData[k] = v
	}
	s.recordEvent(ctx, orderID, "status_change", eventData)

	return nil
}

func (s *OrderService) replay(ctx context.Context, existing *domain.IdempotencyKey, requestHash string) (*domain.Order, error) {
	if existing.RequestHash != requestHash {
		return nil, &errors.ErrValidation{
			Field:   "Idempotency-Key",
			Message: "key was already used with a different request body",
		}
	}

	s.logger.Info("Replaying idempotent order creation",
		zap.String("idempotency_key", existing.Key),
		zap.String("order_id", existing.OrderID.String()),
	)

	return s.repos.Order.GetByID(ctx, existing.OrderID)
}

// recordEvent writes an audit event; failures are logged, not returned
func (s *OrderService) recordEvent(ctx context.Context, orderID uuid.UUID, eventType string, data map[string]interface{}) {
	event := &domain.OrderEvent{
		OrderID:   orderID,
		EventType: eventType,
		EventData: data,
	}
	if err := s.repos.OrderEvent.Create(ctx, event); err != nil {
		s.logger.Warn("Failed to record order event",
			zap.String("order_id", orderID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func validateTotal(req CreateOrderRequest) error {
	computed := decimal.Zero
	for _, item := range req.CartItems {
		line := decimal.NewFromFloat(item.Item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		computed = computed.Add(line)
	}
	computed = computed.Round(2)

	claimed := decimal.NewFromFloat(req.TotalAmount).Round(2)
	if !claimed.Equal(computed) {
		return &errors.ErrValidation{
			Field:   "totalAmount",
			Message: fmt.Sprintf("%s does not match cart total %s", claimed.StringFixed(2), computed.StringFixed(2)),
		}
	}
	return nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
