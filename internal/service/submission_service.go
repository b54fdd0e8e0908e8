package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/borcelle/storefront/internal/domain"
	"github.com/borcelle/storefront/internal/orderclient"
	"github.com/borcelle/storefront/pkg/errors"
)

// OrderCreator is the transport used to reach the order-creation endpoint
type OrderCreator interface {
	CreateOrder(ctx context.Context, idempotencyKey string, input orderclient.CreateOrderInput) (*orderclient.CreateOrderResponse, error)
}

type SubmissionService struct {
	client OrderCreator
	logger *zap.Logger
}

// NewSubmissionService creates a new order submission service
func NewSubmissionService(client OrderCreator, logger *zap.Logger) *SubmissionService {
	return &SubmissionService{
		client: client,
		logger: logger,
	}
}

// Submit sends the order once and returns the created order id, which is
// empty when the endpoint acknowledged without a body
func (s *SubmissionService) Submit(ctx context.Context, idempotencyKey string, req domain.OrderRequest) (string, error) {
	input := buildCreateOrderInput(req)

	resp, err := s.client.CreateOrder(ctx, idempotencyKey, input)
	if err != nil {
		return "", &errors.ErrUpstream{Service: "orders API", Err: err}
	}

	s.logger.Info("Order submitted",
		zap.String("order_id", resp.ID),
		zap.String("idempotency_key", idempotencyKey),
		zap.String("customer_id", req.Customer.ID),
		zap.String("total_amount", req.TotalAmount.StringFixed(2)),
	)

	return resp.ID, nil
}

func buildCreateOrderInput(req domain.OrderRequest) orderclient.CreateOrderInput {
	items := make([]orderclient.CartItemInput, 0, len(req.CartItems))
	for _, ci := range req.CartItems {
		items = append(items, orderclient.CartItemInput{
			Item: orderclient.ProductInput{
				ID:    ci.Item.ID,
				Title: ci.Item.Title,
				Price: ci.Item.Price.InexactFloat64(),
				Media: ci.Item.Media,
			},
			Quantity: ci.Quantity,
			Color:    ci.Color,
			Size:     ci.Size,
		})
	}

	return orderclient.CreateOrderInput{
		CartItems: items,
		Customer: orderclient.CustomerInput{
			ID:    req.Customer.ID,
			Email: req.Customer.Email,
			Name:  req.Customer.Name,
		},
		PaymentMethod: string(req.PaymentMethod),
		TotalAmount:   req.TotalAmount.InexactFloat64(),
	}
}
