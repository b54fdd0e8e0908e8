package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/borcelle/storefront/internal/api/middleware"
	"github.com/borcelle/storefront/internal/domain"
	"github.com/borcelle/storefront/internal/service"
)

// CreateOrderResponse represents the acknowledgement of POST /orders
type CreateOrderResponse struct {
	ID     string             `json:"id"`
	Status domain.OrderStatus `json:"status"`
}

// OrderResponse represents the order response
type OrderResponse struct {
	ID              string               `json:"id"`
	Status          domain.OrderStatus   `json:"status"`
	CustomerID      string               `json:"customer_id"`
	CustomerEmail   string               `json:"customer_email,omitempty"`
	CustomerName    string               `json:"customer_name,omitempty"`
	PaymentMethod   domain.PaymentMethod `json:"payment_method"`
	TotalAmount     string               `json:"total_amount"`
	RejectionReason *string              `json:"rejection_reason,omitempty"`
	TrackingCarrier *string              `json:"tracking_carrier,omitempty"`
	TrackingNumber  *string              `json:"tracking_number,omitempty"`
	TrackingURL     *string              `json:"tracking_url,omitempty"`
	Items           []OrderItemResponse  `json:"items,omitempty"`
	CreatedAt       string               `json:"created_at"`
	UpdatedAt       string               `json:"updated_at"`
}

type OrderItemResponse struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Price     string  `json:"price"`
	Quantity  int     `json:"quantity"`
	Color     *string `json:"color,omitempty"`
	Size      *string `json:"size,omitempty"`
	MediaURL  *string `json:"media_url,omitempty"`
}

func newOrderResponse(order *domain.Order, items []*domain.OrderItem) OrderResponse {
	response := OrderResponse{
		ID:              order.ID.String(),
		Status:          order.Status,
		CustomerID:      order.CustomerID,
		CustomerEmail:   order.CustomerEmail,
		CustomerName:    order.CustomerName,
		PaymentMethod:   order.PaymentMethod,
		TotalAmount:     order.TotalAmount.StringFixed(2),
		RejectionReason: order.RejectionReason,
		TrackingCarrier: order.TrackingCarrier,
		TrackingNumber:  order.TrackingNumber,
		TrackingURL:     order.TrackingURL,
		CreatedAt:       order.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       order.UpdatedAt.Format(time.RFC3339),
	}

	for _, item := range items {
		response.Items = append(response.Items, OrderItemResponse{
			ProductID: item.ProductID,
			Title:     item.Title,
			Price:     item.Price.StringFixed(2),
			Quantity:  item.Quantity,
			Color:     item.Color,
			Size:      item.Size,
			MediaURL:  item.MediaURL,
		})
	}

	return response
}

// HandleCreateOrder handles POST /orders
func HandleCreateOrder(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		idempotencyKey, requestHash := middleware.GetIdempotencyInfo(c)

		order, created, err := orders.CreateOrder(c.Request.Context(), req, idempotencyKey, requestHash)
		if err != nil {
			respondError(c, logger, err, "failed to create order")
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
			logger.Info("Order created",
				zap.String("order_id", order.ID.String()),
				zap.String("customer_id", order.CustomerID),
				zap.String("total_amount", order.TotalAmount.StringFixed(2)),
			)
		}

		c.JSON(status, CreateOrderResponse{
			ID:     order.ID.String(),
			Status: order.Status,
		})
	}
}

// HandleGetOrder handles GET /orders/:id
func HandleGetOrder(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		order, items, err := orders.GetOrder(c.Request.Context(), orderID)
		if err != nil {
			respondError(c, logger, err, "internal error")
			return
		}

		c.JSON(http.StatusOK, newOrderResponse(order, items))
	}
}

// HandleListCustomerOrders handles GET /orders?customerId=
func HandleListCustomerOrders(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := c.Query("customerId")
		if customerID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "customerId is required"})
			return
		}

		limit, offset := pagination(c)
		list, err := orders.ListCustomerOrders(c.Request.Context(), customerID, limit, offset)
		if err != nil {
			respondError(c, logger, err, "internal error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"orders": orderList(list),
			"limit":  limit,
			"offset": offset,
		})
	}
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 50
	}
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func orderList(orders []*domain.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i, order := range orders {
		responses[i] = newOrderResponse(order, nil)
	}
	return responses
}
