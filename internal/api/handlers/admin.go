package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/borcelle/storefront/internal/domain"
	"github.com/borcelle/storefront/internal/service"
)

// RejectOrderRequest represents reject order request
type RejectOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ShipOrderRequest represents ship order request
type ShipOrderRequest struct {
	Carrier        string  `json:"carrier" binding:"required"`
	TrackingNumber string  `json:"tracking_number" binding:"required"`
	TrackingURL    *string `json:"tracking_url,omitempty"`
}

// CancelOrderRequest represents cancel order request
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// HandleConfirmOrder handles POST /admin/orders/:id/confirm, used once the
// merchant has seen the UPI payment arrive
func HandleConfirmOrder(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return adminTransition(orders, logger, "failed to confirm order", func(c *gin.Context, id uuid.UUID) (bool, error) {
		return true, orders.ConfirmOrder(c.Request.Context(), id)
	})
}

// HandleRejectOrder handles POST /admin/orders/:id/reject
func HandleRejectOrder(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return adminTransition(orders, logger, "failed to reject order", func(c *gin.Context, id uuid.UUID) (bool, error) {
		var req RejectOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return false, nil
		}
		return true, orders.RejectOrder(c.Request.Context(), id, req.Reason)
	})
}

// HandleShipOrder handles POST /admin/orders/:id/ship
func HandleShipOrder(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return adminTransition(orders, logger, "failed to ship order", func(c *gin.Context, id uuid.UUID) (bool, error) {
		var req ShipOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return false, nil
		}
		return true, orders.ShipOrder(c.Request.Context(), id, req.Carrier, req.TrackingNumber, req.TrackingURL)
	})
}

// HandleDeliverOrder handles POST /admin/orders/:id/deliver
func HandleDeliverOrder(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return adminTransition(orders, logger, "failed to deliver order", func(c *gin.Context, id uuid.UUID) (bool, error) {
		return true, orders.DeliverOrder(c.Request.Context(), id)
	})
}

// HandleCancelOrder handles POST /admin/orders/:id/cancel. The body is optional.
func HandleCancelOrder(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return adminTransition(orders, logger, "failed to cancel order", func(c *gin.Context, id uuid.UUID) (bool, error) {
		var req CancelOrderRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				respondBindError(c, err)
				return false, nil
			}
		}
		return true, orders.CancelOrder(c.Request.Context(), id, req.Reason)
	})
}

// HandleListOrders handles GET /admin/orders?status=
func HandleListOrders(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)

		status := domain.OrderStatus(c.Query("status"))
		if status != "" && !status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}

		list, err := orders.ListOrders(c.Request.Context(), status, limit, offset)
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

// adminTransition parses the order id, runs apply and answers with the
// updated order. apply returns false when it already wrote a response.
func adminTransition(
	orders *service.OrderService,
	logger *zap.Logger,
	message string,
	apply func(c *gin.Context, id uuid.UUID) (bool, error),
) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		ok, err := apply(c, orderID)
		if !ok {
			return
		}
		if err != nil {
			respondError(c, logger, err, message)
			return
		}

		order, _, err := orders.GetOrder(c.Request.Context(), orderID)
		if err != nil {
			respondError(c, logger, err, "internal error")
			return
		}

		logger.Info("Order status changed",
			zap.String("order_id", orderID.String()),
			zap.String("status", string(order.Status)),
		)

		c.JSON(http.StatusOK, gin.H{
			"id":     order.ID.String(),
			"status": order.Status,
		})
	}
}
