package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/borcelle/storefront/internal/api/middleware"
	"github.com/borcelle/storefront/internal/domain"
	"github.com/borcelle/storefront/internal/service"
)

// CheckoutResponse represents the checkout attempt of the session
type CheckoutResponse struct {
	State        domain.CheckoutState        `json:"state"`
	AttemptID    string                      `json:"attempt_id,omitempty"`
	Instructions *domain.PaymentInstructions `json:"instructions,omitempty"`
	Message      string                      `json:"message,omitempty"`
	OrderID      string                      `json:"order_id,omitempty"`
	Cart         CartResponse                `json:"cart"`
	Redirect     string                      `json:"redirect,omitempty"`
}

func newCheckoutResponse(session *domain.Session, redirect string) CheckoutResponse {
	return CheckoutResponse{
		State:        session.Checkout.CurrentState(),
		AttemptID:    session.Checkout.AttemptID,
		Instructions: session.Checkout.Instructions,
		Message:      session.Checkout.LastError,
		OrderID:      session.Checkout.OrderID,
		Cart:         newCartResponse(&session.Cart),
		Redirect:     redirect,
	}
}

// HandleGetCheckout handles GET /api/checkout
func HandleGetCheckout(checkout *service.CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := checkout.GetCheckout(c.Request.Context(), middleware.GetSessionID(c))
		if err != nil {
			respondError(c, logger, err, "failed to load checkout")
			return
		}
		c.JSON(http.StatusOK, newCheckoutResponse(session, ""))
	}
}

// HandleBeginUPIPayment handles POST /api/checkout/upi
func HandleBeginUPIPayment(checkout *service.CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer, _ := middleware.GetCustomerFromContext(c)

		result, err := checkout.BeginUPIPayment(c.Request.Context(), middleware.GetSessionID(c), customer)
		if err != nil {
			respondError(c, logger, err, "failed to start checkout")
			return
		}

		c.JSON(http.StatusOK, newCheckoutResponse(result.Session, result.Redirect))
	}
}

// HandleConfirmPayment handles POST /api/checkout/upi/confirm, sent when
// the customer reports the UPI payment as done
func HandleConfirmPayment(checkout *service.CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer, _ := middleware.GetCustomerFromContext(c)

		result, err := checkout.ConfirmPayment(c.Request.Context(), middleware.GetSessionID(c), customer)
		if err != nil {
			if result != nil {
				// submission failed; the modal is open again with the cart intact
				logger.Error("Failed to place order", zap.Error(err))
				c.JSON(http.StatusBadGateway, gin.H{
					"error":    service.OrderFailedMessage,
					"checkout": newCheckoutResponse(result.Session, ""),
				})
				return
			}
			respondError(c, logger, err, service.OrderFailedMessage)
			return
		}

		c.JSON(http.StatusOK, newCheckoutResponse(result.Session, result.Redirect))
	}
}

// HandleCloseCheckout handles DELETE /api/checkout
func HandleCloseCheckout(checkout *service.CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := checkout.CloseCheckout(c.Request.Context(), middleware.GetSessionID(c))
		if err != nil {
			respondError(c, logger, err, "failed to close checkout")
			return
		}
		c.JSON(http.StatusOK, newCheckoutResponse(session, ""))
	}
}
