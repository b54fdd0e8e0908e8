package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/borcelle/storefront/internal/api/middleware"
	"github.com/borcelle/storefront/internal/config"
	"github.com/borcelle/storefront/internal/service"
)

// PaymentSuccessResponse is the confirmation shown after checkout
type PaymentSuccessResponse struct {
	Title        string            `json:"title"`
	Message      string            `json:"message"`
	OrderID      string            `json:"order_id,omitempty"`
	NextSteps    []string          `json:"next_steps"`
	Links        map[string]string `json:"links"`
	SupportPhone string            `json:"support_phone"`
}

var successNextSteps = []string{
	"Your order has been placed and will be confirmed once the payment is verified",
	"You'll receive an email confirmation shortly",
	"Track your order in the Orders section",
	"Estimated delivery: 3-5 business days",
}

// HandlePaymentSuccess handles GET /payment_success. The cart was already
// cleared when the order went through; this only reports the order once.
func HandlePaymentSuccess(checkout *service.CheckoutService, cfg config.PaymentConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := checkout.AcknowledgeCompletion(c.Request.Context(), middleware.GetSessionID(c))
		if err != nil {
			respondError(c, logger, err, "failed to load order confirmation")
			return
		}

		c.JSON(http.StatusOK, PaymentSuccessResponse{
			Title:     "Payment Successful!",
			Message:   "Thank you for your purchase",
			OrderID:   orderID,
			NextSteps: successNextSteps,
			Links: map[string]string{
				"orders":   service.OrdersPath,
				"continue": service.StorefrontPath,
			},
			SupportPhone: cfg.SupportPhone,
		})
	}
}
