package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/borcelle/storefront/internal/api/handlers"
	"github.com/borcelle/storefront/internal/api/middleware"
	"github.com/borcelle/storefront/internal/auth"
	"github.com/borcelle/storefront/internal/config"
	"github.com/borcelle/storefront/internal/service"
)

// Storefront bundles what the storefront routes need
type Storefront struct {
	Carts         *service.CartService
	Checkout      *service.CheckoutService
	Authenticator auth.Authenticator
	Routes        *auth.RouteMatcher
}

// NewStorefrontRouter creates the router for cmd/storefront
func NewStorefrontRouter(cfg *config.Config, app Storefront, logger *zap.Logger) *gin.Engine {
	router := newEngine(cfg, logger)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	gated := router.Group("")
	gated.Use(middleware.Gate(app.Routes, app.Authenticator, cfg.Auth, logger))
	gated.Use(middleware.CartSession(cfg.Session))
	{
		gated.GET("/payment_success", handlers.HandlePaymentSuccess(app.Checkout, cfg.Payment, logger))

		apiRoutes := gated.Group("/api")
		{
			apiRoutes.POST("/auth/session", handlers.HandleSessionLogin(app.Authenticator, cfg.Auth, cfg.Session.CookieSecure, logger))
			apiRoutes.DELETE("/auth/session", handlers.HandleSessionLogout(cfg.Auth, cfg.Session.CookieSecure))

			apiRoutes.GET("/cart", handlers.HandleGetCart(app.Carts, logger))
			apiRoutes.DELETE("/cart", handlers.HandleClearCart(app.Carts, logger))
			apiRoutes.POST("/cart/items", handlers.HandleAddCartItem(app.Carts, logger))
			apiRoutes.POST("/cart/items/:productId/increase", handlers.HandleIncreaseCartItem(app.Carts, logger))
			apiRoutes.POST("/cart/items/:productId/decrease", handlers.HandleDecreaseCartItem(app.Carts, logger))
			apiRoutes.DELETE("/cart/items/:productId", handlers.HandleRemoveCartItem(app.Carts, logger))

			apiRoutes.GET("/checkout", handlers.HandleGetCheckout(app.Checkout, logger))
			apiRoutes.DELETE("/checkout", handlers.HandleCloseCheckout(app.Checkout, logger))
			apiRoutes.POST("/checkout/upi", handlers.HandleBeginUPIPayment(app.Checkout, logger))
			apiRoutes.POST("/checkout/upi/confirm", handlers.HandleConfirmPayment(app.Checkout, logger))
		}
	}

	return router
}

// NewOrdersRouter creates the router for cmd/orders-api
func NewOrdersRouter(cfg *config.Config, orders *service.OrderService, logger *zap.Logger) *gin.Engine {
	router := newEngine(cfg, logger)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	orderRoutes := router.Group("/orders")
	{
		orderRoutes.POST("", middleware.IdempotencyMiddleware(logger), handlers.HandleCreateOrder(orders, logger))
		orderRoutes.GET("", handlers.HandleListCustomerOrders(orders, logger))
		orderRoutes.GET("/:id", handlers.HandleGetOrder(orders, logger))
	}

	adminRoutes := router.Group("/admin")
	adminRoutes.Use(middleware.AdminAuthMiddleware(cfg.Admin, logger))
	{
		adminRoutes.GET("/orders", handlers.HandleListOrders(orders, logger))
		adminRoutes.POST("/orders/:id/confirm", handlers.HandleConfirmOrder(orders, logger))
		adminRoutes.POST("/orders/:id/reject", handlers.HandleRejectOrder(orders, logger))
		adminRoutes.POST("/orders/:id/ship", handlers.HandleShipOrder(orders, logger))
		adminRoutes.POST("/orders/:id/deliver", handlers.HandleDeliverOrder(orders, logger))
		adminRoutes.POST("/orders/:id/cancel", handlers.HandleCancelOrder(orders, logger))
	}

	return router
}

func newEngine(cfg *config.Config, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
