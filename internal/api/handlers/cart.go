package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/borcelle/storefront/internal/api/middleware"
	"github.com/borcelle/storefront/internal/domain"
	"github.com/borcelle/storefront/internal/service"
)

// AddCartItemRequest represents the add-to-cart payload
type AddCartItemRequest struct {
	Item  CartProduct `json:"item" binding:"required"`
	Color string      `json:"color"`
	Size  string      `json:"size"`
}

type CartProduct struct {
	ID    string          `json:"_id" binding:"required"`
	Title string          `json:"title" binding:"required"`
	Price decimal.Decimal `json:"price"`
	Media []string        `json:"media"`
}

// CartResponse represents the cart as shown to the shopper
type CartResponse struct {
	CartItems []domain.CartItem `json:"cartItems"`
	ItemCount int               `json:"itemCount"`
	Total     string            `json:"total"`
}

func newCartResponse(cart *domain.Cart) CartResponse {
	items := cart.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return CartResponse{
		CartItems: items,
		ItemCount: cart.ItemCount(),
		Total:     cart.Total().StringFixed(2),
	}
}

// HandleGetCart handles GET /api/cart
func HandleGetCart(carts *service.CartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.GetCart(c.Request.Context(), middleware.GetSessionID(c))
		if err != nil {
			respondError(c, logger, err, "failed to load cart")
			return
		}
		c.JSON(http.StatusOK, newCartResponse(cart))
	}
}

// HandleAddCartItem handles POST /api/cart/items
func HandleAddCartItem(carts *service.CartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		if req.Item.Price.IsNegative() {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": "price must not be negative",
			})
			return
		}

		product := domain.Product{
			ID:    req.Item.ID,
			Title: req.Item.Title,
			Price: req.Item.Price,
			Media: req.Item.Media,
		}

		cart, err := carts.AddItem(c.Request.Context(), middleware.GetSessionID(c), product, req.Color, req.Size)
		if err != nil {
			respondError(c, logger, err, "failed to add item")
			return
		}
		c.JSON(http.StatusOK, newCartResponse(cart))
	}
}

// HandleIncreaseCartItem handles POST /api/cart/items/:productId/increase
func HandleIncreaseCartItem(carts *service.CartService, logger *zap.Logger) gin.HandlerFunc {
	return cartLineHandler(carts.IncreaseQuantity, "failed to update cart", logger)
}

// HandleDecreaseCartItem handles POST /api/cart/items/:productId/decrease
func HandleDecreaseCartItem(carts *service.CartService, logger *zap.Logger) gin.HandlerFunc {
	return cartLineHandler(carts.DecreaseQuantity, "failed to update cart", logger)
}

// HandleRemoveCartItem handles DELETE /api/cart/items/:productId
func HandleRemoveCartItem(carts *service.CartService, logger *zap.Logger) gin.HandlerFunc {
	return cartLineHandler(carts.RemoveItem, "failed to remove item", logger)
}

// HandleClearCart handles DELETE /api/cart
func HandleClearCart(carts *service.CartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.Clear(c.Request.Context(), middleware.GetSessionID(c))
		if err != nil {
			respondError(c, logger, err, "failed to clear cart")
			return
		}
		c.JSON(http.StatusOK, newCartResponse(cart))
	}
}

type cartLineOp func(ctx context.Context, sessionID, productID string) (*domain.Cart, error)

func cartLineHandler(op cartLineOp, message string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := op(c.Request.Context(), middleware.GetSessionID(c), c.Param("productId"))
		if err != nil {
			respondError(c, logger, err, message)
			return
		}
		c.JSON(http.StatusOK, newCartResponse(cart))
	}
}
