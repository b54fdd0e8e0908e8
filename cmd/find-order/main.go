package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/borcelle/storefront/internal/config"
	"github.com/borcelle/storefront/internal/domain"
	"github.com/borcelle/storefront/internal/repository/postgres"
	"github.com/borcelle/storefront/pkg/errors"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/find-order/main.go <order-id | idempotency-key>")
		fmt.Println("Example: go run cmd/find-order/main.go 3f5c2a8e-4b1d-4c7a-9e2f-0a1b2c3d4e5f")
		os.Exit(1)
	}

	ref := os.Args[1]

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repos := postgres.NewRepositories(db, logger)
	ctx := context.Background()

	fmt.Printf("🔍 Searching for order: %s\n\n", ref)

	// Checkout attempt ids are uuids too, so fall back to the key table
	var order *domain.Order
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		order, err = repos.Order.GetByID(ctx, id)
	}
	if order == nil {
		key, keyErr := repos.IdempotencyKey.GetByKey(ctx, ref)
		if keyErr == nil {
			fmt.Printf("Idempotency key matched (stored %s)\n\n", key.CreatedAt.Format("2006-01-02 15:04:05"))
			order, err = repos.Order.GetByID(ctx, key.OrderID)
		} else if err == nil {
			err = keyErr
		}
	}
	if err != nil {
		if _, ok := err.(*errors.ErrNotFound); ok {
			fmt.Printf("❌ No order or idempotency key '%s' found.\n", ref)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Failed to look up order: %v\n", err)
		os.Exit(1)
	}

	items, err := repos.OrderItem.GetByOrderID(ctx, order.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load order items: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Found order!\n\n")
	fmt.Printf("Order ID: %s\n", order.ID)
	fmt.Printf("Status: %s\n", order.Status)
	fmt.Printf("Customer: %s <%s> (%s)\n", order.CustomerName, order.CustomerEmail, order.CustomerID)
	fmt.Printf("Payment: %s ₹%s\n", order.PaymentMethod, order.TotalAmount.StringFixed(2))
	fmt.Printf("Placed: %s\n", order.CreatedAt.Format("2006-01-02 15:04:05"))
	if order.RejectionReason != nil {
		fmt.Printf("Reason: %s\n", *order.RejectionReason)
	}
	if order.TrackingNumber != nil {
		fmt.Printf("Tracking: %s %s\n", deref(order.TrackingCarrier), *order.TrackingNumber)
	}

	fmt.Printf("\nItems:\n")
	for _, item := range items {
		fmt.Printf("  %d × %s (%s) @ ₹%s", item.Quantity, item.Title, item.ProductID, item.Price.StringFixed(2))
		if item.Color != nil || item.Size != nil {
			fmt.Printf(" [%s %s]", deref(item.Color), deref(item.Size))
		}
		fmt.Println()
	}

	if order.Status == domain.OrderStatusUnverified {
		fmt.Printf("\nPayment not verified yet. Once it shows up in the UPI app, run:\n")
		fmt.Printf("curl -X POST -H \"Authorization: Bearer $ADMIN_API_KEY\" %s/admin/orders/%s/confirm\n",
			"http://localhost:"+cfg.Port, order.ID)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
