package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/borcelle/storefront/internal/domain"
	apperrors "github.com/borcelle/storefront/pkg/errors"
)

const uniqueViolation = "23505"

const orderColumns = `
	id, customer_id, customer_email, customer_name, payment_method, total_amount,
	status, rejection_reason, tracking_carrier, tracking_number, tracking_url,
	created_at, updated_at
`

type orderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB, logger *zap.Logger) *orderRepository {
	return &orderRepository{
		db:     db,
		logger: logger,
	}
}

func (r *orderRepository) Create(
	ctx context.Context,
	order *domain.Order,
	items []*domain.OrderItem,
	key *domain.IdempotencyKey,
) error {
	now := time.Now().UTC()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = order.CreatedAt

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		order.ID,
		order.CustomerID,
		order.CustomerEmail,
		order.CustomerName,
		order.PaymentMethod,
		order.TotalAmount,
		order.Status,
		order.RejectionReason,
		order.TrackingCarrier,
		order.TrackingNumber,
		order.TrackingURL,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to insert order", zap.Error(err))
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO order_items (id, order_id, product_id, title, price, quantity, color, size, media_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare item insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.OrderID = order.ID
		item.CreatedAt = now

		if _, err := stmt.ExecContext(ctx,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.Title,
			item.Price,
			item.Quantity,
			item.Color,
			item.Size,
			item.MediaURL,
			item.CreatedAt,
		); err != nil {
			r.logger.Error("Failed to insert order item", zap.Error(err))
			return err
		}
	}

	if key != nil {
		key.OrderID = order.ID
		key.CreatedAt = now

		_, err := tx.ExecContext(ctx, `
			INSERT INTO idempotency_keys (key, order_id, request_hash, created_at)
			VALUES ($1, $2, $3, $4)
		`, key.Key, key.OrderID, key.RequestHash, key.CreatedAt)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
				return &apperrors.ErrConflict{Message: "idempotency key already used"}
			}
			r.logger.Error("Failed to insert idempotency key", zap.Error(err))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)

	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, &apperrors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get order by ID", zap.Error(err))
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) ListByCustomerID(ctx context.Context, customerID string, limit, offset int) ([]*domain.Order, error) {
	return r.list(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, customerID, limit, offset)
}

func (r *orderRepository) ListByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]*domain.Order, error) {
	return r.list(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, status, limit, offset)
}

func (r *orderRepository) List(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	return r.list(ctx, `
		SELECT `+orderColumns+` FROM orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus, reason *string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $3, rejection_reason = COALESCE($4, rejection_reason), updated_at = $5
		WHERE id = $1 AND status = $2
	`, id, from, to, reason, time.Now().UTC())
	if err != nil {
		r.logger.Error("Failed to update order status", zap.Error(err))
		return err
	}

	return r.expectTransition(ctx, res, id, to)
}

func (r *orderRepository) UpdateTracking(ctx context.Context, id uuid.UUID, from domain.OrderStatus, carrier, trackingNumber, trackingURL *string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $3, tracking_carrier = $4, tracking_number = $5, tracking_url = $6, updated_at = $7
		WHERE id = $1 AND status = $2
	`, id, from, domain.OrderStatusShipped, carrier, trackingNumber, trackingURL, time.Now().UTC())
	if err != nil {
		r.logger.Error("Failed to update order tracking", zap.Error(err))
		return err
	}

	return r.expectTransition(ctx, res, id, domain.OrderStatusShipped)
}

// expectTransition explains a guarded update that matched no row: either
// the order is missing or another request moved it first
func (r *orderRepository) expectTransition(ctx context.Context, res sql.Result, id uuid.UUID, to domain.OrderStatus) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var current domain.OrderStatus
	err = r.db.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = $1`, id).Scan(&current)
	if err == sql.ErrNoRows {
		return &apperrors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	if err != nil {
		return err
	}
	return &apperrors.ErrInvalidStateTransition{
		Entity: "order",
		From:   string(current),
		To:     string(to),
	}
}

func (r *orderRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var rejectionReason, carrier, trackingNumber, trackingURL sql.NullString

	err := row.Scan(
		&order.ID,
		&order.CustomerID,
		&order.CustomerEmail,
		&order.CustomerName,
		&order.PaymentMethod,
		&order.TotalAmount,
		&order.Status,
		&rejectionReason,
		&carrier,
		&trackingNumber,
		&trackingURL,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.RejectionReason = nullStringPtr(rejectionReason)
	order.TrackingCarrier = nullStringPtr(carrier)
	order.TrackingNumber = nullStringPtr(trackingNumber)
	order.TrackingURL = nullStringPtr(trackingURL)

	return &order, nil
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
