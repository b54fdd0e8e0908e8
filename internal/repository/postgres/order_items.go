package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/borcelle/storefront/internal/domain"
)

type orderItemRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewOrderItemRepository(db *sql.DB, logger *zap.Logger) *orderItemRepository {
	return &orderItemRepository{db: db, logger: logger}
}

func (r *orderItemRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, title, price, quantity, color, size, media_url, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at, id
	`, orderID)
	if err != nil {
		r.logger.Error("Failed to query order items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []*domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		var color, size, mediaURL sql.NullString

		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Title,
			&item.Price,
			&item.Quantity,
			&color,
			&size,
			&mediaURL,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}

		item.Color = nullStringPtr(color)
		item.Size = nullStringPtr(size)
		item.MediaURL = nullStringPtr(mediaURL)
		items = append(items, &item)
	}

	return items, rows.Err()
}
