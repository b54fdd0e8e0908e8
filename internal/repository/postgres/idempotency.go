package postgres

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/borcelle/storefront/internal/domain"
	"github.com/borcelle/storefront/pkg/errors"
)

type idempotencyKeyRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewIdempotencyKeyRepository(db *sql.DB, logger *zap.Logger) *idempotencyKeyRepository {
	return &idempotencyKeyRepository{db: db, logger: logger}
}

func (r *idempotencyKeyRepository) GetByKey(ctx context.Context, key string) (*domain.IdempotencyKey, error) {
	var k domain.IdempotencyKey

	err := r.db.QueryRowContext(ctx, `
		SELECT key, order_id, request_hash, created_at
		FROM idempotency_keys
		WHERE key = $1
	`, key).Scan(&k.Key, &k.OrderID, &k.RequestHash, &k.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "idempotency key", ID: key}
	}
	if err != nil {
		r.logger.Error("Failed to get idempotency key", zap.Error(err))
		return nil, err
	}

	return &k, nil
}
