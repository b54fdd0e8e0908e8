package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/borcelle/storefront/internal/config"
	"github.com/borcelle/storefront/internal/domain"
	apperrors "github.com/borcelle/storefront/pkg/errors"
)

const maxUpdateRetries = 10

type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewClient opens a Redis client and checks connectivity
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// NewSessionStore creates a Redis-backed session store. Every write
// refreshes the key TTL, so idle sessions expire after ttl.
func NewSessionStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, &apperrors.ErrNotFound{Resource: "session", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	return decodeSession(data)
}

func (s *SessionStore) Update(ctx context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error) {
	key := sessionKey(id)
	var updated *domain.Session

	txf := func(tx *redis.Tx) error {
		session := domain.NewSession(id)

		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("redis get failed: %w", err)
		default:
			if session, err = decodeSession(data); err != nil {
				return err
			}
		}

		if err := fn(session); err != nil {
			return err
		}
		session.UpdatedAt = time.Now().UTC()

		encoded, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("marshal session failed: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		updated = session
		return nil
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			s.logger.Debug("Session changed during update, retrying",
				zap.String("session_id", id),
				zap.Int("attempt", i+1),
			)
			continue
		}
		return nil, err
	}

	return nil, &apperrors.ErrConflict{Message: "session is being modified concurrently, try again"}
}

func decodeSession(data []byte) (*domain.Session, error) {
	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session failed: %w", err)
	}
	return &session, nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("storefront:session:%s", id)
}
