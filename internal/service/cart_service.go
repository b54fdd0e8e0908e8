package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/borcelle/storefront/internal/domain"
	"github.com/borcelle/storefront/internal/repository"
	"github.com/borcelle/storefront/pkg/errors"
)

type CartService struct {
	sessions repository.SessionStore
	logger   *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(sessions repository.SessionStore, logger *zap.Logger) *CartService {
	return &CartService{
		sessions: sessions,
		logger:   logger,
	}
}

// GetCart returns the session cart, empty for unknown sessions
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	session, err := loadSession(ctx, s.sessions, sessionID)
	if err != nil {
		return nil, err
	}
	return &session.Cart, nil
}

func (s *CartService) AddItem(ctx context.Context, sessionID string, product domain.Product, color, size string) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(cart *domain.Cart) {
		cart.AddItem(product, color, size)
	})
}

func (s *CartService) IncreaseQuantity(ctx context.Context, sessionID, productID string) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(cart *domain.Cart) {
		cart.IncreaseQuantity(productID)
	})
}

func (s *CartService) DecreaseQuantity(ctx context.Context, sessionID, productID string) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(cart *domain.Cart) {
		cart.DecreaseQuantity(productID)
	})
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID string) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(cart *domain.Cart) {
		cart.RemoveItem(productID)
	})
}

func (s *CartService) Clear(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(cart *domain.Cart) {
		cart.Clear()
	})
}

// mutate applies op to the cart. An open payment modal shows instructions
// for the old cart, so the attempt is abandoned; while an order is being
// submitted the cart is frozen until the submission's lease runs out.
func (s *CartService) mutate(ctx context.Context, sessionID string, op func(*domain.Cart)) (*domain.Cart, error) {
	now := time.Now()
	session, err := s.sessions.Update(ctx, sessionID, func(session *domain.Session) error {
		switch session.Checkout.CurrentState() {
		case domain.CheckoutStateProcessing:
			if !session.Checkout.Stalled(now) {
				return &errors.ErrConflict{Message: "cart cannot change while the order is being placed"}
			}
			s.logger.Warn("Cart changed on stalled checkout, abandoning attempt",
				zap.String("session_id", sessionID),
				zap.String("attempt_id", session.Checkout.AttemptID),
			)
			session.Checkout.Reset()
		case domain.CheckoutStateModalOpen:
			s.logger.Debug("Cart changed during checkout, abandoning attempt",
				zap.String("session_id", sessionID),
				zap.String("attempt_id", session.Checkout.AttemptID),
			)
			session.Checkout.Reset()
		}

		op(&session.Cart)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &session.Cart, nil
}

func loadSession(ctx context.Context, sessions repository.SessionStore, sessionID string) (*domain.Session, error) {
	session, err := sessions.Get(ctx, sessionID)
	if _, ok := err.(*errors.ErrNotFound); ok {
		return domain.NewSession(sessionID), nil
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}
