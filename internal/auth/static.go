package auth

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/borcelle/storefront/internal/config"
	"github.com/borcelle/storefront/internal/domain"
	"github.com/borcelle/storefront/pkg/errors"
)

// Static accepts a single configured token as both ID token and session
// cookie. It is meant for local development only.
type Static struct {
	token    string
	customer domain.Customer
}

func NewStatic(cfg config.AuthConfig) *Static {
	return &Static{
		token: cfg.StaticToken,
		customer: domain.Customer{
			ID:    cfg.StaticUserID,
			Email: cfg.StaticUserEmail,
			Name:  cfg.StaticUserName,
		},
	}
}

func (s *Static) VerifyIDToken(ctx context.Context, idToken string) (*domain.Customer, error) {
	return s.verify(idToken)
}

func (s *Static) VerifySessionCookie(ctx context.Context, cookie string) (*domain.Customer, error) {
	return s.verify(cookie)
}

func (s *Static) CreateSessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error) {
	if _, err := s.verify(idToken); err != nil {
		return "", err
	}
	return s.token, nil
}

func (s *Static) verify(token string) (*domain.Customer, error) {
	if s.token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) != 1 {
		return nil, &errors.ErrUnauthorized{Message: "invalid token"}
	}
	customer := s.customer
	return &customer, nil
}
