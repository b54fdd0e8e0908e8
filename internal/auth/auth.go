package auth

import (
	"context"
	"time"

	"github.com/borcelle/storefront/internal/domain"
)

// Authenticator resolves a signed-in customer from the credentials the
// browser presents. Invalid credentials yield *errors.ErrUnauthorized.
type Authenticator interface {
	// VerifyIDToken checks a bearer ID token
	VerifyIDToken(ctx context.Context, idToken string) (*domain.Customer, error)
	// VerifySessionCookie checks the value of the session cookie
	VerifySessionCookie(ctx context.Context, cookie string) (*domain.Customer, error)
	// CreateSessionCookie exchanges a fresh ID token for a session cookie value
	CreateSessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error)
}
