package auth

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/borcelle/storefront/internal/config"
	"github.com/borcelle/storefront/pkg/errors"
)

type fakeVerifier struct {
	token *fbauth.Token
	err   error
}

func (f *fakeVerifier) VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error) {
	return f.token, f.err
}

func (f *fakeVerifier) VerifySessionCookie(ctx context.Context, cookie string) (*fbauth.Token, error) {
	return f.token, f.err
}

func (f *fakeVerifier) SessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "cookie-for-" + idToken, nil
}

func TestFirebase_MapsClaims(t *testing.T) {
	fb := newFirebase(&fakeVerifier{token: &fbauth.Token{
		UID: "uid-1",
		Claims: map[string]interface{}{
			"email": "buyer@example.com",
			"name":  "Buyer",
		},
	}}, zap.NewNop())

	customer, err := fb.VerifyIDToken(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", customer.ID)
	assert.Equal(t, "buyer@example.com", customer.Email)
	assert.Equal(t, "Buyer", customer.Name)

	customer, err = fb.VerifySessionCookie(context.Background(), "cookie")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", customer.ID)

	cookie, err := fb.CreateSessionCookie(context.Background(), "token", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "cookie-for-token", cookie)
}

func TestFirebase_Rejects(t *testing.T) {
	fb := newFirebase(&fakeVerifier{err: stderrors.New("expired")}, zap.NewNop())

	_, err := fb.VerifyIDToken(context.Background(), "token")
	var unauthorized *errors.ErrUnauthorized
	assert.ErrorAs(t, err, &unauthorized)

	_, err = fb.VerifySessionCookie(context.Background(), "cookie")
	assert.ErrorAs(t, err, &unauthorized)

	_, err = fb.CreateSessionCookie(context.Background(), "token", time.Hour)
	assert.ErrorAs(t, err, &unauthorized)
}

func TestStatic(t *testing.T) {
	s := NewStatic(config.AuthConfig{
		StaticToken:     "dev-token",
		StaticUserID:    "dev-user",
		StaticUserEmail: "dev@example.com",
		StaticUserName:  "Dev User",
	})

	customer, err := s.VerifySessionCookie(context.Background(), "dev-token")
	require.NoError(t, err)
	assert.Equal(t, "dev-user", customer.ID)

	_, err = s.VerifyIDToken(context.Background(), "other")
	var unauthorized *errors.ErrUnauthorized
	assert.ErrorAs(t, err, &unauthorized)

	empty := NewStatic(config.AuthConfig{})
	_, err = empty.VerifyIDToken(context.Background(), "")
	assert.ErrorAs(t, err, &unauthorized)
}
