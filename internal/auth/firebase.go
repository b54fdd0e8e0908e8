package auth

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/borcelle/storefront/internal/config"
	"github.com/borcelle/storefront/internal/domain"
	"github.com/borcelle/storefront/pkg/errors"
)

// tokenVerifier is the subset of *fbauth.Client used here
type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
	VerifySessionCookie(ctx context.Context, sessionCookie string) (*fbauth.Token, error)
	SessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error)
}

// Firebase verifies Firebase Auth ID tokens and session cookies
type Firebase struct {
	client tokenVerifier
	logger *zap.Logger
}

// NewFirebase initializes the Firebase Admin SDK. Without a credentials
// file the application default credentials are used.
func NewFirebase(ctx context.Context, cfg config.AuthConfig, logger *zap.Logger) (*Firebase, error) {
	var opts []option.ClientOption
	if cfg.FirebaseCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth: %w", err)
	}

	return newFirebase(client, logger), nil
}

func newFirebase(client tokenVerifier, logger *zap.Logger) *Firebase {
	return &Firebase{client: client, logger: logger}
}

func (f *Firebase) VerifyIDToken(ctx context.Context, idToken string) (*domain.Customer, error) {
	token, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		f.logger.Debug("ID token rejected", zap.Error(err))
		return nil, &errors.ErrUnauthorized{Message: "invalid ID token"}
	}
	return customerFromToken(token), nil
}

func (f *Firebase) VerifySessionCookie(ctx context.Context, cookie string) (*domain.Customer, error) {
	token, err := f.client.VerifySessionCookie(ctx, cookie)
	if err != nil {
		f.logger.Debug("Session cookie rejected", zap.Error(err))
		return nil, &errors.ErrUnauthorized{Message: "invalid session cookie"}
	}
	return customerFromToken(token), nil
}

func (f *Firebase) CreateSessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error) {
	cookie, err := f.client.SessionCookie(ctx, idToken, expiresIn)
	if err != nil {
		f.logger.Debug("Session cookie exchange rejected", zap.Error(err))
		return "", &errors.ErrUnauthorized{Message: "invalid ID token"}
	}
	return cookie, nil
}

func customerFromToken(token *fbauth.Token) *domain.Customer {
	customer := &domain.Customer{ID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		customer.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		customer.Name = name
	}
	return customer
}
