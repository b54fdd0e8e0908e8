package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ORDERS_API_URL", "http://orders.local/api/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://orders.local/api", cfg.OrdersAPI.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.OrdersAPI.Timeout)
	assert.Equal(t, 720*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "cart_session", cfg.Session.CookieName)
	assert.Equal(t, "pdk7893@oksbi", cfg.Payment.UPIPayeeID)
	assert.Equal(t, []string{"/", "/health", "/sign-in(.*)", "/sign-up(.*)", "/api/:path*"}, cfg.Auth.PublicRoutes)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("SESSION_TTL", "forever")

	_, err := Load()
	assert.ErrorContains(t, err, "SESSION_TTL")
}

func TestValidateStorefront(t *testing.T) {
	t.Setenv("ORDERS_API_URL", "http://orders.local")
	t.Setenv("AUTH_PROVIDER", "static")
	t.Setenv("AUTH_STATIC_TOKEN", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.NoError(t, cfg.ValidateStorefront())

	cfg.OrdersAPI.BaseURL = ""
	assert.ErrorContains(t, cfg.ValidateStorefront(), "ORDERS_API_URL")

	cfg.OrdersAPI.BaseURL = "http://orders.local"
	cfg.Environment = "production"
	assert.ErrorContains(t, cfg.ValidateStorefront(), "not allowed in production")

	cfg.Environment = "development"
	cfg.Session.Store = "disk"
	assert.ErrorContains(t, cfg.ValidateStorefront(), "SESSION_STORE")
}

func TestValidateOrdersAPI(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.ValidateOrdersAPI())

	cfg.Admin.APIKeyHash = "$2a$10$abc"
	cfg.OrderStore = "postgres"
	assert.NoError(t, cfg.ValidateOrdersAPI())

	cfg.OrderStore = "memory"
	assert.NoError(t, cfg.ValidateOrdersAPI())

	cfg.Environment = "production"
	assert.ErrorContains(t, cfg.ValidateOrdersAPI(), "ORDER_STORE")

	cfg.OrderStore = "sqlite"
	assert.ErrorContains(t, cfg.ValidateOrdersAPI(), "ORDER_STORE")
}

func TestProcessingLease(t *testing.T) {
	assert.Equal(t, time.Minute, OrdersAPIConfig{}.ProcessingLease())
	assert.Equal(t, time.Minute, OrdersAPIConfig{Timeout: 10 * time.Second}.ProcessingLease())
	assert.Equal(t, 5*time.Minute, OrdersAPIConfig{Timeout: 5 * time.Minute}.ProcessingLease())
}
