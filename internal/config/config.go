package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	OrderStore  string // "postgres" or "memory"
	Database    DatabaseConfig
	Redis       RedisConfig
	Session     SessionConfig
	OrdersAPI   OrdersAPIConfig
	Payment     PaymentConfig
	Auth        AuthConfig
	Admin       AdminConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SessionConfig struct {
	Store        string // "redis" or "memory"
	TTL          time.Duration
	CookieName   string
	CookieSecure bool
}

type OrdersAPIConfig struct {
	BaseURL string
	// Timeout of zero leaves the submission bounded only by the request context
	Timeout time.Duration
}

type PaymentConfig struct {
	UPIPayeeID   string
	UPIPayeeName string
	StoreName    string
	SupportPhone string
}

type AuthConfig struct {
	Provider                string // "firebase" or "static"
	PublicRoutes            []string
	SignInURL               string
	SessionCookieName       string
	FirebaseProjectID       string
	FirebaseCredentialsFile string
	StaticToken             string
	StaticUserID            string
	StaticUserEmail         string
	StaticUserName          string
}

type AdminConfig struct {
	APIKeyHash string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SESSION_STORE", "redis")
	viper.SetDefault("SESSION_TTL", "720h")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	sessionTTL, err := time.ParseDuration(getEnvOrViper("SESSION_TTL", "720h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	ordersTimeout, err := time.ParseDuration(getEnvOrViper("ORDERS_API_TIMEOUT", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid ORDERS_API_TIMEOUT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnvOrViper("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	environment := getEnvOrViper("ENVIRONMENT", "development")

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: environment,
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		OrderStore:  getEnvOrViper("ORDER_STORE", "postgres"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "storefront_orders"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrViper("REDIS_ADDR", "localhost:6379"),
			Password: getEnvOrViper("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Session: SessionConfig{
			Store:        getEnvOrViper("SESSION_STORE", "redis"),
			TTL:          sessionTTL,
			CookieName:   getEnvOrViper("SESSION_COOKIE_NAME", "cart_session"),
			CookieSecure: environment == "production",
		},
		OrdersAPI: OrdersAPIConfig{
			BaseURL: strings.TrimSuffix(getEnvOrViper("ORDERS_API_URL", ""), "/"),
			Timeout: ordersTimeout,
		},
		Payment: PaymentConfig{
			UPIPayeeID:   getEnvOrViper("UPI_PAYEE_ID", "pdk7893@oksbi"),
			UPIPayeeName: getEnvOrViper("UPI_PAYEE_NAME", "Borcelle"),
			StoreName:    getEnvOrViper("STORE_NAME", "Borcelle Store"),
			SupportPhone: getEnvOrViper("SUPPORT_PHONE", "+917013418146"),
		},
		Auth: AuthConfig{
			Provider:                getEnvOrViper("AUTH_PROVIDER", "firebase"),
			PublicRoutes:            splitList(getEnvOrViper("PUBLIC_ROUTES", "/,/health,/sign-in(.*),/sign-up(.*),/api/:path*")),
			SignInURL:               getEnvOrViper("SIGN_IN_URL", "/sign-in"),
			SessionCookieName:       getEnvOrViper("AUTH_SESSION_COOKIE", "__session"),
			FirebaseProjectID:       getEnvOrViper("FIREBASE_PROJECT_ID", ""),
			FirebaseCredentialsFile: getEnvOrViper("FIREBASE_CREDENTIALS_FILE", ""),
			StaticToken:             getEnvOrViper("AUTH_STATIC_TOKEN", ""),
			StaticUserID:            getEnvOrViper("AUTH_STATIC_USER_ID", "dev-user"),
			StaticUserEmail:         getEnvOrViper("AUTH_STATIC_USER_EMAIL", "dev@example.com"),
			StaticUserName:          getEnvOrViper("AUTH_STATIC_USER_NAME", "Dev User"),
		},
		Admin: AdminConfig{
			APIKeyHash: getEnvOrViper("ADMIN_API_KEY_HASH", ""),
		},
	}

	return cfg, nil
}

// ProcessingLease is how long a checkout submission may hold its attempt
// before another request can take it over
func (c OrdersAPIConfig) ProcessingLease() time.Duration {
	return max(c.Timeout, time.Minute)
}

// ValidateStorefront checks the settings cmd/storefront cannot run without
func (c *Config) ValidateStorefront() error {
	if c.OrdersAPI.BaseURL == "" {
		return fmt.Errorf("ORDERS_API_URL is required")
	}
	if c.Payment.UPIPayeeID == "" {
		return fmt.Errorf("UPI_PAYEE_ID is required")
	}
	switch c.Session.Store {
	case "redis", "memory":
	default:
		return fmt.Errorf("SESSION_STORE must be redis or memory, got %q", c.Session.Store)
	}
	switch c.Auth.Provider {
	case "firebase":
		if c.Auth.FirebaseProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required")
		}
	case "static":
		if c.Environment == "production" {
			return fmt.Errorf("AUTH_PROVIDER=static is not allowed in production")
		}
		if c.Auth.StaticToken == "" {
			return fmt.Errorf("AUTH_STATIC_TOKEN is required")
		}
	default:
		return fmt.Errorf("AUTH_PROVIDER must be firebase or static, got %q", c.Auth.Provider)
	}
	return nil
}

// ValidateOrdersAPI checks the settings cmd/orders-api cannot run without
func (c *Config) ValidateOrdersAPI() error {
	if c.Admin.APIKeyHash == "" {
		return fmt.Errorf("ADMIN_API_KEY_HASH is required")
	}
	switch c.OrderStore {
	case "postgres":
	case "memory":
		if c.Environment == "production" {
			return fmt.Errorf("ORDER_STORE=memory is not allowed in production")
		}
	default:
		return fmt.Errorf("ORDER_STORE must be postgres or memory, got %q", c.OrderStore)
	}
	return nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
