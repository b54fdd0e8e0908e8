package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/borcelle/storefront/internal/api"
	"github.com/borcelle/storefront/internal/auth"
	"github.com/borcelle/storefront/internal/config"
	"github.com/borcelle/storefront/internal/logger"
	"github.com/borcelle/storefront/internal/orderclient"
	"github.com/borcelle/storefront/internal/payment"
	"github.com/borcelle/storefront/internal/repository"
	"github.com/borcelle/storefront/internal/repository/memory"
	"github.com/borcelle/storefront/internal/repository/redis"
	"github.com/borcelle/storefront/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ValidateStorefront(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// Session store
	var sessions repository.SessionStore
	switch cfg.Session.Store {
	case "redis":
		client, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer client.Close()
		sessions = redis.NewSessionStore(client, cfg.Session.TTL, log)
	default:
		log.Warn("Using in-memory session store; carts are lost on restart")
		sessions = memory.NewSessionStore(cfg.Session.TTL)
	}

	// Identity provider
	var authenticator auth.Authenticator
	switch cfg.Auth.Provider {
	case "firebase":
		authenticator, err = auth.NewFirebase(ctx, cfg.Auth, log)
		if err != nil {
			log.Fatal("Failed to initialize firebase auth", zap.Error(err))
		}
	default:
		log.Warn("Using static development authenticator")
		authenticator = auth.NewStatic(cfg.Auth)
	}

	routes, err := auth.NewRouteMatcher(cfg.Auth.PublicRoutes)
	if err != nil {
		log.Fatal("Invalid PUBLIC_ROUTES", zap.Error(err))
	}

	submitter := service.NewSubmissionService(orderclient.NewClient(cfg.OrdersAPI, log), log)

	router := api.NewStorefrontRouter(cfg, api.Storefront{
		Carts:         service.NewCartService(sessions, log),
		Checkout:      service.NewCheckoutService(sessions, payment.NewUPI(cfg.Payment), submitter, cfg.Auth.SignInURL, cfg.OrdersAPI.ProcessingLease(), log),
		Authenticator: authenticator,
		Routes:        routes,
	}, log)

	serve(router, cfg.Port, log)
}

func serve(handler http.Handler, port string, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Storefront starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
}
