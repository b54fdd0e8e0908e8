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
	"github.com/borcelle/storefront/internal/config"
	"github.com/borcelle/storefront/internal/logger"
	"github.com/borcelle/storefront/internal/repository"
	"github.com/borcelle/storefront/internal/repository/memory"
	"github.com/borcelle/storefront/internal/repository/postgres"
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
	if err := cfg.ValidateOrdersAPI(); err != nil {
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

	var repos *repository.Repositories
	switch cfg.OrderStore {
	case "postgres":
		db, err := postgres.NewConnection(cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := postgres.RunMigrations(db); err != nil {
			log.Fatal("Failed to run migrations", zap.Error(err))
		}
		repos = postgres.NewRepositories(db, log)
	default:
		log.Warn("Using in-memory order store; orders are lost on restart")
		repos = memory.NewOrderStore().Repositories()
	}

	router := api.NewOrdersRouter(cfg, service.NewOrderService(repos, log), log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Orders API starting", zap.String("port", cfg.Port))
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
