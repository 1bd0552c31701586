// Package main is the entry point for the supply-link API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/config"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
	v1 "github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/http/v1"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/metrics"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/storage/postgres"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/migrations"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.App.Env == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting supply-link server")

	if cfg.Postgres.DSN == "" {
		log.Fatal("postgres DSN not configured")
	}

	// --- Migrations ---
	if err := migrations.Up(ctx, cfg.Postgres.DSN); err != nil {
		log.Fatalw("failed to apply migrations", "error", err)
	}
	log.Info("migrations applied")

	// --- Database pool ---
	poolCfg := postgres.DefaultPoolConfig(cfg.Postgres.DSN)
	if cfg.Postgres.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolCfg.MinConns = cfg.Postgres.MinConns
	}
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	// --- Store location ---
	var storeLocationID id.ID
	if cfg.Inventory.StoreLocationID != "" {
		storeLocationID, err = id.Parse(cfg.Inventory.StoreLocationID)
		if err != nil {
			log.Fatalw("invalid store location id", "error", err)
		}
	} else {
		log.Warn("store location not configured, order fulfillment disabled")
	}

	// --- Metrics ---
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(prometheus.DefaultRegisterer)
	}

	// --- Services and router ---
	routerCfg := v1.RouterConfig{
		Pool:            pool.Unwrap(),
		Logger:          log,
		Metrics:         m,
		JWTSecret:       cfg.Auth.JWTSecret,
		StoreLocationID: storeLocationID,
		SaleRetries:     cfg.Inventory.DecrementRetries,
		Version:         version,
	}
	services, err := v1.BuildServices(routerCfg)
	if err != nil {
		log.Fatalw("failed to build services", "error", err)
	}
	router := v1.NewRouter(routerCfg, services)

	// --- HTTP server ---
	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func loadConfig() (config.Config, error) {
	if path := os.Getenv("OSL_CONFIG"); path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}
