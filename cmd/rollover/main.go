// Package main is the background worker: daily snapshot rollover and
// outbox notification delivery.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/config"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/snapshot"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/metrics"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/storage/postgres"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/storage/postgres/ledger_repo"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/storage/postgres/snapshot_repo"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/pkg/logger"
)

const outboxBatchSize = 50

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting rollover worker")

	if cfg.Postgres.DSN == "" {
		log.Fatal("postgres DSN not configured")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Postgres.DSN))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(prometheus.DefaultRegisterer)
		go serveMetrics(log)
	}

	txManager := postgres.NewTxManagerFromRawPool(pool.Unwrap())
	audit, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to create audit service", "error", err)
	}

	stockRepo := ledger_repo.NewStockRepo(txManager, audit)
	snapshotRepo := snapshot_repo.NewSnapshotRepo(txManager, audit)
	snapshots := snapshot.NewService(snapshotRepo, stockRepo, txManager)

	relay := postgres.NewOutboxRelay(pool.Unwrap(), outboxBatchSize, &loggingHandler{log: log})

	ticker := time.NewTicker(cfg.Rollover.Tick)
	defer ticker.Stop()

	// Run once at startup so a freshly deployed worker does not wait
	// a full tick before closing out the day.
	runRollover(ctx, log, snapshots, m)

	for {
		select {
		case <-ctx.Done():
			log.Info("rollover worker stopped")
			return
		case <-ticker.C:
			runRollover(ctx, log, snapshots, m)

			delivered, err := relay.ProcessBatch(ctx)
			if err != nil {
				log.Errorw("outbox batch failed", "error", err)
				continue
			}
			if delivered > 0 {
				log.Infow("outbox notifications delivered", "count", delivered)
				if m != nil {
					m.OutboxDelivered.Add(float64(delivered))
				}
			}
		}
	}
}

func runRollover(ctx context.Context, log *logger.Logger, snapshots *snapshot.Service, m *metrics.Metrics) {
	if err := snapshots.RunDailyRollover(ctx, snapshot.Today()); err != nil {
		log.Errorw("daily rollover failed", "error", err)
		return
	}
	if m != nil {
		m.RolloversRun.Inc()
	}
}

// loggingHandler delivers outbox notifications to the log stream.
// A push transport (email, chat webhook) can replace it without
// touching the relay.
type loggingHandler struct {
	log *logger.Logger
}

func (h *loggingHandler) Handle(_ context.Context, msg *postgres.OutboxMessage) error {
	h.log.Infow("notification",
		"type", msg.Type,
		"title", msg.Title,
		"message", msg.Message,
		"target_roles", msg.TargetRoles,
		"reference_id", msg.ReferenceID,
	)
	return nil
}

func serveMetrics(log *logger.Logger) {
	addr := os.Getenv("OSL_WORKER_METRICS_ADDR")
	if addr == "" {
		addr = ":9091"
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Errorw("metrics endpoint failed", "error", err)
	}
}

func loadConfig() (config.Config, error) {
	if path := os.Getenv("OSL_CONFIG"); path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}
