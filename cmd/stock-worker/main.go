package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Sandy-Maxx/hospital-sub001/internal/config"
	"github.com/Sandy-Maxx/hospital-sub001/internal/db"
	"github.com/Sandy-Maxx/hospital-sub001/internal/observability/metrics"
	"github.com/Sandy-Maxx/hospital-sub001/internal/pharmacy"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("stock-worker starting up",
		zap.String("env", cfg.Env),
		zap.Duration("interval", cfg.WorkerInterval))

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Fatal("postgres connection error", zap.Error(err))
	}
	defer pgPool.Close()
	logger.Info("connected to Postgres")

	m := metrics.New()

	repo := pharmacy.NewPgRepository(pgPool)
	svc := pharmacy.NewService(repo, pharmacy.Thresholds{
		LowStock:       cfg.LowStockThreshold,
		NearExpiryDays: cfg.NearExpiryDays,
	}, logger)

	// Run once at startup
	runOnce(rootCtx, svc, m, logger)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			logger.Info("shutdown signal received, stopping stock worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, svc, m, logger)
		}
	}
}

func runOnce(ctx context.Context, svc *pharmacy.Service, m *metrics.Metrics, logger *zap.Logger) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	alerting, err := svc.ScanAlerts(runCtx)
	if err != nil {
		logger.Error("stock scan error", zap.Error(err))
		return
	}

	counts := map[pharmacy.Alert]int{
		pharmacy.AlertExpired:      0,
		pharmacy.AlertExpiringSoon: 0,
		pharmacy.AlertOutOfStock:   0,
		pharmacy.AlertLowStock:     0,
	}
	for _, view := range alerting {
		for _, alert := range view.Alerts {
			counts[alert]++
		}
		logger.Warn("stock alert",
			zap.String("stock_id", view.ID.String()),
			zap.String("batch_number", view.BatchNumber),
			zap.String("status", string(view.Status)),
			zap.Int("available", view.AvailableQuantity),
			zap.Int("days_until_expiry", view.DaysUntilExpiry))
	}

	for alert, n := range counts {
		m.StockAlerts.WithLabelValues(string(alert)).Set(float64(n))
	}

	logger.Info("stock scan complete",
		zap.Int("alerting_batches", len(alerting)),
		zap.Duration("took", time.Since(start)))
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
