package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Sandy-Maxx/hospital-sub001/internal/api"
	"github.com/Sandy-Maxx/hospital-sub001/internal/appointment"
	"github.com/Sandy-Maxx/hospital-sub001/internal/billing"
	"github.com/Sandy-Maxx/hospital-sub001/internal/config"
	"github.com/Sandy-Maxx/hospital-sub001/internal/db"
	"github.com/Sandy-Maxx/hospital-sub001/internal/observability/metrics"
	"github.com/Sandy-Maxx/hospital-sub001/internal/patient"
	"github.com/Sandy-Maxx/hospital-sub001/internal/pharmacy"
	"github.com/Sandy-Maxx/hospital-sub001/internal/prescription"
	redisclient "github.com/Sandy-Maxx/hospital-sub001/internal/redis"
	"github.com/Sandy-Maxx/hospital-sub001/internal/session"
)

const version = "1.0.0"

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

	logger.Info("api-server starting up",
		zap.String("env", cfg.Env),
		zap.String("http_port", cfg.HTTPPort))

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

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		logger.Fatal("redis connection error", zap.Error(err))
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("error closing redis", zap.Error(err))
		}
	}()
	logger.Info("connected to Redis")

	m := metrics.New()

	patientRepo := patient.NewPgRepository(pgPool)
	sessionRepo := session.NewPgRepository(pgPool)
	appointmentRepo := appointment.NewPgRepository(pgPool)
	prescriptionRepo := prescription.NewPgRepository(pgPool)
	billingRepo := billing.NewPgRepository(pgPool)
	pharmacyRepo := pharmacy.NewPgRepository(pgPool)

	locker := redisclient.NewRedisSessionLocker(rdb, cfg.LockTTL)

	svcs := api.Services{
		Patients: patient.NewService(patientRepo, logger),
		Sessions: session.NewService(sessionRepo, logger),
		Appointments: appointment.NewService(appointmentRepo, locker,
			appointment.Policy{RestoreOnCancel: cfg.RestoreOnCancel}, logger),
		Prescriptions: prescription.NewService(prescriptionRepo, logger),
		Billing:       billing.NewService(billingRepo, prescriptionRepo, logger),
		Pharmacy: pharmacy.NewService(pharmacyRepo, pharmacy.Thresholds{
			LowStock:       cfg.LowStockThreshold,
			NearExpiryDays: cfg.NearExpiryDays,
		}, logger),
	}

	health := api.NewHealthHandler(pgPool, rdb, cfg.Env, version)
	router := api.NewRouter(svcs, health, m, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server error", zap.Error(err))
		}
	case <-rootCtx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}

	logger.Info("api-server stopped")
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
