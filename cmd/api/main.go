package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/vitalpoint/kiosk/internal/api/router"
	"github.com/vitalpoint/kiosk/internal/appointments"
	appconfig "github.com/vitalpoint/kiosk/internal/config"
	"github.com/vitalpoint/kiosk/internal/doctors"
	"github.com/vitalpoint/kiosk/internal/observability/metrics"
	"github.com/vitalpoint/kiosk/internal/vitals"
	"github.com/vitalpoint/kiosk/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting kiosk API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer func() { _ = redisClient.Close() }()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("failed to ping redis", "error", err)
		os.Exit(1)
	}

	schedulingMetrics := metrics.NewSchedulingMetrics(nil)

	doctorStore := doctors.NewStore(pool)
	appointmentStore := appointments.NewStore(pool)
	allocator := appointments.NewAllocator(cfg.SlotInterval, cfg.SameDayLeadTime)
	ledger := appointments.NewLedger(doctorStore, appointmentStore, allocator,
		cfg.BookingHorizonDays, schedulingMetrics, logger.Component("appointments"))

	evaluator := vitals.NewEvaluator(vitals.NewRegistry())
	sessionStore := vitals.NewSessionStore(redisClient, cfg.SessionTTL)

	var corsOrigins []string
	if cfg.CORSAllowedOrigins != "" {
		corsOrigins = strings.Split(cfg.CORSAllowedOrigins, ",")
	}

	r := router.New(&router.Config{
		Logger:             logger.Component("http"),
		VitalsHandler:      vitals.NewHandler(evaluator, sessionStore, logger.Component("vitals")),
		DoctorsHandler:     doctors.NewHandler(doctorStore, logger.Component("doctors")),
		SchedulingHandler:  appointments.NewHandler(ledger, logger.Component("appointments")),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: corsOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
