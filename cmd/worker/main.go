package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hms-notify/config"
	"github.com/jwalitptl/hms-notify/internal/notification/provider"
	"github.com/jwalitptl/hms-notify/internal/notification/template"
	"github.com/jwalitptl/hms-notify/internal/repository"
	"github.com/jwalitptl/hms-notify/internal/repository/memory"
	"github.com/jwalitptl/hms-notify/internal/repository/postgres"
	notificationService "github.com/jwalitptl/hms-notify/internal/service/notification"
	reminderService "github.com/jwalitptl/hms-notify/internal/service/reminder"
	"github.com/jwalitptl/hms-notify/pkg/logger"
	"github.com/jwalitptl/hms-notify/pkg/messaging"
	redisBroker "github.com/jwalitptl/hms-notify/pkg/messaging/redis"
	"github.com/jwalitptl/hms-notify/pkg/metrics"
)

// The reminder worker owns the periodic sweep: it checks upcoming
// appointments on an interval and fires due reminders through the
// orchestrator. The delivery queue lives in the API process and is
// drained there.

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	m := metrics.NewMetrics("hms_notify_worker")

	var repo repository.AppointmentRepository
	if cfg.Database.Host != "" {
		db, err := postgres.NewDB(cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()
		repo = postgres.NewAppointmentRepository(db)
	} else {
		appLogger.Warn("no database configured, using in-memory appointment store")
		repo = memory.NewAppointmentRepository()
	}

	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		zl := log.Logger
		broker, err = redisBroker.NewRedisBroker(redisBroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, &zl)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()
	}

	notifSvc := notificationService.NewService(
		template.NewRegistry(),
		provider.NewSMSProvider(cfg.SMS, appLogger),
		provider.NewEmailProvider(cfg.Email, appLogger),
		broker,
		m,
		appLogger,
		notificationService.Config{DefaultCountryCode: cfg.Clinic.DefaultCountryCode},
	)
	reminders := reminderService.NewService(repo, notifSvc, m, appLogger)

	// Metrics endpoint for scraping.
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		if err := http.ListenAndServe(":9090", mux); err != nil {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interval := cfg.Reminder.SweepInterval
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	appLogger.Info("reminder worker started", "sweep_interval", interval.String())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			if _, err := reminders.Sweep(ctx, time.Now()); err != nil {
				appLogger.Error(err, "reminder sweep failed")
			}
		case <-quit:
			log.Info().Msg("reminder worker shutting down")
			return
		}
	}
}
