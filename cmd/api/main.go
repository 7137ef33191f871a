package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/hms-notify/config"
	"github.com/jwalitptl/hms-notify/internal/handler"
	notificationHandler "github.com/jwalitptl/hms-notify/internal/handler/notification"
	scheduleHandler "github.com/jwalitptl/hms-notify/internal/handler/schedule"
	"github.com/jwalitptl/hms-notify/internal/notification/provider"
	"github.com/jwalitptl/hms-notify/internal/notification/template"
	"github.com/jwalitptl/hms-notify/internal/repository"
	"github.com/jwalitptl/hms-notify/internal/repository/memory"
	"github.com/jwalitptl/hms-notify/internal/repository/postgres"
	"github.com/jwalitptl/hms-notify/internal/router"
	notificationService "github.com/jwalitptl/hms-notify/internal/service/notification"
	scheduleService "github.com/jwalitptl/hms-notify/internal/service/schedule"
	"github.com/jwalitptl/hms-notify/pkg/logger"
	"github.com/jwalitptl/hms-notify/pkg/messaging"
	redisBroker "github.com/jwalitptl/hms-notify/pkg/messaging/redis"
	"github.com/jwalitptl/hms-notify/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	m := metrics.NewMetrics("hms_notify")

	// Booking store: postgres when configured, in-memory otherwise so the
	// engine still runs (with mock providers) in standalone setups.
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

	// Optional event broker.
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

	smsProvider := provider.NewSMSProvider(cfg.SMS, appLogger)
	emailProvider := provider.NewEmailProvider(cfg.Email, appLogger)
	appLogger.Info("channel providers ready", "sms", smsProvider.Name(), "email", emailProvider.Name())

	notifSvc := notificationService.NewService(
		template.NewRegistry(),
		smsProvider,
		emailProvider,
		broker,
		m,
		appLogger,
		notificationService.Config{DefaultCountryCode: cfg.Clinic.DefaultCountryCode},
	)
	schedSvc := scheduleService.NewService(repo, toScheduleConfig(cfg.Clinic))

	r := router.NewRouter(
		router.Config{
			RateLimit: rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst: cfg.RateLimit.Burst,
		},
		handler.NewHandler(),
		notificationHandler.NewHandler(notifSvc),
		scheduleHandler.NewHandler(schedSvc),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	appLogger.Info("server started", "port", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

func toScheduleConfig(c config.ClinicConfig) scheduleService.Config {
	hours := make(map[string]scheduleService.DayWindow, len(c.Hours))
	for day, w := range c.Hours {
		hours[day] = scheduleService.DayWindow{Open: w.Open, Close: w.Close}
	}
	return scheduleService.Config{SlotMinutes: c.SlotMinutes, Hours: hours}
}
