package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/reminder-service/internal/api/http"
	"github.com/spec-kit/reminder-service/internal/api/http/handlers"
	"github.com/spec-kit/reminder-service/internal/auth"
	"github.com/spec-kit/reminder-service/internal/config"
	"github.com/spec-kit/reminder-service/internal/events"
	"github.com/spec-kit/reminder-service/internal/hours"
	"github.com/spec-kit/reminder-service/internal/notify"
	"github.com/spec-kit/reminder-service/internal/observability"
	"github.com/spec-kit/reminder-service/internal/persistence"
	"github.com/spec-kit/reminder-service/internal/repository"
	"github.com/spec-kit/reminder-service/internal/scheduler"
	"github.com/spec-kit/reminder-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	trackingRepo := repository.NewResponseTrackingRepository(pool)
	settingsRepo := repository.NewCachedReminderSettingsRepository(
		repository.NewReminderSettingsRepository(pool),
		redis.Client,
		cfg.Redis.SettingsCacheTTL(),
		logger,
	)
	hoursRepo := repository.NewServiceHoursRepository(pool)
	holidayRepo := repository.NewHolidayRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	trackerService := service.NewTrackerService(service.TrackerDependencies{
		TrackingRepo: trackingRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	trackerService.RegisterHandlers()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Dispatcher: dispatcher,
	})

	notifier := notify.NewWebhookNotifier(cfg.Notifier, logger)

	settingsService := service.NewSettingsService(service.SettingsDependencies{
		SettingsRepo: settingsRepo,
		HoursRepo:    hoursRepo,
		HolidayRepo:  holidayRepo,
		StaffRepo:    staffRepo,
		Notifier:     notifier,
	})

	authService := service.NewAuthService(cfg.Auth, staffRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), staffRepo)

	hoursEvaluator := hours.NewEvaluator(cfg.ServiceHours, hoursRepo, logger)
	var holidayEvaluator *hours.HolidayEvaluator
	if cfg.ServiceHours.HolidaysEnabled {
		holidayEvaluator = hours.NewHolidayEvaluator(holidayRepo, logger)
	}

	reminderScheduler := scheduler.New(cfg.Scheduler, scheduler.Dependencies{
		Settings: settingsRepo,
		Tickets:  ticketRepo,
		Tracking: trackingRepo,
		Staff:    staffRepo,
		Hours:    hoursEvaluator,
		Holidays: holidayEvaluator,
		Notifier: notifier,
		Clock:    scheduler.SystemClock(),
		Metrics:  metrics,
		Logger:   logger,
	})
	reminderScheduler.Start()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Staff:          handlers.NewStaffHandler(authService),
		Reminders:      handlers.NewRemindersHandler(settingsService, metrics),
		Events:         handlers.NewEventsHandler(ticketService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	reminderScheduler.Stop()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
