package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/rizwanhussain01/EventHub/internal/api/http"
	"github.com/rizwanhussain01/EventHub/internal/api/http/handlers"
	"github.com/rizwanhussain01/EventHub/internal/auth"
	"github.com/rizwanhussain01/EventHub/internal/cache"
	"github.com/rizwanhussain01/EventHub/internal/clock"
	"github.com/rizwanhussain01/EventHub/internal/config"
	"github.com/rizwanhussain01/EventHub/internal/events"
	"github.com/rizwanhussain01/EventHub/internal/observability"
	"github.com/rizwanhussain01/EventHub/internal/persistence"
	"github.com/rizwanhussain01/EventHub/internal/repository"
	"github.com/rizwanhussain01/EventHub/internal/service"
	"github.com/rizwanhussain01/EventHub/internal/ticketing"
	"github.com/rizwanhussain01/EventHub/internal/worker"
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	eventCache := cache.NewEventCache(redis.Client, cfg.Redis.CacheTTL())
	systemClock := clock.NewSystem()

	authService := service.NewAuthService(cfg.Auth, userRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	eventService := service.NewEventService(service.EventDependencies{
		EventRepo:  eventRepo,
		Cache:      eventCache,
		Dispatcher: dispatcher,
		Clock:      systemClock,
		Logger:     logger,
	})
	registrationService := service.NewRegistrationService(service.RegistrationDependencies{
		EventRepo:  eventRepo,
		TicketRepo: ticketRepo,
		Encoder:    ticketing.NewQRArtifactEncoder(256),
		Dispatcher: dispatcher,
		Clock:      systemClock,
		Logger:     logger,
	})
	adminService := service.NewAdminService(userRepo, eventRepo, ticketRepo)
	plannerService := service.NewPlannerService(cfg.Planner, logger)

	notificationService := service.NewNotificationService(dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Events:         handlers.NewEventsHandler(eventService),
		Tickets:        handlers.NewTicketsHandler(registrationService),
		Admin:          handlers.NewAdminHandler(adminService),
		Planner:        handlers.NewPlannerHandler(plannerService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
