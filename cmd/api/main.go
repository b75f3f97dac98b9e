package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/didnumber-service/internal/api/http"
	"github.com/spec-kit/didnumber-service/internal/api/http/handlers"
	"github.com/spec-kit/didnumber-service/internal/auth"
	"github.com/spec-kit/didnumber-service/internal/config"
	"github.com/spec-kit/didnumber-service/internal/events"
	"github.com/spec-kit/didnumber-service/internal/observability"
	"github.com/spec-kit/didnumber-service/internal/persistence"
	"github.com/spec-kit/didnumber-service/internal/repository"
	"github.com/spec-kit/didnumber-service/internal/service"
	"github.com/spec-kit/didnumber-service/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.SQL(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis, err := persistence.NewRedis(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redis.Close()

	sessions := auth.NewSessionManager(cfg.Session, redis.SessionStorage(cfg.Session.KeyPrefix))

	db := pg.SQL()
	employeeRepo := repository.NewEmployeeRepository(db)
	didNumberRepo := repository.NewDidNumberRepository(db)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		EmployeeRepo: employeeRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	didNumberService := service.NewDidNumberService(cfg.Inventory, service.DidNumberDependencies{
		DidNumberRepo: didNumberRepo,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	employeeService := service.NewEmployeeService(employeeRepo)
	authMiddleware := auth.NewAuthMiddleware(sessions, employeeRepo)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}, metrics, logger),
		Auth:           handlers.NewAuthHandler(authService, sessions),
		DidNumbers:     handlers.NewDidNumbersHandler(didNumberService),
		Employees:      handlers.NewEmployeesHandler(employeeService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("fiber shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
