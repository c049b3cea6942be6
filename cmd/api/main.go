package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apihttp "github.com/spec-kit/complaint-service/internal/api/http"
	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/blob"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/gateway"
	"github.com/spec-kit/complaint-service/internal/mail"
	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/persistence"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/service"
	"github.com/spec-kit/complaint-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics()

	postgres, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer postgres.Close()

	if err := persistence.RunMigrations(ctx, postgres.PoolHandle(), cfg.Postgres, logger); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := postgres.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	complaintRepo := repository.NewComplaintRepository(pool)
	transactionRepo := repository.NewTransactionRepository(pool)
	catalogUserRepo := repository.NewCatalogUserRepository(pool)
	clothingRepo := repository.NewClothingRepository(pool)
	txRunner := persistence.NewPgxTxRunner(pool)

	wise, err := gateway.NewWiseClient(cfg.Wise, logger, metrics)
	if err != nil {
		logger.Fatal("gateway client init failed", zap.Error(err))
	}
	photos := blob.NewS3Store(cfg.AWS, logger)
	mailer := mail.NewSESMailer(cfg.AWS, cfg.Notification)

	dispatcher := events.NewInMemoryDispatcher(logger)

	authService := service.NewAuthService(cfg.Auth, userRepo)
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo:   complaintRepo,
		TransactionRepo: transactionRepo,
		UserRepo:        userRepo,
		TxRunner:        txRunner,
		Gateway:         wise,
		BlobStore:       photos,
		Dispatcher:      dispatcher,
		Logger:          logger,
	})
	catalogService := service.NewCatalogService(cfg.Catalog, cfg.Auth.BcryptCost, catalogUserRepo, clothingRepo)
	notificationService := service.NewNotificationService(dispatcher, mailer, logger)
	worker.StartNotificationWorker(notificationService)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: apihttp.ErrorHandler(logger, metrics),
	})
	apihttp.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	apihttp.RegisterRoutes(app, apihttp.RouteConfig{
		Health:            handlers.NewHealthHandler(postgres, redis, cfg.App.Version, logger),
		Users:             handlers.NewUsersHandler(authService),
		Complaints:        handlers.NewComplaintsHandler(complaintService),
		Catalog:           handlers.NewCatalogHandler(catalogService),
		AuthMiddleware:    auth.NewMiddleware(authService.TokenManager(), userRepo),
		CatalogMiddleware: auth.NewCatalogMiddleware(catalogService.TokenManager(), catalogUserRepo),
		AuthRateLimit:     apihttp.AuthRateLimiter(redis, cfg.RateLimit, logger),
	})

	go func() {
		logger.Info("server starting", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
