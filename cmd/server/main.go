package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpAdapter "github.com/airoxlab/bizposcash-sub000/internal/adapter/http"
	"github.com/airoxlab/bizposcash-sub000/internal/adapter/http/handler"
	"github.com/airoxlab/bizposcash-sub000/internal/adapter/http/middleware"
	postgresRepo "github.com/airoxlab/bizposcash-sub000/internal/adapter/repository/postgres"
	redisRepo "github.com/airoxlab/bizposcash-sub000/internal/adapter/repository/redis"
	"github.com/airoxlab/bizposcash-sub000/internal/infrastructure/auth"
	"github.com/airoxlab/bizposcash-sub000/internal/infrastructure/config"
	"github.com/airoxlab/bizposcash-sub000/internal/infrastructure/eventpublisher"
	"github.com/airoxlab/bizposcash-sub000/internal/infrastructure/logger"
	"github.com/airoxlab/bizposcash-sub000/internal/infrastructure/logging"
	"github.com/airoxlab/bizposcash-sub000/internal/infrastructure/metrics"
	"github.com/airoxlab/bizposcash-sub000/internal/infrastructure/postgres"
	"github.com/airoxlab/bizposcash-sub000/internal/infrastructure/redis"
	"github.com/airoxlab/bizposcash-sub000/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	reconciliationRepo := postgresRepo.NewReconciliationRepository(pool)
	replenishmentRepo := postgresRepo.NewReplenishmentRepository(pool)
	expenseRepo := postgresRepo.NewExpenseRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()
	m := metrics.New()

	// Use cases
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, transactionRepo, auditRepo, idGen, retrier, m)
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, transactionRepo, expenseRepo, auditRepo, idGen, retrier, m)
	approvalUC := usecase.NewApprovalUseCase(txManager, accountRepo, transactionRepo, reconciliationRepo, auditRepo, idGen, retrier, m)
	reconciliationUC := usecase.NewReconciliationUseCase(txManager, accountRepo, transactionRepo, reconciliationRepo, auditRepo, idGen, retrier, m)
	replenishmentUC := usecase.NewReplenishmentUseCase(txManager, accountRepo, transactionRepo, replenishmentRepo, auditRepo, idGen, retrier, m)
	reportingUC := usecase.NewReportingUseCase(accountRepo, transactionRepo, reconciliationRepo, cache, m)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:        handler.NewAccountHandler(accountUC, log),
		TransactionHandler:    handler.NewTransactionHandler(ledgerUC, expenseRepo, log),
		ApprovalHandler:       handler.NewApprovalHandler(approvalUC, log),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC, log),
		ReplenishmentHandler:  handler.NewReplenishmentHandler(replenishmentUC, log),
		ReportHandler:         handler.NewReportHandler(reportingUC, log),
		HealthHandler:         handler.NewHealthHandler(pool, redisClient),
		JWTManager:            jwtManager,
		IdempotencyMiddleware: middleware.NewIdempotencyMiddleware(idempotencyStore),
		Logger:                log,
	})

	// Background alert scanner
	alertLog := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	alertCtx, stopAlerts := context.WithCancel(ctx)
	defer stopAlerts()
	alertPublisher := eventpublisher.NewAlertPublisher(eventpublisher.Config{
		Source:    reportingUC,
		Publisher: eventpublisher.NewLogPublisher(alertLog.Logger),
		Logger:    alertLog.Logger,
		Interval:  cfg.AlertInterval,
	})
	go func() {
		if err := alertPublisher.Start(alertCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("alert publisher stopped")
		}
	}()

	server := &http.Server{
		Addr:         listenAddr(cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopAlerts()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func listenAddr(port string) string {
	return ":" + port
}
