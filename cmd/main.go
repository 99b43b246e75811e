package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loan-management/internal/api"
	"loan-management/internal/batch"
	"loan-management/internal/config"
	"loan-management/internal/domain/customer"
	"loan-management/internal/domain/loan"
	"loan-management/internal/domain/payment"
	"loan-management/internal/domain/product"
	"loan-management/internal/domain/user"
	"loan-management/internal/event"
	"loan-management/internal/infrastructure/auth"
	"loan-management/internal/infrastructure/cache"
	"loan-management/internal/infrastructure/database/postgres"
	"loan-management/internal/infrastructure/logging"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// @title Loan Management API
// @version 1.0
// @description Customers, products, loans and payments with loan approval and payment amortization rules.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, logger := initializeApp()

	dbPool := initializeDatabase(cfg, logger)
	defer closeDatabase(dbPool, logger)

	redisClient := initializeRedisClient(cfg, logger)
	defer closeRedisClient(redisClient, logger)

	rabbitConn, publisher := initializePublisher(cfg, logger)
	defer closeRabbitMQ(rabbitConn, logger)

	tokens, err := auth.NewJWTManager(cfg.Server.Auth)
	if err != nil {
		logger.Error("Failed to initialize token manager", slog.Any("error", err))
		os.Exit(1)
	}

	var store cache.Store
	if redisClient != nil {
		store = cache.NewRedisStore(redisClient)
	}
	app := buildApplication(dbPool, store, publisher, tokens, cfg, logger)

	snapshotJob := batch.NewPortfolioSnapshotJob(app.loanRepo, app.paymentRepo, logger)
	cronScheduler := startBatchJobs(cfg, logger, snapshotJob)

	backgroundCtx, stopBackground := context.WithCancel(context.Background())
	router := api.SetupRouter(backgroundCtx, app.services, tokens, dbPool, cfg, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, cronScheduler, stopBackground, shutdownChan, serverErrors, logger)
}

type application struct {
	services    api.Services
	loanRepo    *postgres.LoanRepository
	paymentRepo *postgres.PaymentRepository
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger)
	slog.SetDefault(logger)
	logger.Info("Application starting...", "config_source", viper.ConfigFileUsed())

	return cfg, logger
}

func initializeDatabase(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	logger.Info("Initializing database connection pool...")
	dbPool, err := postgres.NewConnectionPool(context.Background(), cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	return dbPool
}

func closeDatabase(dbPool *pgxpool.Pool, logger *slog.Logger) {
	logger.Info("Closing database connection pool...")
	dbPool.Close()
}

// buildApplication wires repositories and services. A nil store disables the
// product cache.
func buildApplication(db postgres.DBPool, store cache.Store, publisher event.EventPublisher, tokens user.TokenIssuer, cfg *config.Config, logger *slog.Logger) *application {
	logger.Info("Initializing application components...")

	userRepo := postgres.NewUserRepository(db, logger)
	customerRepo := postgres.NewCustomerRepository(db, logger)
	loanRepo := postgres.NewLoanRepository(db, logger)
	paymentRepo := postgres.NewPaymentRepository(db, logger)

	var productRepo product.Repository = postgres.NewProductRepository(db, logger)
	if store != nil {
		productRepo = cache.NewCachedProductRepository(productRepo, store, cfg.Redis.ProductTTL, logger)
		logger.Info("Product cache enabled", "ttl", cfg.Redis.ProductTTL)
	}

	services := api.Services{
		Users:     user.NewUserService(userRepo, tokens, logger),
		Customers: customer.NewCustomerService(customerRepo, publisher, logger),
		Products:  product.NewProductService(productRepo, logger),
		Loans:     loan.NewLoanService(loanRepo, customerRepo, productRepo, paymentRepo, publisher, logger),
		Payments:  payment.NewPaymentService(paymentRepo, loanRepo, customerRepo, publisher, logger),
	}

	return &application{
		services:    services,
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
	}
}

func initializeRedisClient(cfg *config.Config, logger *slog.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		logger.Info("Redis disabled via configuration, product cache off.")
		return nil
	}
	logger.Info("Initializing Redis client...", "addr", cfg.Redis.Addr)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Failed to connect to Redis, continuing without product cache", "error", err, "addr", cfg.Redis.Addr)
		_ = rdb.Close()
		return nil
	}

	logger.Info("Redis client connected successfully.", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
	return rdb
}

func closeRedisClient(redisClient *redis.Client, logger *slog.Logger) {
	if redisClient == nil {
		return
	}
	logger.Info("Closing Redis client connection...")
	if err := redisClient.Close(); err != nil {
		logger.Error("Failed to close Redis client connection gracefully", "error", err)
	}
}

// initializePublisher connects to RabbitMQ when enabled and falls back to
// logging events when the broker is disabled or unreachable.
func initializePublisher(cfg *config.Config, logger *slog.Logger) (*amqp.Connection, event.EventPublisher) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("RabbitMQ disabled via configuration, domain events will be logged.")
		return nil, event.NewLogEventPublisher(logger)
	}

	conn, err := connectRabbitMQ(cfg.RabbitMQ.URL(), 5, logger)
	if err != nil {
		logger.Warn("RabbitMQ unavailable, domain events will be logged", slog.Any("error", err))
		return nil, event.NewLogEventPublisher(logger)
	}

	publisher, err := event.NewRabbitMQEventPublisher(conn, cfg.RabbitMQ.ExchangeName, logger)
	if err != nil {
		logger.Warn("Failed to set up RabbitMQ publisher, domain events will be logged", slog.Any("error", err))
		_ = conn.Close()
		return nil, event.NewLogEventPublisher(logger)
	}
	return conn, publisher
}

func connectRabbitMQ(uri string, retryCount int, logger *slog.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	for i := 1; i <= retryCount; i++ {
		conn, err = amqp.Dial(uri)
		if err == nil {
			logger.Info("Successfully connected to RabbitMQ")

			go func() {
				blockChan := conn.NotifyBlocked(make(chan amqp.Blocking))
				closeChan := conn.NotifyClose(make(chan *amqp.Error, 1))

				select {
				case b := <-blockChan:
					logger.Warn("RabbitMQ Connection Blocked", "reason", b.Reason)
				case e := <-closeChan:
					if e != nil {
						logger.Error("RabbitMQ Connection Closed", slog.Any("error", e))
					}
				}
			}()

			return conn, nil
		}
		logger.Warn("Failed to connect to RabbitMQ, retrying...",
			slog.Int("attempt", i),
			slog.Int("max_attempts", retryCount),
			slog.Any("error", err),
		)
		if i < retryCount {
			time.Sleep(time.Duration(i*2) * time.Second)
		}
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", retryCount, err)
}

func closeRabbitMQ(conn *amqp.Connection, logger *slog.Logger) {
	if conn == nil || conn.IsClosed() {
		return
	}
	logger.Info("Closing RabbitMQ connection...")
	if err := conn.Close(); err != nil {
		logger.Error("Failed to close RabbitMQ connection gracefully", "error", err)
	}
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, cronScheduler *cron.Cron, stopBackground context.CancelFunc, shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	var triggerReason string
	select {
	case sig := <-shutdownChan:
		triggerReason = "signal: " + sig.String()
		logger.Info("Shutdown signal received.", "signal", sig.String())
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			stopBackground()
			os.Exit(1)
		}
		triggerReason = "server exited"
		logger.Info("Server goroutine finished before signal.", "error", err)
	}

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)
	stopBackground()

	logger.Info("Stopping cron scheduler...")
	cronCtx := cronScheduler.Stop()
	select {
	case <-cronCtx.Done():
		logger.Info("Cron scheduler stopped gracefully.")
	case <-time.After(15 * time.Second):
		logger.Warn("Cron scheduler shutdown timed out.")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", "error", err)
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
		}
	case <-time.After(5 * time.Second):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}

	logger.Info("Application shutdown process complete.")
}

func startBatchJobs(cfg *config.Config, logger *slog.Logger, snapshotJob *batch.PortfolioSnapshotJob) *cron.Cron {
	logger.Info("Initializing batch job scheduler...")
	c := cron.New()

	scheduleSpec := cfg.Batch.PortfolioSnapshotSchedule
	if scheduleSpec == "" {
		scheduleSpec = "*/15 * * * *"
		logger.Warn("Portfolio snapshot schedule not configured, using default", "schedule", scheduleSpec)
	}
	jobTimeout := cfg.Batch.PortfolioSnapshotTimeout
	if jobTimeout <= 0 {
		jobTimeout = 2 * time.Minute
	}

	jobID, err := c.AddJob(scheduleSpec, cron.FuncJob(func() {
		jobLogger := logger.With("job_name", "PortfolioSnapshot")

		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if runErr := snapshotJob.Run(ctx); runErr != nil {
			jobLogger.Error("Portfolio snapshot job finished with error", slog.Any("error", runErr))
		}
	}))
	if err != nil {
		logger.Error("Failed to schedule portfolio snapshot job", "schedule", scheduleSpec, slog.Any("error", err))
	} else {
		logger.Info("Scheduled portfolio snapshot job", "schedule", scheduleSpec, "job_id", jobID)
	}

	c.Start()
	logger.Info("Cron scheduler started.")
	return c
}
