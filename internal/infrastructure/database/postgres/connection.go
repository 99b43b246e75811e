package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loan-management/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultMaxConns          int32 = 10
	defaultMaxConnIdleTime         = 5 * time.Minute
	defaultHealthCheckPeriod       = time.Minute
	defaultConnectTimeout          = 5 * time.Second
)

var errEmptyDatabaseURL = errors.New("database URL is empty in configuration")

// NewConnectionPool opens the pool and fails fast when the first ping does not
// answer within the connect timeout.
func NewConnectionPool(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	log := logger.With("component", "PostgresPool")

	poolConfig, err := buildPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	log.Info("Opening PostgreSQL connection pool...",
		"host", poolConfig.ConnConfig.Host,
		"db", poolConfig.ConnConfig.Database,
		"max_conns", poolConfig.MaxConns,
		"min_conns", poolConfig.MinConns,
	)
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pingWithTimeout(ctx, pool, connectTimeout(cfg), log); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info("PostgreSQL connection pool ready.")
	return pool, nil
}

func buildPoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	if cfg.URL == "" {
		return nil, errEmptyDatabaseURL
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config from URL: %w", err)
	}

	poolConfig.MaxConns = defaultMaxConns
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = min(cfg.MinConns, poolConfig.MaxConns)
	}

	poolConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	poolConfig.HealthCheckPeriod = defaultHealthCheckPeriod
	if cfg.HealthCheckPeriod > 0 {
		poolConfig.HealthCheckPeriod = cfg.HealthCheckPeriod
	}

	return poolConfig, nil
}

func connectTimeout(cfg config.DatabaseConfig) time.Duration {
	if cfg.ConnectTimeout > 0 {
		return cfg.ConnectTimeout
	}
	return defaultConnectTimeout
}

type pinger interface {
	Ping(ctx context.Context) error
}

func pingWithTimeout(ctx context.Context, db pinger, timeout time.Duration, logger *slog.Logger) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	if err := db.Ping(pingCtx); err != nil {
		logger.Error("Database did not answer ping", slog.Any("error", err), "timeout", timeout)
		return fmt.Errorf("failed to ping database on connect: %w", err)
	}
	logger.Debug("Database ping succeeded", "latency", time.Since(start))
	return nil
}
