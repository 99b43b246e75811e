package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"loan-management/internal/batch"
	"loan-management/internal/config"
	"loan-management/internal/domain/loan"
	"loan-management/internal/domain/user"
	"loan-management/internal/event"
	"loan-management/internal/infrastructure/cache"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubLoanCounter struct{}

func (stubLoanCounter) CountByStatus(context.Context) (map[loan.Status]int64, error) {
	return map[loan.Status]int64{}, nil
}

type stubOutstanding struct{}

func (stubOutstanding) TotalOutstanding(context.Context) (int64, error) { return 0, nil }

type stubStore struct{}

func (stubStore) Get(context.Context, string) ([]byte, error)             { return nil, nil }
func (stubStore) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (stubStore) Delete(context.Context, ...string) error                  { return nil }

type stubTokens struct{}

func (stubTokens) Issue(*user.User) (string, time.Time, error) { return "token", time.Now(), nil }

func TestStartBatchJobs(t *testing.T) {
	job := batch.NewPortfolioSnapshotJob(stubLoanCounter{}, stubOutstanding{}, discardLogger())

	t.Run("valid schedule registers job", func(t *testing.T) {
		cfg := &config.Config{Batch: config.BatchConfig{PortfolioSnapshotSchedule: "*/5 * * * *"}}
		c := startBatchJobs(cfg, discardLogger(), job)
		defer c.Stop()
		assert.Len(t, c.Entries(), 1)
	})

	t.Run("empty schedule falls back to default", func(t *testing.T) {
		c := startBatchJobs(&config.Config{}, discardLogger(), job)
		defer c.Stop()
		assert.Len(t, c.Entries(), 1)
	})

	t.Run("invalid schedule leaves scheduler empty", func(t *testing.T) {
		cfg := &config.Config{Batch: config.BatchConfig{PortfolioSnapshotSchedule: "not a schedule"}}
		c := startBatchJobs(cfg, discardLogger(), job)
		defer c.Stop()
		assert.Empty(t, c.Entries())
	})
}

func TestInitializePublisher_Disabled(t *testing.T) {
	conn, pub := initializePublisher(&config.Config{}, discardLogger())

	assert.Nil(t, conn)
	assert.IsType(t, &event.LogEventPublisher{}, pub)
}

func TestInitializeRedisClient_Disabled(t *testing.T) {
	assert.Nil(t, initializeRedisClient(&config.Config{}, discardLogger()))
}

func TestBuildApplication(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	cfg := &config.Config{Redis: config.RedisConfig{ProductTTL: time.Minute}}
	pub := event.NewLogEventPublisher(discardLogger())

	tests := []struct {
		name  string
		store cache.Store
	}{
		{name: "without cache", store: nil},
		{name: "with cache", store: stubStore{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := buildApplication(mockPool, tt.store, pub, stubTokens{}, cfg, discardLogger())

			assert.NotNil(t, app.services.Users)
			assert.NotNil(t, app.services.Customers)
			assert.NotNil(t, app.services.Products)
			assert.NotNil(t, app.services.Loans)
			assert.NotNil(t, app.services.Payments)
			assert.NotNil(t, app.loanRepo)
			assert.NotNil(t, app.paymentRepo)
		})
	}
}

func TestStartServer(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:         0,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  5 * time.Second,
		},
	}

	srv, serverErrors, shutdownChan := startServer(cfg, http.NewServeMux(), discardLogger())
	require.NotNil(t, srv)
	assert.NotNil(t, serverErrors)
	assert.NotNil(t, shutdownChan)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-serverErrors:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server goroutine did not report shutdown")
	}
}

func TestHandleShutdown(t *testing.T) {
	cronScheduler := cron.New()
	cronScheduler.Start()
	srv := &http.Server{}
	shutdownChan := make(chan os.Signal, 1)
	serverErrors := make(chan error, 1)
	serverErrors <- nil

	backgroundCtx, stopBackground := context.WithCancel(context.Background())
	shutdownChan <- syscall.SIGINT

	done := make(chan struct{})
	go func() {
		handleShutdown(srv, cronScheduler, stopBackground, shutdownChan, serverErrors, discardLogger())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("handleShutdown did not return")
	}
	assert.ErrorIs(t, backgroundCtx.Err(), context.Canceled)
}
