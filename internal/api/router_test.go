package api

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"loan-management/internal/config"
	"loan-management/internal/domain/customer"
	"loan-management/internal/domain/loan"
	"loan-management/internal/domain/payment"
	"loan-management/internal/domain/product"
	"loan-management/internal/domain/user"
	"loan-management/internal/infrastructure/auth"
	"loan-management/internal/pkg/apperrors"
	"loan-management/internal/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Stubs embed the service interface so only the exercised methods need bodies.
type stubUsers struct{ user.Service }

func (stubUsers) Login(_ context.Context, email, password string) (*user.AuthResult, error) {
	if password != "secret" {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &user.AuthResult{User: &user.User{ID: 1, Email: email}, AccessToken: "tok"}, nil
}

type stubCustomers struct{ customer.Service }

type stubProducts struct{ product.Service }

type stubLoans struct {
	loan.LoanService
	lastActor string
}

func (s *stubLoans) GetLoan(_ context.Context, id int64) (*loan.Loan, error) {
	return &loan.Loan{ID: id, Status: loan.StatusNew}, nil
}

func (s *stubLoans) UpdateLoan(_ context.Context, id int64, _ loan.Patch, actor string) (*loan.Loan, error) {
	s.lastActor = actor
	return &loan.Loan{ID: id, Status: loan.StatusApproved, ApprovedBy: &actor}, nil
}

func (s *stubLoans) ListCustomerLoans(_ context.Context, customerID int64, params pagination.Params) (*pagination.Page[*loan.Loan], error) {
	return &pagination.Page[*loan.Loan]{CurrentPage: params.Page, PerPage: params.PerPage}, nil
}

type stubPayments struct{ payment.PaymentService }

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func newTestRouter(t *testing.T, health Pinger) (http.Handler, *stubLoans, *auth.JWTManager) {
	t.Helper()
	return newConfiguredTestRouter(t, health, nil)
}

func newConfiguredTestRouter(t *testing.T, health Pinger, configure func(*config.Config)) (http.Handler, *stubLoans, *auth.JWTManager) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	cfg := &config.Config{
		Server: config.ServerConfig{
			RequestTimeout: 5 * time.Second,
			RateLimit:      config.RateLimitConfig{Enabled: false},
			Auth:           config.AuthConfig{Enabled: true, JWTSecret: "router-secret", TokenTTL: time.Hour},
		},
		Metrics:    config.MetricsConfig{Path: "/metrics"},
		Pagination: config.PaginationConfig{DefaultPerPage: 10, MaxPerPage: 100},
	}
	if configure != nil {
		configure(cfg)
	}
	tokens, err := auth.NewJWTManager(cfg.Server.Auth)
	require.NoError(t, err)

	loans := &stubLoans{}
	svc := Services{
		Users:     stubUsers{},
		Customers: stubCustomers{},
		Products:  stubProducts{},
		Loans:     loans,
		Payments:  stubPayments{},
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return SetupRouter(ctx, svc, tokens, health, cfg, logger), loans, tokens
}

func TestRouter_PublicEndpoints(t *testing.T) {
	router, _, _ := newTestRouter(t, nil)

	t.Run("Health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("Metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Swagger redirect", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger", nil))
		assert.Equal(t, http.StatusMovedPermanently, rec.Code)
		assert.Equal(t, "/swagger/index.html", rec.Header().Get("Location"))
	})

	t.Run("Login is public", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"email":"a@example.com","password":"secret"}`))
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Login with wrong password", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"email":"a@example.com","password":"nope"}`))
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRouter_HealthUnavailable(t *testing.T) {
	router, _, _ := newTestRouter(t, pingerFunc(func(context.Context) error { return errors.New("db down") }))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rec.Body.String())
}

func TestRouter_ProtectedRoutes(t *testing.T) {
	router, loans, tokens := newTestRouter(t, nil)
	token, _, err := tokens.Issue(&user.User{ID: 7, Name: "Officer", Email: "officer@example.com"})
	require.NoError(t, err)

	authed := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("Rejects missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/loan/5", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Show loan", func(t *testing.T) {
		rec := authed(http.MethodGet, "/v1/loan/5", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":5`)
	})

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		t.Run(method+" loan uses caller as actor", func(t *testing.T) {
			loans.lastActor = ""
			rec := authed(method, "/v1/loan/5", `{"status":"APPROVED"}`)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "7", loans.lastActor)
		})
	}

	t.Run("Customer loans", func(t *testing.T) {
		rec := authed(http.MethodGet, "/v1/customer-loans?id=1", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"loans":[]`)
	})

	t.Run("Unknown route", func(t *testing.T) {
		rec := authed(http.MethodGet, "/v1/nothing", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouter_RateLimitKeysOnPeerAddress(t *testing.T) {
	healthy := pingerFunc(func(ctx context.Context) error { return nil })

	send := func(router http.Handler, forwarded string) int {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.1.1.1:4000"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	t.Run("forwarding headers ignored by default", func(t *testing.T) {
		router, _, _ := newConfiguredTestRouter(t, healthy, func(cfg *config.Config) {
			cfg.Server.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.01, Burst: 1}
		})

		assert.Equal(t, http.StatusOK, send(router, "203.0.113.10"))
		assert.Equal(t, http.StatusTooManyRequests, send(router, "203.0.113.11"))
	})

	t.Run("trusted proxy headers select the bucket", func(t *testing.T) {
		router, _, _ := newConfiguredTestRouter(t, healthy, func(cfg *config.Config) {
			cfg.Server.TrustProxyHeaders = true
			cfg.Server.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.01, Burst: 1}
		})

		assert.Equal(t, http.StatusOK, send(router, "203.0.113.20"))
		assert.Equal(t, http.StatusOK, send(router, "203.0.113.21"))
		assert.Equal(t, http.StatusTooManyRequests, send(router, "203.0.113.21"))
	})
}
