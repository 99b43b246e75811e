package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	_ "loan-management/docs"
	"loan-management/internal/api/handler"
	mw "loan-management/internal/api/middleware"
	"loan-management/internal/config"
	"loan-management/internal/domain/customer"
	"loan-management/internal/domain/loan"
	"loan-management/internal/domain/payment"
	"loan-management/internal/domain/product"
	"loan-management/internal/domain/user"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Services struct {
	Users     user.Service
	Customers customer.Service
	Products  product.Service
	Loans     loan.LoanService
	Payments  payment.PaymentService
}

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SetupRouter builds the HTTP surface. ctx bounds background work started by
// middleware, such as the rate limiter sweep.
func SetupRouter(ctx context.Context, svc Services, tokens mw.TokenParser, health Pinger, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(ctx, router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupSwaggerEndpoint(router, logger)
	router.Get("/health", healthHandler(health))

	authHandler := handler.NewAuthHandler(svc.Users, logger)
	router.Post("/register", authHandler.Register)
	router.Post("/login", authHandler.Login)

	router.Route("/v1", func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.Server.Auth, tokens, logger))
		setupCustomerRoutes(r, svc.Customers, cfg, logger)
		setupProductRoutes(r, svc.Products, cfg, logger)
		setupLoanRoutes(r, svc.Loans, cfg, logger)
		setupPaymentRoutes(r, svc.Payments, cfg, logger)
	})

	return router
}

func setupMiddleware(ctx context.Context, router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	timeout := cfg.Server.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	router.Use(middleware.RequestID)
	if cfg.Server.TrustProxyHeaders {
		router.Use(middleware.RealIP)
	}
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(timeout))
	router.Use(mw.NewRateLimiter(ctx, cfg.Server.RateLimit, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func healthHandler(health Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, code := "ok", http.StatusOK
		if health != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := health.Ping(ctx); err != nil {
				slog.Default().WarnContext(r.Context(), "Health check failed", slog.Any("error", err))
				status, code = "unavailable", http.StatusServiceUnavailable
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
	}
}

// resource mounts the list/create/show/update/delete routes shared by every
// resource. Updates accept both PUT and PATCH.
func resource(r chi.Router, path string, list, create, show, update, remove http.HandlerFunc) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", list)
		r.Post("/", create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", show)
			r.Put("/", update)
			r.Patch("/", update)
			r.Delete("/", remove)
		})
	})
}

func setupCustomerRoutes(r chi.Router, svc customer.Service, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewCustomerHandler(svc, cfg.Pagination, logger)
	resource(r, "/customer", h.ListCustomers, h.CreateCustomer, h.GetCustomer, h.UpdateCustomer, h.DeleteCustomer)
}

func setupProductRoutes(r chi.Router, svc product.Service, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewProductHandler(svc, cfg.Pagination, logger)
	resource(r, "/product", h.ListProducts, h.CreateProduct, h.GetProduct, h.UpdateProduct, h.DeleteProduct)
}

func setupLoanRoutes(r chi.Router, svc loan.LoanService, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewLoanHandler(svc, cfg.Pagination, logger)
	resource(r, "/loan", h.ListLoans, h.CreateLoan, h.GetLoan, h.UpdateLoan, h.DeleteLoan)
	r.Get("/customer-loans", h.ListCustomerLoans)
}

func setupPaymentRoutes(r chi.Router, svc payment.PaymentService, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewPaymentHandler(svc, cfg.Pagination, logger)
	resource(r, "/payment", h.ListPayments, h.CreatePayment, h.GetPayment, h.UpdatePayment, h.DeletePayment)
	r.Get("/customer-payments", h.ListCustomerPayments)
}
