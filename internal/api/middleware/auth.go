package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"loan-management/internal/config"
	"loan-management/internal/infrastructure/auth"
)

type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Authenticate validates the bearer token and stores the caller in the
// request context. With auth disabled every request passes through anonymously.
func Authenticate(cfg config.AuthConfig, parser TokenParser, logger *slog.Logger) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	if parser == nil {
		panic("token parser cannot be nil when auth is enabled")
	}
	logger = logger.With("component", "AuthMiddleware")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				logger.WarnContext(r.Context(), "Missing or malformed Authorization header")
				unauthorized(w)
				return
			}

			claims, err := parser.Parse(token)
			if err != nil {
				logger.WarnContext(r.Context(), "Invalid token", slog.Any("error", err))
				unauthorized(w)
				return
			}

			ctx := auth.WithCaller(r.Context(), auth.Caller{
				ID:    claims.Subject,
				Name:  claims.Name,
				Email: claims.Email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"message":"Unauthorized"}}`))
}
