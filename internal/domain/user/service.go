package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"loan-management/internal/infrastructure/monitoring"
	"loan-management/internal/pkg/apperrors"

	"golang.org/x/crypto/bcrypt"
)

const MsgEmailTaken = "The email has already been taken."

type TokenIssuer interface {
	Issue(u *User) (string, time.Time, error)
}

type Service interface {
	Register(ctx context.Context, params RegisterParams) (*AuthResult, error)

	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

var _ Service = (*userServiceImpl)(nil)

type userServiceImpl struct {
	repo   Repository
	tokens TokenIssuer
	cost   int
	logger *slog.Logger
}

func NewUserService(repo Repository, tokens TokenIssuer, logger *slog.Logger) Service {
	if repo == nil || tokens == nil {
		panic("user service dependencies cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &userServiceImpl{
		repo:   repo,
		tokens: tokens,
		cost:   bcrypt.DefaultCost,
		logger: logger.With(slog.String("component", "userService")),
	}
}

func (s *userServiceImpl) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	email := strings.TrimSpace(params.Email)
	logger := s.logger.With("email", email)

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.cost)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to hash password: %w", apperrors.ErrInternalServer, err)
	}

	now := time.Now()
	u := &User{
		Name:         params.Name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			logger.WarnContext(ctx, "Registration rejected, email already in use")
			return nil, apperrors.NewValidationError("email", MsgEmailTaken)
		}
		logger.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	monitoring.RecordUserRegistered()
	logger.InfoContext(ctx, "User registered", "userID", u.ID)

	return s.issue(ctx, u)
}

func (s *userServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	logger := s.logger.With("email", email)

	u, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.WarnContext(ctx, "Login failed, unknown email")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			logger.WarnContext(ctx, "Login failed, wrong password")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: failed to verify password: %w", apperrors.ErrInternalServer, err)
	}

	return s.issue(ctx, u)
}

func (s *userServiceImpl) issue(ctx context.Context, u *User) (*AuthResult, error) {
	token, exp, err := s.tokens.Issue(u)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to issue access token", "userID", u.ID, slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to issue token: %w", apperrors.ErrInternalServer, err)
	}
	return &AuthResult{User: u, AccessToken: token, ExpiresAt: exp}, nil
}
