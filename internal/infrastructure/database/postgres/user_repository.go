package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loan-management/internal/domain/user"
	"loan-management/internal/pkg/apperrors"
)

type UserRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(db DBPool, logger *slog.Logger) *UserRepository {
	if db == nil {
		panic("DBPool cannot be nil for UserRepository")
	}
	return &UserRepository{db: db, logger: logger.With("component", "UserRepository")}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if u == nil {
		return fmt.Errorf("%w: user cannot be nil", apperrors.ErrInvalidArgument)
	}

	query := `
        INSERT INTO users (name, email, password, created_at, updated_at)
        VALUES ($1, $2, $3, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	start := time.Now()
	err := r.db.QueryRow(ctx, query, u.Name, u.Email, u.PasswordHash).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	observe("CreateUser", start, err)
	if err != nil {
		translated := translateDBError(err, r.logger)
		if errors.Is(translated, apperrors.ErrAlreadyExists) {
			r.logger.WarnContext(ctx, "User email already registered")
			return translated
		}
		r.logger.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		return translated
	}

	r.logger.InfoContext(ctx, "User inserted successfully", slog.Int64("userID", u.ID))
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `
        SELECT id, name, email, password, created_at, updated_at
        FROM users
        WHERE email = $1`

	var u user.User
	start := time.Now()
	err := r.db.QueryRow(ctx, query, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	observe("FindUserByEmail", start, err)
	if err != nil {
		return nil, translateDBError(err, r.logger)
	}
	return &u, nil
}
