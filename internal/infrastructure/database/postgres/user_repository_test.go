package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"loan-management/internal/domain/user"
	"loan-management/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserRepo(t *testing.T) (context.Context, *UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	return context.Background(), NewUserRepository(mockPool, logger), mockPool
}

func TestUserRepository_Create(t *testing.T) {
	ctx, repo, mockPool := setupUserRepo(t)
	defer mockPool.Close()

	u := &user.User{Name: "Ann", Email: "ann@example.com", PasswordHash: "hash"}
	now := time.Now()

	mockPool.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("Ann", "ann@example.com", "hash").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(1), now, now))
	mockPool.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("Ann", "ann@example.com", "hash").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	require.NoError(t, repo.Create(ctx, u))
	assert.Equal(t, int64(1), u.ID)

	dup := &user.User{Name: "Ann", Email: "ann@example.com", PasswordHash: "hash"}
	assert.ErrorIs(t, repo.Create(ctx, dup), apperrors.ErrAlreadyExists)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestUserRepository_FindByEmail(t *testing.T) {
	ctx, repo, mockPool := setupUserRepo(t)
	defer mockPool.Close()

	now := time.Now()
	mockPool.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs("ann@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "password", "created_at", "updated_at"}).
			AddRow(int64(1), "Ann", "ann@example.com", "hash", now, now))
	mockPool.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs("ghost@example.com").
		WillReturnError(pgx.ErrNoRows)

	u, err := repo.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", u.PasswordHash)

	_, err = repo.FindByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}
