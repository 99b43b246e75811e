package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"loan-management/internal/domain/customer"
	"loan-management/internal/pkg/apperrors"
	"loan-management/internal/pkg/pagination"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var customerRowColumns = []string{"id", "name", "phone_number", "address", "gender", "credit_point", "date_of_birth", "created_at", "updated_at"}

func setupCustomerRepo(t *testing.T) (context.Context, *CustomerRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}
	return context.Background(), NewCustomerRepository(mockPool, logger), mockPool
}

func customerRow(id int64, credit *int) []any {
	gender := "female"
	dob := time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []any{id, "Jane Doe", "0812345678", "1 Main St", &gender, credit, dob, now, now}
}

func TestCustomerRepository_Create(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	credit := 700
	c := customer.NewCustomer(customer.CreateParams{
		Name: "Jane Doe", PhoneNumber: "0812345678", Address: "1 Main St",
		CreditPoint: &credit, DateOfBirth: time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC),
	})
	now := time.Now()

	mockPool.ExpectQuery(regexp.QuoteMeta("INSERT INTO customers")).
		WithArgs(c.Name, c.PhoneNumber, c.Address, c.Gender, c.CreditPoint, c.DateOfBirth).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), now, now))

	require.NoError(t, repo.Create(ctx, c))
	assert.Equal(t, int64(5), c.ID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestCustomerRepository_CreateNil(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	assert.ErrorIs(t, repo.Create(ctx, nil), apperrors.ErrInvalidArgument)
}

func TestCustomerRepository_FindByID(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	credit := 650
	mockPool.ExpectQuery(regexp.QuoteMeta("FROM customers WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(customerRowColumns).AddRow(customerRow(1, &credit)...))

	c, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", c.Name)
	require.NotNil(t, c.CreditPoint)
	assert.Equal(t, 650, *c.CreditPoint)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestCustomerRepository_FindByIDNotFound(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta("FROM customers WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindByID(ctx, 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestCustomerRepository_List(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	params := pagination.Params{Page: 2, PerPage: 2, OrderBy: "name", OrderDesc: false}

	mockPool.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM customers")).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mockPool.ExpectQuery(regexp.QuoteMeta("FROM customers ORDER BY name ASC LIMIT $1 OFFSET $2")).
		WithArgs(2, 2).
		WillReturnRows(pgxmock.NewRows(customerRowColumns).AddRow(customerRow(3, nil)...))

	items, total, err := repo.List(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].CreditPoint)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestCustomerRepository_ListQueryError(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM customers")).
		WillReturnError(errors.New("connection reset"))

	_, _, err := repo.List(ctx, pagination.Params{Page: 1, PerPage: 10, OrderBy: "id", OrderDesc: true})
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestCustomerRepository_Update(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	name := "Jane Roe"
	patch := customer.Patch{Name: &name}
	row := customerRow(1, nil)
	row[1] = name

	mockPool.ExpectQuery(regexp.QuoteMeta("UPDATE customers")).
		WithArgs(patch.Name, patch.PhoneNumber, patch.Address, patch.Gender, patch.CreditPoint, patch.DateOfBirth, int64(1)).
		WillReturnRows(pgxmock.NewRows(customerRowColumns).AddRow(row...))

	c, err := repo.Update(ctx, 1, patch)
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", c.Name)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestCustomerRepository_Delete(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectExec(regexp.QuoteMeta("DELETE FROM customers WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mockPool.ExpectExec(regexp.QuoteMeta("DELETE FROM customers WHERE id = $1")).
		WithArgs(int64(2)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(t, repo.Delete(ctx, 1))
	assert.ErrorIs(t, repo.Delete(ctx, 2), apperrors.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestTranslateDBError(t *testing.T) {
	assert.NoError(t, translateDBError(nil, logger))
	assert.ErrorIs(t, translateDBError(pgx.ErrNoRows, logger), apperrors.ErrNotFound)
	assert.ErrorIs(t, translateDBError(&pgconn.PgError{Code: "23505", ConstraintName: "payments_loan_id_key"}, logger), apperrors.ErrAlreadyExists)
	assert.ErrorIs(t, translateDBError(&pgconn.PgError{Code: "23503"}, logger), apperrors.ErrConflict)
	assert.ErrorIs(t, translateDBError(&pgconn.PgError{Code: "42P01"}, logger), apperrors.ErrDatabase)
	assert.ErrorIs(t, translateDBError(errors.New("boom"), logger), apperrors.ErrDatabase)
}
