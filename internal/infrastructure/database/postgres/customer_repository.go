package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"loan-management/internal/domain/customer"
	"loan-management/internal/pkg/apperrors"
	"loan-management/internal/pkg/pagination"

	"github.com/jackc/pgx/v5"
)

const customerColumns = `id, name, phone_number, address, gender, credit_point, date_of_birth, created_at, updated_at`

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.Repository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(
		&c.ID, &c.Name, &c.PhoneNumber, &c.Address, &c.Gender,
		&c.CreditPoint, &c.DateOfBirth, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	if c == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	r.logger.InfoContext(ctx, "Attempting to insert new customer", slog.String("name", c.Name))

	query := `
        INSERT INTO customers (name, phone_number, address, gender, credit_point, date_of_birth, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	start := time.Now()
	err := r.db.QueryRow(ctx, query,
		c.Name, c.PhoneNumber, c.Address, c.Gender, c.CreditPoint, c.DateOfBirth,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	observe("CreateCustomer", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return translateDBError(err, r.logger)
	}

	r.logger.InfoContext(ctx, "Customer inserted successfully", slog.Int64("customerID", c.ID))
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	start := time.Now()
	c, err := scanCustomer(r.db.QueryRow(ctx, query, customerID))
	observe("FindCustomerByID", start, err)
	if err != nil {
		r.logger.WarnContext(ctx, "Failed to find customer", "customerID", customerID, slog.Any("error", err))
		return nil, translateDBError(err, r.logger)
	}
	return c, nil
}

func (r *CustomerRepository) List(ctx context.Context, params pagination.Params) ([]*customer.Customer, int64, error) {
	start := time.Now()
	total, err := countRows(ctx, r.db, `SELECT COUNT(*) FROM customers`)
	if err != nil {
		observe("ListCustomers", start, err)
		return nil, 0, translateDBError(err, r.logger)
	}

	query := `SELECT ` + customerColumns + ` FROM customers ` +
		params.OrderClause(customer.OrderColumns) + ` LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, params.PerPage, params.Offset())
	if err != nil {
		observe("ListCustomers", start, err)
		r.logger.ErrorContext(ctx, "Failed to query customers", slog.Any("error", err))
		return nil, 0, translateDBError(err, r.logger)
	}
	defer rows.Close()

	customers := make([]*customer.Customer, 0, params.PerPage)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			observe("ListCustomers", start, err)
			r.logger.ErrorContext(ctx, "Failed to scan customer row", slog.Any("error", err))
			return nil, 0, fmt.Errorf("%w: failed to scan customer row: %w", apperrors.ErrDatabase, err)
		}
		customers = append(customers, c)
	}
	err = rows.Err()
	observe("ListCustomers", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error iterating customer rows", slog.Any("error", err))
		return nil, 0, fmt.Errorf("%w: error iterating customer rows: %w", apperrors.ErrDatabase, err)
	}

	return customers, total, nil
}

func (r *CustomerRepository) Update(ctx context.Context, customerID int64, patch customer.Patch) (*customer.Customer, error) {
	query := `
        UPDATE customers
        SET name = COALESCE($1, name),
            phone_number = COALESCE($2, phone_number),
            address = COALESCE($3, address),
            gender = COALESCE($4, gender),
            credit_point = COALESCE($5, credit_point),
            date_of_birth = COALESCE($6, date_of_birth),
            updated_at = NOW()
        WHERE id = $7
        RETURNING ` + customerColumns

	start := time.Now()
	c, err := scanCustomer(r.db.QueryRow(ctx, query,
		patch.Name, patch.PhoneNumber, patch.Address, patch.Gender,
		patch.CreditPoint, patch.DateOfBirth, customerID,
	))
	observe("UpdateCustomer", start, err)
	if err != nil {
		r.logger.WarnContext(ctx, "Failed to update customer", "customerID", customerID, slog.Any("error", err))
		return nil, translateDBError(err, r.logger)
	}

	r.logger.InfoContext(ctx, "Customer updated successfully", "customerID", customerID)
	return c, nil
}

func (r *CustomerRepository) Delete(ctx context.Context, customerID int64) error {
	start := time.Now()
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, customerID)
	observe("DeleteCustomer", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to execute delete customer", slog.Any("error", err))
		return translateDBError(err, r.logger)
	}

	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Delete affected zero rows, customer likely not found", "customerID", customerID)
		return apperrors.ErrNotFound
	}

	r.logger.InfoContext(ctx, "Customer deleted successfully", "customerID", customerID)
	return nil
}
