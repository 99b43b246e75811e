package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"loan-management/internal/domain/loan"
	"loan-management/internal/pkg/apperrors"
	"loan-management/internal/pkg/pagination"

	"github.com/jackc/pgx/v5"
)

const loanColumns = `id, customer_id, product_id, interest_rate, duration, amount, status, approved_by, description, created_at, updated_at`

type LoanRepository struct {
	txSupport
}

var _ loan.Repository = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	if db == nil {
		panic("DBPool cannot be nil for LoanRepository")
	}
	return &LoanRepository{txSupport{db: db, logger: logger.With("component", "LoanRepository")}}
}

func scanLoan(row pgx.Row) (*loan.Loan, error) {
	var l loan.Loan
	var status *string
	err := row.Scan(
		&l.ID, &l.CustomerID, &l.ProductID, &l.InterestRate, &l.Duration, &l.Amount,
		&status, &l.ApprovedBy, &l.Description, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if status != nil {
		l.Status = loan.Status(*status)
	}
	return &l, nil
}

// statusParam keeps legacy rows without a status as NULL.
func statusParam(s loan.Status) *string {
	if s == "" {
		return nil
	}
	v := string(s)
	return &v
}

func (r *LoanRepository) Create(ctx context.Context, l *loan.Loan) error {
	if l == nil {
		return fmt.Errorf("%w: loan cannot be nil", apperrors.ErrInvalidArgument)
	}

	query := `
        INSERT INTO loans (customer_id, product_id, interest_rate, duration, amount, status, description, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	start := time.Now()
	err := r.db.QueryRow(ctx, query,
		l.CustomerID, l.ProductID, l.InterestRate, l.Duration, l.Amount, statusParam(l.Status), l.Description,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	observe("CreateLoan", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan", slog.Any("error", err))
		return translateDBError(err, r.logger)
	}

	r.logger.InfoContext(ctx, "Loan created in DB", "loan_id", l.ID)
	return nil
}

func (r *LoanRepository) FindByID(ctx context.Context, loanID int64) (*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	start := time.Now()
	l, err := scanLoan(r.db.QueryRow(ctx, query, loanID))
	observe("GetLoanByID", start, err)
	if err != nil {
		return nil, translateDBError(err, r.logger)
	}
	return l, nil
}

func (r *LoanRepository) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, loanID int64) (*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 FOR UPDATE`

	start := time.Now()
	l, err := scanLoan(tx.QueryRow(ctx, query, loanID))
	observe("LockLoanByID", start, err)
	if err != nil {
		r.logger.WarnContext(ctx, "Failed to find/lock loan", "loan_id", loanID, slog.Any("error", err))
		return nil, translateDBError(err, r.logger)
	}
	return l, nil
}

func (r *LoanRepository) List(ctx context.Context, params pagination.Params) ([]*loan.Loan, int64, error) {
	return r.list(ctx, "ListLoans", "", params)
}

func (r *LoanRepository) ListByCustomer(ctx context.Context, customerID int64, params pagination.Params) ([]*loan.Loan, int64, error) {
	return r.list(ctx, "ListCustomerLoans", "WHERE customer_id = $1", params, customerID)
}

func (r *LoanRepository) list(ctx context.Context, queryName, where string, params pagination.Params, args ...any) ([]*loan.Loan, int64, error) {
	start := time.Now()
	total, err := countRows(ctx, r.db, `SELECT COUNT(*) FROM loans `+where, args...)
	if err != nil {
		observe(queryName, start, err)
		return nil, 0, translateDBError(err, r.logger)
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM loans %s %s LIMIT $%d OFFSET $%d`,
		loanColumns, where, params.OrderClause(loan.OrderColumns), n+1, n+2)

	rows, err := r.db.Query(ctx, query, append(args, params.PerPage, params.Offset())...)
	if err != nil {
		observe(queryName, start, err)
		r.logger.ErrorContext(ctx, "Failed to query loans", slog.Any("error", err))
		return nil, 0, translateDBError(err, r.logger)
	}
	defer rows.Close()

	loans := make([]*loan.Loan, 0, params.PerPage)
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			observe(queryName, start, err)
			r.logger.ErrorContext(ctx, "Failed to scan loan row", slog.Any("error", err))
			return nil, 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		loans = append(loans, l)
	}
	err = rows.Err()
	observe(queryName, start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error iterating loan rows", slog.Any("error", err))
		return nil, 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return loans, total, nil
}

func (r *LoanRepository) UpdateInTx(ctx context.Context, tx pgx.Tx, l *loan.Loan) error {
	sql := `
        UPDATE loans
        SET customer_id = $1, product_id = $2, interest_rate = $3, duration = $4, amount = $5,
            status = $6, approved_by = $7, description = $8, updated_at = NOW()
        WHERE id = $9
        RETURNING updated_at`

	start := time.Now()
	err := tx.QueryRow(ctx, sql,
		l.CustomerID, l.ProductID, l.InterestRate, l.Duration, l.Amount,
		statusParam(l.Status), l.ApprovedBy, l.Description, l.ID,
	).Scan(&l.UpdatedAt)
	observe("UpdateLoan", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update loan", "loan_id", l.ID, slog.Any("error", err))
		return translateDBError(err, r.logger)
	}
	r.logger.InfoContext(ctx, "Loan updated in DB", "loan_id", l.ID, "status", l.Status)
	return nil
}

func (r *LoanRepository) Delete(ctx context.Context, loanID int64) error {
	start := time.Now()
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM loans WHERE id = $1`, loanID)
	observe("DeleteLoan", start, err)
	if err != nil {
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Delete affected zero rows, loan likely not found", "loan_id", loanID)
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *LoanRepository) CountByStatus(ctx context.Context) (map[loan.Status]int64, error) {
	query := `SELECT COALESCE(status, ''), COUNT(*) FROM loans GROUP BY 1`

	start := time.Now()
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		observe("CountLoansByStatus", start, err)
		return nil, translateDBError(err, r.logger)
	}
	defer rows.Close()

	counts := make(map[loan.Status]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			observe("CountLoansByStatus", start, err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		counts[loan.Status(status)] = n
	}
	err = rows.Err()
	observe("CountLoansByStatus", start, err)
	if err != nil {
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return counts, nil
}
