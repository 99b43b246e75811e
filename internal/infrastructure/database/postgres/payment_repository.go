package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"loan-management/internal/domain/loan"
	"loan-management/internal/domain/payment"
	"loan-management/internal/pkg/apperrors"
	"loan-management/internal/pkg/pagination"

	"github.com/jackc/pgx/v5"
)

const paymentColumns = `id, customer_id, loan_id, due_date, repaid_date, paid_amount, remaining_amount, state, created_at, updated_at`

type PaymentRepository struct {
	txSupport
}

var _ payment.Repository = (*PaymentRepository)(nil)

var _ loan.SettlementFinder = (*PaymentRepository)(nil)

func NewPaymentRepository(db DBPool, logger *slog.Logger) *PaymentRepository {
	if db == nil {
		panic("DBPool cannot be nil for PaymentRepository")
	}
	return &PaymentRepository{txSupport{db: db, logger: logger.With("component", "PaymentRepository")}}
}

func scanPayment(row pgx.Row) (*payment.Payment, error) {
	var p payment.Payment
	var state string
	err := row.Scan(
		&p.ID, &p.CustomerID, &p.LoanID, &p.DueDate, &p.RepaidDate,
		&p.PaidAmount, &p.RemainingAmount, &state, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.State = payment.State(state)
	return &p, nil
}

func (r *PaymentRepository) CreateInTx(ctx context.Context, tx pgx.Tx, p *payment.Payment) error {
	if p == nil {
		return fmt.Errorf("%w: payment cannot be nil", apperrors.ErrInvalidArgument)
	}

	sql := `
        INSERT INTO payments (customer_id, loan_id, due_date, repaid_date, paid_amount, remaining_amount, state, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	start := time.Now()
	err := tx.QueryRow(ctx, sql,
		p.CustomerID, p.LoanID, p.DueDate, p.RepaidDate, p.PaidAmount, p.RemainingAmount, string(p.State),
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	observe("CreatePayment", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert payment", slog.Any("error", err))
		return translateDBError(err, r.logger)
	}

	r.logger.InfoContext(ctx, "Payment inserted", "payment_id", p.ID)
	return nil
}

func (r *PaymentRepository) ExistsForLoanInTx(ctx context.Context, tx pgx.Tx, loanID int64) (bool, error) {
	var exists bool
	start := time.Now()
	err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payments WHERE loan_id = $1)`, loanID).Scan(&exists)
	observe("PaymentExistsForLoan", start, err)
	if err != nil {
		return false, translateDBError(err, r.logger)
	}
	return exists, nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, paymentID int64) (*payment.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	start := time.Now()
	p, err := scanPayment(r.db.QueryRow(ctx, query, paymentID))
	observe("GetPaymentByID", start, err)
	if err != nil {
		return nil, translateDBError(err, r.logger)
	}
	return p, nil
}

func (r *PaymentRepository) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, paymentID int64) (*payment.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 FOR UPDATE`

	start := time.Now()
	p, err := scanPayment(tx.QueryRow(ctx, query, paymentID))
	observe("LockPaymentByID", start, err)
	if err != nil {
		r.logger.WarnContext(ctx, "Failed to find/lock payment", "payment_id", paymentID, slog.Any("error", err))
		return nil, translateDBError(err, r.logger)
	}
	return p, nil
}

// FindSettlement locks the payment linked to loanID. It is used by the loan
// completion path, which runs inside the loan's transaction.
func (r *PaymentRepository) FindSettlement(ctx context.Context, tx pgx.Tx, loanID int64) (*loan.Settlement, error) {
	query := `SELECT id, remaining_amount FROM payments WHERE loan_id = $1 FOR UPDATE`

	var s loan.Settlement
	start := time.Now()
	var err error
	if tx != nil {
		err = tx.QueryRow(ctx, query, loanID).Scan(&s.PaymentID, &s.RemainingAmount)
	} else {
		err = r.db.QueryRow(ctx, query, loanID).Scan(&s.PaymentID, &s.RemainingAmount)
	}
	observe("FindLoanSettlement", start, err)
	if err != nil {
		return nil, translateDBError(err, r.logger)
	}
	return &s, nil
}

func (r *PaymentRepository) List(ctx context.Context, params pagination.Params) ([]*payment.Payment, int64, error) {
	return r.list(ctx, "ListPayments", "", params)
}

func (r *PaymentRepository) ListByCustomer(ctx context.Context, customerID int64, params pagination.Params) ([]*payment.Payment, int64, error) {
	return r.list(ctx, "ListCustomerPayments", "WHERE customer_id = $1", params, customerID)
}

func (r *PaymentRepository) list(ctx context.Context, queryName, where string, params pagination.Params, args ...any) ([]*payment.Payment, int64, error) {
	start := time.Now()
	total, err := countRows(ctx, r.db, `SELECT COUNT(*) FROM payments `+where, args...)
	if err != nil {
		observe(queryName, start, err)
		return nil, 0, translateDBError(err, r.logger)
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM payments %s %s LIMIT $%d OFFSET $%d`,
		paymentColumns, where, params.OrderClause(payment.OrderColumns), n+1, n+2)

	rows, err := r.db.Query(ctx, query, append(args, params.PerPage, params.Offset())...)
	if err != nil {
		observe(queryName, start, err)
		r.logger.ErrorContext(ctx, "Failed to query payments", slog.Any("error", err))
		return nil, 0, translateDBError(err, r.logger)
	}
	defer rows.Close()

	payments := make([]*payment.Payment, 0, params.PerPage)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			observe(queryName, start, err)
			return nil, 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		payments = append(payments, p)
	}
	err = rows.Err()
	observe(queryName, start, err)
	if err != nil {
		return nil, 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return payments, total, nil
}

func (r *PaymentRepository) UpdateAmountsInTx(ctx context.Context, tx pgx.Tx, p *payment.Payment) error {
	sql := `
        UPDATE payments
        SET paid_amount = $1, remaining_amount = $2, state = $3, updated_at = NOW()
        WHERE id = $4
        RETURNING updated_at`

	start := time.Now()
	err := tx.QueryRow(ctx, sql, p.PaidAmount, p.RemainingAmount, string(p.State), p.ID).Scan(&p.UpdatedAt)
	observe("UpdatePaymentAmounts", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update payment amounts", "payment_id", p.ID, slog.Any("error", err))
		return translateDBError(err, r.logger)
	}
	return nil
}

func (r *PaymentRepository) Delete(ctx context.Context, paymentID int64) error {
	start := time.Now()
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM payments WHERE id = $1`, paymentID)
	observe("DeletePayment", start, err)
	if err != nil {
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Delete affected zero rows, payment likely not found", "payment_id", paymentID)
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PaymentRepository) TotalOutstanding(ctx context.Context) (int64, error) {
	start := time.Now()
	total, err := countRows(ctx, r.db, `SELECT COALESCE(SUM(remaining_amount), 0)::BIGINT FROM payments`)
	observe("TotalOutstanding", start, err)
	if err != nil {
		return 0, translateDBError(err, r.logger)
	}
	return total, nil
}
