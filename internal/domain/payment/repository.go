package payment

import (
	"context"

	"loan-management/internal/domain/loan"
	"loan-management/internal/pkg/pagination"

	"github.com/jackc/pgx/v5"
)

var OrderColumns = map[string]string{
	"id":               "id",
	"customer_id":      "customer_id",
	"loan_id":          "loan_id",
	"due_date":         "due_date",
	"repaid_date":      "repaid_date",
	"paid_amount":      "paid_amount",
	"remaining_amount": "remaining_amount",
	"state":            "state",
	"created_at":       "created_at",
	"updated_at":       "updated_at",
}

type Repository interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, payment *Payment) error

	ExistsForLoanInTx(ctx context.Context, tx pgx.Tx, loanID int64) (bool, error)

	FindByID(ctx context.Context, paymentID int64) (*Payment, error)

	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, paymentID int64) (*Payment, error)

	List(ctx context.Context, params pagination.Params) ([]*Payment, int64, error)

	ListByCustomer(ctx context.Context, customerID int64, params pagination.Params) ([]*Payment, int64, error)

	UpdateAmountsInTx(ctx context.Context, tx pgx.Tx, payment *Payment) error

	Delete(ctx context.Context, paymentID int64) error

	TotalOutstanding(ctx context.Context) (int64, error)

	BeginTx(ctx context.Context) (pgx.Tx, error)

	CommitTx(ctx context.Context, tx pgx.Tx) error

	RollbackTx(ctx context.Context, tx pgx.Tx) error
}

// LoanLocker loads a loan inside the payment transaction, holding its row lock.
type LoanLocker interface {
	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, loanID int64) (*loan.Loan, error)
}
