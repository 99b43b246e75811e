package loan

import (
	"context"

	"loan-management/internal/pkg/pagination"

	"github.com/jackc/pgx/v5"
)

var OrderColumns = map[string]string{
	"id":            "id",
	"customer_id":   "customer_id",
	"product_id":    "product_id",
	"amount":        "amount",
	"interest_rate": "interest_rate",
	"status":        "status",
	"created_at":    "created_at",
	"updated_at":    "updated_at",
}

type Repository interface {
	Create(ctx context.Context, loan *Loan) error

	FindByID(ctx context.Context, loanID int64) (*Loan, error)

	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, loanID int64) (*Loan, error)

	List(ctx context.Context, params pagination.Params) ([]*Loan, int64, error)

	ListByCustomer(ctx context.Context, customerID int64, params pagination.Params) ([]*Loan, int64, error)

	UpdateInTx(ctx context.Context, tx pgx.Tx, loan *Loan) error

	Delete(ctx context.Context, loanID int64) error

	CountByStatus(ctx context.Context) (map[Status]int64, error)

	BeginTx(ctx context.Context) (pgx.Tx, error)

	CommitTx(ctx context.Context, tx pgx.Tx) error

	RollbackTx(ctx context.Context, tx pgx.Tx) error
}

// SettlementFinder resolves the payment linked to a loan. It returns
// apperrors.ErrNotFound when the loan has no payment.
type SettlementFinder interface {
	FindSettlement(ctx context.Context, tx pgx.Tx, loanID int64) (*Settlement, error)
}
