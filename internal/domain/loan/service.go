package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loan-management/internal/domain/customer"
	"loan-management/internal/domain/product"
	"loan-management/internal/event"
	"loan-management/internal/infrastructure/monitoring"
	"loan-management/internal/pkg/apperrors"
	"loan-management/internal/pkg/pagination"

	"github.com/jackc/pgx/v5"
)

type LoanService interface {
	CreateLoan(ctx context.Context, params CreateParams) (*Loan, error)

	GetLoan(ctx context.Context, loanID int64) (*Loan, error)

	ListLoans(ctx context.Context, params pagination.Params) (*pagination.Page[*Loan], error)

	ListCustomerLoans(ctx context.Context, customerID int64, params pagination.Params) (*pagination.Page[*Loan], error)

	UpdateLoan(ctx context.Context, loanID int64, patch Patch, actor string) (*Loan, error)

	DeleteLoan(ctx context.Context, loanID int64) error
}

var _ LoanService = (*loanServiceImpl)(nil)

type loanServiceImpl struct {
	repo         Repository
	customerRepo customer.Repository
	productRepo  product.Repository
	settlements  SettlementFinder
	pub          event.EventPublisher
	logger       *slog.Logger
}

func NewLoanService(r Repository, cr customer.Repository, pr product.Repository, sf SettlementFinder, pub event.EventPublisher, logger *slog.Logger) LoanService {
	if r == nil || cr == nil || pr == nil || sf == nil {
		panic("loan service dependencies cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if pub == nil {
		pub = event.NewLogEventPublisher(logger)
	}
	return &loanServiceImpl{
		repo:         r,
		customerRepo: cr,
		productRepo:  pr,
		settlements:  sf,
		pub:          pub,
		logger:       logger.With(slog.String("component", "loanService")),
	}
}

func (s *loanServiceImpl) CreateLoan(ctx context.Context, params CreateParams) (*Loan, error) {
	l := NewLoan(params)
	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save loan", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save loan: %w", err)
	}
	s.logger.InfoContext(ctx, "Loan created successfully", "loanID", l.ID, "customerID", l.CustomerID)
	return l, nil
}

func (s *loanServiceImpl) GetLoan(ctx context.Context, loanID int64) (*Loan, error) {
	l, err := s.repo.FindByID(ctx, loanID)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to get loan", "loanID", loanID, slog.Any("error", err))
		return nil, fmt.Errorf("failed to get loan %d: %w", loanID, err)
	}
	return l, nil
}

func (s *loanServiceImpl) ListLoans(ctx context.Context, params pagination.Params) (*pagination.Page[*Loan], error) {
	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list loans", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	return &pagination.Page[*Loan]{Items: items, Total: total, CurrentPage: params.Page, PerPage: params.PerPage}, nil
}

func (s *loanServiceImpl) ListCustomerLoans(ctx context.Context, customerID int64, params pagination.Params) (*pagination.Page[*Loan], error) {
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		s.logger.WarnContext(ctx, "Customer lookup failed for loan listing", "customerID", customerID, slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}
	items, total, err := s.repo.ListByCustomer(ctx, customerID, params)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list customer loans", "customerID", customerID, slog.Any("error", err))
		return nil, fmt.Errorf("failed to list loans of customer %d: %w", customerID, err)
	}
	return &pagination.Page[*Loan]{Items: items, Total: total, CurrentPage: params.Page, PerPage: params.PerPage}, nil
}

func (s *loanServiceImpl) UpdateLoan(ctx context.Context, loanID int64, patch Patch, actor string) (updated *Loan, err error) {
	logger := s.logger.With("loanID", loanID)
	logger.InfoContext(ctx, "Updating loan")

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if p := recover(); p != nil {
			logger.ErrorContext(ctx, "Panic occurred during loan update", "error", p)
			_ = s.repo.RollbackTx(ctx, tx)
			panic(p)
		} else if err != nil {
			logger.WarnContext(ctx, "Rolling back loan update", slog.Any("error", err))
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	current, err := s.repo.FindByIDForUpdate(ctx, tx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to load loan %d: %w", loanID, err)
	}

	in := TransitionInput{Requested: patch.Status, Actor: actor}
	needsParties, needsSettlement := Requirements(patch.Status)
	if needsParties {
		if in.Borrower, err = s.resolveBorrower(ctx, current.CustomerID); err != nil {
			return nil, err
		}
		if in.Product, err = s.resolveProduct(ctx, current.ProductID); err != nil {
			return nil, err
		}
	}
	if needsSettlement {
		if in.Settlement, err = s.resolveSettlement(ctx, tx, current.ID); err != nil {
			return nil, err
		}
	}

	next, outcome, err := Transition(*current, in)
	if patch.Status != nil {
		recorded := string(outcome)
		if err != nil {
			recorded = "rejected"
		}
		monitoring.RecordLoanTransition(*patch.Status, recorded)
	}
	if err != nil {
		logger.WarnContext(ctx, "Loan status transition rejected", slog.Any("error", err))
		return nil, err
	}

	next.Apply(patch)

	if err = s.repo.UpdateInTx(ctx, tx, &next); err != nil {
		return nil, fmt.Errorf("failed to persist loan %d: %w", loanID, err)
	}
	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	if next.Status != current.Status {
		s.publishStatusChanged(ctx, current.Status, &next)
	}
	logger.InfoContext(ctx, "Loan updated", "outcome", outcome, "status", next.Status)
	return &next, nil
}

func (s *loanServiceImpl) DeleteLoan(ctx context.Context, loanID int64) error {
	if err := s.repo.Delete(ctx, loanID); err != nil {
		s.logger.WarnContext(ctx, "Failed to delete loan", "loanID", loanID, slog.Any("error", err))
		return fmt.Errorf("failed to delete loan %d: %w", loanID, err)
	}
	s.logger.InfoContext(ctx, "Loan deleted", "loanID", loanID)
	return nil
}

func (s *loanServiceImpl) resolveBorrower(ctx context.Context, customerID int64) (*Borrower, error) {
	cust, err := s.customerRepo.FindByID(ctx, customerID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve customer %d: %w", customerID, err)
	}
	return &Borrower{CreditPoint: cust.CreditPoint}, nil
}

func (s *loanServiceImpl) resolveProduct(ctx context.Context, productID int64) (*ProductTerms, error) {
	p, err := s.productRepo.FindByID(ctx, productID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve product %d: %w", productID, err)
	}
	return &ProductTerms{MinimumCreditPoint: p.MinimumCreditPointRequirement}, nil
}

func (s *loanServiceImpl) resolveSettlement(ctx context.Context, tx pgx.Tx, loanID int64) (*Settlement, error) {
	st, err := s.settlements.FindSettlement(ctx, tx, loanID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve payment of loan %d: %w", loanID, err)
	}
	return st, nil
}

func (s *loanServiceImpl) publishStatusChanged(ctx context.Context, old Status, l *Loan) {
	e := event.LoanStatusChangedEvent{
		Timestamp:  time.Now(),
		LoanID:     l.ID,
		CustomerID: l.CustomerID,
		OldStatus:  string(old),
		NewStatus:  string(l.Status),
		ApprovedBy: l.ApprovedBy,
	}
	if err := s.pub.PublishLoanStatusChanged(ctx, e); err != nil {
		s.logger.ErrorContext(ctx, "Loan updated, but failed to publish status event", "loanID", l.ID, slog.Any("error", err))
	}
}
