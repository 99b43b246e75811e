package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loan-management/internal/domain/customer"
	"loan-management/internal/domain/loan"
	"loan-management/internal/event"
	"loan-management/internal/infrastructure/monitoring"
	"loan-management/internal/pkg/apperrors"
	"loan-management/internal/pkg/pagination"
)

type PaymentService interface {
	CreatePayment(ctx context.Context, params CreateParams) (*Payment, error)

	GetPayment(ctx context.Context, paymentID int64) (*Payment, error)

	ListPayments(ctx context.Context, params pagination.Params) (*pagination.Page[*Payment], error)

	ListCustomerPayments(ctx context.Context, customerID int64, params pagination.Params) (*pagination.Page[*Payment], error)

	RecordRepayment(ctx context.Context, paymentID int64, amount int64) (*Payment, error)

	DeletePayment(ctx context.Context, paymentID int64) error
}

var _ PaymentService = (*paymentServiceImpl)(nil)

type paymentServiceImpl struct {
	repo         Repository
	loans        LoanLocker
	customerRepo customer.Repository
	pub          event.EventPublisher
	logger       *slog.Logger
}

func NewPaymentService(r Repository, loans LoanLocker, cr customer.Repository, pub event.EventPublisher, logger *slog.Logger) PaymentService {
	if r == nil || loans == nil || cr == nil {
		panic("payment service dependencies cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if pub == nil {
		pub = event.NewLogEventPublisher(logger)
	}
	return &paymentServiceImpl{
		repo:         r,
		loans:        loans,
		customerRepo: cr,
		pub:          pub,
		logger:       logger.With(slog.String("component", "paymentService")),
	}
}

func (s *paymentServiceImpl) CreatePayment(ctx context.Context, params CreateParams) (created *Payment, err error) {
	logger := s.logger.With("customerID", params.CustomerID)
	logger.InfoContext(ctx, "Creating payment")

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if p := recover(); p != nil {
			monitoring.RecordPayment("create", paymentStatusInternal)
			logger.ErrorContext(ctx, "Panic occurred during payment creation", "error", p)
			_ = s.repo.RollbackTx(ctx, tx)
			panic(p)
		}
		monitoring.RecordPayment("create", paymentStatus(err))
		if err != nil {
			logger.WarnContext(ctx, "Rolling back payment creation", slog.Any("error", err))
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	var linked *loan.Loan
	if params.LoanID != nil {
		l, lookupErr := s.loans.FindByIDForUpdate(ctx, tx, *params.LoanID)
		if errors.Is(lookupErr, apperrors.ErrNotFound) {
			return nil, apperrors.NewBusinessError(MsgLoanNotFound, apperrors.ErrNotFound)
		}
		if lookupErr != nil {
			return nil, fmt.Errorf("failed to load loan %d: %w", *params.LoanID, lookupErr)
		}

		exists, existsErr := s.repo.ExistsForLoanInTx(ctx, tx, l.ID)
		if existsErr != nil {
			return nil, existsErr
		}
		if exists {
			return nil, apperrors.NewValidationError("loan_id", "The loan id has already been taken.")
		}
		linked = l
	}

	p, err := New(params, linked)
	if err != nil {
		return nil, err
	}

	if err = s.repo.CreateInTx(ctx, tx, p); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, apperrors.NewValidationError("loan_id", "The loan id has already been taken.")
		}
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}
	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	s.publish(ctx, p, true)
	logger.InfoContext(ctx, "Payment created", "paymentID", p.ID, "state", p.State)
	return p, nil
}

func (s *paymentServiceImpl) GetPayment(ctx context.Context, paymentID int64) (*Payment, error) {
	p, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to get payment", "paymentID", paymentID, slog.Any("error", err))
		return nil, fmt.Errorf("failed to get payment %d: %w", paymentID, err)
	}
	return p, nil
}

func (s *paymentServiceImpl) ListPayments(ctx context.Context, params pagination.Params) (*pagination.Page[*Payment], error) {
	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list payments", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return &pagination.Page[*Payment]{Items: items, Total: total, CurrentPage: params.Page, PerPage: params.PerPage}, nil
}

func (s *paymentServiceImpl) ListCustomerPayments(ctx context.Context, customerID int64, params pagination.Params) (*pagination.Page[*Payment], error) {
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		s.logger.WarnContext(ctx, "Customer lookup failed for payment listing", "customerID", customerID, slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}
	items, total, err := s.repo.ListByCustomer(ctx, customerID, params)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list customer payments", "customerID", customerID, slog.Any("error", err))
		return nil, fmt.Errorf("failed to list payments of customer %d: %w", customerID, err)
	}
	return &pagination.Page[*Payment]{Items: items, Total: total, CurrentPage: params.Page, PerPage: params.PerPage}, nil
}

func (s *paymentServiceImpl) RecordRepayment(ctx context.Context, paymentID int64, amount int64) (updated *Payment, err error) {
	logger := s.logger.With("paymentID", paymentID)
	logger.InfoContext(ctx, "Recording repayment", "amount", amount)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if p := recover(); p != nil {
			monitoring.RecordPayment("update", paymentStatusInternal)
			logger.ErrorContext(ctx, "Panic occurred during repayment", "error", p)
			_ = s.repo.RollbackTx(ctx, tx)
			panic(p)
		}
		monitoring.RecordPayment("update", paymentStatus(err))
		if err != nil {
			logger.WarnContext(ctx, "Rolling back repayment", slog.Any("error", err))
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	p, err := s.repo.FindByIDForUpdate(ctx, tx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment %d: %w", paymentID, err)
	}

	if err = p.Repay(amount); err != nil {
		return nil, err
	}

	if err = s.repo.UpdateAmountsInTx(ctx, tx, p); err != nil {
		return nil, fmt.Errorf("failed to persist payment %d: %w", paymentID, err)
	}
	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	s.publish(ctx, p, false)
	logger.InfoContext(ctx, "Repayment recorded", "remaining", p.RemainingAmount, "state", p.State)
	return p, nil
}

func (s *paymentServiceImpl) DeletePayment(ctx context.Context, paymentID int64) error {
	if err := s.repo.Delete(ctx, paymentID); err != nil {
		s.logger.WarnContext(ctx, "Failed to delete payment", "paymentID", paymentID, slog.Any("error", err))
		return fmt.Errorf("failed to delete payment %d: %w", paymentID, err)
	}
	s.logger.InfoContext(ctx, "Payment deleted", "paymentID", paymentID)
	return nil
}

const (
	paymentStatusSuccess  = "success"
	paymentStatusRejected = "rejected"
	paymentStatusInternal = "failure_internal"
)

// paymentStatus labels the payment metric; rule and input failures are rejections.
func paymentStatus(err error) string {
	switch {
	case err == nil:
		return paymentStatusSuccess
	case errors.Is(err, apperrors.ErrBusinessRule), errors.Is(err, apperrors.ErrValidation):
		return paymentStatusRejected
	default:
		return paymentStatusInternal
	}
}

func (s *paymentServiceImpl) publish(ctx context.Context, p *Payment, created bool) {
	e := event.PaymentRecordedEvent{
		Timestamp:       time.Now(),
		Created:         created,
		PaymentID:       p.ID,
		CustomerID:      p.CustomerID,
		LoanID:          p.LoanID,
		PaidAmount:      p.PaidAmount,
		RemainingAmount: p.RemainingAmount,
		State:           string(p.State),
	}
	if err := s.pub.PublishPaymentRecorded(ctx, e); err != nil {
		s.logger.ErrorContext(ctx, "Payment saved, but failed to publish event", "paymentID", p.ID, slog.Any("error", err))
	}
}
