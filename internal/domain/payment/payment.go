package payment

import (
	"time"

	"loan-management/internal/domain/loan"
	"loan-management/internal/pkg/apperrors"
)

type State string

const (
	StateNew           State = "NEW"
	StatePartiallyPaid State = "PARTIALLY_PAID"
	StatePaid          State = "PAID"
)

const (
	MsgCompletedLoan       = "Cannot create a new payment for a completed loan"
	MsgPaidAmountTooLarge  = "Invalid paid_amount parameter: paid_amount cannot be greater than remaining amount"
	MsgRemainingAmountMiss = "Remaining amount cannot be empty"
	MsgLoanNotFound        = "Unable to create payment as the loan does not exist"
)

type Payment struct {
	ID              int64
	CustomerID      int64
	LoanID          *int64
	DueDate         time.Time
	RepaidDate      time.Time
	PaidAmount      int64
	RemainingAmount int64
	State           State
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type CreateParams struct {
	CustomerID      int64
	LoanID          *int64
	DueDate         time.Time
	RepaidDate      time.Time
	PaidAmount      int64
	RemainingAmount *int64
}

// New builds a payment against the linked loan, or a standalone payment when
// linked is nil. Remaining amount and state are always derived here.
func New(params CreateParams, linked *loan.Loan) (*Payment, error) {
	now := time.Now()
	p := &Payment{
		CustomerID: params.CustomerID,
		LoanID:     params.LoanID,
		DueDate:    params.DueDate,
		RepaidDate: params.RepaidDate,
		PaidAmount: params.PaidAmount,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if linked == nil {
		if params.RemainingAmount == nil || *params.RemainingAmount == 0 {
			return nil, apperrors.NewBusinessError(MsgRemainingAmountMiss, apperrors.ErrInvalidPaymentAmount)
		}
		p.RemainingAmount = *params.RemainingAmount
		p.State = StateNew
		return p, nil
	}

	if linked.Status == loan.StatusCompleted {
		return nil, apperrors.NewBusinessError(MsgCompletedLoan, apperrors.ErrLoanCompleted)
	}
	if params.PaidAmount > linked.Amount {
		return nil, apperrors.NewBusinessError(MsgPaidAmountTooLarge, apperrors.ErrInvalidPaymentAmount)
	}

	id := linked.ID
	p.LoanID = &id
	p.RemainingAmount = linked.Amount - params.PaidAmount
	p.State = settledState(p.RemainingAmount)
	return p, nil
}

// Repay amortizes amount against the remaining balance.
func (p *Payment) Repay(amount int64) error {
	if amount > p.RemainingAmount {
		return apperrors.NewBusinessError(MsgPaidAmountTooLarge, apperrors.ErrInvalidPaymentAmount)
	}
	p.RemainingAmount -= amount
	p.PaidAmount += amount
	p.State = settledState(p.RemainingAmount)
	p.UpdatedAt = time.Now()
	return nil
}

func settledState(remaining int64) State {
	if remaining == 0 {
		return StatePaid
	}
	return StatePartiallyPaid
}
