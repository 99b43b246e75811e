package loan

import (
	"loan-management/internal/pkg/apperrors"
)

const (
	MsgApproveWithoutCustomer = "Unable to approve loan as it does not belong to any customers"
	MsgApproveWithoutProduct  = "Unable to approve loan as the product applied for this loan is not available"
	MsgCompleteWithoutPayment = "Unable to complete loan as it is not yet paid"
)

type Outcome string

const (
	OutcomeUnchanged   Outcome = "unchanged"
	OutcomeApproved    Outcome = "approved"
	OutcomeIneligible  Outcome = "ineligible"
	OutcomeCompleted   Outcome = "completed"
	OutcomeOutstanding Outcome = "outstanding"
)

type Borrower struct {
	CreditPoint *int
}

type ProductTerms struct {
	MinimumCreditPoint *int
}

// Settlement is the state of the payment linked to a loan.
type Settlement struct {
	PaymentID       int64
	RemainingAmount int64
}

type TransitionInput struct {
	Requested  *string
	Borrower   *Borrower
	Product    *ProductTerms
	Settlement *Settlement
	Actor      string
}

// Requirements reports which collaborators Transition needs for the requested status.
func Requirements(requested *string) (needsParties, needsSettlement bool) {
	if requested == nil {
		return false, false
	}
	switch Status(*requested) {
	case StatusApproved:
		return true, false
	case StatusCompleted:
		return false, true
	default:
		return false, false
	}
}

// Transition applies the status rule to current and returns the resulting loan.
// Ineligible approvals and unpaid completions leave the loan unchanged without error.
func Transition(current Loan, in TransitionInput) (Loan, Outcome, error) {
	if in.Requested == nil {
		return current, OutcomeUnchanged, nil
	}

	switch Status(*in.Requested) {
	case StatusApproved:
		if in.Borrower == nil {
			return current, "", apperrors.NewBusinessError(MsgApproveWithoutCustomer, apperrors.ErrNotFound)
		}
		if in.Product == nil {
			return current, "", apperrors.NewBusinessError(MsgApproveWithoutProduct, apperrors.ErrNotFound)
		}
		if !eligible(in.Borrower.CreditPoint, in.Product.MinimumCreditPoint) {
			return current, OutcomeIneligible, nil
		}
		next := current
		next.Status = StatusApproved
		actor := in.Actor
		next.ApprovedBy = &actor
		return next, OutcomeApproved, nil

	case StatusCompleted:
		if in.Settlement == nil {
			return current, "", apperrors.NewBusinessError(MsgCompleteWithoutPayment, apperrors.ErrNotFound)
		}
		if in.Settlement.RemainingAmount != 0 {
			return current, OutcomeOutstanding, nil
		}
		next := current
		next.Status = StatusCompleted
		return next, OutcomeCompleted, nil

	default:
		return current, OutcomeUnchanged, nil
	}
}

// A zero credit point or zero minimum counts as absent.
func eligible(creditPoint, minimum *int) bool {
	if creditPoint == nil || *creditPoint == 0 {
		return false
	}
	if minimum == nil || *minimum == 0 {
		return true
	}
	return *creditPoint >= *minimum
}
