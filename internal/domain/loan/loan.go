package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusNew       Status = "NEW"
	StatusApproved  Status = "APPROVED"
	StatusCompleted Status = "COMPLETED"
)

func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusNew, StatusApproved, StatusCompleted:
		return Status(raw), true
	default:
		return "", false
	}
}

type Loan struct {
	ID           int64
	CustomerID   int64
	ProductID    int64
	InterestRate decimal.Decimal
	Duration     string
	Amount       int64
	Status       Status
	ApprovedBy   *string
	Description  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateParams struct {
	CustomerID   int64
	ProductID    int64
	InterestRate decimal.Decimal
	Duration     string
	Amount       int64
	Description  *string
}

// Patch is a partial update. Status carries the caller's raw value and is
// only consulted by Transition and by legacy rows without a status.
type Patch struct {
	CustomerID   *int64
	ProductID    *int64
	InterestRate *decimal.Decimal
	Duration     *string
	Amount       *int64
	Description  *string
	Status       *string
}

// NewLoan always starts in NEW whatever status the caller asked for.
func NewLoan(params CreateParams) *Loan {
	now := time.Now()
	return &Loan{
		CustomerID:   params.CustomerID,
		ProductID:    params.ProductID,
		InterestRate: params.InterestRate,
		Duration:     params.Duration,
		Amount:       params.Amount,
		Description:  params.Description,
		Status:       StatusNew,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (l *Loan) Apply(p Patch) {
	if p.CustomerID != nil {
		l.CustomerID = *p.CustomerID
	}
	if p.ProductID != nil {
		l.ProductID = *p.ProductID
	}
	if p.InterestRate != nil {
		l.InterestRate = *p.InterestRate
	}
	if p.Duration != nil {
		l.Duration = *p.Duration
	}
	if p.Amount != nil {
		l.Amount = *p.Amount
	}
	if p.Description != nil {
		l.Description = p.Description
	}
	if l.Status == "" && p.Status != nil {
		l.Status = Status(*p.Status)
	}
	l.UpdatedAt = time.Now()
}
