package dto

import (
	"encoding/json"
	"time"

	"loan-management/internal/domain/loan"
	"loan-management/internal/pkg/pagination"

	"github.com/shopspring/decimal"
)

// CreateLoanRequest accepts status for compatibility but a new loan is always NEW.
type CreateLoanRequest struct {
	CustomerID   *int64       `json:"customer_id" validate:"required"`
	ProductID    *int64       `json:"product_id" validate:"required"`
	InterestRate *json.Number `json:"interest_rate,omitempty" validate:"omitempty,interest_rate" swaggertype:"string" example:"12.5"`
	Duration     string       `json:"duration" validate:"required"`
	Amount       *int64       `json:"amount" validate:"required,gte=0"`
	Description  *string      `json:"description,omitempty"`
	Status       *string      `json:"status,omitempty"`
}

func (r CreateLoanRequest) ToParams() loan.CreateParams {
	params := loan.CreateParams{
		Duration:    r.Duration,
		Description: r.Description,
	}
	if r.CustomerID != nil {
		params.CustomerID = *r.CustomerID
	}
	if r.ProductID != nil {
		params.ProductID = *r.ProductID
	}
	if r.Amount != nil {
		params.Amount = *r.Amount
	}
	if rate := parseRate(r.InterestRate); rate != nil {
		params.InterestRate = *rate
	}
	return params
}

type UpdateLoanRequest struct {
	CustomerID   *int64       `json:"customer_id,omitempty"`
	ProductID    *int64       `json:"product_id,omitempty"`
	InterestRate *json.Number `json:"interest_rate,omitempty" validate:"omitempty,interest_rate" swaggertype:"string" example:"12.5"`
	Duration     *string      `json:"duration,omitempty"`
	Amount       *int64       `json:"amount,omitempty" validate:"omitempty,gte=0"`
	Description  *string      `json:"description,omitempty"`
	Status       *string      `json:"status,omitempty" example:"APPROVED"`
}

func (r UpdateLoanRequest) ToPatch() loan.Patch {
	return loan.Patch{
		CustomerID:   r.CustomerID,
		ProductID:    r.ProductID,
		InterestRate: parseRate(r.InterestRate),
		Duration:     r.Duration,
		Amount:       r.Amount,
		Description:  r.Description,
		Status:       r.Status,
	}
}

func parseRate(raw *json.Number) *decimal.Decimal {
	if raw == nil {
		return nil
	}
	d, err := decimal.NewFromString(raw.String())
	if err != nil {
		return nil
	}
	return &d
}

type LoanResponse struct {
	ID           int64           `json:"id"`
	CustomerID   int64           `json:"customer_id"`
	ProductID    int64           `json:"product_id"`
	InterestRate decimal.Decimal `json:"interest_rate" swaggertype:"string" example:"12.5"`
	Duration     string          `json:"duration"`
	Amount       int64           `json:"amount"`
	Status       string          `json:"status"`
	ApprovedBy   *string         `json:"approved_by"`
	Description  *string         `json:"description"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func NewLoanResponse(l *loan.Loan) LoanResponse {
	if l == nil {
		return LoanResponse{}
	}
	return LoanResponse{
		ID:           l.ID,
		CustomerID:   l.CustomerID,
		ProductID:    l.ProductID,
		InterestRate: l.InterestRate,
		Duration:     l.Duration,
		Amount:       l.Amount,
		Status:       string(l.Status),
		ApprovedBy:   l.ApprovedBy,
		Description:  l.Description,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

type LoanEnvelope struct {
	Loan    LoanResponse `json:"loan"`
	Message string       `json:"message"`
}

type LoanListResponse struct {
	Loans       []LoanResponse `json:"loans"`
	Total       int64          `json:"total"`
	CurrentPage int            `json:"currentPage"`
	Message     string         `json:"message"`
}

func NewLoanListResponse(page *pagination.Page[*loan.Loan], message string) LoanListResponse {
	resp := LoanListResponse{Loans: []LoanResponse{}, Message: message}
	if page == nil {
		return resp
	}
	for _, l := range page.Items {
		resp.Loans = append(resp.Loans, NewLoanResponse(l))
	}
	resp.Total = page.Total
	resp.CurrentPage = page.CurrentPage
	return resp
}
