package dto

import (
	"time"

	"loan-management/internal/domain/payment"
	"loan-management/internal/pkg/pagination"
)

type CreatePaymentRequest struct {
	CustomerID      *int64 `json:"customer_id" validate:"required"`
	LoanID          *int64 `json:"loan_id,omitempty"`
	DueDate         string `json:"due_date" validate:"required,date" example:"2024-06-30"`
	RepaidDate      string `json:"repaid_date" validate:"required,date" example:"2024-06-28"`
	PaidAmount      *int64 `json:"paid_amount" validate:"required,gte=0"`
	RemainingAmount *int64 `json:"remaining_amount,omitempty"`
}

func (r CreatePaymentRequest) ToParams() payment.CreateParams {
	params := payment.CreateParams{
		LoanID:          r.LoanID,
		DueDate:         mustParseDate(r.DueDate),
		RepaidDate:      mustParseDate(r.RepaidDate),
		RemainingAmount: r.RemainingAmount,
	}
	if r.CustomerID != nil {
		params.CustomerID = *r.CustomerID
	}
	if r.PaidAmount != nil {
		params.PaidAmount = *r.PaidAmount
	}
	return params
}

// UpdatePaymentRequest carries the amount repaid since the last update,
// not a new cumulative total.
type UpdatePaymentRequest struct {
	PaidAmount *int64 `json:"paid_amount" validate:"required,gte=0"`
}

type PaymentResponse struct {
	ID              int64     `json:"id"`
	CustomerID      int64     `json:"customer_id"`
	LoanID          *int64    `json:"loan_id"`
	DueDate         string    `json:"due_date"`
	RepaidDate      string    `json:"repaid_date"`
	PaidAmount      int64     `json:"paid_amount"`
	RemainingAmount int64     `json:"remaining_amount"`
	State           string    `json:"state"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewPaymentResponse(p *payment.Payment) PaymentResponse {
	if p == nil {
		return PaymentResponse{}
	}
	return PaymentResponse{
		ID:              p.ID,
		CustomerID:      p.CustomerID,
		LoanID:          p.LoanID,
		DueDate:         formatDate(p.DueDate),
		RepaidDate:      formatDate(p.RepaidDate),
		PaidAmount:      p.PaidAmount,
		RemainingAmount: p.RemainingAmount,
		State:           string(p.State),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

type PaymentEnvelope struct {
	Payment PaymentResponse `json:"payment"`
	Message string          `json:"message"`
}

type PaymentListResponse struct {
	Payments    []PaymentResponse `json:"payments"`
	Total       int64             `json:"total"`
	CurrentPage int               `json:"currentPage"`
	Message     string            `json:"message"`
}

func NewPaymentListResponse(page *pagination.Page[*payment.Payment], message string) PaymentListResponse {
	resp := PaymentListResponse{Payments: []PaymentResponse{}, Message: message}
	if page == nil {
		return resp
	}
	for _, p := range page.Items {
		resp.Payments = append(resp.Payments, NewPaymentResponse(p))
	}
	resp.Total = page.Total
	resp.CurrentPage = page.CurrentPage
	return resp
}
