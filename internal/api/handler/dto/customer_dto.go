package dto

import (
	"time"

	"loan-management/internal/domain/customer"
	"loan-management/internal/pkg/pagination"
)

type CreateCustomerRequest struct {
	Name        string  `json:"name" validate:"required,max=50"`
	PhoneNumber string  `json:"phone_number" validate:"required,max=15"`
	Address     string  `json:"address" validate:"required"`
	Gender      *string `json:"gender,omitempty"`
	DateOfBirth string  `json:"date_of_birth" validate:"required,date"`
	CreditPoint *int    `json:"credit_point,omitempty"`
}

func (r CreateCustomerRequest) ToParams() customer.CreateParams {
	return customer.CreateParams{
		Name:        r.Name,
		PhoneNumber: r.PhoneNumber,
		Address:     r.Address,
		Gender:      r.Gender,
		CreditPoint: r.CreditPoint,
		DateOfBirth: mustParseDate(r.DateOfBirth),
	}
}

type UpdateCustomerRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=50"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,max=15"`
	Address     *string `json:"address,omitempty"`
	Gender      *string `json:"gender,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty" validate:"omitempty,date"`
	CreditPoint *int    `json:"credit_point,omitempty"`
}

func (r UpdateCustomerRequest) ToPatch() customer.Patch {
	patch := customer.Patch{
		Name:        r.Name,
		PhoneNumber: r.PhoneNumber,
		Address:     r.Address,
		Gender:      r.Gender,
		CreditPoint: r.CreditPoint,
	}
	if r.DateOfBirth != nil {
		dob := mustParseDate(*r.DateOfBirth)
		patch.DateOfBirth = &dob
	}
	return patch
}

type CustomerResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	Address     string    `json:"address"`
	Gender      *string   `json:"gender"`
	DateOfBirth string    `json:"date_of_birth"`
	CreditPoint *int      `json:"credit_point"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewCustomerResponse(c *customer.Customer) CustomerResponse {
	if c == nil {
		return CustomerResponse{}
	}
	return CustomerResponse{
		ID:          c.ID,
		Name:        c.Name,
		PhoneNumber: c.PhoneNumber,
		Address:     c.Address,
		Gender:      c.Gender,
		DateOfBirth: formatDate(c.DateOfBirth),
		CreditPoint: c.CreditPoint,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type CustomerEnvelope struct {
	Customer CustomerResponse `json:"customer"`
	Message  string           `json:"message"`
}

type CustomerListResponse struct {
	Customers   []CustomerResponse `json:"customers"`
	Total       int64              `json:"total"`
	CurrentPage int                `json:"currentPage"`
	Message     string             `json:"message"`
}

func NewCustomerListResponse(page *pagination.Page[*customer.Customer], message string) CustomerListResponse {
	resp := CustomerListResponse{Customers: []CustomerResponse{}, Message: message}
	if page == nil {
		return resp
	}
	for _, c := range page.Items {
		resp.Customers = append(resp.Customers, NewCustomerResponse(c))
	}
	resp.Total = page.Total
	resp.CurrentPage = page.CurrentPage
	return resp
}
