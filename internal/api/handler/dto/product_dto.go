package dto

import (
	"time"

	"loan-management/internal/domain/product"
	"loan-management/internal/pkg/pagination"
)

type CreateProductRequest struct {
	Name                          string  `json:"name" validate:"required"`
	Type                          string  `json:"type" validate:"required"`
	Amount                        *int64  `json:"amount" validate:"required,gte=0"`
	MinimumCreditPointRequirement *int    `json:"minimum_credit_point_requirement,omitempty"`
	Description                   *string `json:"description,omitempty"`
}

func (r CreateProductRequest) ToParams() product.CreateParams {
	var amount int64
	if r.Amount != nil {
		amount = *r.Amount
	}
	return product.CreateParams{
		Name:                          r.Name,
		Type:                          r.Type,
		Amount:                        amount,
		MinimumCreditPointRequirement: r.MinimumCreditPointRequirement,
		Description:                   r.Description,
	}
}

type UpdateProductRequest struct {
	Name                          *string `json:"name,omitempty"`
	Type                          *string `json:"type,omitempty"`
	Amount                        *int64  `json:"amount,omitempty" validate:"omitempty,gte=0"`
	MinimumCreditPointRequirement *int    `json:"minimum_credit_point_requirement,omitempty"`
	Description                   *string `json:"description,omitempty"`
}

func (r UpdateProductRequest) ToPatch() product.Patch {
	return product.Patch{
		Name:                          r.Name,
		Type:                          r.Type,
		Amount:                        r.Amount,
		MinimumCreditPointRequirement: r.MinimumCreditPointRequirement,
		Description:                   r.Description,
	}
}

type ProductResponse struct {
	ID                            int64     `json:"id"`
	Name                          string    `json:"name"`
	Type                          string    `json:"type"`
	Amount                        int64     `json:"amount"`
	MinimumCreditPointRequirement *int      `json:"minimum_credit_point_requirement"`
	Description                   *string   `json:"description"`
	CreatedAt                     time.Time `json:"created_at"`
	UpdatedAt                     time.Time `json:"updated_at"`
}

func NewProductResponse(p *product.Product) ProductResponse {
	if p == nil {
		return ProductResponse{}
	}
	return ProductResponse{
		ID:                            p.ID,
		Name:                          p.Name,
		Type:                          p.Type,
		Amount:                        p.Amount,
		MinimumCreditPointRequirement: p.MinimumCreditPointRequirement,
		Description:                   p.Description,
		CreatedAt:                     p.CreatedAt,
		UpdatedAt:                     p.UpdatedAt,
	}
}

type ProductEnvelope struct {
	Product ProductResponse `json:"product"`
	Message string          `json:"message"`
}

type ProductListResponse struct {
	Products    []ProductResponse `json:"products"`
	Total       int64             `json:"total"`
	CurrentPage int               `json:"currentPage"`
	Message     string            `json:"message"`
}

func NewProductListResponse(page *pagination.Page[*product.Product], message string) ProductListResponse {
	resp := ProductListResponse{Products: []ProductResponse{}, Message: message}
	if page == nil {
		return resp
	}
	for _, p := range page.Items {
		resp.Products = append(resp.Products, NewProductResponse(p))
	}
	resp.Total = page.Total
	resp.CurrentPage = page.CurrentPage
	return resp
}
