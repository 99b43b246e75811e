package product

import "time"

type Product struct {
	ID                            int64
	Name                          string
	Type                          string
	Amount                        int64
	MinimumCreditPointRequirement *int
	Description                   *string
	CreatedAt                     time.Time
	UpdatedAt                     time.Time
}

type CreateParams struct {
	Name                          string
	Type                          string
	Amount                        int64
	MinimumCreditPointRequirement *int
	Description                   *string
}

type Patch struct {
	Name                          *string
	Type                          *string
	Amount                        *int64
	MinimumCreditPointRequirement *int
	Description                   *string
}

func NewProduct(params CreateParams) *Product {
	now := time.Now()
	return &Product{
		Name:                          params.Name,
		Type:                          params.Type,
		Amount:                        params.Amount,
		MinimumCreditPointRequirement: params.MinimumCreditPointRequirement,
		Description:                   params.Description,
		CreatedAt:                     now,
		UpdatedAt:                     now,
	}
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Type == nil && p.Amount == nil &&
		p.MinimumCreditPointRequirement == nil && p.Description == nil
}
