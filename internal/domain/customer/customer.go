package customer

import "time"

type Customer struct {
	ID          int64
	Name        string
	PhoneNumber string
	Address     string
	Gender      *string
	CreditPoint *int
	DateOfBirth time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateParams struct {
	Name        string
	PhoneNumber string
	Address     string
	Gender      *string
	CreditPoint *int
	DateOfBirth time.Time
}

// Patch holds the fields of a partial update. Nil fields are left untouched.
type Patch struct {
	Name        *string
	PhoneNumber *string
	Address     *string
	Gender      *string
	CreditPoint *int
	DateOfBirth *time.Time
}

func NewCustomer(params CreateParams) *Customer {
	now := time.Now()
	return &Customer{
		Name:        params.Name,
		PhoneNumber: params.PhoneNumber,
		Address:     params.Address,
		Gender:      params.Gender,
		CreditPoint: params.CreditPoint,
		DateOfBirth: params.DateOfBirth,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (c *Customer) Apply(p Patch) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.PhoneNumber != nil {
		c.PhoneNumber = *p.PhoneNumber
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.Gender != nil {
		c.Gender = p.Gender
	}
	if p.CreditPoint != nil {
		c.CreditPoint = p.CreditPoint
	}
	if p.DateOfBirth != nil {
		c.DateOfBirth = *p.DateOfBirth
	}
	c.UpdatedAt = time.Now()
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.PhoneNumber == nil && p.Address == nil &&
		p.Gender == nil && p.CreditPoint == nil && p.DateOfBirth == nil
}
