package customer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewCustomer(t *testing.T) {
	dob := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	credit := 700
	timeBefore := time.Now()

	cust := NewCustomer(CreateParams{
		Name:        "Alice",
		PhoneNumber: "08123456789",
		Address:     "Jl. Sudirman 1",
		CreditPoint: &credit,
		DateOfBirth: dob,
	})

	assert.Equal(t, "Alice", cust.Name)
	assert.Equal(t, "08123456789", cust.PhoneNumber)
	assert.Equal(t, "Jl. Sudirman 1", cust.Address)
	assert.Nil(t, cust.Gender)
	assert.Equal(t, 700, *cust.CreditPoint)
	assert.Equal(t, dob, cust.DateOfBirth)
	assert.Equal(t, int64(0), cust.ID)
	assert.False(t, cust.CreatedAt.Before(timeBefore))
	assert.Equal(t, cust.CreatedAt, cust.UpdatedAt)
}

func TestCustomer_Apply(t *testing.T) {
	cust := NewCustomer(CreateParams{Name: "Bob", PhoneNumber: "0811", Address: "Old Street"})
	before := cust.UpdatedAt

	name := "Robert"
	credit := 450
	cust.Apply(Patch{Name: &name, CreditPoint: &credit})

	assert.Equal(t, "Robert", cust.Name)
	assert.Equal(t, "0811", cust.PhoneNumber)
	assert.Equal(t, "Old Street", cust.Address)
	assert.Equal(t, 450, *cust.CreditPoint)
	assert.False(t, cust.UpdatedAt.Before(before))
}

func TestPatch_IsEmpty(t *testing.T) {
	assert.True(t, Patch{}.IsEmpty())

	addr := "New Street"
	assert.False(t, Patch{Address: &addr}.IsEmpty())
}
