package customer

import (
	"context"

	"loan-management/internal/pkg/pagination"
)

var OrderColumns = map[string]string{
	"id":            "id",
	"name":          "name",
	"credit_point":  "credit_point",
	"date_of_birth": "date_of_birth",
	"created_at":    "created_at",
	"updated_at":    "updated_at",
}

type Repository interface {
	Create(ctx context.Context, customer *Customer) error

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	List(ctx context.Context, params pagination.Params) ([]*Customer, int64, error)

	Update(ctx context.Context, customerID int64, patch Patch) (*Customer, error)

	Delete(ctx context.Context, customerID int64) error
}
