package product

import (
	"context"

	"loan-management/internal/pkg/pagination"
)

var OrderColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"type":       "type",
	"amount":     "amount",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

type Repository interface {
	Create(ctx context.Context, product *Product) error

	FindByID(ctx context.Context, productID int64) (*Product, error)

	List(ctx context.Context, params pagination.Params) ([]*Product, int64, error)

	Update(ctx context.Context, productID int64, patch Patch) (*Product, error)

	Delete(ctx context.Context, productID int64) error
}
