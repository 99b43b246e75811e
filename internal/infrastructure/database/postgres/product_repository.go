package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"loan-management/internal/domain/product"
	"loan-management/internal/pkg/apperrors"
	"loan-management/internal/pkg/pagination"

	"github.com/jackc/pgx/v5"
)

const productColumns = `id, name, type, amount, minimum_credit_point_requirement, description, created_at, updated_at`

type ProductRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ product.Repository = (*ProductRepository)(nil)

func NewProductRepository(db DBPool, logger *slog.Logger) *ProductRepository {
	if db == nil {
		panic("DBPool cannot be nil for ProductRepository")
	}
	return &ProductRepository{db: db, logger: logger.With("component", "ProductRepository")}
}

func scanProduct(row pgx.Row) (*product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Type, &p.Amount, &p.MinimumCreditPointRequirement,
		&p.Description, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	if p == nil {
		return fmt.Errorf("%w: product cannot be nil", apperrors.ErrInvalidArgument)
	}

	query := `
        INSERT INTO products (name, type, amount, minimum_credit_point_requirement, description, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	start := time.Now()
	err := r.db.QueryRow(ctx, query,
		p.Name, p.Type, p.Amount, p.MinimumCreditPointRequirement, p.Description,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	observe("CreateProduct", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert product", slog.Any("error", err))
		return translateDBError(err, r.logger)
	}

	r.logger.InfoContext(ctx, "Product inserted successfully", slog.Int64("productID", p.ID))
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, productID int64) (*product.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	start := time.Now()
	p, err := scanProduct(r.db.QueryRow(ctx, query, productID))
	observe("FindProductByID", start, err)
	if err != nil {
		return nil, translateDBError(err, r.logger)
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context, params pagination.Params) ([]*product.Product, int64, error) {
	start := time.Now()
	total, err := countRows(ctx, r.db, `SELECT COUNT(*) FROM products`)
	if err != nil {
		observe("ListProducts", start, err)
		return nil, 0, translateDBError(err, r.logger)
	}

	query := `SELECT ` + productColumns + ` FROM products ` +
		params.OrderClause(product.OrderColumns) + ` LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, params.PerPage, params.Offset())
	if err != nil {
		observe("ListProducts", start, err)
		r.logger.ErrorContext(ctx, "Failed to query products", slog.Any("error", err))
		return nil, 0, translateDBError(err, r.logger)
	}
	defer rows.Close()

	products := make([]*product.Product, 0, params.PerPage)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			observe("ListProducts", start, err)
			return nil, 0, fmt.Errorf("%w: failed to scan product row: %w", apperrors.ErrDatabase, err)
		}
		products = append(products, p)
	}
	err = rows.Err()
	observe("ListProducts", start, err)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: error iterating product rows: %w", apperrors.ErrDatabase, err)
	}

	return products, total, nil
}

func (r *ProductRepository) Update(ctx context.Context, productID int64, patch product.Patch) (*product.Product, error) {
	query := `
        UPDATE products
        SET name = COALESCE($1, name),
            type = COALESCE($2, type),
            amount = COALESCE($3, amount),
            minimum_credit_point_requirement = COALESCE($4, minimum_credit_point_requirement),
            description = COALESCE($5, description),
            updated_at = NOW()
        WHERE id = $6
        RETURNING ` + productColumns

	start := time.Now()
	p, err := scanProduct(r.db.QueryRow(ctx, query,
		patch.Name, patch.Type, patch.Amount, patch.MinimumCreditPointRequirement, patch.Description, productID,
	))
	observe("UpdateProduct", start, err)
	if err != nil {
		r.logger.WarnContext(ctx, "Failed to update product", "productID", productID, slog.Any("error", err))
		return nil, translateDBError(err, r.logger)
	}
	return p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, productID int64) error {
	start := time.Now()
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, productID)
	observe("DeleteProduct", start, err)
	if err != nil {
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Delete affected zero rows, product likely not found", "productID", productID)
		return apperrors.ErrNotFound
	}
	return nil
}
