package product

import (
	"context"
	"fmt"
	"log/slog"

	"loan-management/internal/pkg/pagination"
)

type Service interface {
	CreateProduct(ctx context.Context, params CreateParams) (*Product, error)
	GetProduct(ctx context.Context, productID int64) (*Product, error)
	ListProducts(ctx context.Context, params pagination.Params) (*pagination.Page[*Product], error)
	UpdateProduct(ctx context.Context, productID int64, patch Patch) (*Product, error)
	DeleteProduct(ctx context.Context, productID int64) error
}

var _ Service = (*productService)(nil)

type productService struct {
	repo   Repository
	logger *slog.Logger
}

func NewProductService(repo Repository, logger *slog.Logger) Service {
	if repo == nil {
		panic("product repository cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &productService{
		repo:   repo,
		logger: logger.With(slog.String("component", "productService")),
	}
}

func (s *productService) CreateProduct(ctx context.Context, params CreateParams) (*Product, error) {
	p := NewProduct(params)
	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.ErrorContext(ctx, "Failed to create product", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new product: %w", err)
	}
	s.logger.InfoContext(ctx, "Product created", slog.Int64("productID", p.ID))
	return p, nil
}

func (s *productService) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	p, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		s.logger.WarnContext(ctx, "Product lookup failed", slog.Int64("productID", productID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to get product %d: %w", productID, err)
	}
	return p, nil
}

func (s *productService) ListProducts(ctx context.Context, params pagination.Params) (*pagination.Page[*Product], error) {
	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list products", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return &pagination.Page[*Product]{
		Items:       items,
		Total:       total,
		CurrentPage: params.Page,
		PerPage:     params.PerPage,
	}, nil
}

func (s *productService) UpdateProduct(ctx context.Context, productID int64, patch Patch) (*Product, error) {
	if patch.IsEmpty() {
		return s.GetProduct(ctx, productID)
	}
	p, err := s.repo.Update(ctx, productID, patch)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update product", slog.Int64("productID", productID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to update product %d: %w", productID, err)
	}
	s.logger.InfoContext(ctx, "Product updated", slog.Int64("productID", productID))
	return p, nil
}

func (s *productService) DeleteProduct(ctx context.Context, productID int64) error {
	if err := s.repo.Delete(ctx, productID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete product", slog.Int64("productID", productID), slog.Any("error", err))
		return fmt.Errorf("failed to delete product %d: %w", productID, err)
	}
	s.logger.InfoContext(ctx, "Product deleted", slog.Int64("productID", productID))
	return nil
}
