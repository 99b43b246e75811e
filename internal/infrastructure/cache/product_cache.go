package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loan-management/internal/domain/product"
	"loan-management/internal/pkg/pagination"
)

const productKeyPrefix = "loan-management:product:"

// CachedProductRepository is a read-through cache in front of a product
// repository. Cache failures are logged and the call falls through to the
// underlying repository.
type CachedProductRepository struct {
	next   product.Repository
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

var _ product.Repository = (*CachedProductRepository)(nil)

func NewCachedProductRepository(next product.Repository, store Store, ttl time.Duration, logger *slog.Logger) *CachedProductRepository {
	if next == nil || store == nil {
		panic("product repository and cache store cannot be nil")
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedProductRepository{
		next:   next,
		store:  store,
		ttl:    ttl,
		logger: logger.With("component", "CachedProductRepository"),
	}
}

func productKey(id int64) string {
	return fmt.Sprintf("%s%d", productKeyPrefix, id)
}

func (c *CachedProductRepository) Create(ctx context.Context, p *product.Product) error {
	return c.next.Create(ctx, p)
}

func (c *CachedProductRepository) FindByID(ctx context.Context, productID int64) (*product.Product, error) {
	key := productKey(productID)

	raw, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		var p product.Product
		if err := json.Unmarshal(raw, &p); err == nil {
			return &p, nil
		}
		c.logger.WarnContext(ctx, "Discarding undecodable cached product", "productID", productID)
	case errors.Is(err, ErrCacheMiss):
	default:
		c.logger.WarnContext(ctx, "Product cache read failed", "productID", productID, slog.Any("error", err))
	}

	p, err := c.next.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	c.put(ctx, p)
	return p, nil
}

func (c *CachedProductRepository) List(ctx context.Context, params pagination.Params) ([]*product.Product, int64, error) {
	return c.next.List(ctx, params)
}

func (c *CachedProductRepository) Update(ctx context.Context, productID int64, patch product.Patch) (*product.Product, error) {
	p, err := c.next.Update(ctx, productID, patch)
	if err != nil {
		return nil, err
	}
	c.evict(ctx, productID)
	return p, nil
}

func (c *CachedProductRepository) Delete(ctx context.Context, productID int64) error {
	if err := c.next.Delete(ctx, productID); err != nil {
		return err
	}
	c.evict(ctx, productID)
	return nil
}

func (c *CachedProductRepository) put(ctx context.Context, p *product.Product) {
	raw, err := json.Marshal(p)
	if err != nil {
		c.logger.WarnContext(ctx, "Failed to encode product for cache", "productID", p.ID, slog.Any("error", err))
		return
	}
	if err := c.store.Set(ctx, productKey(p.ID), raw, c.ttl); err != nil {
		c.logger.WarnContext(ctx, "Product cache write failed", "productID", p.ID, slog.Any("error", err))
	}
}

func (c *CachedProductRepository) evict(ctx context.Context, productID int64) {
	if err := c.store.Delete(ctx, productKey(productID)); err != nil {
		c.logger.WarnContext(ctx, "Product cache eviction failed", "productID", productID, slog.Any("error", err))
	}
}
