package cache

import (
	"context"
	"errors"

	"github.com/fjod/go_storefront/internal/domain"
)

// ProductCache holds read-mostly catalog data in front of the product store.
type ProductCache interface {
	Get(ctx context.Context, productID string) (*domain.Product, error)
	Set(ctx context.Context, product *domain.Product) error
	GetAll(ctx context.Context) ([]domain.Product, error)
	SetAll(ctx context.Context, products []domain.Product) error
	// Flush drops every cached product, e.g. after the catalog is reseeded.
	Flush(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
