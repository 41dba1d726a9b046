package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/repository"
	"github.com/fjod/go_storefront/pkg/logger"
)

const (
	DefaultMinProducts = 20

	placeholderImagePattern = `(images\.unsplash\.com|placehold\.co)`
)

// ProductSource supplies catalog data from outside the store.
type ProductSource interface {
	Products(ctx context.Context) ([]domain.Product, error)
}

// CacheInvalidator drops cached catalog data after the store changes.
type CacheInvalidator interface {
	Flush(ctx context.Context) error
}

type Seeder struct {
	store       repository.CatalogRepository
	source      ProductSource
	invalidator CacheInvalidator
}

// NewSeeder builds a seeder. invalidator may be nil.
func NewSeeder(store repository.CatalogRepository, source ProductSource, invalidator CacheInvalidator) *Seeder {
	return &Seeder{
		store:       store,
		source:      source,
		invalidator: invalidator,
	}
}

// Run fills an empty catalog, tops it up to minCount and swaps placeholder
// images for Fake Store data. Source failures are logged and worked around;
// only store failures are returned.
func (s *Seeder) Run(ctx context.Context, minCount int) error {
	if minCount <= 0 {
		minCount = DefaultMinProducts
	}

	remote, err := s.seedEmpty(ctx)
	if err != nil {
		return err
	}

	if err := s.topUp(ctx, minCount); err != nil {
		return err
	}

	if err := s.replacePlaceholders(ctx, remote); err != nil {
		return err
	}

	if s.invalidator != nil {
		if err := s.invalidator.Flush(ctx); err != nil {
			logger.Warn(ctx, "product cache flush after seeding failed", "error", err)
		}
	}
	return nil
}

// seedEmpty returns the remote catalog when it was fetched.
func (s *Seeder) seedEmpty(ctx context.Context) ([]domain.Product, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil, nil
	}

	remote, err := s.source.Products(ctx)
	if err != nil {
		logger.Warn(ctx, "fetching remote catalog failed, using fallback products", "error", err)
	}

	products := remote
	if len(products) == 0 {
		products = cloneProducts(fallbackProducts)
	}

	if err := s.store.InsertMany(ctx, products); err != nil {
		return nil, fmt.Errorf("failed to seed products: %w", err)
	}

	logger.Info(ctx, "product catalog seeded", "count", len(products), "remote", len(remote) > 0)
	return remote, nil
}

func (s *Seeder) topUp(ctx context.Context, minCount int) error {
	count, err := s.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count >= int64(minCount) {
		return nil
	}

	needed := min(minCount-int(count), len(topUpProducts))
	if err := s.store.InsertMany(ctx, cloneProducts(topUpProducts[:needed])); err != nil {
		return fmt.Errorf("failed to top up products: %w", err)
	}

	logger.Info(ctx, "product catalog topped up", "inserted", needed, "target", minCount)
	return nil
}

func (s *Seeder) replacePlaceholders(ctx context.Context, remote []domain.Product) error {
	stale, err := s.store.FindByImagePattern(ctx, placeholderImagePattern)
	if err != nil {
		return fmt.Errorf("failed to find placeholder images: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	if len(remote) == 0 {
		remote, err = s.source.Products(ctx)
		if err != nil {
			logger.Warn(ctx, "placeholder image replacement skipped", "error", err)
			return nil
		}
		if len(remote) == 0 {
			return nil
		}
	}

	var replaced int
	for i, p := range stale {
		err := s.store.Replace(ctx, p.ID, remote[i%len(remote)])
		if errors.Is(err, repository.ErrProductNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to replace product %s: %w", p.ID.Hex(), err)
		}
		replaced++
	}

	logger.Info(ctx, "placeholder products replaced", "replaced", replaced)
	return nil
}
