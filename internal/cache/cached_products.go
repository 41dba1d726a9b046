package cache

import (
	"context"
	"errors"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/repository"
	"github.com/fjod/go_storefront/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"
)

const setTimeout = time.Second

// CachedProductStore is a cache-aside decorator over a product repository.
// Cache failures are logged and fall through to the repository.
type CachedProductStore struct {
	repo  repository.ProductRepository
	cache ProductCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewCachedProductStore(repo repository.ProductRepository, cache ProductCache) *CachedProductStore {
	return &CachedProductStore{
		repo:  repo,
		cache: cache,
	}
}

func (s *CachedProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	key := id.Hex()
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		product, err := s.cache.Get(ctx, key)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			logger.Warn(ctx, "product cache get failed", "product_id", key, "error", err)
		}

		product, err = s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}

		go func(p domain.Product) {
			setCtx, cancel := context.WithTimeout(context.Background(), setTimeout)
			defer cancel()
			if errSet := s.cache.Set(setCtx, &p); errSet != nil {
				logger.Warn(setCtx, "product cache set failed", "product_id", key, "error", errSet)
			}
		}(*product)

		return product, nil
	})
	if err != nil {
		return nil, err
	}

	product := *v.(*domain.Product)
	return &product, nil
}

func (s *CachedProductStore) FindAll(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := s.sfg.Do(allProductsKey, func() (interface{}, error) {
		products, err := s.cache.GetAll(ctx)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			logger.Warn(ctx, "product list cache get failed", "error", err)
		}

		products, err = s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}

		go func(ps []domain.Product) {
			setCtx, cancel := context.WithTimeout(context.Background(), setTimeout)
			defer cancel()
			if errSet := s.cache.SetAll(setCtx, ps); errSet != nil {
				logger.Warn(setCtx, "product list cache set failed", "error", errSet)
			}
		}(products)

		return products, nil
	})
	if err != nil {
		return nil, err
	}

	shared := v.([]domain.Product)
	products := make([]domain.Product, len(shared))
	copy(products, shared)
	return products, nil
}

// Flush drops all cached products.
func (s *CachedProductStore) Flush(ctx context.Context) error {
	return s.cache.Flush(ctx)
}
