package repository

import (
	"context"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryCartStore implements CartRepository with in-memory storage.
// Every mutation runs under the write lock, so read-modify-write on a
// line item is atomic.
type MemoryCartStore struct {
	mu        sync.RWMutex
	items     map[primitive.ObjectID]*domain.CartLineItem // line item ID -> item
	byProduct map[cartProductKey]primitive.ObjectID       // (cart, product) -> line item ID
}

type cartProductKey struct {
	cartID    string
	productID primitive.ObjectID
}

// NewMemoryCartStore creates an empty in-memory cart store
func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{
		items:     make(map[primitive.ObjectID]*domain.CartLineItem),
		byProduct: make(map[cartProductKey]primitive.ObjectID),
	}
}

func (s *MemoryCartStore) Increment(
	ctx context.Context,
	cartID string,
	productID primitive.ObjectID,
	qty, maxQty int) (*domain.CartLineItem, error) {

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	key := cartProductKey{cartID: cartID, productID: productID}

	if id, exists := s.byProduct[key]; exists {
		item := s.items[id]
		item.Quantity = min(item.Quantity+qty, maxQty)
		item.UpdatedAt = now
		result := *item
		return &result, nil
	}

	item := &domain.CartLineItem{
		ID:        primitive.NewObjectID(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  min(qty, maxQty),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.items[item.ID] = item
	s.byProduct[key] = item.ID

	result := *item
	return &result, nil
}

func (s *MemoryCartStore) SetQuantity(
	ctx context.Context,
	cartID string,
	id primitive.ObjectID,
	quantity int) (*domain.CartLineItem, error) {

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[id]
	if !exists || item.CartID != cartID {
		return nil, ErrItemNotFound
	}

	item.Quantity = quantity
	item.UpdatedAt = time.Now().UTC()

	result := *item
	return &result, nil
}

func (s *MemoryCartStore) Remove(ctx context.Context, cartID string, id primitive.ObjectID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[id]
	if !exists || item.CartID != cartID {
		return ErrItemNotFound
	}

	delete(s.items, id)
	delete(s.byProduct, cartProductKey{cartID: cartID, productID: item.ProductID})
	return nil
}

func (s *MemoryCartStore) List(ctx context.Context, cartID string) ([]domain.CartLineItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.CartLineItem, 0)
	for _, item := range s.items {
		if item.CartID == cartID {
			result = append(result, *item)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID.Hex() < result[j].ID.Hex()
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *MemoryCartStore) Clear(ctx context.Context, cartID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, item := range s.items {
		if item.CartID != cartID {
			continue
		}
		delete(s.items, id)
		delete(s.byProduct, cartProductKey{cartID: cartID, productID: item.ProductID})
		deleted++
	}
	return deleted, nil
}

// MemoryProductStore implements CatalogRepository with in-memory storage
type MemoryProductStore struct {
	mu       sync.RWMutex
	products map[primitive.ObjectID]*domain.Product
}

// NewMemoryProductStore creates a product store holding the given products
func NewMemoryProductStore(products ...domain.Product) *MemoryProductStore {
	s := &MemoryProductStore{
		products: make(map[primitive.ObjectID]*domain.Product),
	}
	_ = s.InsertMany(context.Background(), products)
	return s
}

func (s *MemoryProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	result := *p
	return &result, nil
}

func (s *MemoryProductStore) FindAll(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sorted(func(domain.Product) bool { return true }), nil
}

func (s *MemoryProductStore) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.products)), nil
}

func (s *MemoryProductStore) InsertMany(ctx context.Context, products []domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for _, p := range products {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		s.products[p.ID] = &p
	}
	return nil
}

func (s *MemoryProductStore) FindByImagePattern(ctx context.Context, pattern string) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sorted(func(p domain.Product) bool { return re.MatchString(p.Image) }), nil
}

func (s *MemoryProductStore) Replace(ctx context.Context, id primitive.ObjectID, product domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.products[id]
	if !exists {
		return ErrProductNotFound
	}

	existing.Name = product.Name
	existing.Price = product.Price
	existing.Image = product.Image
	existing.Description = product.Description
	existing.Category = product.Category
	return nil
}

// sorted returns matching products ordered by ID; callers hold the lock.
func (s *MemoryProductStore) sorted(match func(domain.Product) bool) []domain.Product {
	result := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if match(*p) {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID.Hex() < result[j].ID.Hex()
	})
	return result
}
