package repository

import (
	"context"
	"errors"

	"github.com/fjod/go_storefront/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrItemNotFound    = errors.New("cart item not found")
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository is the read contract the cart core depends on.
type ProductRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
}

// CatalogRepository adds the writes needed by the catalog seeder.
type CatalogRepository interface {
	ProductRepository
	Count(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, products []domain.Product) error
	FindByImagePattern(ctx context.Context, pattern string) ([]domain.Product, error)
	Replace(ctx context.Context, id primitive.ObjectID, product domain.Product) error
}

// CartRepository stores line items. Each cart holds at most one line item
// per product.
type CartRepository interface {
	// Increment adds qty to the product's line item, creating it if needed,
	// and caps the result at max in the same atomic step.
	Increment(ctx context.Context, cartID string, productID primitive.ObjectID, qty, max int) (*domain.CartLineItem, error)
	SetQuantity(ctx context.Context, cartID string, id primitive.ObjectID, quantity int) (*domain.CartLineItem, error)
	Remove(ctx context.Context, cartID string, id primitive.ObjectID) error
	List(ctx context.Context, cartID string) ([]domain.CartLineItem, error)
	Clear(ctx context.Context, cartID string) (int64, error)
}
