package service

import (
	"context"
	"errors"
	"math"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/repository"
	"github.com/fjod/go_storefront/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
	}
}

// AddOrIncrement adds qty of a product to the cart, or raises the existing
// line item by qty. The result never exceeds domain.MaxQuantity.
func (s *CartService) AddOrIncrement(
	ctx context.Context,
	cartID, productID string,
	qty float64) (*domain.CartItemView, error) {

	if math.IsNaN(qty) || math.IsInf(qty, 0) || qty < domain.MinQuantity {
		return nil, ErrInvalidQuantity
	}

	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, ErrInvalidProduct
	}

	product, err := s.products.FindByID(ctx, pid)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, internalError(ctx, "find product", err)
	}

	item, err := s.carts.Increment(ctx, cartOrDefault(cartID), pid, truncate(qty), domain.MaxQuantity)
	if err != nil {
		return nil, internalError(ctx, "increment cart item", err)
	}

	logger.Debug(ctx, "cart item incremented",
		"cart_id", item.CartID, "item_id", item.ID.Hex(), "quantity", item.Quantity)

	view := domain.NewItemView(*item, *product)
	return &view, nil
}

// SetQuantity stores q clamped to [MinQuantity, MaxQuantity]. Values below
// the minimum keep the item; removal is a separate call.
func (s *CartService) SetQuantity(
	ctx context.Context,
	cartID, lineItemID string,
	q float64) (*domain.CartItemView, error) {

	if math.IsNaN(q) || math.IsInf(q, 0) {
		return nil, ErrInvalidQuantity
	}

	id, err := primitive.ObjectIDFromHex(lineItemID)
	if err != nil {
		return nil, ErrItemNotFound
	}

	item, err := s.carts.SetQuantity(ctx, cartOrDefault(cartID), id, domain.ClampQuantity(truncate(q)))
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, internalError(ctx, "set cart item quantity", err)
	}

	product, err := s.products.FindByID(ctx, item.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, internalError(ctx, "find product", err)
	}

	view := domain.NewItemView(*item, *product)
	return &view, nil
}

func (s *CartService) Remove(ctx context.Context, cartID, lineItemID string) error {
	id, err := primitive.ObjectIDFromHex(lineItemID)
	if err != nil {
		return ErrItemNotFound
	}

	if err := s.carts.Remove(ctx, cartOrDefault(cartID), id); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return ErrItemNotFound
		}
		return internalError(ctx, "remove cart item", err)
	}
	return nil
}

// GetCart joins the cart with the current catalog and recomputes the total.
// Items whose product no longer exists are left out.
func (s *CartService) GetCart(ctx context.Context, cartID string) (*domain.CartView, error) {
	items, err := s.carts.List(ctx, cartOrDefault(cartID))
	if err != nil {
		return nil, internalError(ctx, "list cart items", err)
	}

	view := &domain.CartView{Items: make([]domain.CartItemView, 0, len(items))}
	if len(items) == 0 {
		return view, nil
	}

	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, internalError(ctx, "list products", err)
	}

	byID := make(map[primitive.ObjectID]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			logger.Warn(ctx, "cart item references missing product",
				"item_id", item.ID.Hex(), "product_id", item.ProductID.Hex())
			continue
		}
		view.Items = append(view.Items, domain.NewItemView(item, product))
	}

	view.Total = total(view.Items)
	return view, nil
}

func cartOrDefault(cartID string) string {
	if cartID == "" {
		return domain.DefaultCartID
	}
	return cartID
}

// truncate drops the fractional part and bounds q so the int conversion
// cannot overflow.
func truncate(q float64) int {
	q = math.Trunc(q)
	if q > domain.MaxQuantity {
		return domain.MaxQuantity
	}
	if q < -domain.MaxQuantity {
		return -domain.MaxQuantity
	}
	return int(q)
}
