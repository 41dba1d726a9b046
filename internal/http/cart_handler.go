package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/go-chi/chi/v5"
)

type CartManager interface {
	AddOrIncrement(ctx context.Context, cartID, productID string, qty float64) (*domain.CartItemView, error)
	SetQuantity(ctx context.Context, cartID, lineItemID string, q float64) (*domain.CartItemView, error)
	Remove(ctx context.Context, cartID, lineItemID string) error
	GetCart(ctx context.Context, cartID string) (*domain.CartView, error)
}

type CartHandler struct {
	carts   CartManager
	timeout time.Duration
}

func NewCartHandler(carts CartManager, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		timeout: timeout,
	}
}

// GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cart, err := h.carts.GetCart(ctx, cartIDFromContext(ctx))
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

// POST /api/cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.carts.AddOrIncrement(ctx, cartIDFromContext(ctx), req.ProductID, req.quantity())
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// PUT /api/cart/{id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateQuantityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.carts.SetQuantity(ctx, cartIDFromContext(ctx), chi.URLParam(r, "id"), float64(*req.Quantity))
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// DELETE /api/cart/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.carts.Remove(ctx, cartIDFromContext(ctx), chi.URLParam(r, "id")); err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	respondJSON(w, http.StatusOK, MessageResponse{Message: "Item removed from cart"})
}
