package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
)

type CheckoutProcessor interface {
	Checkout(ctx context.Context, cartID string, items []domain.CartItemView) (*domain.Receipt, error)
}

type CheckoutHandler struct {
	checkout CheckoutProcessor
	timeout  time.Duration
}

func NewCheckoutHandler(checkout CheckoutProcessor, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		timeout:  timeout,
	}
}

// POST /api/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CheckoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	receipt, err := h.checkout.Checkout(ctx, cartIDFromContext(ctx), req.snapshot())
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	respondJSON(w, http.StatusOK, receipt)
}
