package service

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/repository"
	"github.com/fjod/go_storefront/pkg/logger"
)

const publishTimeout = 5 * time.Second

var (
	receiptIDMin   = big.NewInt(100_000_000_000)
	receiptIDRange = big.NewInt(900_000_000_000)
)

// EventPublisher receives completed checkouts.
type EventPublisher interface {
	PublishCheckoutCompleted(ctx context.Context, cartID string, receipt *domain.Receipt) error
}

type CheckoutService struct {
	carts     repository.CartRepository
	publisher EventPublisher
	newID     func() (string, error)
	now       func() time.Time
}

// NewCheckoutService builds the service. publisher may be nil.
func NewCheckoutService(carts repository.CartRepository, publisher EventPublisher) *CheckoutService {
	return &CheckoutService{
		carts:     carts,
		publisher: publisher,
		newID:     newReceiptID,
		now:       time.Now,
	}
}

// Checkout totals the supplied snapshot, empties the whole cart and returns
// a completed receipt. The snapshot is trusted as given; the live cart is
// not re-read. On failure the cart is left untouched.
func (s *CheckoutService) Checkout(
	ctx context.Context,
	cartID string,
	items []domain.CartItemView) (*domain.Receipt, error) {

	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	cartID = cartOrDefault(cartID)
	amount := total(items)

	id, err := s.newID()
	if err != nil {
		return nil, internalError(ctx, "generate receipt id", err)
	}

	cleared, err := s.carts.Clear(ctx, cartID)
	if err != nil {
		return nil, internalError(ctx, "clear cart", err)
	}

	snapshot := make([]domain.CartItemView, len(items))
	copy(snapshot, items)

	receipt := &domain.Receipt{
		ID:        id,
		Items:     snapshot,
		Total:     amount,
		Timestamp: s.now().UTC(),
		Status:    domain.ReceiptStatusCompleted,
	}

	logger.Info(ctx, "checkout completed",
		"cart_id", cartID, "receipt_id", receipt.ID, "total", receipt.Total, "cleared_items", cleared)

	s.publish(ctx, cartID, receipt)
	return receipt, nil
}

// publish is best effort and outlives a cancelled request.
func (s *CheckoutService) publish(ctx context.Context, cartID string, receipt *domain.Receipt) {
	if s.publisher == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.PublishCheckoutCompleted(pubCtx, cartID, receipt); err != nil {
		logger.Warn(ctx, "publish checkout event failed", "receipt_id", receipt.ID, "error", err)
	}
}

// newReceiptID returns a uniform 12-digit decimal string.
func newReceiptID() (string, error) {
	n, err := rand.Int(rand.Reader, receiptIDRange)
	if err != nil {
		return "", err
	}
	return n.Add(n, receiptIDMin).String(), nil
}
