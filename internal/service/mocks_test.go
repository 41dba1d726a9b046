package service

import (
	"context"
	"errors"
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStorage = errors.New("connection reset by peer")

// failingCartRepo fails every call with err.
type failingCartRepo struct {
	err error
}

func (m *failingCartRepo) Increment(context.Context, string, primitive.ObjectID, int, int) (*domain.CartLineItem, error) {
	return nil, m.err
}

func (m *failingCartRepo) SetQuantity(context.Context, string, primitive.ObjectID, int) (*domain.CartLineItem, error) {
	return nil, m.err
}

func (m *failingCartRepo) Remove(context.Context, string, primitive.ObjectID) error {
	return m.err
}

func (m *failingCartRepo) List(context.Context, string) ([]domain.CartLineItem, error) {
	return nil, m.err
}

func (m *failingCartRepo) Clear(context.Context, string) (int64, error) {
	return 0, m.err
}

// failingProductRepo fails every call with err.
type failingProductRepo struct {
	err error
}

func (m *failingProductRepo) FindByID(context.Context, primitive.ObjectID) (*domain.Product, error) {
	return nil, m.err
}

func (m *failingProductRepo) FindAll(context.Context) ([]domain.Product, error) {
	return nil, m.err
}

type mockPublisher struct {
	m        sync.Mutex
	receipts []*domain.Receipt
	cartIDs  []string
	ctxErr   error
	err      error
}

func (m *mockPublisher) PublishCheckoutCompleted(ctx context.Context, cartID string, receipt *domain.Receipt) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.ctxErr = ctx.Err()
	m.receipts = append(m.receipts, receipt)
	m.cartIDs = append(m.cartIDs, cartID)
	return m.err
}

var (
	_ repository.CartRepository    = (*failingCartRepo)(nil)
	_ repository.ProductRepository = (*failingProductRepo)(nil)
)
