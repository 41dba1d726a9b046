package service

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	headphones = domain.Product{ID: primitive.NewObjectID(), Name: "Wireless Headphones", Price: 99.99, Category: "Electronics"}
	smartphone = domain.Product{ID: primitive.NewObjectID(), Name: "Smartphone", Price: 699.99, Category: "Electronics"}
)

func newTestCartService() (*CartService, *repository.MemoryCartStore, *repository.MemoryProductStore) {
	carts := repository.NewMemoryCartStore()
	products := repository.NewMemoryProductStore(headphones, smartphone)
	return NewCartService(carts, products), carts, products
}

func TestAddOrIncrement_EmptyCart(t *testing.T) {
	tests := []struct {
		name string
		qty  float64
		want int
	}{
		{"one", 1, 1},
		{"several", 7, 7},
		{"at cap", 20, 20},
		{"above cap", 25, 20},
		{"huge", 1e300, 20},
		{"fraction truncated", 2.9, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestCartService()

			view, err := svc.AddOrIncrement(context.Background(), "", headphones.ID.Hex(), tt.qty)
			require.NoError(t, err)
			assert.Equal(t, tt.want, view.Quantity)
			assert.Equal(t, headphones.Name, view.Product.Name)
			assert.False(t, view.ID.IsZero())
		})
	}
}

func TestAddOrIncrement_ExistingItem(t *testing.T) {
	tests := []struct {
		name     string
		existing float64
		qty      float64
		want     int
	}{
		{"sum below cap", 3, 4, 7},
		{"sum at cap", 19, 1, 20},
		{"sum above cap", 18, 5, 20},
		{"already capped", 20, 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestCartService()
			ctx := context.Background()

			first, err := svc.AddOrIncrement(ctx, "", headphones.ID.Hex(), tt.existing)
			require.NoError(t, err)

			second, err := svc.AddOrIncrement(ctx, "", headphones.ID.Hex(), tt.qty)
			require.NoError(t, err)

			assert.Equal(t, first.ID, second.ID)
			assert.Equal(t, tt.want, second.Quantity)
			assert.GreaterOrEqual(t, second.Quantity, first.Quantity)

			cart, err := svc.GetCart(ctx, "")
			require.NoError(t, err)
			assert.Len(t, cart.Items, 1)
		})
	}
}

func TestAddOrIncrement_InvalidInput(t *testing.T) {
	svc, _, _ := newTestCartService()
	ctx := context.Background()

	tests := []struct {
		name      string
		productID string
		qty       float64
		code      codes.Code
	}{
		{"zero quantity", headphones.ID.Hex(), 0, codes.InvalidArgument},
		{"negative quantity", headphones.ID.Hex(), -3, codes.InvalidArgument},
		{"fraction below one", headphones.ID.Hex(), 0.5, codes.InvalidArgument},
		{"NaN", headphones.ID.Hex(), math.NaN(), codes.InvalidArgument},
		{"infinity", headphones.ID.Hex(), math.Inf(1), codes.InvalidArgument},
		{"empty product id", "", 1, codes.InvalidArgument},
		{"malformed product id", "not-an-id", 1, codes.InvalidArgument},
		{"unknown product", primitive.NewObjectID().Hex(), 1, codes.NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddOrIncrement(ctx, "", tt.productID, tt.qty)
			require.Error(t, err)
			assert.Equal(t, tt.code, status.Code(err))
		})
	}

	cart, err := svc.GetCart(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestAddOrIncrement_ConcurrentNoLostUpdates(t *testing.T) {
	tests := []struct {
		callers int
		want    int
	}{
		{10, 10},
		{20, 20},
		{64, 20},
	}

	for _, tt := range tests {
		svc, _, _ := newTestCartService()
		ctx := context.Background()

		var wg sync.WaitGroup
		for i := 0; i < tt.callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.AddOrIncrement(ctx, "", smartphone.ID.Hex(), 1)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		cart, err := svc.GetCart(ctx, "")
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, tt.want, cart.Items[0].Quantity)
	}
}

func TestSetQuantity_Clamps(t *testing.T) {
	tests := []struct {
		name string
		q    float64
		want int
	}{
		{"zero raised to one", 0, 1},
		{"negative raised to one", -4, 1},
		{"above cap", 25, 20},
		{"in range", 5, 5},
		{"fraction truncated", 5.7, 5},
		{"huge negative", -1e300, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestCartService()
			ctx := context.Background()

			added, err := svc.AddOrIncrement(ctx, "", headphones.ID.Hex(), 3)
			require.NoError(t, err)

			view, err := svc.SetQuantity(ctx, "", added.ID.Hex(), tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, view.Quantity)
			assert.Equal(t, headphones.ID, view.Product.ID)
		})
	}
}

func TestSetQuantity_Errors(t *testing.T) {
	svc, _, _ := newTestCartService()
	ctx := context.Background()

	added, err := svc.AddOrIncrement(ctx, "", headphones.ID.Hex(), 3)
	require.NoError(t, err)

	_, err = svc.SetQuantity(ctx, "", added.ID.Hex(), math.NaN())
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = svc.SetQuantity(ctx, "", primitive.NewObjectID().Hex(), 3)
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = svc.SetQuantity(ctx, "", "garbage", 3)
	assert.Equal(t, codes.NotFound, status.Code(err))

	// another cart cannot see the item
	_, err = svc.SetQuantity(ctx, "cart-2", added.ID.Hex(), 3)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestRemove_RepeatedFailsWithNotFound(t *testing.T) {
	svc, _, _ := newTestCartService()
	ctx := context.Background()

	added, err := svc.AddOrIncrement(ctx, "", headphones.ID.Hex(), 2)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, "", added.ID.Hex()))

	err = svc.Remove(ctx, "", added.ID.Hex())
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.Equal(t, codes.NotFound, status.Code(err))

	assert.Equal(t, codes.NotFound, status.Code(svc.Remove(ctx, "", "nope")))
}

func TestGetCart_Total(t *testing.T) {
	svc, _, _ := newTestCartService()
	ctx := context.Background()

	_, err := svc.AddOrIncrement(ctx, "", headphones.ID.Hex(), 2)
	require.NoError(t, err)
	_, err = svc.AddOrIncrement(ctx, "", smartphone.ID.Hex(), 1)
	require.NoError(t, err)

	cart, err := svc.GetCart(ctx, "")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 899.97, cart.Total)
}

func TestGetCart_EmptyCart(t *testing.T) {
	svc, _, _ := newTestCartService()

	cart, err := svc.GetCart(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)
}

func TestGetCart_SkipsMissingProducts(t *testing.T) {
	carts := repository.NewMemoryCartStore()
	products := repository.NewMemoryProductStore(headphones)
	svc := NewCartService(carts, products)
	ctx := context.Background()

	_, err := carts.Increment(ctx, domain.DefaultCartID, primitive.NewObjectID(), 4, domain.MaxQuantity)
	require.NoError(t, err)
	_, err = svc.AddOrIncrement(ctx, "", headphones.ID.Hex(), 1)
	require.NoError(t, err)

	cart, err := svc.GetCart(ctx, "")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 99.99, cart.Total)
}

func TestGetCart_ScopedByCartID(t *testing.T) {
	svc, _, _ := newTestCartService()
	ctx := context.Background()

	_, err := svc.AddOrIncrement(ctx, "alice", headphones.ID.Hex(), 1)
	require.NoError(t, err)

	cart, err := svc.GetCart(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	cart, err = svc.GetCart(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCartService_StorageFailureIsInternal(t *testing.T) {
	ctx := context.Background()

	svc := NewCartService(&failingCartRepo{err: errStorage}, repository.NewMemoryProductStore(headphones))

	_, err := svc.AddOrIncrement(ctx, "", headphones.ID.Hex(), 1)
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.NotContains(t, err.Error(), errStorage.Error())

	_, err = svc.SetQuantity(ctx, "", primitive.NewObjectID().Hex(), 1)
	assert.Equal(t, codes.Internal, status.Code(err))

	assert.Equal(t, codes.Internal, status.Code(svc.Remove(ctx, "", primitive.NewObjectID().Hex())))

	_, err = svc.GetCart(ctx, "")
	assert.Equal(t, codes.Internal, status.Code(err))

	svc = NewCartService(repository.NewMemoryCartStore(), &failingProductRepo{err: errStorage})
	_, err = svc.AddOrIncrement(ctx, "", headphones.ID.Hex(), 1)
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestCartService_ContextErrorKeepsCode(t *testing.T) {
	svc := NewCartService(&failingCartRepo{err: context.DeadlineExceeded}, repository.NewMemoryProductStore())

	_, err := svc.GetCart(context.Background(), "")
	assert.Equal(t, codes.DeadlineExceeded, status.Code(err))
}
