package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryCartStore_Increment_NewItem(t *testing.T) {
	store := NewMemoryCartStore()
	ctx := context.Background()
	productID := primitive.NewObjectID()

	item, err := store.Increment(ctx, "cart-1", productID, 3, domain.MaxQuantity)
	require.NoError(t, err)

	assert.False(t, item.ID.IsZero())
	assert.Equal(t, "cart-1", item.CartID)
	assert.Equal(t, productID, item.ProductID)
	assert.Equal(t, 3, item.Quantity)
}

func TestMemoryCartStore_Increment_ExistingItem_KeepsSingleLine(t *testing.T) {
	store := NewMemoryCartStore()
	ctx := context.Background()
	productID := primitive.NewObjectID()

	first, err := store.Increment(ctx, "cart-1", productID, 2, domain.MaxQuantity)
	require.NoError(t, err)
	second, err := store.Increment(ctx, "cart-1", productID, 5, domain.MaxQuantity)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 7, second.Quantity)

	items, err := store.List(ctx, "cart-1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestMemoryCartStore_Increment_Caps(t *testing.T) {
	store := NewMemoryCartStore()
	ctx := context.Background()
	productID := primitive.NewObjectID()

	item, err := store.Increment(ctx, "cart-1", productID, 25, domain.MaxQuantity)
	require.NoError(t, err)
	assert.Equal(t, 20, item.Quantity)

	item, err = store.Increment(ctx, "cart-1", productID, 1, domain.MaxQuantity)
	require.NoError(t, err)
	assert.Equal(t, 20, item.Quantity)
}

func TestMemoryCartStore_Increment_Concurrent(t *testing.T) {
	tests := []struct {
		name    string
		callers int
		want    int
	}{
		{"below cap", 7, 7},
		{"above cap", 50, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryCartStore()
			ctx := context.Background()
			productID := primitive.NewObjectID()

			var wg sync.WaitGroup
			for i := 0; i < tt.callers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := store.Increment(ctx, "cart-1", productID, 1, domain.MaxQuantity)
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			items, err := store.List(ctx, "cart-1")
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, tt.want, items[0].Quantity)
		})
	}
}

func TestMemoryCartStore_SetQuantity(t *testing.T) {
	store := NewMemoryCartStore()
	ctx := context.Background()

	item, err := store.Increment(ctx, "cart-1", primitive.NewObjectID(), 2, domain.MaxQuantity)
	require.NoError(t, err)

	updated, err := store.SetQuantity(ctx, "cart-1", item.ID, 9)
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Quantity)

	_, err = store.SetQuantity(ctx, "cart-1", primitive.NewObjectID(), 9)
	assert.ErrorIs(t, err, ErrItemNotFound)

	// line items are invisible from other carts
	_, err = store.SetQuantity(ctx, "cart-2", item.ID, 9)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestMemoryCartStore_Remove_Twice(t *testing.T) {
	store := NewMemoryCartStore()
	ctx := context.Background()
	productID := primitive.NewObjectID()

	item, err := store.Increment(ctx, "cart-1", productID, 2, domain.MaxQuantity)
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, "cart-1", item.ID))
	assert.ErrorIs(t, store.Remove(ctx, "cart-1", item.ID), ErrItemNotFound)

	// the product can be added again as a fresh line item
	again, err := store.Increment(ctx, "cart-1", productID, 1, domain.MaxQuantity)
	require.NoError(t, err)
	assert.NotEqual(t, item.ID, again.ID)
	assert.Equal(t, 1, again.Quantity)
}

func TestMemoryCartStore_Clear_OnlyTargetCart(t *testing.T) {
	store := NewMemoryCartStore()
	ctx := context.Background()

	_, err := store.Increment(ctx, "cart-1", primitive.NewObjectID(), 1, domain.MaxQuantity)
	require.NoError(t, err)
	_, err = store.Increment(ctx, "cart-1", primitive.NewObjectID(), 1, domain.MaxQuantity)
	require.NoError(t, err)
	_, err = store.Increment(ctx, "cart-2", primitive.NewObjectID(), 1, domain.MaxQuantity)
	require.NoError(t, err)

	deleted, err := store.Clear(ctx, "cart-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	items, err := store.List(ctx, "cart-1")
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = store.List(ctx, "cart-2")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestMemoryCartStore_CancelledContext(t *testing.T) {
	store := NewMemoryCartStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.List(ctx, "cart-1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryProductStore(t *testing.T) {
	ctx := context.Background()
	headphones := domain.Product{ID: primitive.NewObjectID(), Name: "Wireless Headphones", Price: 99.99, Image: "https://images.unsplash.com/photo-1"}
	phone := domain.Product{ID: primitive.NewObjectID(), Name: "Smartphone", Price: 699.99, Image: "https://fakestoreapi.com/img/2.jpg"}
	store := NewMemoryProductStore(headphones, phone)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := store.FindByID(ctx, phone.ID)
	require.NoError(t, err)
	assert.Equal(t, "Smartphone", got.Name)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = store.FindByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrProductNotFound)

	stale, err := store.FindByImagePattern(ctx, `(images\.unsplash\.com|placehold\.co)`)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, headphones.ID, stale[0].ID)

	err = store.Replace(ctx, headphones.ID, domain.Product{Name: "Backpack", Price: 109.95, Image: "https://fakestoreapi.com/img/1.jpg"})
	require.NoError(t, err)

	got, err = store.FindByID(ctx, headphones.ID)
	require.NoError(t, err)
	assert.Equal(t, "Backpack", got.Name)
	assert.Equal(t, 109.95, got.Price)

	assert.ErrorIs(t, store.Replace(ctx, primitive.NewObjectID(), domain.Product{}), ErrProductNotFound)

	all, err := store.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
