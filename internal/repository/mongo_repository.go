package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const cartItemsCollection = "cart_items"

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) CartRepository {
	return &mongoRepository{
		collection: db.Collection(cartItemsCollection),
	}
}

func (m *mongoRepository) Increment(
	ctx context.Context,
	cartID string,
	productID primitive.ObjectID,
	qty, maxQty int) (*domain.CartLineItem, error) {

	item, err := m.increment(ctx, cartID, productID, qty, maxQty)
	// Two concurrent upserts for a new product can both miss the filter;
	// the unique index rejects the loser, whose retry then matches.
	if mongo.IsDuplicateKeyError(err) {
		item, err = m.increment(ctx, cartID, productID, qty, maxQty)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to increment item: %w", err)
	}

	return item, nil
}

func (m *mongoRepository) increment(
	ctx context.Context,
	cartID string,
	productID primitive.ObjectID,
	qty, maxQty int) (*domain.CartLineItem, error) {

	now := time.Now().UTC()
	filter := bson.M{"cart_id": cartID, "product_id": productID}

	// quantity = min(ifNull(quantity, 0) + qty, maxQty), evaluated server side
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "quantity", Value: bson.D{{Key: "$min", Value: bson.A{
				bson.D{{Key: "$add", Value: bson.A{
					bson.D{{Key: "$ifNull", Value: bson.A{"$quantity", 0}}},
					qty,
				}}},
				maxQty,
			}}}},
			{Key: "created_at", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$created_at", now}}}},
			{Key: "updated_at", Value: now},
		}}},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var item domain.CartLineItem
	if err := m.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&item); err != nil {
		return nil, err
	}

	return &item, nil
}

func (m *mongoRepository) SetQuantity(
	ctx context.Context,
	cartID string,
	id primitive.ObjectID,
	quantity int) (*domain.CartLineItem, error) {

	filter := bson.M{"_id": id, "cart_id": cartID}
	update := bson.M{
		"$set": bson.M{
			"quantity":   quantity,
			"updated_at": time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item domain.CartLineItem
	err := m.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to update item quantity: %w", err)
	}

	return &item, nil
}

func (m *mongoRepository) Remove(ctx context.Context, cartID string, id primitive.ObjectID) error {
	filter := bson.M{"_id": id, "cart_id": cartID}

	result, err := m.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to remove item: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (m *mongoRepository) List(ctx context.Context, cartID string) ([]domain.CartLineItem, error) {
	filter := bson.M{"cart_id": cartID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}

	items := make([]domain.CartLineItem, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}

	return items, nil
}

func (m *mongoRepository) Clear(ctx context.Context, cartID string) (int64, error) {
	result, err := m.collection.DeleteMany(ctx, bson.M{"cart_id": cartID})
	if err != nil {
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}

	return result.DeletedCount, nil
}
