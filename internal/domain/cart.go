package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MinQuantity = 1
	MaxQuantity = 20

	// DefaultCartID is used when a request does not name a cart.
	DefaultCartID = "default"
)

// CartLineItem is one product+quantity pairing stored in a cart.
type CartLineItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CartID    string             `bson:"cart_id" json:"-"`
	ProductID primitive.ObjectID `bson:"product_id" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// CartItemView is a line item joined with its product.
type CartItemView struct {
	ID       primitive.ObjectID `json:"id"`
	Product  Product            `json:"product"`
	Quantity int                `json:"quantity"`
}

type CartView struct {
	Items []CartItemView `json:"items"`
	Total float64        `json:"total"`
}

// ClampQuantity forces q into [MinQuantity, MaxQuantity].
func ClampQuantity(q int) int {
	if q < MinQuantity {
		return MinQuantity
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}

// NewItemView joins a line item with its product.
func NewItemView(item CartLineItem, product Product) CartItemView {
	return CartItemView{
		ID:       item.ID,
		Product:  product,
		Quantity: item.Quantity,
	}
}
