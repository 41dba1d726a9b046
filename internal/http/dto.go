package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/fjod/go_storefront/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errQuantityNotNumeric = errors.New("quantity must be a number")

// Quantity accepts a JSON number or a string holding one.
type Quantity float64

func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errQuantityNotNumeric
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errQuantityNotNumeric
		}
		raw = strings.TrimSpace(s)
	} else if data[0] != '-' && (data[0] < '0' || data[0] > '9') {
		// true, false, objects and arrays
		return errQuantityNotNumeric
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return errQuantityNotNumeric
	}
	*q = Quantity(v)
	return nil
}

// AddItemRequest is the body of POST /cart. A missing or null quantity
// means one.
type AddItemRequest struct {
	ProductID string    `json:"productId" validate:"required"`
	Quantity  *Quantity `json:"quantity"`
}

func (r AddItemRequest) quantity() float64 {
	if r.Quantity == nil {
		return 1
	}
	return float64(*r.Quantity)
}

type UpdateQuantityRequest struct {
	Quantity *Quantity `json:"quantity" validate:"required"`
}

type CheckoutProductDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price" validate:"gte=0"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
}

type CheckoutItemDTO struct {
	ID       string             `json:"id"`
	Product  CheckoutProductDTO `json:"product"`
	Quantity int                `json:"quantity" validate:"gte=1,lte=20"`
}

// CheckoutRequest carries the caller's copy of the cart.
type CheckoutRequest struct {
	CartItems []CheckoutItemDTO `json:"cartItems" validate:"dive"`
}

// snapshot converts the request items. Ids that do not parse are left zero;
// they are echoed on the receipt and never looked up.
func (r CheckoutRequest) snapshot() []domain.CartItemView {
	items := make([]domain.CartItemView, 0, len(r.CartItems))
	for _, item := range r.CartItems {
		itemID, _ := primitive.ObjectIDFromHex(item.ID)
		productID, _ := primitive.ObjectIDFromHex(item.Product.ID)

		items = append(items, domain.CartItemView{
			ID: itemID,
			Product: domain.Product{
				ID:          productID,
				Name:        item.Product.Name,
				Price:       item.Product.Price,
				Image:       item.Product.Image,
				Description: item.Product.Description,
				Category:    item.Product.Category,
			},
			Quantity: item.Quantity,
		})
	}
	return items
}
