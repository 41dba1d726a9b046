package service

import (
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// total returns round(Σ price×quantity, 2).
func total(items []domain.CartItemView) float64 {
	sum := decimal.Zero
	for _, item := range items {
		price := decimal.NewFromFloat(item.Product.Price)
		sum = sum.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	f, _ := sum.Round(2).Float64()
	return f
}
