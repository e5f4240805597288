// Package pricing computes monetary totals for sale line items.
//
// Totals are rounded half-up to two decimal places. For the non-negative
// amounts used here decimal.Round (half away from zero) is exactly half-up.
package pricing

import "github.com/shopspring/decimal"

// Places is the monetary precision used for prices and totals.
const Places = 2

// ComputeTotal returns round(unitPrice * quantity, 2).
func ComputeTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(Places)
}

// NormalizePrice rounds a catalog price to monetary precision.
func NormalizePrice(price decimal.Decimal) decimal.Decimal {
	return price.Round(Places)
}
