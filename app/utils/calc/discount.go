package calc

import "github.com/shopspring/decimal"

// DiscountPercent returns round((mrp-price)/mrp*100). A zero or negative
// MRP yields 0.
func DiscountPercent(price, mrp decimal.Decimal) int64 {
	if !mrp.IsPositive() {
		return 0
	}
	return mrp.Sub(price).Div(mrp).Mul(hundred).Round(0).IntPart()
}
