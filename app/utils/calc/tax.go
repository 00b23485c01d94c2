package calc

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Pricing holds the store's checkout rates. Amounts are in rupees.
type Pricing struct {
	TaxRate               decimal.Decimal
	FreeDeliveryThreshold decimal.Decimal
	DeliveryFee           decimal.Decimal
	CODSurcharge          decimal.Decimal
}

func DefaultPricing() Pricing {
	return Pricing{
		TaxRate:               decimal.RequireFromString("0.05"),
		FreeDeliveryThreshold: decimal.NewFromInt(500),
		DeliveryFee:           decimal.NewFromInt(49),
		CODSurcharge:          decimal.NewFromInt(29),
	}
}

// IsZero reports whether no rate at all has been configured.
func (p Pricing) IsZero() bool {
	return p.TaxRate.IsZero() && p.FreeDeliveryThreshold.IsZero() &&
		p.DeliveryFee.IsZero() && p.CODSurcharge.IsZero()
}

func (p Pricing) TaxPercent() decimal.Decimal {
	return p.TaxRate.Mul(hundred)
}

func CalculateTax(subtotal decimal.Decimal, p Pricing) decimal.Decimal {
	return subtotal.Mul(p.TaxRate)
}

// CalculateDeliveryFee waives the fee once the subtotal reaches the
// threshold (inclusive).
func CalculateDeliveryFee(subtotal decimal.Decimal, p Pricing) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(p.FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return p.DeliveryFee
}

func CalculateSurcharge(cashOnDelivery bool, p Pricing) decimal.Decimal {
	if cashOnDelivery {
		return p.CODSurcharge
	}
	return decimal.Zero
}

func CalculateGrandTotal(subtotal, taxAmount, deliveryFee, surcharge decimal.Decimal) decimal.Decimal {
	return subtotal.Add(taxAmount).Add(deliveryFee).Add(surcharge)
}
