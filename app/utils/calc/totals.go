package calc

import "github.com/shopspring/decimal"

// Totals is a priced order summary. All fields are exact; use Rounded for
// display so rounding never compounds between the parts and the total.
type Totals struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	DeliveryFee  decimal.Decimal `json:"deliveryFee"`
	CODSurcharge decimal.Decimal `json:"codSurcharge"`
	GrandTotal   decimal.Decimal `json:"grandTotal"`
}

func ComputeTotals(subtotal decimal.Decimal, cashOnDelivery bool, p Pricing) Totals {
	tax := CalculateTax(subtotal, p)
	deliveryFee := CalculateDeliveryFee(subtotal, p)
	surcharge := CalculateSurcharge(cashOnDelivery, p)

	return Totals{
		Subtotal:     subtotal,
		Tax:          tax,
		DeliveryFee:  deliveryFee,
		CODSurcharge: surcharge,
		GrandTotal:   CalculateGrandTotal(subtotal, tax, deliveryFee, surcharge),
	}
}

// Rounded rounds each field to the nearest rupee independently. GrandTotal
// is rounded from the exact sum, not re-added from rounded parts.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal:     t.Subtotal.Round(0),
		Tax:          t.Tax.Round(0),
		DeliveryFee:  t.DeliveryFee.Round(0),
		CODSurcharge: t.CODSurcharge.Round(0),
		GrandTotal:   t.GrandTotal.Round(0),
	}
}
