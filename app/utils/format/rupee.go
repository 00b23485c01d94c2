package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var inr = accounting.Accounting{Symbol: "₹", Precision: 0, Thousand: ",", Decimal: "."}

// FormatRupee renders an amount rounded to the nearest rupee, e.g. "₹1,079".
func FormatRupee(amount decimal.Decimal) string {
	return inr.FormatMoneyDecimal(amount.Round(0))
}

// FormatRupeeExact keeps paise, e.g. "₹7.45".
func FormatRupeeExact(amount decimal.Decimal) string {
	exact := accounting.Accounting{Symbol: "₹", Precision: 2, Thousand: ",", Decimal: "."}
	return exact.FormatMoneyDecimal(amount)
}
