package utils

import "github.com/shopspring/decimal"

// Round2 rounds a monetary amount to 2 decimal places.
func Round2(x decimal.Decimal) decimal.Decimal {
	return x.Round(2)
}

// Money renders an amount at the two-decimal display precision used on
// bills and invoices.
func Money(x decimal.Decimal) string {
	return x.StringFixed(2)
}
