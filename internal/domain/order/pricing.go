package order

import "math"

// TaxRate is the flat sales tax applied to the merchandise subtotal
const TaxRate = 0.08

// Totals is the price breakdown of an order, in cents
type Totals struct {
	SubtotalCents int64 `json:"subtotal_cents"`
	ShippingCents int64 `json:"shipping_cents"`
	TaxCents      int64 `json:"tax_cents"`
	TotalCents    int64 `json:"total_cents"`
}

// Tax returns the tax on subtotal rounded to the nearest cent
func Tax(subtotalCents int64) int64 {
	return int64(math.Round(float64(subtotalCents) * TaxRate))
}

// ComputeTotals prices an order. Shipping is not taxed.
func ComputeTotals(subtotalCents, shippingCents int64) Totals {
	tax := Tax(subtotalCents)
	return Totals{
		SubtotalCents: subtotalCents,
		ShippingCents: shippingCents,
		TaxCents:      tax,
		TotalCents:    subtotalCents + shippingCents + tax,
	}
}
