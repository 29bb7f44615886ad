package order

import "fmt"

// ShippingMethod is a delivery option offered at checkout
type ShippingMethod struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PriceCents  int64  `json:"price_cents"`
	MinDays     int    `json:"min_days"`
	MaxDays     int    `json:"max_days"`
}

// EstimatedDays renders the delivery window, e.g. "5-7 business days"
func (m ShippingMethod) EstimatedDays() string {
	switch {
	case m.MinDays == m.MaxDays && m.MaxDays == 1:
		return "1 business day"
	case m.MinDays == m.MaxDays || m.MinDays <= 0:
		return fmt.Sprintf("%d business days", m.MaxDays)
	}
	return fmt.Sprintf("%d-%d business days", m.MinDays, m.MaxDays)
}

const (
	ShippingStandard  = "standard"
	ShippingExpress   = "express"
	ShippingOvernight = "overnight"
)

var shippingMethods = []ShippingMethod{
	{ID: ShippingStandard, Name: "Standard Shipping", Description: "Regular delivery", PriceCents: 1500, MinDays: 5, MaxDays: 7},
	{ID: ShippingExpress, Name: "Express Shipping", Description: "Faster delivery", PriceCents: 2500, MinDays: 2, MaxDays: 3},
	{ID: ShippingOvernight, Name: "Overnight Shipping", Description: "Next day delivery", PriceCents: 4500, MinDays: 1, MaxDays: 1},
}

// ShippingMethods returns the offered delivery options, cheapest first
func ShippingMethods() []ShippingMethod {
	return append([]ShippingMethod(nil), shippingMethods...)
}

// LookupShippingMethod finds an offered method by id
func LookupShippingMethod(id string) (ShippingMethod, bool) {
	for _, m := range shippingMethods {
		if m.ID == id {
			return m, true
		}
	}
	return ShippingMethod{}, false
}

// DefaultShippingMethod is preselected on a fresh checkout
func DefaultShippingMethod() ShippingMethod {
	m, _ := LookupShippingMethod(ShippingStandard)
	return m
}
