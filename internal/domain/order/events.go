package order

import (
	"strings"
	"time"
)

const EventOrderPlaced = "OrderPlaced"

type OrderPlaced struct {
	OrderID      string       `json:"order_id"`
	UserID       string       `json:"user_id"`
	Email        string       `json:"email"`
	CustomerName string       `json:"customer_name"`
	Items        []PlacedItem `json:"items"`
	Totals
	ShippingMethod    string       `json:"shipping_method"`
	ShippingAddress   ShippingInfo `json:"shipping_address"`
	PlacedAt          time.Time    `json:"placed_at"`
	EstimatedDelivery time.Time    `json:"estimated_delivery"`
}

type PlacedItem struct {
	ProductID      string `json:"product_id"`
	Title          string `json:"title"`
	Size           string `json:"size"`
	Color          string `json:"color"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// NewOrderPlaced builds the event announcing o
func NewOrderPlaced(o *Order) OrderPlaced {
	items := make([]PlacedItem, 0, len(o.Items))
	for _, line := range o.Items {
		items = append(items, PlacedItem{
			ProductID:      line.ProductID,
			Title:          line.Title,
			Size:           line.Size,
			Color:          line.Color,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
		})
	}

	name := strings.TrimSpace(o.ShippingInfo.FirstName + " " + o.ShippingInfo.LastName)
	return OrderPlaced{
		OrderID:           o.ID,
		UserID:            o.UserID,
		Email:             o.ShippingInfo.Email,
		CustomerName:      name,
		Items:             items,
		Totals:            o.Totals,
		ShippingMethod:    o.ShippingMethod.Name,
		ShippingAddress:   o.ShippingInfo,
		PlacedAt:          o.OrderDate,
		EstimatedDelivery: o.EstimatedDelivery,
	}
}
