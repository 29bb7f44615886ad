package catalog

import (
	"math"
	"strconv"
)

// Rating is the aggregate review score of a product
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is a catalog listing. Price is in dollars as served upstream.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

// PriceCents converts the upstream dollar price to cents
func (p Product) PriceCents() int64 {
	return int64(math.Round(p.Price * 100))
}

// ProductID is the id as used for cart lines
func (p Product) ProductID() string {
	return strconv.Itoa(p.ID)
}
