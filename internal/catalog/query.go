package catalog

import (
	"sort"
	"strings"
)

// SortOrder names a listing order as offered by the shop pages
type SortOrder string

const (
	SortRelevance  SortOrder = "Most Relevant"
	SortPopularity SortOrder = "Most Popular"
	SortNewest     SortOrder = "Newest"
	SortPriceAsc   SortOrder = "Price: Low to High"
	SortPriceDesc  SortOrder = "Price: High to Low"
	SortRating     SortOrder = "Rating: High to Low"
)

// DefaultPerPage is the shop grid size
const DefaultPerPage = 12

// SortOrders lists the supported orders
func SortOrders() []SortOrder {
	return []SortOrder{SortRelevance, SortPopularity, SortNewest, SortPriceAsc, SortPriceDesc, SortRating}
}

// ParseSortOrder accepts a display name or a short key such as "price_asc".
// Unknown input yields SortRelevance.
func ParseSortOrder(s string) SortOrder {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "popular", "popularity", strings.ToLower(string(SortPopularity)):
		return SortPopularity
	case "newest", strings.ToLower(string(SortNewest)):
		return SortNewest
	case "price_asc", strings.ToLower(string(SortPriceAsc)):
		return SortPriceAsc
	case "price_desc", strings.ToLower(string(SortPriceDesc)):
		return SortPriceDesc
	case "rating", strings.ToLower(string(SortRating)):
		return SortRating
	}
	return SortRelevance
}

// Search keeps products whose title, description or category contains query,
// ignoring case. An empty query keeps everything.
func Search(products []Product, query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return append([]Product(nil), products...)
	}

	var out []Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out
}

// Filter restricts a listing. Zero values do not restrict.
type Filter struct {
	Category  string
	MinPrice  float64
	MaxPrice  float64
	MinRating float64
}

func (f Filter) matches(p Product) bool {
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.MinPrice > 0 && p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	if f.MinRating > 0 && p.Rating.Rate < f.MinRating {
		return false
	}
	return true
}

// Apply returns the products matching f, in their original order
func (f Filter) Apply(products []Product) []Product {
	var out []Product
	for _, p := range products {
		if f.matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// Sort returns a sorted copy. Relevance keeps the upstream order.
func Sort(products []Product, order SortOrder) []Product {
	out := append([]Product(nil), products...)

	var less func(a, b Product) bool
	switch order {
	case SortPopularity:
		less = func(a, b Product) bool { return a.Rating.Count > b.Rating.Count }
	case SortNewest:
		less = func(a, b Product) bool { return a.ID > b.ID }
	case SortPriceAsc:
		less = func(a, b Product) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b Product) bool { return a.Price > b.Price }
	case SortRating:
		less = func(a, b Product) bool { return a.Rating.Rate > b.Rating.Rate }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Page is one slice of a listing
type Page struct {
	Items      []Product `json:"items"`
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
	TotalItems int       `json:"total_items"`
	TotalPages int       `json:"total_pages"`
}

// Paginate returns the 1-based page of products. Out-of-range pages are
// empty; perPage <= 0 uses DefaultPerPage.
func Paginate(products []Product, page, perPage int) Page {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page < 1 {
		page = 1
	}

	total := len(products)
	result := Page{
		Items:      []Product{},
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: total / perPage,
	}
	if total%perPage != 0 {
		result.TotalPages++
	}

	// compare before multiplying so huge page numbers cannot overflow
	if total == 0 || page-1 > (total-1)/perPage {
		return result
	}
	start := (page - 1) * perPage
	end := total
	if perPage < total-start {
		end = start + perPage
	}
	result.Items = append(result.Items, products[start:end]...)
	return result
}
