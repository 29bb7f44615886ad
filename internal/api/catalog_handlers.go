package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/example/storefront/internal/catalog"
)

// ListProducts serves a searched, filtered, sorted page of the catalog
func (h *Handlers) ListProducts(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	page, ok := queryInt(c, "page")
	if !ok {
		return
	}
	perPage, ok := queryInt(c, "per_page")
	if !ok {
		return
	}
	var filter catalog.Filter
	if filter.MinPrice, ok = queryFloat(c, "min_price"); !ok {
		return
	}
	if filter.MaxPrice, ok = queryFloat(c, "max_price"); !ok {
		return
	}
	if filter.MinRating, ok = queryFloat(c, "min_rating"); !ok {
		return
	}

	products, err := h.catalog.ListProducts(c.Request.Context(), catalog.ListOptions{
		Category: c.Query("category"),
		Limit:    limit,
	})
	if err != nil {
		respondDomainError(c, err, "")
		return
	}

	products = catalog.Search(products, c.Query("q"))
	products = filter.Apply(products)
	products = catalog.Sort(products, catalog.ParseSortOrder(c.Query("sort")))
	c.JSON(http.StatusOK, catalog.Paginate(products, page, perPage))
}

func (h *Handlers) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "product id must be a positive integer")
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handlers) ListCategories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		respondDomainError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handlers) ListSortOrders(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.SortOrders())
}

func queryInt(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		respondError(c, http.StatusBadRequest, key+" must be a non-negative integer")
		return 0, false
	}
	return n, true
}

func queryFloat(c *gin.Context, key string) (float64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		respondError(c, http.StatusBadRequest, key+" must be a non-negative number")
		return 0, false
	}
	return f, true
}
