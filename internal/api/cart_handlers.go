package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/storefront/internal/domain/cart"
)

// Defaults applied when the shopper adds to cart without choosing
const (
	DefaultSize  = "Large"
	DefaultColor = "Brown"
)

// AddToCartRequest names a catalog product and its variant
type AddToCartRequest struct {
	ProductID int    `json:"product_id" binding:"required,gt=0"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// LineRequest addresses an existing cart line
type LineRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

func (r LineRequest) key() cart.LineKey {
	return cart.LineKey{ProductID: r.ProductID, Size: r.Size, Color: r.Color}
}

// SetQuantityRequest changes the quantity of a line. Non-positive quantities
// leave the cart unchanged.
type SetQuantityRequest struct {
	LineRequest
	Quantity int `json:"quantity"`
}

func (h *Handlers) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, workspace(c).Cart.Snapshot())
}

// AddToCart looks the product up in the catalog and adds one unit
func (h *Handlers) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Size == "" {
		req.Size = DefaultSize
	}
	if req.Color == "" {
		req.Color = DefaultColor
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		respondDomainError(c, err, "")
		return
	}

	ledger := workspace(c).Cart
	ledger.AddLine(cart.Item{
		ProductID:      product.ProductID(),
		Title:          product.Title,
		UnitPriceCents: product.PriceCents(),
		ImageURL:       product.Image,
		Size:           req.Size,
		Color:          req.Color,
	})
	c.JSON(http.StatusOK, ledger.Snapshot())
}

func (h *Handlers) UpdateCartItem(c *gin.Context) {
	var req SetQuantityRequest
	if !bindJSON(c, &req) {
		return
	}

	ledger := workspace(c).Cart
	ledger.SetQuantity(req.key(), req.Quantity)
	c.JSON(http.StatusOK, ledger.Snapshot())
}

func (h *Handlers) RemoveCartItem(c *gin.Context) {
	var req LineRequest
	if !bindJSON(c, &req) {
		return
	}

	ledger := workspace(c).Cart
	ledger.RemoveLine(req.key())
	c.JSON(http.StatusOK, ledger.Snapshot())
}

func (h *Handlers) ClearCart(c *gin.Context) {
	ledger := workspace(c).Cart
	ledger.Clear()
	c.JSON(http.StatusOK, ledger.Snapshot())
}
