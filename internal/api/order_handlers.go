package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) ListOrders(c *gin.Context) {
	c.JSON(http.StatusOK, workspace(c).Orders.List())
}

func (h *Handlers) GetOrder(c *gin.Context) {
	o, err := workspace(c).Orders.Get(c.Param("id"))
	if err != nil {
		respondDomainError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, o)
}
