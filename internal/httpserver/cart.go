package httpserver

import (
	"net/http"
	"strings"

	"storefront/internal/service/cart"

	"github.com/gin-gonic/gin"
)

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type checkoutRequest struct {
	DeliveryAddress string `json:"deliveryAddress"`
}

func (h *handlers) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Cart.State())
}

// cartSummary prices the cart against the live catalog.
func (h *handlers) cartSummary(c *gin.Context) {
	sum, err := cart.Summarize(c.Request.Context(), h.deps.Cart.State(), h.deps.Catalog)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body", err.Error())
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 {
		badRequest(c, "quantity", "must be at least 1")
		return
	}
	c.JSON(http.StatusOK, h.deps.Cart.AddToCart(strings.TrimSpace(req.ProductID), req.Quantity))
}

// updateCartItem removes the line when quantity drops to zero, so the UI never has to
// make that call itself.
func (h *handlers) updateCartItem(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body", err.Error())
		return
	}
	id := c.Param("productId")
	switch q := *req.Quantity; {
	case q < 0:
		badRequest(c, "quantity", "must not be negative")
	case q == 0:
		c.JSON(http.StatusOK, h.deps.Cart.RemoveFromCart(id))
	default:
		c.JSON(http.StatusOK, h.deps.Cart.UpdateQuantity(id, q))
	}
}

func (h *handlers) removeCartItem(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Cart.RemoveFromCart(c.Param("productId")))
}

func (h *handlers) clearCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Cart.ClearCart())
}

func (h *handlers) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body", err.Error())
		return
	}
	order, err := h.deps.Checkout.Checkout(c.Request.Context(), req.DeliveryAddress)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}
