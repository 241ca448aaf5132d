package handlers

import (
	"net/http"

	"ecofinds/internal/auth"
	"ecofinds/internal/cart"
	"ecofinds/internal/logger"
	"ecofinds/internal/models"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	carts  *cart.Service
	logger *logger.Logger
}

func NewCartHandler(carts *cart.Service, logger *logger.Logger) *CartHandler {
	return &CartHandler{
		carts:  carts,
		logger: logger,
	}
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) Get(c *gin.Context) {
	userCart, err := h.carts.Get(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch cart")
		return
	}
	h.respond(c, http.StatusOK, userCart)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "product_id is required")
		return
	}

	userCart, err := h.carts.AddItem(c.Request.Context(), auth.UserID(c), req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, h.logger, err, "Failed to add item to cart")
		return
	}
	h.respond(c, http.StatusOK, userCart)
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	userCart, err := h.carts.UpdateQuantity(c.Request.Context(), auth.UserID(c), c.Param("itemId"), req.Quantity)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update cart item")
		return
	}
	h.respond(c, http.StatusOK, userCart)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	userCart, err := h.carts.RemoveItem(c.Request.Context(), auth.UserID(c), c.Param("itemId"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to remove cart item")
		return
	}
	h.respond(c, http.StatusOK, userCart)
}

func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), auth.UserID(c)); err != nil {
		respondError(c, h.logger, err, "Failed to clear cart")
		return
	}
	c.Status(http.StatusNoContent)
}

// respond renders the cart with its derived totals. A missing cart renders
// as an empty one.
func (h *CartHandler) respond(c *gin.Context, status int, userCart *models.Cart) {
	items := []models.CartItem{}
	if userCart != nil && userCart.Items != nil {
		items = userCart.Items
	}
	c.JSON(status, gin.H{
		"data": gin.H{
			"items":      items,
			"total":      cart.Total(userCart),
			"item_count": cart.ItemCount(userCart),
		},
	})
}
