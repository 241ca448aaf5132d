package handlers

import (
	"net/http"

	"ecofinds/internal/auth"
	"ecofinds/internal/logger"
	"ecofinds/internal/products"
	"ecofinds/internal/purchases"

	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	purchases *purchases.Service
	products  *products.Service
	logger    *logger.Logger
}

func NewPurchaseHandler(purchases *purchases.Service, products *products.Service, logger *logger.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		purchases: purchases,
		products:  products,
		logger:    logger,
	}
}

func (h *PurchaseHandler) List(c *gin.Context) {
	list, err := h.purchases.ListByBuyer(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch purchases")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": list,
		"pagination": gin.H{
			"total": len(list),
		},
	})
}

func (h *PurchaseHandler) Get(c *gin.Context) {
	purchase, err := h.purchases.Get(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch purchase")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": purchase})
}

func (h *PurchaseHandler) Stats(c *gin.Context) {
	stats, err := h.purchases.Stats(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch purchase stats")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// Dashboard combines the caller's listing count with their purchase stats.
func (h *PurchaseHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	userID := auth.UserID(c)

	listings, err := h.products.CountBySeller(ctx, userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch dashboard")
		return
	}
	stats, err := h.purchases.Stats(ctx, userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch dashboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"total_listings":  listings,
			"total_purchases": stats.TotalPurchases,
			"total_spent":     stats.TotalSpent,
			"items_bought":    stats.ItemsBought,
		},
	})
}
