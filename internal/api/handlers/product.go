package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"ecofinds/internal/auth"
	"ecofinds/internal/logger"
	"ecofinds/internal/models"
	"ecofinds/internal/products"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	products *products.Service
	auth     *auth.Service
	logger   *logger.Logger
}

func NewProductHandler(products *products.Service, auth *auth.Service, logger *logger.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		auth:     auth,
		logger:   logger,
	}
}

// List returns active listings, optionally limited to one category.
func (h *ProductHandler) List(c *gin.Context) {
	var (
		list []models.Product
		err  error
	)
	if category := c.Query("category"); category != "" {
		list, err = h.products.ListByCategory(c.Request.Context(), category)
	} else {
		list, err = h.products.ListActive(c.Request.Context())
	}
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": list,
		"pagination": gin.H{
			"total": len(list),
		},
	})
}

func (h *ProductHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": models.Categories})
}

func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": product})
}

func (h *ProductHandler) Create(c *gin.Context) {
	var in products.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}

	profile, err := h.auth.GetProfile(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch profile")
		return
	}

	product, err := h.products.Create(c.Request.Context(), products.Seller{ID: profile.ID, Name: profile.Username}, in)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": product})
}

func (h *ProductHandler) Update(c *gin.Context) {
	var in products.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}

	product, err := h.products.Update(c.Request.Context(), auth.UserID(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": product})
}

type statusRequest struct {
	Status models.ProductStatus `json:"status" binding:"required"`
}

func (h *ProductHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Status is required")
		return
	}

	product, err := h.products.SetStatus(c.Request.Context(), auth.UserID(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update product status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": product})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Failed to delete product")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) MyListings(c *gin.Context) {
	list, err := h.products.ListBySeller(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch listings")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": list,
		"pagination": gin.H{
			"total": len(list),
		},
	})
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *ProductHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.products.ExportBySeller(c.Request.Context(), auth.UserID(c), &buf); err != nil {
		respondError(c, h.logger, err, "Failed to export listings")
		return
	}

	filename := fmt.Sprintf("listings_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
