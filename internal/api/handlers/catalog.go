package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"ecofinds/internal/catalog"
	"ecofinds/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CatalogHandler struct {
	engine *catalog.Engine
	logger *logger.Logger
}

func NewCatalogHandler(engine *catalog.Engine, logger *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		engine: engine,
		logger: logger,
	}
}

// Browse filters and sorts the whole active catalog in one response.
func (h *CatalogHandler) Browse(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	list, err := h.engine.Browse(c.Request.Context(), filter)
	if err != nil {
		h.catalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": list,
		"pagination": gin.H{
			"total": len(list),
		},
	})
}

// Search returns one cursor page. Pass next_cursor back as ?cursor= to
// continue.
func (h *CatalogHandler) Search(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(catalog.DefaultPageSize)))

	page, err := h.engine.Search(c.Request.Context(), filter, pageSize, c.Query("cursor"))
	if err != nil {
		h.catalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": page.Products,
		"pagination": gin.H{
			"has_more":    page.HasMore,
			"next_cursor": page.NextCursor,
		},
	})
}

func (h *CatalogHandler) Suggestions(c *gin.Context) {
	list, err := h.engine.Suggest(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.catalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *CatalogHandler) catalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrInvalidCursor):
		badRequest(c, "Invalid cursor")
	case errors.Is(err, catalog.ErrFetchTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Loading products took too long. Please try again."})
	default:
		respondError(c, h.logger, err, "Failed to fetch products")
	}
}

// parseFilter reads category (repeated or comma separated), minPrice,
// maxPrice, q and sortBy. It writes a 400 and returns false on a bad price.
func parseFilter(c *gin.Context) (catalog.Filter, bool) {
	f := catalog.Filter{
		SearchTerm: c.Query("q"),
		SortBy:     catalog.ParseSortOrder(c.Query("sortBy")),
	}

	for _, raw := range c.QueryArray("category") {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				f.Categories = append(f.Categories, part)
			}
		}
	}

	var err error
	if f.MinPrice, err = parsePrice(c.Query("minPrice")); err != nil {
		badRequest(c, "Invalid minPrice")
		return f, false
	}
	if f.MaxPrice, err = parsePrice(c.Query("maxPrice")); err != nil {
		badRequest(c, "Invalid maxPrice")
		return f, false
	}
	return f, true
}

func parsePrice(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
