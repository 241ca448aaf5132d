package catalog

import (
	"sort"

	"ecofinds/internal/models"
)

type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortOldest    SortOrder = "oldest"
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
	// SortRating orders by price descending; listings carry no rating.
	SortRating SortOrder = "rating"
	// SortPopular orders by recency; listings carry no view counts.
	SortPopular SortOrder = "popular"
)

// ParseSortOrder maps unknown or empty values to SortNewest.
func ParseSortOrder(s string) SortOrder {
	switch o := SortOrder(s); o {
	case SortNewest, SortOldest, SortPriceLow, SortPriceHigh, SortRating, SortPopular:
		return o
	}
	return SortNewest
}

// Sort orders products in place. Ties keep their input order.
func Sort(products []models.Product, order SortOrder) {
	less := comparator(ParseSortOrder(string(order)))
	sort.SliceStable(products, func(i, j int) bool {
		return less(&products[i], &products[j])
	})
}

func comparator(order SortOrder) func(a, b *models.Product) bool {
	switch order {
	case SortOldest:
		return func(a, b *models.Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortPriceLow:
		return func(a, b *models.Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceHigh, SortRating:
		return func(a, b *models.Product) bool { return a.Price.GreaterThan(b.Price) }
	default:
		return func(a, b *models.Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
}

// ByPrice reports whether order is keyed on price rather than creation time.
func ByPrice(order SortOrder) bool {
	switch ParseSortOrder(string(order)) {
	case SortPriceLow, SortPriceHigh, SortRating:
		return true
	}
	return false
}

// Ascending reports the direction of order's primary key.
func Ascending(order SortOrder) bool {
	switch ParseSortOrder(string(order)) {
	case SortOldest, SortPriceLow:
		return true
	}
	return false
}
