// Package catalog filters, sorts and pages marketplace listings.
//
// Apply and its helpers are pure: they work on a product slice already in
// memory. Engine adds the I/O around them (full-catalog fetch with a timeout,
// and a cursor-paginated store query).
package catalog

import (
	"strings"

	"ecofinds/internal/models"

	"github.com/shopspring/decimal"
)

// Filter fields are optional; a zero field places no constraint.
type Filter struct {
	Categories []string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	SearchTerm string
	SortBy     SortOrder
}

// Apply returns the products matching every supplied predicate, sorted by
// f.SortBy. The input slice is not modified.
func Apply(products []models.Product, f Filter) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if Matches(p, f) {
			out = append(out, p)
		}
	}
	Sort(out, f.SortBy)
	return out
}

// Matches reports whether p satisfies all predicates of f.
func Matches(p models.Product, f Filter) bool {
	if len(f.Categories) > 0 && !inCategories(p.Category, f.Categories) {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return MatchesSearch(p, f.SearchTerm)
}

// MatchesSearch is a case-insensitive substring test against title,
// description, category and seller name. A blank term matches everything.
func MatchesSearch(p models.Product, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Description), term) ||
		strings.Contains(strings.ToLower(p.Category), term) ||
		strings.Contains(strings.ToLower(p.SellerName), term)
}

func inCategories(category string, categories []string) bool {
	for _, c := range categories {
		if strings.EqualFold(category, c) {
			return true
		}
	}
	return false
}
