package catalog

import (
	"strings"

	"ecofinds/internal/models"
)

const maxSuggestions = 5

// Suggestions collects distinct titles, categories and seller names that
// contain term, in first-seen order.
func Suggestions(term string, products []models.Product) []string {
	term = strings.ToLower(strings.TrimSpace(term))
	out := []string{}
	if term == "" {
		return out
	}

	seen := make(map[string]struct{})
	add := func(s string) {
		if _, dup := seen[s]; dup || !strings.Contains(strings.ToLower(s), term) {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	for _, p := range products {
		add(p.Title)
		add(p.Category)
		add(p.SellerName)
		if len(out) >= maxSuggestions {
			return out[:maxSuggestions]
		}
	}
	return out
}
