package catalog

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"ecofinds/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func product(id, title, category string, price int64, ageDays int) models.Product {
	return models.Product{
		ID:          id,
		Title:       title,
		Description: "pre-loved " + strings.ToLower(title),
		Price:       decimal.NewFromInt(price),
		Category:    category,
		SellerID:    "seller-" + id,
		SellerName:  "Seller " + strings.ToUpper(id),
		Status:      models.ProductStatusActive,
		CreatedAt:   baseTime.AddDate(0, 0, -ageDays),
	}
}

func fixture() []models.Product {
	return []models.Product{
		product("a", "Vintage Leather Jacket", "Clothing & Fashion", 120, 3),
		product("b", "Oak Dining Table", "Furniture", 450, 10),
		product("c", "Mountain Bike", "Sports & Outdoors", 300, 1),
		product("d", "Paperback Bundle", "Books & Media", 15, 20),
		product("e", "Antique Wooden Chair", "Furniture", 80, 5),
	}
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func ids(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestApply_EmptyFilterReturnsAllNewestFirst(t *testing.T) {
	got := Apply(fixture(), Filter{})
	assert.Equal(t, []string{"c", "a", "e", "b", "d"}, ids(got))
}

func TestApply_CategoriesCaseInsensitive(t *testing.T) {
	got := Apply(fixture(), Filter{Categories: []string{"furniture", "BOOKS & MEDIA"}})
	assert.ElementsMatch(t, []string{"b", "d", "e"}, ids(got))
}

func TestApply_PriceBoundsInclusive(t *testing.T) {
	got := Apply(fixture(), Filter{MinPrice: dec(80), MaxPrice: dec(300), SortBy: SortPriceLow})
	assert.Equal(t, []string{"e", "a", "c"}, ids(got))
}

func TestApply_SearchTermAcrossFields(t *testing.T) {
	cases := map[string][]string{
		"jacket":     {"a"},                     // title
		"PRE-LOVED":  {"c", "a", "e", "b", "d"}, // description
		"sports":     {"c"},                     // category
		"seller b":   {"b"},                     // seller name
		"  chair   ": {"e"},                     // trimmed
	}
	for term, want := range cases {
		t.Run(term, func(t *testing.T) {
			got := Apply(fixture(), Filter{SearchTerm: term})
			assert.Equal(t, want, ids(got))
		})
	}
}

func TestApply_FiltersComposeWithAnd(t *testing.T) {
	got := Apply(fixture(), Filter{
		Categories: []string{"Furniture"},
		MaxPrice:   dec(100),
		SearchTerm: "wood",
	})
	assert.Equal(t, []string{"e"}, ids(got))
}

func TestApply_NoMatchIsEmptyNotNil(t *testing.T) {
	got := Apply(fixture(), Filter{SearchTerm: "spaceship"})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	in := fixture()
	_ = Apply(in, Filter{SortBy: SortPriceHigh})
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(in))
}

func TestSort_Orders(t *testing.T) {
	cases := []struct {
		order SortOrder
		want  []string
	}{
		{SortNewest, []string{"c", "a", "e", "b", "d"}},
		{SortOldest, []string{"d", "b", "e", "a", "c"}},
		{SortPriceLow, []string{"d", "e", "a", "c", "b"}},
		{SortPriceHigh, []string{"b", "c", "a", "e", "d"}},
		{SortRating, []string{"b", "c", "a", "e", "d"}},
		{SortPopular, []string{"c", "a", "e", "b", "d"}},
		{"bogus", []string{"c", "a", "e", "b", "d"}},
	}
	for _, tc := range cases {
		t.Run(string(tc.order), func(t *testing.T) {
			products := fixture()
			Sort(products, tc.order)
			assert.Equal(t, tc.want, ids(products))
		})
	}
}

func TestSort_StableOnTies(t *testing.T) {
	products := []models.Product{
		product("x", "One", "Other", 50, 1),
		product("y", "Two", "Other", 50, 2),
		product("z", "Three", "Other", 50, 3),
	}
	Sort(products, SortPriceLow)
	assert.Equal(t, []string{"x", "y", "z"}, ids(products))
}

// Every product that survives a random filter satisfies each predicate.
func TestApply_ResultsSatisfyPredicates(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	categories := models.Categories
	terms := []string{"", "bike", "oak", "seller", "media", "zzz"}

	var catalog []models.Product
	for i := 0; i < 200; i++ {
		catalog = append(catalog, product(
			fmt.Sprintf("p%d", i),
			[]string{"Oak Shelf", "Road Bike", "Novel", "Lamp"}[rng.Intn(4)],
			categories[rng.Intn(len(categories))],
			int64(rng.Intn(1000)+1),
			rng.Intn(60),
		))
	}

	for i := 0; i < 100; i++ {
		f := Filter{SearchTerm: terms[rng.Intn(len(terms))]}
		if rng.Intn(2) == 0 {
			f.Categories = []string{strings.ToLower(categories[rng.Intn(len(categories))])}
		}
		if rng.Intn(2) == 0 {
			f.MinPrice = dec(int64(rng.Intn(500)))
		}
		if rng.Intn(2) == 0 {
			f.MaxPrice = dec(int64(rng.Intn(500) + 500))
		}

		for _, p := range Apply(catalog, f) {
			if f.Categories != nil {
				assert.True(t, strings.EqualFold(p.Category, f.Categories[0]))
			}
			if f.MinPrice != nil {
				assert.True(t, p.Price.GreaterThanOrEqual(*f.MinPrice))
			}
			if f.MaxPrice != nil {
				assert.True(t, p.Price.LessThanOrEqual(*f.MaxPrice))
			}
			assert.True(t, MatchesSearch(p, f.SearchTerm))
		}
	}
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortPriceHigh, ParseSortOrder("price-high"))
	assert.Equal(t, SortNewest, ParseSortOrder(""))
	assert.Equal(t, SortNewest, ParseSortOrder("relevance"))
}

func TestSuggestions(t *testing.T) {
	got := Suggestions("furn", fixture())
	assert.Equal(t, []string{"Furniture"}, got)

	got = Suggestions("seller", fixture())
	assert.Len(t, got, 5)

	assert.Empty(t, Suggestions("   ", fixture()))
}
