package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecofinds/internal/models"

	"github.com/shopspring/decimal"
)

const (
	DefaultPageSize     = 20
	MaxPageSize         = 100
	DefaultFetchTimeout = 10 * time.Second
)

var ErrFetchTimeout = errors.New("catalog fetch timed out")

// Source yields the full set of active listings.
type Source interface {
	ActiveProducts(ctx context.Context) ([]models.Product, error)
}

// PageQuery is pushed down to the store. Search terms are not part of it;
// they are matched after the page is fetched.
type PageQuery struct {
	Categories []string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	SortBy     SortOrder
	After      *Cursor
	Limit      int
}

type PageStore interface {
	Page(ctx context.Context, q PageQuery) ([]models.Product, error)
}

type Page struct {
	Products   []models.Product `json:"products"`
	HasMore    bool             `json:"has_more"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

type Engine struct {
	source       Source
	pages        PageStore
	fetchTimeout time.Duration
}

func NewEngine(source Source, pages PageStore, fetchTimeout time.Duration) *Engine {
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	return &Engine{
		source:       source,
		pages:        pages,
		fetchTimeout: fetchTimeout,
	}
}

// Browse fetches every active listing and applies f in memory.
func (e *Engine) Browse(ctx context.Context, f Filter) ([]models.Product, error) {
	products, err := e.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return Apply(products, f), nil
}

// Suggest returns search suggestions drawn from the active catalog.
func (e *Engine) Suggest(ctx context.Context, term string) ([]string, error) {
	products, err := e.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return Suggestions(term, Apply(products, Filter{})), nil
}

func (e *Engine) fetchAll(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
	defer cancel()

	type result struct {
		products []models.Product
		err      error
	}
	done := make(chan result, 1)
	go func() {
		products, err := e.source.ActiveProducts(ctx)
		done <- result{products, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			if errors.Is(r.err, context.DeadlineExceeded) {
				return nil, ErrFetchTimeout
			}
			return nil, fmt.Errorf("failed to fetch catalog: %w", r.err)
		}
		return r.products, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrFetchTimeout
		}
		return nil, ctx.Err()
	}
}

// Search returns one page in f.SortBy order starting after cursor. It asks
// the store for pageSize+1 rows to learn whether another page exists, then
// drops rows not matching f.SearchTerm, so a page may hold fewer than
// pageSize products while HasMore is still true.
func (e *Engine) Search(ctx context.Context, f Filter, pageSize int, cursor string) (*Page, error) {
	size := normalizePageSize(pageSize)

	after, err := DecodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	records, err := e.pages.Page(ctx, PageQuery{
		Categories: f.Categories,
		MinPrice:   f.MinPrice,
		MaxPrice:   f.MaxPrice,
		SortBy:     ParseSortOrder(string(f.SortBy)),
		After:      after,
		Limit:      size + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog page: %w", err)
	}

	page := &Page{Products: []models.Product{}}
	if len(records) > size {
		page.HasMore = true
		records = records[:size]
	}
	if page.HasMore && len(records) > 0 {
		page.NextCursor = CursorFor(records[len(records)-1]).Encode()
	}

	for _, p := range records {
		if MatchesSearch(p, f.SearchTerm) {
			page.Products = append(page.Products, p)
		}
	}
	return page, nil
}

func normalizePageSize(n int) int {
	if n <= 0 {
		return DefaultPageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}
