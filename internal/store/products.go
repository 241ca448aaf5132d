package store

import (
	"context"
	"strings"

	"ecofinds/internal/catalog"
	"ecofinds/internal/models"

	"gorm.io/gorm"
)

type Products struct {
	db *gorm.DB
}

func NewProducts(db *gorm.DB) *Products {
	return &Products{db: db}
}

func (s *Products) Create(ctx context.Context, p *models.Product) error {
	return translate(s.db.WithContext(ctx).Create(p).Error)
}

func (s *Products) Save(ctx context.Context, p *models.Product) error {
	return translate(s.db.WithContext(ctx).Save(p).Error)
}

func (s *Products) Delete(ctx context.Context, id string) error {
	return translate(s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error)
}

func (s *Products) Get(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *Products) ListBySeller(ctx context.Context, sellerID string) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at desc").
		Find(&products).Error
	return products, translate(err)
}

func (s *Products) CountBySeller(ctx context.Context, sellerID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Product{}).Where("seller_id = ?", sellerID).Count(&n).Error
	return n, translate(err)
}

// ActiveProducts returns the whole active catalog, newest first.
func (s *Products) ActiveProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("status = ?", models.ProductStatusActive).
		Order("created_at desc").
		Find(&products).Error
	return products, translate(err)
}

func (s *Products) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("status = ? AND LOWER(category) = ?", models.ProductStatusActive, strings.ToLower(category)).
		Order("created_at desc").
		Find(&products).Error
	return products, translate(err)
}

// Page runs a keyset query: rows strictly after q.After in q.SortBy order,
// with id as the tiebreaker.
func (s *Products) Page(ctx context.Context, q catalog.PageQuery) ([]models.Product, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("status = ?", models.ProductStatusActive)

	if len(q.Categories) > 0 {
		lowered := make([]string, len(q.Categories))
		for i, c := range q.Categories {
			lowered[i] = strings.ToLower(c)
		}
		query = query.Where("LOWER(category) IN ?", lowered)
	}
	if q.MinPrice != nil {
		query = query.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		query = query.Where("price <= ?", *q.MaxPrice)
	}

	column := "created_at"
	if catalog.ByPrice(q.SortBy) {
		column = "price"
	}
	cmp, dir := "<", "desc"
	if catalog.Ascending(q.SortBy) {
		cmp, dir = ">", "asc"
	}

	if q.After != nil {
		var key interface{} = q.After.CreatedAt
		if column == "price" {
			key = q.After.Price
		}
		query = query.Where(
			"("+column+" "+cmp+" ?) OR ("+column+" = ? AND id "+cmp+" ?)",
			key, key, q.After.ID,
		)
	}

	var products []models.Product
	err := query.
		Order(column + " " + dir).
		Order("id " + dir).
		Limit(q.Limit).
		Find(&products).Error
	return products, translate(err)
}
