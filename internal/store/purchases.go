package store

import (
	"context"

	"ecofinds/internal/models"

	"gorm.io/gorm"
)

type Purchases struct {
	db *gorm.DB
}

func NewPurchases(db *gorm.DB) *Purchases {
	return &Purchases{db: db}
}

func (s *Purchases) Create(ctx context.Context, p *models.Purchase) error {
	return translate(s.db.WithContext(ctx).Create(p).Error)
}

// CreateAndClearCart records p and removes the buyer's cart atomically.
func (s *Purchases) CreateAndClearCart(ctx context.Context, p *models.Purchase) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return translate(err)
		}
		return deleteCart(tx, p.BuyerID)
	})
}

func (s *Purchases) Get(ctx context.Context, id string) (*models.Purchase, error) {
	var p models.Purchase
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// ListByBuyer returns the buyer's purchases, newest first.
func (s *Purchases) ListByBuyer(ctx context.Context, buyerID string) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := s.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at desc").
		Find(&purchases).Error
	return purchases, translate(err)
}
