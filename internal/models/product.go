package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          string          `json:"id" gorm:"type:varchar(36);primaryKey"`
	Title       string          `json:"title" gorm:"not null"`
	Description string          `json:"description" gorm:"not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Category    string          `json:"category" gorm:"index;not null"`
	ImageURL    *string         `json:"image_url,omitempty"`
	SellerID    string          `json:"seller_id" gorm:"type:varchar(36);index;not null"`
	SellerName  string          `json:"seller_name" gorm:"not null"`
	Status      ProductStatus   `json:"status" gorm:"type:varchar(16);index;default:active"`
	CreatedAt   time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusSold     ProductStatus = "sold"
	ProductStatusInactive ProductStatus = "inactive"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusActive, ProductStatusSold, ProductStatusInactive:
		return true
	}
	return false
}

// Categories offered to sellers when listing an item.
var Categories = []string{
	"Electronics",
	"Clothing & Fashion",
	"Home & Garden",
	"Books & Media",
	"Sports & Outdoors",
	"Toys & Games",
	"Furniture",
	"Art & Collectibles",
	"Automotive",
	"Other",
}

// CanonicalCategory returns the listed spelling of category, matched
// case-insensitively.
func CanonicalCategory(category string) (string, bool) {
	for _, c := range Categories {
		if strings.EqualFold(c, strings.TrimSpace(category)) {
			return c, true
		}
	}
	return "", false
}

func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = ProductStatusActive
	}
	return nil
}
