package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Purchase is an immutable snapshot of a cart at checkout.
type Purchase struct {
	ID             string                 `json:"id" gorm:"type:varchar(36);primaryKey"`
	BuyerID        string                 `json:"buyer_id" gorm:"type:varchar(36);index;not null"`
	BuyerName      string                 `json:"buyer_name"`
	Items          []PurchaseItem         `json:"items" gorm:"type:text;serializer:json"`
	TotalAmount    decimal.Decimal        `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	Status         PurchaseStatus         `json:"status" gorm:"type:varchar(16);default:confirmed"`
	PaymentMethod  *string                `json:"payment_method,omitempty"`
	PaymentDetails map[string]interface{} `json:"payment_details,omitempty" gorm:"type:text;serializer:json"`
	CreatedAt      time.Time              `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

type PurchaseItem struct {
	ProductID       string          `json:"product_id"`
	ProductTitle    string          `json:"product_title"`
	ProductPrice    decimal.Decimal `json:"product_price"`
	ProductCategory string          `json:"product_category"`
	ProductImageURL *string         `json:"product_image_url,omitempty"`
	SellerID        string          `json:"seller_id"`
	SellerName      string          `json:"seller_name"`
	Quantity        int             `json:"quantity"`
}

type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusConfirmed PurchaseStatus = "confirmed"
	PurchaseStatusShipped   PurchaseStatus = "shipped"
	PurchaseStatusDelivered PurchaseStatus = "delivered"
	PurchaseStatusCancelled PurchaseStatus = "cancelled"
)

// PurchaseItemFromCart drops the cart-only fields of item.
func PurchaseItemFromCart(item CartItem) PurchaseItem {
	return PurchaseItem{
		ProductID:       item.ProductID,
		ProductTitle:    item.ProductTitle,
		ProductPrice:    item.ProductPrice,
		ProductCategory: item.ProductCategory,
		ProductImageURL: item.ProductImageURL,
		SellerID:        item.SellerID,
		SellerName:      item.SellerName,
		Quantity:        item.Quantity,
	}
}

func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = PurchaseStatusConfirmed
	}
	return nil
}
