package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is keyed by its owner; a user has at most one.
type Cart struct {
	UserID    string     `json:"user_id" gorm:"type:varchar(36);primaryKey"`
	Items     []CartItem `json:"items" gorm:"foreignKey:CartUserID;references:UserID"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem snapshots the product at the time it was added.
type CartItem struct {
	ID              string          `json:"id" gorm:"primaryKey"`
	CartUserID      string          `json:"-" gorm:"type:varchar(36);primaryKey"`
	ProductID       string          `json:"product_id" gorm:"type:varchar(36);index;not null"`
	ProductTitle    string          `json:"product_title" gorm:"not null"`
	ProductPrice    decimal.Decimal `json:"product_price" gorm:"type:decimal(10,2);not null"`
	ProductCategory string          `json:"product_category"`
	ProductImageURL *string         `json:"product_image_url,omitempty"`
	SellerID        string          `json:"seller_id"`
	SellerName      string          `json:"seller_name"`
	Quantity        int             `json:"quantity" gorm:"not null"`
	AddedAt         time.Time       `json:"added_at"`
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.ProductPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// FindByProduct returns the index of the row holding productID, or -1.
func (c *Cart) FindByProduct(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) FindItem(itemID string) int {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}
