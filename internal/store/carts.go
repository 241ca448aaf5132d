package store

import (
	"context"
	"errors"

	"ecofinds/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Carts struct {
	db *gorm.DB
}

func NewCarts(db *gorm.DB) *Carts {
	return &Carts{db: db}
}

// Get returns the user's cart with items in insertion order, or nil when the
// user has none.
func (s *Carts) Get(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := loadCart(s.db.WithContext(ctx), userID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return cart, err
}

// Mutate loads the cart, hands it to fn and writes the result back inside a
// single transaction. A cart left without items is deleted. Returning an
// error from fn rolls everything back.
func (s *Carts) Mutate(ctx context.Context, userID string, fn func(cart *models.Cart) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := loadCart(tx, userID)
		if errors.Is(err, ErrNotFound) {
			cart = &models.Cart{UserID: userID}
		} else if err != nil {
			return err
		}

		if err := fn(cart); err != nil {
			return err
		}

		if err := tx.Where("cart_user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return translate(err)
		}
		if cart.IsEmpty() {
			return translate(tx.Where("user_id = ?", userID).Delete(&models.Cart{}).Error)
		}

		cart.UpdatedAt = tx.NowFunc()
		err = tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(cart).Error
		if err != nil {
			return translate(err)
		}
		for i := range cart.Items {
			cart.Items[i].CartUserID = userID
		}
		return translate(tx.Create(&cart.Items).Error)
	})
}

func (s *Carts) Delete(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteCart(tx, userID)
	})
}

func loadCart(db *gorm.DB, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("added_at asc, id asc")
	}).First(&cart, "user_id = ?", userID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

func deleteCart(tx *gorm.DB, userID string) error {
	if err := tx.Where("cart_user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return translate(err)
	}
	return translate(tx.Where("user_id = ?", userID).Delete(&models.Cart{}).Error)
}
