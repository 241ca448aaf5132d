// Package cart aggregates a buyer's selected listings into a single cart per
// user.
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecofinds/internal/apperr"
	"ecofinds/internal/logger"
	"ecofinds/internal/models"
	"ecofinds/internal/store"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound    = apperr.NotFound("Product not found")
	ErrProductUnavailable = apperr.Validation("This item is no longer available")
	ErrOwnListing         = apperr.Permission("You cannot add your own listing to your cart")
)

type ProductReader interface {
	Get(ctx context.Context, id string) (*models.Product, error)
}

type Store interface {
	Get(ctx context.Context, userID string) (*models.Cart, error)
	Mutate(ctx context.Context, userID string, fn func(cart *models.Cart) error) error
	Delete(ctx context.Context, userID string) error
}

type Service struct {
	carts    Store
	products ProductReader
	logger   *logger.Logger
	now      func() time.Time
}

func NewService(carts Store, products ProductReader, logger *logger.Logger) *Service {
	return &Service{
		carts:    carts,
		products: products,
		logger:   logger,
		now:      time.Now,
	}
}

// Get returns the user's cart, or nil when there is none.
func (s *Service) Get(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return cart, nil
}

// AddItem puts quantity units of productID into the cart, merging with an
// existing row for the same product.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		quantity = 1
	}

	product, err := s.products.Get(ctx, productID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product.SellerID == userID {
		return nil, ErrOwnListing
	}
	if !product.IsActive() {
		return nil, ErrProductUnavailable
	}

	now := s.now().UTC()
	err = s.carts.Mutate(ctx, userID, func(cart *models.Cart) error {
		if i := cart.FindByProduct(productID); i >= 0 {
			cart.Items[i].Quantity += quantity
			return nil
		}
		cart.Items = append(cart.Items, models.CartItem{
			ID:              fmt.Sprintf("%s_%d", productID, now.UnixMilli()),
			ProductID:       product.ID,
			ProductTitle:    product.Title,
			ProductPrice:    product.Price,
			ProductCategory: product.Category,
			ProductImageURL: product.ImageURL,
			SellerID:        product.SellerID,
			SellerName:      product.SellerName,
			Quantity:        quantity,
			AddedAt:         now,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add item to cart: %w", err)
	}

	s.logger.Debug("Added %d x %s to cart of %s", quantity, productID, userID)
	return s.Get(ctx, userID)
}

// RemoveItem drops itemID from the cart. Unknown items are ignored.
func (s *Service) RemoveItem(ctx context.Context, userID, itemID string) (*models.Cart, error) {
	err := s.carts.Mutate(ctx, userID, func(cart *models.Cart) error {
		if i := cart.FindItem(itemID); i >= 0 {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}
	return s.Get(ctx, userID)
}

// UpdateQuantity sets the quantity of itemID; anything below one removes it.
func (s *Service) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return s.RemoveItem(ctx, userID, itemID)
	}

	err := s.carts.Mutate(ctx, userID, func(cart *models.Cart) error {
		if i := cart.FindItem(itemID); i >= 0 {
			cart.Items[i].Quantity = quantity
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	return s.Get(ctx, userID)
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.carts.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Total is the sum of price times quantity over every row.
func Total(cart *models.Cart) decimal.Decimal {
	total := decimal.Zero
	if cart == nil {
		return total
	}
	for _, item := range cart.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func ItemCount(cart *models.Cart) int {
	if cart == nil {
		return 0
	}
	n := 0
	for _, item := range cart.Items {
		n += item.Quantity
	}
	return n
}
