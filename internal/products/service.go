// Package products manages sellers' listings.
package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ecofinds/internal/apperr"
	"ecofinds/internal/events"
	"ecofinds/internal/logger"
	"ecofinds/internal/models"
	"ecofinds/internal/store"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = apperr.NotFound("Product not found")
	ErrNotOwner        = apperr.Permission("You can only modify your own listings")
	ErrInvalidStatus   = apperr.Validation("Invalid listing status")
	ErrTitleRequired   = apperr.Validation("Title is required")
	ErrDescRequired    = apperr.Validation("Description is required")
	ErrCategoryInvalid = apperr.Validation("Please select a valid category")
	ErrPriceInvalid    = apperr.Validation("Price must be greater than 0")
)

type Store interface {
	Create(ctx context.Context, p *models.Product) error
	Save(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Product, error)
	ListBySeller(ctx context.Context, sellerID string) ([]models.Product, error)
	CountBySeller(ctx context.Context, sellerID string) (int64, error)
	ActiveProducts(ctx context.Context) ([]models.Product, error)
	ListByCategory(ctx context.Context, category string) ([]models.Product, error)
}

// Invalidator drops cached catalog reads after a write.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type Seller struct {
	ID   string
	Name string
}

type Input struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    *string         `json:"image_url,omitempty"`
}

type Service struct {
	store     Store
	cache     Invalidator
	publisher events.Publisher
	logger    *logger.Logger
}

func NewService(store Store, cache Invalidator, publisher events.Publisher, logger *logger.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		store:     store,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

func (in Input) normalize() (Input, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" {
		return in, ErrTitleRequired
	}
	if in.Description == "" {
		return in, ErrDescRequired
	}
	category, ok := models.CanonicalCategory(in.Category)
	if !ok {
		return in, ErrCategoryInvalid
	}
	in.Category = category
	if !in.Price.IsPositive() {
		return in, ErrPriceInvalid
	}
	if in.ImageURL != nil && strings.TrimSpace(*in.ImageURL) == "" {
		in.ImageURL = nil
	}
	return in, nil
}

func (s *Service) Create(ctx context.Context, seller Seller, in Input) (*models.Product, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	p := &models.Product{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
		SellerID:    seller.ID,
		SellerName:  seller.Name,
		Status:      models.ProductStatusActive,
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.changed(ctx, events.ProductCreated, p)
	return p, nil
}

func (s *Service) Update(ctx context.Context, callerID, id string, in Input) (*models.Product, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	p, err := s.owned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	p.Title = in.Title
	p.Description = in.Description
	p.Price = in.Price
	p.Category = in.Category
	p.ImageURL = in.ImageURL
	if err := s.store.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.changed(ctx, events.ProductUpdated, p)
	return p, nil
}

// SetStatus marks a listing sold or inactive, or reactivates it.
func (s *Service) SetStatus(ctx context.Context, callerID, id string, status models.ProductStatus) (*models.Product, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	p, err := s.owned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	p.Status = status
	if err := s.store.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update product status: %w", err)
	}

	s.changed(ctx, events.ProductStatusChanged, p)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	p, err := s.owned(ctx, callerID, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.changed(ctx, events.ProductDeleted, p)
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	return p, nil
}

func (s *Service) ListBySeller(ctx context.Context, sellerID string) ([]models.Product, error) {
	products, err := s.store.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}
	return products, nil
}

func (s *Service) CountBySeller(ctx context.Context, sellerID string) (int64, error) {
	return s.store.CountBySeller(ctx, sellerID)
}

func (s *Service) ListActive(ctx context.Context) ([]models.Product, error) {
	products, err := s.store.ActiveProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, nil
}

func (s *Service) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	canonical, ok := models.CanonicalCategory(category)
	if !ok {
		return nil, ErrCategoryInvalid
	}
	products, err := s.store.ListByCategory(ctx, canonical)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, nil
}

func (s *Service) owned(ctx context.Context, callerID, id string) (*models.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.SellerID != callerID {
		return nil, ErrNotOwner
	}
	return p, nil
}

// changed invalidates the catalog cache and announces the write. Neither
// failure undoes the write.
func (s *Service) changed(ctx context.Context, t events.Type, p *models.Product) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	event, err := events.NewEvent(t, p.ID, p.SellerID, events.ProductPayload{
		ProductID: p.ID,
		Title:     p.Title,
		SellerID:  p.SellerID,
		Price:     p.Price,
		Status:    string(p.Status),
	})
	if err == nil {
		err = s.publisher.Publish(ctx, event)
	}
	if err != nil {
		s.logger.Error("Failed to publish %s for %s: %v", t, p.ID, err)
	}
}
