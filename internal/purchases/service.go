// Package purchases serves a buyer's order history.
package purchases

import (
	"context"
	"errors"
	"fmt"

	"ecofinds/internal/apperr"
	"ecofinds/internal/models"
	"ecofinds/internal/store"

	"github.com/shopspring/decimal"
)

var ErrNotFound = apperr.NotFound("Purchase not found")

type Store interface {
	Get(ctx context.Context, id string) (*models.Purchase, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]models.Purchase, error)
}

type Stats struct {
	TotalPurchases int             `json:"total_purchases"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
	ItemsBought    int             `json:"items_bought"`
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) ListByBuyer(ctx context.Context, buyerID string) ([]models.Purchase, error) {
	list, err := s.store.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch purchases: %w", err)
	}
	return list, nil
}

// Get returns the purchase if callerID bought it. Other callers see not
// found rather than a permission error.
func (s *Service) Get(ctx context.Context, callerID, id string) (*models.Purchase, error) {
	p, err := s.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch purchase: %w", err)
	}
	if p.BuyerID != callerID {
		return nil, ErrNotFound
	}
	return p, nil
}

// Stats sums the buyer's history. Cancelled purchases still count.
func (s *Service) Stats(ctx context.Context, buyerID string) (*Stats, error) {
	list, err := s.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalPurchases: len(list), TotalSpent: decimal.Zero}
	for _, p := range list {
		stats.TotalSpent = stats.TotalSpent.Add(p.TotalAmount)
		for _, item := range p.Items {
			stats.ItemsBought += item.Quantity
		}
	}
	return stats, nil
}
