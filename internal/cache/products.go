package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ecofinds/internal/catalog"
	"ecofinds/internal/logger"
	"ecofinds/internal/models"
)

const activeProductsKey = "catalog:active"

// ProductSource serves the active catalog from cache, falling back to the
// wrapped source on a miss or cache failure.
type ProductSource struct {
	cache  Cache
	source catalog.Source
	ttl    time.Duration
	logger *logger.Logger
}

func NewProductSource(cache Cache, source catalog.Source, ttl time.Duration, logger *logger.Logger) *ProductSource {
	return &ProductSource{
		cache:  cache,
		source: source,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *ProductSource) ActiveProducts(ctx context.Context) ([]models.Product, error) {
	raw, err := s.cache.Get(ctx, activeProductsKey)
	if err == nil {
		var products []models.Product
		if err := json.Unmarshal(raw, &products); err == nil {
			return products, nil
		}
		s.logger.Warn("Discarding undecodable catalog cache entry")
	} else if !errors.Is(err, ErrMiss) {
		s.logger.Warn("Catalog cache read failed, falling back to store: %v", err)
	}

	products, err := s.source.ActiveProducts(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(products); err == nil {
		if err := s.cache.Set(ctx, activeProductsKey, raw, s.ttl); err != nil {
			s.logger.Warn("Failed to populate catalog cache: %v", err)
		}
	}
	return products, nil
}

// Invalidate drops the cached catalog so the next read hits the store.
func (s *ProductSource) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, activeProductsKey); err != nil {
		s.logger.Warn("Failed to invalidate catalog cache: %v", err)
	}
}
