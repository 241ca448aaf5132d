package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"ecofinds/internal/logger"
	"ecofinds/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 20*time.Millisecond))
	require.NoError(t, c.Set(ctx, "forever", []byte("x"), 0))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))

	assert.Eventually(t, func() bool {
		_, err := c.Get(ctx, "k")
		return errors.Is(err, ErrMiss)
	}, time.Second, 5*time.Millisecond)

	_, err = c.Get(ctx, "forever")
	assert.NoError(t, err)

	require.NoError(t, c.Delete(ctx, "forever"))
	_, err = c.Get(ctx, "forever")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryCache_CopiesValues(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	value := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", value, time.Minute))
	value[0] = 'z'

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	got[1] = 'z'

	again, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

type countingSource struct {
	calls    int
	products []models.Product
	err      error
}

func (s *countingSource) ActiveProducts(ctx context.Context) ([]models.Product, error) {
	s.calls++
	return s.products, s.err
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection reset")
}
func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection reset")
}
func (brokenCache) Delete(context.Context, string) error { return nil }

func TestProductSource_CachesUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{products: []models.Product{{ID: "p1", Title: "Lamp", Price: decimal.RequireFromString("12.50")}}}
	ps := NewProductSource(NewMemoryCache(), src, time.Minute, logger.NewNop())

	first, err := ps.ActiveProducts(ctx)
	require.NoError(t, err)
	second, err := ps.ActiveProducts(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, src.calls)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.True(t, first[0].Price.Equal(second[0].Price))

	ps.Invalidate(ctx)
	_, err = ps.ActiveProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestProductSource_FallsBackWhenCacheFails(t *testing.T) {
	src := &countingSource{products: []models.Product{{ID: "p1"}}}
	ps := NewProductSource(brokenCache{}, src, time.Minute, logger.NewNop())

	got, err := ps.ActiveProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestProductSource_PropagatesStoreError(t *testing.T) {
	boom := errors.New("db down")
	ps := NewProductSource(NewMemoryCache(), &countingSource{err: boom}, time.Minute, logger.NewNop())

	_, err := ps.ActiveProducts(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestNewRedisCache_BadURL(t *testing.T) {
	_, err := NewRedisCache("not-a-redis-url")
	assert.Error(t, err)
}
