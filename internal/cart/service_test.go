package cart

import (
	"context"
	"testing"
	"testing/quick"
	"time"

	"ecofinds/internal/logger"
	"ecofinds/internal/models"
	"ecofinds/internal/store"
	"ecofinds/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc      *Service
	products *store.Products
	clock    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{
		products: store.NewProducts(db),
		clock:    time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(store.NewCarts(db), f.products, logger.NewNop())
	f.svc.now = func() time.Time {
		f.clock = f.clock.Add(time.Millisecond)
		return f.clock
	}
	return f
}

func (f *fixture) listing(t *testing.T, id, seller string, price string) {
	t.Helper()
	require.NoError(t, f.products.Create(context.Background(), &models.Product{
		ID:          id,
		Title:       "Listing " + id,
		Description: "used",
		Price:       decimal.RequireFromString(price),
		Category:    "Other",
		SellerID:    seller,
		SellerName:  "Seller",
	}))
}

func TestAddItem_SameProductTwiceMerges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.listing(t, "p", "seller", "250")

	_, err := f.svc.AddItem(ctx, "buyer", "p", 1)
	require.NoError(t, err)
	cart, err := f.svc.AddItem(ctx, "buyer", "p", 1)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(500).Equal(Total(cart)))
	assert.Equal(t, 2, ItemCount(cart))
}

func TestAddItem_SnapshotAndItemID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.listing(t, "p", "seller", "19.99")

	cart, err := f.svc.AddItem(ctx, "buyer", "p", 0)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	item := cart.Items[0]
	assert.Equal(t, "p_1748768400001", item.ID)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, "Listing p", item.ProductTitle)
	assert.Equal(t, "seller", item.SellerID)

	// later price edits do not touch the cart snapshot
	p, err := f.products.Get(ctx, "p")
	require.NoError(t, err)
	p.Price = decimal.NewFromInt(5)
	require.NoError(t, f.products.Save(ctx, p))

	cart, err = f.svc.Get(ctx, "buyer")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("19.99").Equal(cart.Items[0].ProductPrice))
}

func TestAddItem_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.listing(t, "mine", "buyer", "10")
	f.listing(t, "sold", "seller", "10")

	p, err := f.products.Get(ctx, "sold")
	require.NoError(t, err)
	p.Status = models.ProductStatusSold
	require.NoError(t, f.products.Save(ctx, p))

	_, err = f.svc.AddItem(ctx, "buyer", "mine", 1)
	assert.ErrorIs(t, err, ErrOwnListing)

	_, err = f.svc.AddItem(ctx, "buyer", "sold", 1)
	assert.ErrorIs(t, err, ErrProductUnavailable)

	_, err = f.svc.AddItem(ctx, "buyer", "ghost", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)

	cart, err := f.svc.Get(ctx, "buyer")
	require.NoError(t, err)
	assert.Nil(t, cart)
}

func TestAddItem_RepeatedAddsSumQuantities(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.listing(t, "p", "seller", "3")

	var cart *models.Cart
	var err error
	for _, q := range []int{2, 5, 1} {
		cart, err = f.svc.AddItem(ctx, "buyer", "p", q)
		require.NoError(t, err)
	}
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 8, cart.Items[0].Quantity)
}

func TestRemoveItem_IdempotentAndDeletesEmptyCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.listing(t, "p", "seller", "10")

	cart, err := f.svc.AddItem(ctx, "buyer", "p", 1)
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = f.svc.RemoveItem(ctx, "buyer", itemID)
	require.NoError(t, err)
	assert.Nil(t, cart)

	cart, err = f.svc.RemoveItem(ctx, "buyer", itemID)
	require.NoError(t, err)
	assert.Nil(t, cart)
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.listing(t, "a", "seller", "10")
	f.listing(t, "b", "seller", "4")

	_, err := f.svc.AddItem(ctx, "buyer", "a", 1)
	require.NoError(t, err)
	cart, err := f.svc.AddItem(ctx, "buyer", "b", 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "a", cart.Items[0].ProductID)

	cart, err = f.svc.UpdateQuantity(ctx, "buyer", cart.Items[1].ID, 3)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(22).Equal(Total(cart)))

	cart, err = f.svc.UpdateQuantity(ctx, "buyer", cart.Items[0].ID, 0)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "b", cart.Items[0].ProductID)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.listing(t, "p", "seller", "10")

	_, err := f.svc.AddItem(ctx, "buyer", "p", 1)
	require.NoError(t, err)
	require.NoError(t, f.svc.Clear(ctx, "buyer"))
	require.NoError(t, f.svc.Clear(ctx, "buyer"))

	cart, err := f.svc.Get(ctx, "buyer")
	require.NoError(t, err)
	assert.Nil(t, cart)
}

func TestTotal_NilCart(t *testing.T) {
	assert.True(t, Total(nil).IsZero())
	assert.Zero(t, ItemCount(nil))
}

// Total equals the sum of each row's price times quantity for arbitrary carts.
func TestTotal_MatchesRowSum(t *testing.T) {
	property := func(cents []uint16, qtys []uint8) bool {
		cart := &models.Cart{}
		want := int64(0)
		for i := 0; i < len(cents) && i < len(qtys); i++ {
			q := int(qtys[i]%9) + 1
			cart.Items = append(cart.Items, models.CartItem{
				ProductPrice: decimal.New(int64(cents[i]), -2),
				Quantity:     q,
			})
			want += int64(cents[i]) * int64(q)
		}
		return Total(cart).Equal(decimal.New(want, -2))
	}
	require.NoError(t, quick.Check(property, nil))
}
