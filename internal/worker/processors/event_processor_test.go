package processors

import (
	"context"
	"testing"

	"ecofinds/internal/events"
	"ecofinds/internal/logger"
	"ecofinds/internal/notifications"
	"ecofinds/internal/store"
	"ecofinds/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProcessor(t *testing.T) (*EventProcessor, *notifications.Service) {
	t.Helper()
	svc := notifications.NewService(store.NewNotifications(testutil.NewDB(t)))
	return NewEventProcessor(svc, logger.NewNop()), svc
}

func TestPurchaseCreated(t *testing.T) {
	ctx := context.Background()
	ep, inbox := newProcessor(t)

	e, err := events.NewEvent(events.PurchaseCreated, "order-1", "bea", events.PurchaseCreatedPayload{
		PurchaseID:  "order-1",
		BuyerID:     "bea",
		BuyerName:   "Bea",
		TotalAmount: decimal.NewFromInt(70),
		Items: []events.PurchaseLine{
			{ProductID: "p1", Title: "Lamp", SellerID: "sam", Quantity: 1},
			{ProductID: "p2", Title: "Chair", SellerID: "sam", Quantity: 2},
			{ProductID: "p3", Title: "Kettle", SellerID: "kim", Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.NoError(t, ep.Process(ctx, e))

	got, err := inbox.List(ctx, "bea")
	require.NoError(t, err)
	require.Len(t, got.Notifications, 1)
	assert.Equal(t, "Order Confirmed", got.Notifications[0].Title)
	assert.Contains(t, got.Notifications[0].Message, "4 item(s)")

	for _, seller := range []string{"sam", "kim"} {
		got, err := inbox.List(ctx, seller)
		require.NoError(t, err)
		require.Len(t, got.Notifications, 1, seller)
		assert.Equal(t, "Item Sold", got.Notifications[0].Title)
	}
	sam, err := inbox.List(ctx, "sam")
	require.NoError(t, err)
	assert.Contains(t, sam.Notifications[0].Message, "and 1 more")
}

func TestProductCreated(t *testing.T) {
	ctx := context.Background()
	ep, inbox := newProcessor(t)

	e, err := events.NewEvent(events.ProductCreated, "p1", "sam", events.ProductPayload{ProductID: "p1", Title: "Lamp", SellerID: "sam"})
	require.NoError(t, err)
	require.NoError(t, ep.Process(ctx, e))

	got, err := inbox.List(ctx, "sam")
	require.NoError(t, err)
	require.Len(t, got.Notifications, 1)
	assert.Equal(t, "New Listing Live", got.Notifications[0].Title)
	require.NotNil(t, got.Notifications[0].ActionURL)
	assert.Equal(t, "/product/p1", *got.Notifications[0].ActionURL)
}

func TestIgnoredAndMalformed(t *testing.T) {
	ctx := context.Background()
	ep, inbox := newProcessor(t)

	e, err := events.NewEvent(events.ProductDeleted, "p1", "sam", nil)
	require.NoError(t, err)
	assert.NoError(t, ep.Process(ctx, e))

	assert.Error(t, ep.Process(ctx, events.Event{Type: events.PurchaseCreated}))

	got, err := inbox.List(ctx, "sam")
	require.NoError(t, err)
	assert.Empty(t, got.Notifications)
}
