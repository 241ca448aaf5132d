package events

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_EnvelopeCarriesPayload(t *testing.T) {
	e, err := NewEvent(PurchaseCreated, "pur-1", "buyer-1", PurchaseCreatedPayload{
		PurchaseID:  "pur-1",
		BuyerID:     "buyer-1",
		TotalAmount: decimal.RequireFromString("650.00"),
		Items: []PurchaseLine{
			{ProductID: "p1", SellerID: "s1", Quantity: 2, Price: decimal.NewFromInt(250)},
		},
	})
	require.NoError(t, err)

	raw, err := encode(e)
	require.NoError(t, err)
	got, err := decode(raw)
	require.NoError(t, err)

	assert.Equal(t, PurchaseCreated, got.Type)
	assert.Equal(t, "pur-1", got.AggregateID)

	var payload PurchaseCreatedPayload
	require.NoError(t, got.Decode(&payload))
	assert.True(t, decimal.NewFromInt(650).Equal(payload.TotalAmount))
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "s1", payload.Items[0].SellerID)
}

func TestEvent_DecodeWithoutData(t *testing.T) {
	e, err := NewEvent(ProductDeleted, "p1", "s1", nil)
	require.NoError(t, err)

	var payload ProductPayload
	assert.Error(t, e.Decode(&payload))
}

func TestDecode_RejectsGarbage(t *testing.T) {
	_, err := decode([]byte("{not json"))
	assert.Error(t, err)
}
