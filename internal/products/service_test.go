package products

import (
	"bytes"
	"context"
	"testing"

	"ecofinds/internal/events"
	"ecofinds/internal/logger"
	"ecofinds/internal/models"
	"ecofinds/internal/store"
	"ecofinds/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) { c.calls++ }

type recordingPublisher struct{ types []events.Type }

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.types = append(p.types, e.Type)
	return nil
}
func (p *recordingPublisher) Close() error { return nil }

func newService(t *testing.T) (*Service, *countingInvalidator, *recordingPublisher) {
	t.Helper()
	inv, pub := &countingInvalidator{}, &recordingPublisher{}
	return NewService(store.NewProducts(testutil.NewDB(t)), inv, pub, logger.NewNop()), inv, pub
}

var sam = Seller{ID: "sam", Name: "Sam"}

func lamp() Input {
	return Input{
		Title:       "  Brass Lamp ",
		Description: "works fine",
		Price:       decimal.RequireFromString("25.00"),
		Category:    "home & garden",
	}
}

func TestCreate_Validation(t *testing.T) {
	s, _, _ := newService(t)
	ctx := context.Background()

	cases := map[error]func(*Input){
		ErrTitleRequired:   func(in *Input) { in.Title = " " },
		ErrDescRequired:    func(in *Input) { in.Description = "" },
		ErrCategoryInvalid: func(in *Input) { in.Category = "Spaceships" },
		ErrPriceInvalid:    func(in *Input) { in.Price = decimal.Zero },
	}
	for want, mutate := range cases {
		in := lamp()
		mutate(&in)
		_, err := s.Create(ctx, sam, in)
		assert.ErrorIs(t, err, want)
	}
}

func TestCreate_NormalizesAndAnnounces(t *testing.T) {
	s, inv, pub := newService(t)

	p, err := s.Create(context.Background(), sam, lamp())
	require.NoError(t, err)

	assert.Equal(t, "Brass Lamp", p.Title)
	assert.Equal(t, "Home & Garden", p.Category)
	assert.Equal(t, models.ProductStatusActive, p.Status)
	assert.Equal(t, "Sam", p.SellerName)
	assert.Equal(t, 1, inv.calls)
	assert.Equal(t, []events.Type{events.ProductCreated}, pub.types)
}

func TestOwnershipChecks(t *testing.T) {
	s, _, _ := newService(t)
	ctx := context.Background()
	p, err := s.Create(ctx, sam, lamp())
	require.NoError(t, err)

	_, err = s.Update(ctx, "mallory", p.ID, lamp())
	assert.ErrorIs(t, err, ErrNotOwner)
	_, err = s.SetStatus(ctx, "mallory", p.ID, models.ProductStatusSold)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.ErrorIs(t, s.Delete(ctx, "mallory", p.ID), ErrNotOwner)

	_, err = s.Update(ctx, sam.ID, "missing", lamp())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatusAndDelete(t *testing.T) {
	s, inv, pub := newService(t)
	ctx := context.Background()
	p, err := s.Create(ctx, sam, lamp())
	require.NoError(t, err)

	in := lamp()
	in.Price = decimal.NewFromInt(30)
	updated, err := s.Update(ctx, sam.ID, p.ID, in)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30).Equal(updated.Price))

	_, err = s.SetStatus(ctx, sam.ID, p.ID, "lost")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = s.SetStatus(ctx, sam.ID, p.ID, models.ProductStatusSold)
	require.NoError(t, err)
	active, err := s.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, s.Delete(ctx, sam.ID, p.ID))
	_, err = s.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 4, inv.calls)
	assert.Equal(t, []events.Type{
		events.ProductCreated, events.ProductUpdated, events.ProductStatusChanged, events.ProductDeleted,
	}, pub.types)
}

func TestListByCategory(t *testing.T) {
	s, _, _ := newService(t)
	ctx := context.Background()
	_, err := s.Create(ctx, sam, lamp())
	require.NoError(t, err)

	got, err := s.ListByCategory(ctx, "HOME & GARDEN")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = s.ListByCategory(ctx, "nope")
	assert.ErrorIs(t, err, ErrCategoryInvalid)
}

func TestExportBySeller(t *testing.T) {
	s, _, _ := newService(t)
	ctx := context.Background()
	_, err := s.Create(ctx, sam, lamp())
	require.NoError(t, err)
	_, err = s.Create(ctx, Seller{ID: "other", Name: "Other"}, lamp())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.ExportBySeller(ctx, sam.ID, &buf))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	sheet, ok := file.Sheet["Listings"]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "Title", sheet.Rows[0].Cells[1].Value)
	assert.Equal(t, "Brass Lamp", sheet.Rows[1].Cells[1].Value)
	assert.Equal(t, "25.00", sheet.Rows[1].Cells[4].Value)
}
