package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/inventory-backend/internal/apperr"
	"github.com/baharkarakas/inventory-backend/internal/models"
	repo "github.com/baharkarakas/inventory-backend/internal/repository"
	"github.com/baharkarakas/inventory-backend/internal/repository/memory"
)

func ptr[T any](v T) *T { return &v }

func TestInventory_HammerLifecycle(t *testing.T) {
	svc := NewInventoryService(memory.NewItems())
	ctx := context.Background()

	it, err := svc.Create(ctx, models.InventoryItem{ItemName: " Hammer ", Price: 9.99, Stock: 5, ItemImage: "/uploads/hammer.png"})
	require.NoError(t, err)
	assert.Equal(t, "Hammer", it.ItemName)
	assert.NotEmpty(t, it.ID)

	_, err = svc.Create(ctx, models.InventoryItem{ItemName: "Hammer", Price: 1, Stock: 1, ItemImage: "/uploads/h2.png"})
	assert.ErrorIs(t, err, ErrDuplicateItem)

	upd, err := svc.Update(ctx, it.ID, models.ItemPatch{Stock: ptr(int64(0))})
	require.NoError(t, err)
	assert.Equal(t, int64(0), upd.Stock)
	assert.Equal(t, 9.99, upd.Price)
	assert.Equal(t, "/uploads/hammer.png", upd.ItemImage)

	require.NoError(t, svc.Delete(ctx, it.ID))
	_, err = svc.Get(ctx, it.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, it.ID), ErrItemNotFound)
}

func TestInventory_CreateValidation(t *testing.T) {
	svc := NewInventoryService(memory.NewItems())
	ctx := context.Background()

	cases := map[string]struct {
		in   models.InventoryItem
		want error
	}{
		"no image":        {models.InventoryItem{ItemName: "A"}, ErrItemImageRequired},
		"no name":         {models.InventoryItem{ItemName: "  ", ItemImage: "/uploads/a.png"}, ErrItemNameRequired},
		"negative price":  {models.InventoryItem{ItemName: "A", Price: -1, ItemImage: "/uploads/a.png"}, ErrNegativePrice},
		"negative stock":  {models.InventoryItem{ItemName: "A", Stock: -1, ItemImage: "/uploads/a.png"}, ErrNegativeStock},
		"price too large": {models.InventoryItem{ItemName: "A", Price: 1e10, ItemImage: "/uploads/a.png"}, ErrPriceTooLarge},
		"sub-cent price":  {models.InventoryItem{ItemName: "A", Price: 9.999, ItemImage: "/uploads/a.png"}, ErrPricePrecision},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestInventory_UpdateRules(t *testing.T) {
	svc := NewInventoryService(memory.NewItems())
	ctx := context.Background()

	a, err := svc.Create(ctx, models.InventoryItem{ItemName: "A", Price: 1, Stock: 1, ItemImage: "/uploads/a.png"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, models.InventoryItem{ItemName: "B", Price: 2, Stock: 2, ItemImage: "/uploads/b.png"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "missing", models.ItemPatch{Stock: ptr(int64(1))})
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = svc.Update(ctx, a.ID, models.ItemPatch{ItemName: ptr("B")})
	assert.ErrorIs(t, err, ErrDuplicateItem)

	_, err = svc.Update(ctx, a.ID, models.ItemPatch{Price: ptr(-0.5)})
	assert.ErrorIs(t, err, ErrNegativePrice)

	_, err = svc.Update(ctx, a.ID, models.ItemPatch{Price: ptr(1e10)})
	assert.ErrorIs(t, err, ErrPriceTooLarge)

	_, err = svc.Update(ctx, a.ID, models.ItemPatch{Price: ptr(0.005)})
	assert.ErrorIs(t, err, ErrPricePrecision)

	upd, err := svc.Update(ctx, a.ID, models.ItemPatch{ItemName: ptr("A2"), Price: ptr(0.0), ItemImage: ptr("/uploads/a2.png")})
	require.NoError(t, err)
	assert.Equal(t, "A2", upd.ItemName)
	assert.Equal(t, 0.0, upd.Price)
	assert.Equal(t, "/uploads/a2.png", upd.ItemImage)
	assert.Equal(t, int64(1), upd.Stock)
}

func TestInventory_ListNewestFirst(t *testing.T) {
	svc := NewInventoryService(memory.NewItems())
	ctx := context.Background()
	for _, n := range []string{"first", "second", "third"} {
		_, err := svc.Create(ctx, models.InventoryItem{ItemName: n, ItemImage: "/uploads/x.png"})
		require.NoError(t, err)
	}

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "third", items[0].ItemName)
	assert.Equal(t, "first", items[2].ItemName)
}

func TestInventory_MaxPriceAccepted(t *testing.T) {
	svc := NewInventoryService(memory.NewItems())

	it, err := svc.Create(context.Background(), models.InventoryItem{ItemName: "Gold", Price: models.MaxPrice, Stock: 1, ItemImage: "/uploads/g.png"})
	require.NoError(t, err)
	assert.Equal(t, models.MaxPrice, it.Price)
}

// constraintItems rejects every write the way the database does on an
// out-of-range column value.
type constraintItems struct {
	*memory.Items
}

func (constraintItems) Create(context.Context, models.InventoryItem) (models.InventoryItem, error) {
	return models.InventoryItem{}, fmt.Errorf("%w: numeric field overflow", repo.ErrConstraint)
}

func (constraintItems) Update(context.Context, models.InventoryItem) (models.InventoryItem, error) {
	return models.InventoryItem{}, fmt.Errorf("%w: violates check constraint", repo.ErrConstraint)
}

func TestInventory_ConstraintIsValidation(t *testing.T) {
	items := memory.NewItems()
	seeded, err := items.Create(context.Background(), models.InventoryItem{ItemName: "A", Price: 1, Stock: 1, ItemImage: "/uploads/a.png"})
	require.NoError(t, err)
	svc := NewInventoryService(constraintItems{items})

	_, err = svc.Create(context.Background(), models.InventoryItem{ItemName: "B", Price: 1, Stock: 1, ItemImage: "/uploads/b.png"})
	assert.ErrorIs(t, err, ErrItemOutOfRange)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Update(context.Background(), seeded.ID, models.ItemPatch{Stock: ptr(int64(2))})
	assert.ErrorIs(t, err, ErrItemOutOfRange)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
