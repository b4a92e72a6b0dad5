// Package repotest holds behaviour checks shared by every repository
// implementation.
package repotest

import (
	"context"
	"testing"

	"github.com/baharkarakas/inventory-backend/internal/models"
	"github.com/baharkarakas/inventory-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func RunUsers(t *testing.T, users repository.Users) {
	ctx := context.Background()
	email := "contract-" + uuid.NewString()[:8] + "@x.com"

	created, err := users.Create(ctx, models.User{
		Name:     "A",
		Email:    email,
		Password: models.Password{Hash: "h1", IsHashed: true},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.IsActivated)
	assert.Nil(t, created.ProfilePicture)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := users.Create(ctx, models.User{Name: "B", Email: email, Password: models.Password{Hash: "h2", IsHashed: true}})
		assert.ErrorIs(t, err, repository.ErrDuplicate)

		got, err := users.GetByEmail(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, "A", got.Name)
		assert.Equal(t, "h1", got.Password.Hash)
	})

	t.Run("lookups", func(t *testing.T) {
		got, err := users.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, email, got.Email)

		_, err = users.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, repository.ErrNotFound)
		_, err = users.GetByEmail(ctx, "missing-"+email)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("activate once", func(t *testing.T) {
		changed, err := users.SetActivated(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, changed)

		changed, err = users.SetActivated(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, changed)

		_, err = users.SetActivated(ctx, uuid.NewString())
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("password and profile", func(t *testing.T) {
		require.NoError(t, users.UpdatePassword(ctx, created.ID, "h3"))
		got, err := users.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "h3", got.Password.Hash)
		assert.True(t, got.Password.IsHashed)

		pic := "/uploads/me.png"
		u, err := users.UpdateProfile(ctx, created.ID, "A2", &pic)
		require.NoError(t, err)
		require.NotNil(t, u.ProfilePicture)
		assert.Equal(t, pic, *u.ProfilePicture)

		u, err = users.UpdateProfile(ctx, created.ID, "A3", nil)
		require.NoError(t, err)
		assert.Equal(t, "A3", u.Name)
		require.NotNil(t, u.ProfilePicture)
		assert.Equal(t, pic, *u.ProfilePicture)

		assert.ErrorIs(t, users.UpdatePassword(ctx, uuid.NewString(), "x"), repository.ErrNotFound)
	})
}

func RunItems(t *testing.T, items repository.Items) {
	ctx := context.Background()
	name := "Hammer-" + uuid.NewString()[:8]

	first, err := items.Create(ctx, models.InventoryItem{ItemName: name, Price: 9.99, Stock: 5, ItemImage: "/uploads/h.png"})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	_, err = items.Create(ctx, models.InventoryItem{ItemName: name, Price: 1, Stock: 1, ItemImage: "/uploads/x.png"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	second, err := items.Create(ctx, models.InventoryItem{ItemName: name + "-b", Price: 2, Stock: 1, ItemImage: "/uploads/b.png"})
	require.NoError(t, err)

	list, err := items.List(ctx)
	require.NoError(t, err)
	idx := map[string]int{}
	for i, it := range list {
		idx[it.ID] = i
	}
	assert.Less(t, idx[second.ID], idx[first.ID], "newest first")

	first.Stock = 0
	updated, err := items.Update(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated.Stock)
	assert.Equal(t, "/uploads/h.png", updated.ItemImage)

	second.ItemName = name
	_, err = items.Update(ctx, second)
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = items.Update(ctx, models.InventoryItem{ID: uuid.NewString(), ItemName: "ghost"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, items.Delete(ctx, first.ID))
	_, err = items.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, items.Delete(ctx, first.ID), repository.ErrNotFound)
	require.NoError(t, items.Delete(ctx, second.ID))

	t.Run("price column", func(t *testing.T) {
		it, err := items.Create(ctx, models.InventoryItem{ItemName: name + "-round", Price: 9.999, Stock: 1, ItemImage: "/uploads/r.png"})
		require.NoError(t, err)
		assert.Equal(t, 10.0, it.Price, "rounded to cents")

		got, err := items.GetByID(ctx, it.ID)
		require.NoError(t, err)
		assert.Equal(t, 10.0, got.Price)

		it.Price = 1e10
		_, err = items.Update(ctx, it)
		assert.ErrorIs(t, err, repository.ErrConstraint)
		require.NoError(t, items.Delete(ctx, it.ID))

		top, err := items.Create(ctx, models.InventoryItem{ItemName: name + "-max", Price: models.MaxPrice, Stock: 1, ItemImage: "/uploads/m.png"})
		require.NoError(t, err)
		assert.Equal(t, models.MaxPrice, top.Price)
		require.NoError(t, items.Delete(ctx, top.ID))
	})

	t.Run("price overflow", func(t *testing.T) {
		_, err := items.Create(ctx, models.InventoryItem{ItemName: name + "-big", Price: 1e10, Stock: 1, ItemImage: "/uploads/b.png"})
		assert.ErrorIs(t, err, repository.ErrConstraint)
	})

	t.Run("check constraints", func(t *testing.T) {
		_, err := items.Create(ctx, models.InventoryItem{ItemName: name + "-neg", Price: -1, Stock: 1, ItemImage: "/uploads/n.png"})
		assert.ErrorIs(t, err, repository.ErrConstraint)

		_, err = items.Create(ctx, models.InventoryItem{ItemName: name + "-neg", Price: 1, Stock: -1, ItemImage: "/uploads/n.png"})
		assert.ErrorIs(t, err, repository.ErrConstraint)
	})
}
