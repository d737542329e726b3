package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	l := f.newList(t, alice, "Groceries")

	item, err := f.items.Add(ctx, alice, l.ID, " Milk ", 2)
	require.NoError(t, err)
	assert.Equal(t, l.ID, item.ListID)
	assert.Equal(t, "Milk", item.Name)
	assert.Equal(t, 2, item.Quantity)
	assert.False(t, item.IsPurchased)
}

func TestAddItem_InvalidCreatesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	l := f.newList(t, alice, "Groceries")

	_, err := f.items.Add(ctx, alice, l.ID, "Milk", 0)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.items.Add(ctx, alice, l.ID, "Milk", -3)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.items.Add(ctx, alice, l.ID, "", 1)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.items.Add(ctx, alice, l.ID, "Milk", 3000000000)
	require.ErrorIs(t, err, ErrInvalidInput)

	items, err := f.lists.ListItems(ctx, alice, l.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAddItem_MaxQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	l := f.newList(t, alice, "Groceries")

	item, err := f.items.Add(ctx, alice, l.ID, "Rice", maxQuantity)
	require.NoError(t, err)
	assert.Equal(t, maxQuantity, item.Quantity)

	_, err = f.items.Add(ctx, alice, l.ID, "Rice", maxQuantity+1)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddItem_RequiresListOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	l := f.newList(t, alice, "Groceries")

	_, err := f.items.Add(ctx, bob, l.ID, "Milk", 1)
	require.ErrorIs(t, err, ErrForbidden)

	items, err := f.lists.ListItems(ctx, alice, l.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMarkPurchased_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	l := f.newList(t, alice, "Groceries")
	item, err := f.items.Add(ctx, alice, l.ID, "Milk", 2)
	require.NoError(t, err)

	first, err := f.items.MarkPurchased(ctx, alice, item.ID)
	require.NoError(t, err)
	assert.True(t, first.IsPurchased)

	second, err := f.items.MarkPurchased(ctx, alice, item.ID)
	require.NoError(t, err)
	assert.True(t, second.IsPurchased)
}

func TestItemMutations_RequireListOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	l := f.newList(t, alice, "Groceries")
	item, err := f.items.Add(ctx, alice, l.ID, "Milk", 2)
	require.NoError(t, err)

	_, err = f.items.MarkPurchased(ctx, bob, item.ID)
	require.ErrorIs(t, err, ErrForbidden)
	require.ErrorIs(t, f.items.Delete(ctx, bob, item.ID), ErrForbidden)

	items, err := f.lists.ListItems(ctx, alice, l.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].IsPurchased)

	require.NoError(t, f.items.Delete(ctx, alice, item.ID))
	require.ErrorIs(t, f.items.Delete(ctx, alice, item.ID), ErrForbidden)
}
