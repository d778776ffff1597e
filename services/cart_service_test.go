package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"toko-online/models"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCartStore keeps lines in memory with the same semantics as the
// Postgres implementation: one line per (owner, product), conditional
// scoped update/delete.
type fakeCartStore struct {
	nextID     int
	items      []models.CartItem
	storeCalls int
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{nextID: 1}
}

func sameOwner(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (f *fakeCartStore) Upsert(_ context.Context, owner *int, productID, quantity int) (*models.CartItem, bool, error) {
	f.storeCalls++
	for i := range f.items {
		if sameOwner(f.items[i].UserID, owner) && f.items[i].ProductID == productID {
			f.items[i].Quantity += quantity
			f.items[i].UpdatedAt = time.Now()
			item := f.items[i]
			return &item, false, nil
		}
	}

	item := models.CartItem{
		ID:        f.nextID,
		UserID:    owner,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.nextID++
	f.items = append(f.items, item)
	return &item, true, nil
}

func (f *fakeCartStore) ListByOwner(_ context.Context, owner *int) ([]models.CartItemDetail, error) {
	f.storeCalls++
	details := []models.CartItemDetail{}
	for _, item := range f.items {
		if sameOwner(item.UserID, owner) {
			details = append(details, models.CartItemDetail{
				CartItem: item,
				Name:     fmt.Sprintf("Product %d", item.ProductID),
				Price:    item.ProductID * 1000,
			})
		}
	}
	return details, nil
}

func (f *fakeCartStore) UpdateQuantity(_ context.Context, id int, owner *int, quantity int) (*models.CartItem, error) {
	f.storeCalls++
	for i := range f.items {
		if f.items[i].ID == id && sameOwner(f.items[i].UserID, owner) {
			f.items[i].Quantity = quantity
			f.items[i].UpdatedAt = time.Now()
			item := f.items[i]
			return &item, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeCartStore) Delete(_ context.Context, id int, owner *int) error {
	f.storeCalls++
	for i := range f.items {
		if f.items[i].ID == id && sameOwner(f.items[i].UserID, owner) {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func TestAddItemMergesQuantities(t *testing.T) {
	store := newFakeCartStore()
	svc := NewCartService(store)
	owner := models.Authenticated(1, "a@example.com")

	first, created, err := svc.AddItem(context.Background(), owner, 5, 2)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 2, first.Quantity)

	second, created, err := svc.AddItem(context.Background(), owner, 5, 3)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	items, err := svc.List(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, items, 1, "repeated adds for one product must not create a second line")
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddItemValidatesBeforeStore(t *testing.T) {
	store := newFakeCartStore()
	svc := NewCartService(store)
	owner := models.Guest()

	_, _, err := svc.AddItem(context.Background(), owner, 5, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, _, err = svc.AddItem(context.Background(), owner, 5, -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, _, err = svc.AddItem(context.Background(), owner, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidProductID)

	assert.Zero(t, store.storeCalls, "validation failures must not touch the store")
}

func TestListIsScopedToOwner(t *testing.T) {
	store := newFakeCartStore()
	svc := NewCartService(store)
	ctx := context.Background()

	alice := models.Authenticated(1, "alice@example.com")
	bob := models.Authenticated(2, "bob@example.com")
	guest := models.Guest()

	_, _, err := svc.AddItem(ctx, alice, 10, 1)
	require.NoError(t, err)
	_, _, err = svc.AddItem(ctx, bob, 10, 2)
	require.NoError(t, err)
	_, _, err = svc.AddItem(ctx, guest, 10, 3)
	require.NoError(t, err)

	aliceItems, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, aliceItems, 1)
	assert.Equal(t, 1, aliceItems[0].Quantity)

	guestItems, err := svc.List(ctx, guest)
	require.NoError(t, err)
	require.Len(t, guestItems, 1)
	assert.Equal(t, 3, guestItems[0].Quantity)
}

func TestSetQuantityOverwrites(t *testing.T) {
	store := newFakeCartStore()
	svc := NewCartService(store)
	ctx := context.Background()
	owner := models.Authenticated(1, "a@example.com")

	item, _, err := svc.AddItem(ctx, owner, 7, 4)
	require.NoError(t, err)

	updated, err := svc.SetQuantity(ctx, item.ID, owner, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Quantity, "set is an overwrite, not a merge")
}

func TestSetQuantityConflatesMissingAndForeign(t *testing.T) {
	store := newFakeCartStore()
	svc := NewCartService(store)
	ctx := context.Background()

	alice := models.Authenticated(1, "alice@example.com")
	bob := models.Authenticated(2, "bob@example.com")

	item, _, err := svc.AddItem(ctx, alice, 7, 4)
	require.NoError(t, err)

	_, foreignErr := svc.SetQuantity(ctx, item.ID, bob, 1)
	_, missingErr := svc.SetQuantity(ctx, 9999, bob, 1)

	assert.ErrorIs(t, foreignErr, ErrCartItemNotFound)
	assert.ErrorIs(t, missingErr, ErrCartItemNotFound)
	assert.Equal(t, missingErr, foreignErr, "a foreign line must look exactly like a missing one")
}

func TestSetQuantityRejectsNonPositiveBeforeStore(t *testing.T) {
	store := newFakeCartStore()
	svc := NewCartService(store)

	_, err := svc.SetQuantity(context.Background(), 7, models.Authenticated(1, "a@example.com"), 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Zero(t, store.storeCalls)
}

func TestRemoveItemScoped(t *testing.T) {
	store := newFakeCartStore()
	svc := NewCartService(store)
	ctx := context.Background()

	alice := models.Authenticated(1, "alice@example.com")
	bob := models.Authenticated(2, "bob@example.com")

	item, _, err := svc.AddItem(ctx, alice, 3, 1)
	require.NoError(t, err)

	err = svc.RemoveItem(ctx, item.ID, bob)
	assert.ErrorIs(t, err, ErrCartItemNotFound)

	err = svc.RemoveItem(ctx, item.ID, alice)
	require.NoError(t, err)

	items, err := svc.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGuestCartScenario(t *testing.T) {
	store := newFakeCartStore()
	svc := NewCartService(store)
	ctx := context.Background()
	guest := models.Guest()

	first, created, err := svc.AddItem(ctx, guest, 5, 2)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 5, first.ProductID)
	assert.Equal(t, 2, first.Quantity)
	assert.Nil(t, first.UserID)

	second, created, err := svc.AddItem(ctx, guest, 5, 3)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	require.NoError(t, svc.RemoveItem(ctx, first.ID, guest))

	items, err := svc.List(ctx, guest)
	require.NoError(t, err)
	assert.Empty(t, items)
}
