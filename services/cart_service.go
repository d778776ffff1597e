package services

import (
	"context"
	"errors"

	"toko-online/models"

	"github.com/jackc/pgx/v5"
)

// CartStore is the persistence port for cart lines. Implementations must
// keep the one-line-per-(owner, product) invariant under concurrent
// Upsert calls and must scope UpdateQuantity/Delete to the owner in a
// single conditional operation.
type CartStore interface {
	Upsert(ctx context.Context, owner *int, productID, quantity int) (*models.CartItem, bool, error)
	ListByOwner(ctx context.Context, owner *int) ([]models.CartItemDetail, error)
	UpdateQuantity(ctx context.Context, id int, owner *int, quantity int) (*models.CartItem, error)
	Delete(ctx context.Context, id int, owner *int) error
}

type CartService struct {
	store CartStore
}

func NewCartService(store CartStore) *CartService {
	return &CartService{store: store}
}

// AddItem merges quantity into the caller's line for the product, creating
// the line on first add. The returned bool is true when a new line was
// created. Note the merge is additive, so a retried add counts twice;
// callers that need retry safety pass an Idempotency-Key at the HTTP layer.
func (s *CartService) AddItem(ctx context.Context, caller models.Identity, productID, quantity int) (*models.CartItem, bool, error) {
	if productID <= 0 {
		return nil, false, ErrInvalidProductID
	}
	if quantity <= 0 {
		return nil, false, ErrInvalidQuantity
	}

	return s.store.Upsert(ctx, caller.OwnerID(), productID, quantity)
}

func (s *CartService) List(ctx context.Context, caller models.Identity) ([]models.CartItemDetail, error) {
	return s.store.ListByOwner(ctx, caller.OwnerID())
}

// SetQuantity overwrites (not merges) the quantity of the caller's line.
// A line that does not exist and a line owned by someone else both come
// back as ErrCartItemNotFound, so line ids never leak across owners.
func (s *CartService) SetQuantity(ctx context.Context, id int, caller models.Identity, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.store.UpdateQuantity(ctx, id, caller.OwnerID(), quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, err
	}

	return item, nil
}

// RemoveItem deletes the caller's line under the same conflated not-found
// semantics as SetQuantity.
func (s *CartService) RemoveItem(ctx context.Context, id int, caller models.Identity) error {
	err := s.store.Delete(ctx, id, caller.OwnerID())
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrCartItemNotFound
	}
	return err
}
