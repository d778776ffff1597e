package repositories

import (
	"context"

	"toko-online/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CartRepository struct {
	db *pgxpool.Pool
}

func NewCartRepository(db *pgxpool.Pool) *CartRepository {
	return &CartRepository{db: db}
}

// Upsert inserts a new cart line or folds the quantity into the existing
// line for the same (owner, product) pair. The whole merge happens in one
// statement against the NULLS NOT DISTINCT unique index, so concurrent
// adds for the same key can never produce two rows. The returned bool is
// true when a new line was created ((xmax = 0) on the returned row).
func (r *CartRepository) Upsert(ctx context.Context, owner *int, productID, quantity int) (*models.CartItem, bool, error) {
	query := `
		INSERT INTO cart (user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING id, user_id, product_id, quantity, created_at, updated_at, (xmax = 0) AS inserted
	`

	item := &models.CartItem{}
	var created bool
	err := r.db.QueryRow(ctx, query, owner, productID, quantity).Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
		&created,
	)
	if err != nil {
		return nil, false, err
	}

	return item, created, nil
}

// ListByOwner returns the owner's lines joined with the product display
// fields at call time, ordered by line id.
func (r *CartRepository) ListByOwner(ctx context.Context, owner *int) ([]models.CartItemDetail, error) {
	query := `
		SELECT c.id, c.user_id, c.product_id, c.quantity, c.created_at, c.updated_at,
		       p.name, p.price, p.image
		FROM cart c
		JOIN products p ON c.product_id = p.id
		WHERE c.user_id IS NOT DISTINCT FROM $1
		ORDER BY c.id
	`

	rows, err := r.db.Query(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.CartItemDetail{}
	for rows.Next() {
		var item models.CartItemDetail
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ProductID,
			&item.Quantity,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.Name,
			&item.Price,
			&item.Image,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// UpdateQuantity overwrites the quantity of the line, but only when the
// line belongs to the given owner. Ownership check and mutation are one
// conditional statement; a miss on either yields pgx.ErrNoRows so callers
// cannot tell a foreign line from a missing one.
func (r *CartRepository) UpdateQuantity(ctx context.Context, id int, owner *int, quantity int) (*models.CartItem, error) {
	query := `
		UPDATE cart
		SET quantity = $1, updated_at = NOW()
		WHERE id = $2 AND user_id IS NOT DISTINCT FROM $3
		RETURNING id, user_id, product_id, quantity, created_at, updated_at
	`

	item := &models.CartItem{}
	err := r.db.QueryRow(ctx, query, quantity, id, owner).Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return item, nil
}

// Delete removes the line under the same ownership scoping as
// UpdateQuantity. Returns pgx.ErrNoRows when nothing matched.
func (r *CartRepository) Delete(ctx context.Context, id int, owner *int) error {
	result, err := r.db.Exec(ctx,
		`DELETE FROM cart WHERE id = $1 AND user_id IS NOT DISTINCT FROM $2`,
		id, owner,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
