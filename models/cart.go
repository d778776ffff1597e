package models

import "time"

// CartItem is one cart line. UserID is nil for the shared guest cart.
// At most one line exists per (user_id, product_id) pair; the store
// enforces this with a NULLS NOT DISTINCT unique index.
type CartItem struct {
	ID        int       `json:"id"`
	UserID    *int      `json:"user_id"`
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartItemDetail is a cart line joined with the product display fields
// at read time, so price changes show up immediately.
type CartItemDetail struct {
	CartItem
	Name  string `json:"name"`
	Price int    `json:"price"`
	Image string `json:"image"`
}
