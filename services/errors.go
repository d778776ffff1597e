package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrInvalidProductID   = errors.New("product_id is required")
	ErrInvalidQuantity    = errors.New("quantity must be a positive integer")
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidGoogleToken = errors.New("invalid google token")
	ErrInvalidOTP         = errors.New("invalid or expired otp")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
