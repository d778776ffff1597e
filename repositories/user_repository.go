package repositories

import (
	"context"
	"time"

	"toko-online/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (full_name, email, password, address, city, postal_code, profile_picture, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	return r.db.QueryRow(ctx, query,
		user.FullName,
		user.Email,
		user.Password,
		user.Address,
		user.City,
		user.PostalCode,
		user.ProfilePicture,
		time.Now(),
	).Scan(&user.ID, &user.CreatedAt)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, full_name, email, password,
		       COALESCE(address, ''), COALESCE(city, ''), COALESCE(postal_code, ''),
		       COALESCE(profile_picture, ''), created_at
		FROM users WHERE email = $1
	`

	user := &models.User{}
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.Password,
		&user.Address,
		&user.City,
		&user.PostalCode,
		&user.ProfilePicture,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int, hashedPassword string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET password = $1 WHERE id = $2`,
		hashedPassword, userID,
	)
	return err
}
