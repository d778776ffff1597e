package services

import (
	"context"
	"errors"

	"toko-online/models"

	"github.com/jackc/pgx/v5"
)

type ProductStore interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int) (*models.Product, error)
}

type ProductService struct {
	store ProductStore
}

func NewProductService(store ProductStore) *ProductService {
	return &ProductService{store: store}
}

func (s *ProductService) GetAll(ctx context.Context) ([]models.Product, error) {
	return s.store.GetAll(ctx)
}

func (s *ProductService) GetByID(ctx context.Context, id int) (*models.Product, error) {
	product, err := s.store.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}
