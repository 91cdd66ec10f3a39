package repository

import (
	"context"

	"bakery/internal/domain/model"
)

type ProductListFilter struct {
	Page     int
	Limit    int
	Category string
	Search   string
}

type ProductRepository interface {
	Create(ctx context.Context, p model.Product) (int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	FindBySlug(ctx context.Context, slug string) (model.Product, error)
	List(ctx context.Context, f ProductListFilter) ([]model.Product, int64, error)
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, id int64) error
}
