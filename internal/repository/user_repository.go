package repository

import (
	"context"

	"bakery/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, u model.User) (int64, error)
	FindByID(ctx context.Context, id int64) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	List(ctx context.Context, page, limit int) ([]model.User, int64, error)
	Update(ctx context.Context, u model.User) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	Delete(ctx context.Context, id int64) error
}

type AdminRepository interface {
	Create(ctx context.Context, a model.Admin) (int64, error)
	FindByID(ctx context.Context, id int64) (model.Admin, error)
	FindByEmail(ctx context.Context, email string) (model.Admin, error)
	List(ctx context.Context) ([]model.Admin, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	Delete(ctx context.Context, id int64) error
}
