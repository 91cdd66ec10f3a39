package repository

import (
	"context"

	"bakery/internal/domain/model"
)

type CouponRepository interface {
	Create(ctx context.Context, c model.Coupon) (int64, error)
	FindByCode(ctx context.Context, code string) (model.Coupon, error)
	List(ctx context.Context) ([]model.Coupon, error)
	Update(ctx context.Context, c model.Coupon) error
	Delete(ctx context.Context, id int64) error
}
