package repository

import (
	"context"

	"bakery/internal/domain/model"
)

type DeliveryPartnerRepository interface {
	Create(ctx context.Context, p model.DeliveryPartner) (int64, error)
	FindByID(ctx context.Context, id int64) (model.DeliveryPartner, error)
	FindByEmail(ctx context.Context, email string) (model.DeliveryPartner, error)
	List(ctx context.Context) ([]model.DeliveryPartner, error)
	// Update persists profile fields only; the password hash changes
	// exclusively through UpdatePassword.
	Update(ctx context.Context, p model.DeliveryPartner) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	Delete(ctx context.Context, id int64) error

	// AddDeliveryStats bumps total_deliveries by one and total_earnings by
	// the given amount in a single UPDATE. Called only inside the same
	// transaction as the order mutation.
	AddDeliveryStats(ctx context.Context, id int64, earnings int64) error
}
