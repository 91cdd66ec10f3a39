package repository

import (
	"context"

	"bakery/internal/domain/model"
)

type PasswordResetRepository interface {
	Create(ctx context.Context, pr model.PasswordReset) (int64, error)
	FindByToken(ctx context.Context, token string) (model.PasswordReset, error)
	MarkUsed(ctx context.Context, id int64) error
	DeleteByEmail(ctx context.Context, email, userType string) error
}
