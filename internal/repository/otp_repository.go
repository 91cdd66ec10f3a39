package repository

import (
	"context"
	"time"

	"bakery/internal/domain/model"
)

type OTPRepository interface {
	Create(ctx context.Context, otp model.OTP) (int64, error)
	// FindLive returns the unverified record for (identifier, type). Expiry
	// and attempt checks are the usecase's job so it can delete lazily.
	FindLive(ctx context.Context, identifier string, otpType model.OTPType) (model.OTP, error)
	DeleteByIdentifier(ctx context.Context, identifier string, otpType model.OTPType) error
	IncrementAttempts(ctx context.Context, id int64) error
	MarkVerified(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	// DeleteExpired removes records past their expiry. Backstop for rows
	// that are never verified again; returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
