package repository

import (
	"context"
	"errors"
	"time"

	"bakery/internal/domain/model"
	repo "bakery/internal/repository"

	"gorm.io/gorm"
)

type OTPGormRepository struct {
	db *gorm.DB
}

func NewOTPGormRepository(db *gorm.DB) *OTPGormRepository {
	return &OTPGormRepository{db: db}
}

func (r *OTPGormRepository) Create(ctx context.Context, otp model.OTP) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&otp).Error; err != nil {
		return 0, err
	}
	return otp.ID, nil
}

func (r *OTPGormRepository) FindLive(ctx context.Context, identifier string, otpType model.OTPType) (model.OTP, error) {
	var otp model.OTP
	err := r.db.WithContext(ctx).
		Where("identifier = ? AND type = ? AND verified = ?", identifier, otpType, false).
		Order("id desc").
		First(&otp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.OTP{}, repo.ErrNotFound
	}
	if err != nil {
		return model.OTP{}, err
	}
	return otp, nil
}

func (r *OTPGormRepository) DeleteByIdentifier(ctx context.Context, identifier string, otpType model.OTPType) error {
	return r.db.WithContext(ctx).
		Where("identifier = ? AND type = ?", identifier, otpType).
		Delete(&model.OTP{}).Error
}

func (r *OTPGormRepository) IncrementAttempts(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&model.OTP{}).
		Where("id = ?", id).
		Update("attempts", gorm.Expr("attempts + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OTPGormRepository) MarkVerified(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&model.OTP{}).
		Where("id = ?", id).
		Update("verified", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OTPGormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.OTP{}).Error
}

func (r *OTPGormRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&model.OTP{})
	return res.RowsAffected, res.Error
}
