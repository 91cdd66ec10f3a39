package repository

import (
	"context"
	"errors"

	"bakery/internal/domain/model"
	repo "bakery/internal/repository"

	"gorm.io/gorm"
)

type PasswordResetGormRepository struct {
	db *gorm.DB
}

func NewPasswordResetGormRepository(db *gorm.DB) *PasswordResetGormRepository {
	return &PasswordResetGormRepository{db: db}
}

func (r *PasswordResetGormRepository) Create(ctx context.Context, pr model.PasswordReset) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&pr).Error; err != nil {
		return 0, err
	}
	return pr.ID, nil
}

func (r *PasswordResetGormRepository) FindByToken(ctx context.Context, token string) (model.PasswordReset, error) {
	var pr model.PasswordReset
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&pr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PasswordReset{}, repo.ErrNotFound
	}
	if err != nil {
		return model.PasswordReset{}, err
	}
	return pr, nil
}

func (r *PasswordResetGormRepository) MarkUsed(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&model.PasswordReset{}).
		Where("id = ?", id).
		Update("used", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *PasswordResetGormRepository) DeleteByEmail(ctx context.Context, email, userType string) error {
	return r.db.WithContext(ctx).
		Where("email = ? AND user_type = ?", email, userType).
		Delete(&model.PasswordReset{}).Error
}
