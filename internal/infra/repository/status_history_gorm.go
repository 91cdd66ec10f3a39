package repository

import (
	"context"

	"bakery/internal/domain/model"

	"gorm.io/gorm"
)

type StatusHistoryGormRepository struct {
	db *gorm.DB
}

func NewStatusHistoryGormRepository(db *gorm.DB) *StatusHistoryGormRepository {
	return &StatusHistoryGormRepository{db: db}
}

func (r *StatusHistoryGormRepository) Append(ctx context.Context, entry model.StatusHistory) error {
	return r.db.WithContext(ctx).Create(&entry).Error
}

func (r *StatusHistoryGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.StatusHistory, error) {
	var entries []model.StatusHistory
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("timestamp asc, id asc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
