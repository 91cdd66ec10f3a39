package repository

import (
	"context"
	"errors"

	"bakery/internal/domain/model"
	repo "bakery/internal/repository"

	"gorm.io/gorm"
)

type DeliveryPartnerGormRepository struct {
	db *gorm.DB
}

func NewDeliveryPartnerGormRepository(db *gorm.DB) *DeliveryPartnerGormRepository {
	return &DeliveryPartnerGormRepository{db: db}
}

func (r *DeliveryPartnerGormRepository) Create(ctx context.Context, p model.DeliveryPartner) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, repo.ErrDuplicate
		}
		return 0, err
	}
	return p.ID, nil
}

func (r *DeliveryPartnerGormRepository) FindByID(ctx context.Context, id int64) (model.DeliveryPartner, error) {
	var p model.DeliveryPartner
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.DeliveryPartner{}, repo.ErrNotFound
	}
	if err != nil {
		return model.DeliveryPartner{}, err
	}
	return p, nil
}

func (r *DeliveryPartnerGormRepository) FindByEmail(ctx context.Context, email string) (model.DeliveryPartner, error) {
	var p model.DeliveryPartner
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.DeliveryPartner{}, repo.ErrNotFound
	}
	if err != nil {
		return model.DeliveryPartner{}, err
	}
	return p, nil
}

func (r *DeliveryPartnerGormRepository) List(ctx context.Context) ([]model.DeliveryPartner, error) {
	var partners []model.DeliveryPartner
	if err := r.db.WithContext(ctx).Order("id asc").Find(&partners).Error; err != nil {
		return nil, err
	}
	return partners, nil
}

func (r *DeliveryPartnerGormRepository) Update(ctx context.Context, p model.DeliveryPartner) error {
	res := r.db.WithContext(ctx).Model(&model.DeliveryPartner{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"name":         p.Name,
			"phone":        p.Phone,
			"vehicle_type": p.VehicleType,
			"vehicle_no":   p.VehicleNo,
			"available":    p.Available,
			"status":       p.Status,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *DeliveryPartnerGormRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	res := r.db.WithContext(ctx).Model(&model.DeliveryPartner{}).
		Where("id = ?", id).
		Update("password", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *DeliveryPartnerGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.DeliveryPartner{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *DeliveryPartnerGormRepository) AddDeliveryStats(ctx context.Context, id int64, earnings int64) error {
	res := r.db.WithContext(ctx).Model(&model.DeliveryPartner{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_deliveries": gorm.Expr("total_deliveries + 1"),
			"total_earnings":   gorm.Expr("total_earnings + ?", earnings),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
