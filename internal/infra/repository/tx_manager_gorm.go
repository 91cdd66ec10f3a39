package repository

import (
	"context"

	repo "bakery/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders    repo.OrderRepository
	history   repo.StatusHistoryRepository
	partners  repo.DeliveryPartnerRepository
	coupons   repo.CouponRepository
	products  repo.ProductRepository
	auditLogs repo.AuditLogRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository             { return r.orders }
func (r *txReposGorm) History() repo.StatusHistoryRepository    { return r.history }
func (r *txReposGorm) Partners() repo.DeliveryPartnerRepository { return r.partners }
func (r *txReposGorm) Coupons() repo.CouponRepository           { return r.coupons }
func (r *txReposGorm) Products() repo.ProductRepository         { return r.products }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository       { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// repos are rebuilt on the tx handle
		r := &txReposGorm{
			orders:    NewOrderGormRepository(tx),
			history:   NewStatusHistoryGormRepository(tx),
			partners:  NewDeliveryPartnerGormRepository(tx),
			coupons:   NewCouponGormRepository(tx),
			products:  NewProductGormRepository(tx),
			auditLogs: NewAuditLogGormRepository(tx),
		}
		return fn(r)
	})
}
