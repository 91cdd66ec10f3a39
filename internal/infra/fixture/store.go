// Package fixture provides in-memory repositories backing demo mode: when no
// database is configured the API serves deterministic seeded data. The same
// store backs usecase tests.
package fixture

import (
	"context"
	"sync"
	"time"

	"bakery/internal/domain/model"
	repo "bakery/internal/repository"
)

type Store struct {
	mu sync.Mutex

	orders    map[int64]model.Order
	history   map[int64][]model.StatusHistory // keyed by order id
	partners  map[int64]model.DeliveryPartner
	coupons   map[int64]model.Coupon
	products  map[int64]model.Product
	users     map[int64]model.User
	admins    map[int64]model.Admin
	otps      map[int64]model.OTP
	resets    map[int64]model.PasswordReset
	auditLogs []model.AuditLog

	nextID int64
}

func NewStore() *Store {
	return &Store{
		orders:   map[int64]model.Order{},
		history:  map[int64][]model.StatusHistory{},
		partners: map[int64]model.DeliveryPartner{},
		coupons:  map[int64]model.Coupon{},
		products: map[int64]model.Product{},
		users:    map[int64]model.User{},
		admins:   map[int64]model.Admin{},
		otps:     map[int64]model.OTP{},
		resets:   map[int64]model.PasswordReset{},
	}
}

// id must be called with s.mu held.
func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// WithinTx runs fn against the store itself. The store is not transactional;
// demo mode trades atomicity for zero dependencies, which is acceptable for
// fixture data.
func (s *Store) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(s)
}

func (s *Store) Orders() repo.OrderRepository             { return &orderFixtureRepo{s} }
func (s *Store) History() repo.StatusHistoryRepository    { return &historyFixtureRepo{s} }
func (s *Store) Partners() repo.DeliveryPartnerRepository { return &partnerFixtureRepo{s} }
func (s *Store) Coupons() repo.CouponRepository           { return &couponFixtureRepo{s} }
func (s *Store) Products() repo.ProductRepository         { return &productFixtureRepo{s} }
func (s *Store) AuditLogs() repo.AuditLogRepository       { return &auditLogFixtureRepo{s} }
func (s *Store) Users() repo.UserRepository               { return &userFixtureRepo{s} }
func (s *Store) Admins() repo.AdminRepository             { return &adminFixtureRepo{s} }
func (s *Store) OTPs() repo.OTPRepository                 { return &otpFixtureRepo{s} }
func (s *Store) PasswordResets() repo.PasswordResetRepository {
	return &passwordResetFixtureRepo{s}
}

// Seed loads the demo catalogue, one partner and one coupon so trial
// deployments answer every surface with data.
func (s *Store) Seed() {
	ctx := context.Background()

	s.Products().Create(ctx, model.Product{
		Name: "Chocolate Truffle Cake", Slug: "chocolate-truffle-cake",
		Description: "Rich chocolate layers with truffle ganache",
		Price:       550, Category: "cakes", InStock: true,
	})
	s.Products().Create(ctx, model.Product{
		Name: "Butter Croissant", Slug: "butter-croissant",
		Description: "Flaky, all-butter croissant",
		Price:       50, Category: "pastries", InStock: true,
	})
	s.Products().Create(ctx, model.Product{
		Name: "Celebration Gift Hamper", Slug: "celebration-gift-hamper",
		Description: "Assorted cookies, brownies and chocolates",
		Price:       1200, Category: "gifting", InStock: true,
	})

	s.Coupons().Create(ctx, model.Coupon{
		Code: "SWEET25", Type: model.CouponTypeFixed,
		Value: 25, MinOrder: 500, Active: true,
	})

	s.Partners().Create(ctx, model.DeliveryPartner{
		Name: "Demo Rider", Email: "rider@demo.local", Phone: "9000000001",
		VehicleType: "bike", VehicleNo: "DM 01 AB 1234",
		Available:   true, Status: model.PartnerStatusActive,
	})
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
