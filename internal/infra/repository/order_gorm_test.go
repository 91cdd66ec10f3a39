package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"bakery/internal/domain/model"
	infraRepo "bakery/internal/infra/repository"
	repo "bakery/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Order{},
		&model.OrderItem{},
		&model.StatusHistory{},
		&model.DeliveryPartner{},
		&model.Coupon{},
		&model.Product{},
		&model.AuditLog{},
		&model.OTP{},
	))
	return db
}

func sampleOrder(key string) model.Order {
	return model.Order{
		OrderNumber: "BKY-20260314-" + key,
		Customer: model.Customer{
			Name: "Asha Patel", Email: "asha@example.com",
			Phone: "9000000002", Address: "12 Rose Street",
		},
		Items: []model.OrderItem{
			{Name: "Chocolate Truffle Cake", UnitPrice: 550, Quantity: 1},
			{Name: "Butter Croissant", UnitPrice: 50, Quantity: 2},
		},
		ItemsPrice:     650,
		ShippingPrice:  50,
		Discount:       25,
		TotalPrice:     675,
		Status:         model.OrderStatusPending,
		DeliveryStatus: model.DeliveryStatusPending,
		PaymentMethod:  model.PaymentMethodCOD,
		PaymentStatus:  model.PaymentStatusPending,
		IdempotencyKey: key,
		StatusHistory: []model.StatusHistory{{
			Status: string(model.OrderStatusPending), Actor: model.ActorSystem,
			Note: "order placed", Timestamp: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		}},
	}
}

func TestOrderRepositoryRoundTrip(t *testing.T) {
	db := newTestDB(t)
	orders := infraRepo.NewOrderGormRepository(db)
	ctx := context.Background()

	id, err := orders.Create(ctx, sampleOrder("rt-1"))
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := orders.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "BKY-20260314-rt-1", got.OrderNumber)
	assert.Equal(t, int64(675), got.TotalPrice)
	require.Len(t, got.Items, 2)
	require.Len(t, got.StatusHistory, 1)

	_, err = orders.FindByID(ctx, id+100)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestOrderRepositoryDuplicateIdempotencyKey(t *testing.T) {
	db := newTestDB(t)
	orders := infraRepo.NewOrderGormRepository(db)
	ctx := context.Background()

	_, err := orders.Create(ctx, sampleOrder("dup-1"))
	require.NoError(t, err)

	second := sampleOrder("dup-1")
	second.OrderNumber = "BKY-20260314-other"
	_, err = orders.Create(ctx, second)
	assert.ErrorIs(t, err, repo.ErrDuplicate)

	got, found, err := orders.FindByIdempotencyKey(ctx, "dup-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "BKY-20260314-dup-1", got.OrderNumber)
}

func TestOrderRepositoryHistoryOrdering(t *testing.T) {
	db := newTestDB(t)
	orders := infraRepo.NewOrderGormRepository(db)
	history := infraRepo.NewStatusHistoryGormRepository(db)
	ctx := context.Background()

	id, err := orders.Create(ctx, sampleOrder("hist-1"))
	require.NoError(t, err)

	base := time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC)
	require.NoError(t, history.Append(ctx, model.StatusHistory{
		OrderID: id, Status: "confirmed", Actor: model.ActorAdmin, Timestamp: base,
	}))
	require.NoError(t, history.Append(ctx, model.StatusHistory{
		OrderID: id, Status: "processing", Actor: model.ActorAdmin, Timestamp: base.Add(time.Minute),
	}))

	got, err := orders.FindByID(ctx, id)
	require.NoError(t, err)
	require.Len(t, got.StatusHistory, 3)
	assert.Equal(t, "order placed", got.StatusHistory[0].Note)
	assert.Equal(t, "confirmed", got.StatusHistory[1].Status)
	assert.Equal(t, "processing", got.StatusHistory[2].Status)
}

func TestOrderRepositoryCountActiveByPartner(t *testing.T) {
	db := newTestDB(t)
	orders := infraRepo.NewOrderGormRepository(db)
	ctx := context.Background()

	partnerID := int64(9)
	statuses := []model.DeliveryStatus{
		model.DeliveryStatusAssigned,
		model.DeliveryStatusPickedUp,
		model.DeliveryStatusInTransit,
		model.DeliveryStatusDelivered,
		model.DeliveryStatusCancelled,
	}
	for i, st := range statuses {
		o := sampleOrder("cnt-" + string(rune('a'+i)))
		o.DeliveryPartnerID = &partnerID
		o.DeliveryStatus = st
		_, err := orders.Create(ctx, o)
		require.NoError(t, err)
	}

	n, err := orders.CountActiveByPartner(ctx, partnerID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = orders.CountActiveByPartner(ctx, partnerID+1)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOrderRepositoryListFilters(t *testing.T) {
	db := newTestDB(t)
	orders := infraRepo.NewOrderGormRepository(db)
	ctx := context.Background()

	a := sampleOrder("lf-a")
	a.Status = model.OrderStatusConfirmed
	_, err := orders.Create(ctx, a)
	require.NoError(t, err)

	b := sampleOrder("lf-b")
	b.OrderNumber = "BKY-20260314-lf-b"
	b.Customer.Name = "Ravi Kumar"
	b.Customer.Email = "ravi@example.com"
	_, err = orders.Create(ctx, b)
	require.NoError(t, err)

	got, total, err := orders.List(ctx, repo.OrderListFilter{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, got, 1)
	assert.Equal(t, model.OrderStatusConfirmed, got[0].Status)

	got, total, err = orders.List(ctx, repo.OrderListFilter{Search: "ravi"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, got, 1)
	assert.Equal(t, "Ravi Kumar", got[0].Customer.Name)
}

func TestPartnerRepositoryAddDeliveryStats(t *testing.T) {
	db := newTestDB(t)
	partners := infraRepo.NewDeliveryPartnerGormRepository(db)
	ctx := context.Background()

	id, err := partners.Create(ctx, model.DeliveryPartner{
		Name: "Test Rider", Email: "rider@example.com", Phone: "9000000001",
		Available: true, Status: model.PartnerStatusActive,
	})
	require.NoError(t, err)

	require.NoError(t, partners.AddDeliveryStats(ctx, id, 50))
	require.NoError(t, partners.AddDeliveryStats(ctx, id, 75))

	p, err := partners.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.TotalDeliveries)
	assert.Equal(t, int64(125), p.TotalEarnings)
}

func TestPartnerRepositoryUpdatePassword(t *testing.T) {
	db := newTestDB(t)
	partners := infraRepo.NewDeliveryPartnerGormRepository(db)
	ctx := context.Background()

	id, err := partners.Create(ctx, model.DeliveryPartner{
		Name: "Test Rider", Email: "rider@example.com", Phone: "9000000001",
		Password: "old-hash", Available: true, Status: model.PartnerStatusActive,
	})
	require.NoError(t, err)

	require.NoError(t, partners.UpdatePassword(ctx, id, "new-hash"))

	p, err := partners.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", p.Password)

	// a profile update must not clobber the stored hash
	p.Phone = "9000000009"
	require.NoError(t, partners.Update(ctx, p))
	p, err = partners.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "9000000009", p.Phone)
	assert.Equal(t, "new-hash", p.Password)

	assert.ErrorIs(t, partners.UpdatePassword(ctx, id+100, "x"), repo.ErrNotFound)
}

func TestCouponRepositoryUpdatePersistsCode(t *testing.T) {
	db := newTestDB(t)
	coupons := infraRepo.NewCouponGormRepository(db)
	ctx := context.Background()

	id, err := coupons.Create(ctx, model.Coupon{
		Code: "SWEET25", Type: model.CouponTypeFixed, Value: 25, Active: true,
	})
	require.NoError(t, err)

	require.NoError(t, coupons.Update(ctx, model.Coupon{
		ID: id, Code: "SWEET30", Type: model.CouponTypeFixed, Value: 30, Active: true,
	}))

	got, err := coupons.FindByCode(ctx, "SWEET30")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, int64(30), got.Value)

	_, err = coupons.FindByCode(ctx, "SWEET25")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	// renaming onto another coupon's code hits the unique index
	otherID, err := coupons.Create(ctx, model.Coupon{
		Code: "BDAY10", Type: model.CouponTypePercentage, Value: 10, Active: true,
	})
	require.NoError(t, err)
	err = coupons.Update(ctx, model.Coupon{
		ID: otherID, Code: "SWEET30", Type: model.CouponTypePercentage, Value: 10, Active: true,
	})
	assert.ErrorIs(t, err, repo.ErrDuplicate)
}

func TestOTPRepositoryDeleteExpired(t *testing.T) {
	db := newTestDB(t)
	otps := infraRepo.NewOTPGormRepository(db)
	ctx := context.Background()

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	_, err := otps.Create(ctx, model.OTP{
		Identifier: "9000000002", Type: model.OTPTypePhone, Code: "111111",
		ExpiresAt: now.Add(-time.Minute),
	})
	require.NoError(t, err)
	_, err = otps.Create(ctx, model.OTP{
		Identifier: "9000000003", Type: model.OTPTypePhone, Code: "222222",
		ExpiresAt: now.Add(model.OTPTTL),
	})
	require.NoError(t, err)

	n, err := otps.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = otps.FindLive(ctx, "9000000002", model.OTPTypePhone)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	live, err := otps.FindLive(ctx, "9000000003", model.OTPTypePhone)
	require.NoError(t, err)
	assert.Equal(t, "222222", live.Code)
}

func TestTxManagerRollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	tm := infraRepo.NewTxManagerGorm(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := tm.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Orders().Create(ctx, sampleOrder("tx-1")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// nothing visible outside the failed transaction
	orders := infraRepo.NewOrderGormRepository(db)
	_, found, err := orders.FindByIdempotencyKey(ctx, "tx-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestTxManagerCommits(t *testing.T) {
	db := newTestDB(t)
	tm := infraRepo.NewTxManagerGorm(db)
	ctx := context.Background()

	err := tm.WithinTx(ctx, func(r repo.TxRepos) error {
		_, err := r.Orders().Create(ctx, sampleOrder("tx-2"))
		return err
	})
	require.NoError(t, err)

	orders := infraRepo.NewOrderGormRepository(db)
	_, found, err := orders.FindByIdempotencyKey(ctx, "tx-2")
	require.NoError(t, err)
	assert.True(t, found)
}
