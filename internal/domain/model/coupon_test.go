package model_test

import (
	"testing"
	"time"

	"bakery/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestCouponDiscount_FixedMinOrder(t *testing.T) {
	// SWEET25: fixed 25 off, minimum order 500
	c := model.Coupon{
		Code:     "SWEET25",
		Type:     model.CouponTypeFixed,
		Value:    25,
		MinOrder: 500,
		Active:   true,
	}
	now := time.Now()

	d, reason := c.Discount(499, now)
	assert.Equal(t, int64(0), d)
	assert.Equal(t, model.CouponRejectMinOrder, reason)

	d, reason = c.Discount(500, now)
	assert.Equal(t, int64(25), d)
	assert.Empty(t, reason)
	assert.Equal(t, int64(475), 500-d)
}

func TestCouponDiscount_FixedClampedToSubtotal(t *testing.T) {
	c := model.Coupon{Type: model.CouponTypeFixed, Value: 1000, Active: true}

	d, reason := c.Discount(300, time.Now())
	assert.Empty(t, reason)
	assert.Equal(t, int64(300), d)
}

func TestCouponDiscount_PercentageWithCap(t *testing.T) {
	c := model.Coupon{
		Type:        model.CouponTypePercentage,
		Value:       10,
		MaxDiscount: 100,
		Active:      true,
	}
	now := time.Now()

	d, reason := c.Discount(500, now)
	assert.Empty(t, reason)
	assert.Equal(t, int64(50), d)

	// 10% of 2000 = 200, capped at 100
	d, _ = c.Discount(2000, now)
	assert.Equal(t, int64(100), d)
}

func TestCouponDiscount_InactiveAndExpired(t *testing.T) {
	now := time.Now()

	c := model.Coupon{Type: model.CouponTypeFixed, Value: 10, Active: false}
	d, reason := c.Discount(1000, now)
	assert.Equal(t, int64(0), d)
	assert.Equal(t, model.CouponRejectInactive, reason)

	past := now.Add(-time.Hour)
	c = model.Coupon{Type: model.CouponTypeFixed, Value: 10, Active: true, ExpiresAt: &past}
	d, reason = c.Discount(1000, now)
	assert.Equal(t, int64(0), d)
	assert.Equal(t, model.CouponRejectExpired, reason)
}
