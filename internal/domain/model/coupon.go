package model

import "time"

type CouponType string

const (
	CouponTypePercentage CouponType = "percentage"
	CouponTypeFixed      CouponType = "fixed"
)

type Coupon struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string     `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Type        CouponType `gorm:"type:varchar(20);not null" json:"type"`
	Value       int64      `gorm:"not null" json:"value"`
	MinOrder    int64      `gorm:"not null;default:0" json:"min_order"`
	MaxDiscount int64      `gorm:"not null;default:0" json:"max_discount"` // 0 = no cap
	Active      bool       `gorm:"not null;default:true" json:"active"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// Rejection reasons returned by Discount. A rejected coupon is not an error:
// the discount is zero and the reason says why.
const (
	CouponRejectInactive = "coupon is not active"
	CouponRejectExpired  = "coupon has expired"
	CouponRejectMinOrder = "order subtotal below coupon minimum"
)

// Discount computes the discount for a cart subtotal. Percentage coupons are
// clamped to MaxDiscount when set; fixed coupons are clamped to the subtotal
// so the total can never go negative.
func (c *Coupon) Discount(subtotal int64, now time.Time) (int64, string) {
	if !c.Active {
		return 0, CouponRejectInactive
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return 0, CouponRejectExpired
	}
	if subtotal < c.MinOrder {
		return 0, CouponRejectMinOrder
	}

	var d int64
	switch c.Type {
	case CouponTypePercentage:
		d = subtotal * c.Value / 100
		if c.MaxDiscount > 0 && d > c.MaxDiscount {
			d = c.MaxDiscount
		}
	case CouponTypeFixed:
		d = c.Value
	}
	if d > subtotal {
		d = subtotal
	}
	if d < 0 {
		d = 0
	}
	return d, ""
}
