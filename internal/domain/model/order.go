package model

import (
	"errors"
	"time"
)

type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodOnline PaymentMethod = "online"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// DefaultDeliveryFee is credited to a partner when an order carries no
// explicit fee. Carried over from the previous system; override with
// DELIVERY_FEE_DEFAULT.
const DefaultDeliveryFee int64 = 50

var (
	ErrNoItems       = errors.New("order has no items")
	ErrBadItem       = errors.New("order item has invalid price or quantity")
	ErrTotalMismatch = errors.New("total_price does not equal items + shipping + tax - discount")
)

// Customer is the snapshot embedded in every order. Orders placed by a
// registered user also carry UserID, but the snapshot is authoritative for
// fulfillment.
type Customer struct {
	Name    string `gorm:"column:customer_name;type:varchar(255);not null" json:"name"`
	Email   string `gorm:"column:customer_email;type:varchar(255);not null" json:"email"`
	Phone   string `gorm:"column:customer_phone;type:varchar(50);not null" json:"phone"`
	Address string `gorm:"column:customer_address;type:text;not null" json:"address"`
}

type Order struct {
	ID          int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string   `gorm:"type:varchar(32);not null;uniqueIndex" json:"order_number"`
	UserID      *int64   `gorm:"index" json:"user_id,omitempty"`
	Customer    Customer `gorm:"embedded" json:"customer"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`

	// Money in integer currency units.
	ItemsPrice    int64  `gorm:"not null" json:"items_price"`
	ShippingPrice int64  `gorm:"not null" json:"shipping_price"`
	TaxPrice      int64  `gorm:"not null" json:"tax_price"`
	Discount      int64  `gorm:"not null" json:"discount"`
	TotalPrice    int64  `gorm:"not null" json:"total_price"`
	CouponCode    string `gorm:"type:varchar(50)" json:"coupon_code,omitempty"`

	Status            OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	DeliveryStatus    DeliveryStatus  `gorm:"type:varchar(20);not null;index" json:"delivery_status"`
	DeliveryPartnerID *int64          `gorm:"index" json:"delivery_partner_id,omitempty"`
	DeliveryFee       int64           `gorm:"not null" json:"delivery_fee"`
	DeliveredAt       *time.Time      `json:"delivered_at,omitempty"`
	StatusHistory     []StatusHistory `gorm:"foreignKey:OrderID" json:"status_history"`

	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null" json:"payment_status"`
	PaymentRef    string        `gorm:"type:varchar(255)" json:"payment_ref,omitempty"`

	IdempotencyKey string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// ComputeItemsPrice sums unit price x quantity over the items.
func ComputeItemsPrice(items []OrderItem) int64 {
	var total int64
	for _, it := range items {
		total += it.UnitPrice * it.Quantity
	}
	return total
}

// ValidateAmounts enforces the money invariant:
// total = items + shipping + tax - discount, with sane item lines.
func (o *Order) ValidateAmounts() error {
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	for _, it := range o.Items {
		if it.Quantity < 1 || it.UnitPrice < 0 {
			return ErrBadItem
		}
	}
	if ComputeItemsPrice(o.Items) != o.ItemsPrice {
		return ErrTotalMismatch
	}
	if o.ItemsPrice+o.ShippingPrice+o.TaxPrice-o.Discount != o.TotalPrice {
		return ErrTotalMismatch
	}
	return nil
}

// ActiveForDelivery reports whether the order counts against a partner's
// active-order load.
func (o *Order) ActiveForDelivery() bool {
	switch o.DeliveryStatus {
	case DeliveryStatusAssigned, DeliveryStatusPickedUp, DeliveryStatusInTransit:
		return true
	}
	return false
}

// EffectiveDeliveryFee falls back to the configured default when the order
// carries no fee.
func (o *Order) EffectiveDeliveryFee(fallback int64) int64 {
	if o.DeliveryFee > 0 {
		return o.DeliveryFee
	}
	return fallback
}
