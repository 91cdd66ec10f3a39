package model

import "time"

type PartnerStatus string

const (
	PartnerStatusActive   PartnerStatus = "active"
	PartnerStatusInactive PartnerStatus = "inactive"
	PartnerStatusOnBreak  PartnerStatus = "on_break"
)

type DeliveryPartner struct {
	ID          int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string        `gorm:"type:varchar(255);not null" json:"name"`
	Email       string        `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Phone       string        `gorm:"type:varchar(50);not null" json:"phone"`
	VehicleType string        `gorm:"type:varchar(50)" json:"vehicle_type,omitempty"`
	VehicleNo   string        `gorm:"type:varchar(50)" json:"vehicle_no,omitempty"`
	Password    string        `gorm:"type:varchar(255);not null" json:"-"`
	Available   bool          `gorm:"not null;default:true" json:"available"`
	Status      PartnerStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	// Lifetime stats, mutated only inside the same transaction as the order
	// mutation that causes them. The active-order count is derived by query,
	// not stored.
	TotalDeliveries int64 `gorm:"not null;default:0" json:"total_deliveries"`
	TotalEarnings   int64 `gorm:"not null;default:0" json:"total_earnings"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (s PartnerStatus) Valid() bool {
	switch s {
	case PartnerStatusActive, PartnerStatusInactive, PartnerStatusOnBreak:
		return true
	}
	return false
}
