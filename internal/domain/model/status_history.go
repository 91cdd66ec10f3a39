package model

import "time"

// StatusHistory is the append-only audit trail of an order. One row per
// status or delivery-status mutation, never edited or removed.
type StatusHistory struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64     `gorm:"not null;index" json:"order_id"`
	Status    string    `gorm:"type:varchar(30);not null" json:"status"`
	Actor     Actor     `gorm:"type:varchar(20);not null" json:"actor"`
	Note      string    `gorm:"type:text" json:"note,omitempty"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
}
