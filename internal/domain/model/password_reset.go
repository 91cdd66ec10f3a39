package model

import "time"

const PasswordResetTTL = time.Hour

// PasswordReset is a single-use token, consumed exactly once on a successful
// reset, otherwise expired after one hour.
type PasswordReset struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"type:varchar(255);not null;index" json:"email"`
	Token     string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"-"`
	UserType  string    `gorm:"type:varchar(20);not null" json:"user_type"` // user | admin
	Used      bool      `gorm:"not null;default:false" json:"used"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (p *PasswordReset) Usable(now time.Time) bool {
	return !p.Used && now.Before(p.ExpiresAt)
}
