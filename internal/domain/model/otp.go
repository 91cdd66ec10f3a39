package model

import "time"

type OTPType string

const (
	OTPTypePhone OTPType = "phone"
	OTPTypeEmail OTPType = "email"
)

const (
	OTPTTL         = 10 * time.Minute
	OTPMaxAttempts = 5
)

// OTP is a short-lived verification code. At most one live (unexpired,
// unverified) record exists per (identifier, type); issuance deletes the
// previous one. Expired or exhausted records are deleted lazily on verify,
// with a periodic sweep removing the rest.
type OTP struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Identifier string    `gorm:"type:varchar(255);not null;index:idx_otp_ident_type" json:"identifier"`
	Type       OTPType   `gorm:"type:varchar(20);not null;index:idx_otp_ident_type" json:"type"`
	Code       string    `gorm:"type:varchar(10);not null" json:"-"`
	ExpiresAt  time.Time `gorm:"not null" json:"expires_at"`
	Attempts   int       `gorm:"not null;default:0" json:"attempts"`
	Verified   bool      `gorm:"not null;default:false" json:"verified"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (o *OTP) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

func (o *OTP) AttemptsExhausted() bool {
	return o.Attempts >= OTPMaxAttempts
}
