package repository

import "errors"

// ErrNotFound is the repository-level sentinel for a missing row. GORM
// implementations translate gorm.ErrRecordNotFound into it so usecases never
// import gorm.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned on a unique-key violation (email, coupon code,
// idempotency key).
var ErrDuplicate = errors.New("duplicate key")
