package usecase

import (
	"time"

	"bakery/internal/domain/model"
)

// Clock and IDGenerator keep usecases deterministic under test.
type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID() string
}

// TokenIssuer signs an access token for a principal. The JWT implementation
// lives in cmd/api.
type TokenIssuer interface {
	Issue(subjectID int64, role model.Role, now time.Time) (string, time.Time, error)
}

// PasswordHasher and PasswordVerifier wrap bcrypt so tests can swap in a
// cheap implementation.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

type PasswordVerifier interface {
	Verify(hash, plain string) bool
}
