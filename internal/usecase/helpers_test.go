package usecase_test

import (
	"fmt"
	"time"

	"bakery/internal/domain/model"
)

// fakeClock returns a fixed instant, advanced explicitly by tests.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// seqIDGen yields 000001-seq, 000002-seq, ... so order numbers are
// predictable. The counter sits in the leading six characters because
// order numbers keep only that much of the id.
type seqIDGen struct {
	n int
}

func (g *seqIDGen) NewID() string {
	g.n++
	return fmt.Sprintf("%06d-seq", g.n)
}

// plainHasher stores passwords with a marker prefix so tests can assert
// hashing happened without paying for bcrypt.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

type plainVerifier struct{}

func (plainVerifier) Verify(hash, plain string) bool { return hash == "hashed:"+plain }

// staticTokenIssuer issues a recognizable token for assertions.
type staticTokenIssuer struct{}

func (staticTokenIssuer) Issue(subjectID int64, role model.Role, now time.Time) (string, time.Time, error) {
	return fmt.Sprintf("token-%d-%s", subjectID, role), now.Add(24 * time.Hour), nil
}

func ptr[T any](v T) *T { return &v }
