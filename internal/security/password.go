// Package security holds the credential primitives: password seasoning and
// hashing, verification/reset token generation, and session token
// issuance/validation. Everything here is immutable after construction and
// safe for concurrent use.
package security

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/examplecore/account-service/internal/core/domain"
)

// DefaultCost is the bcrypt work factor used in production. 14 puts a single
// verification at roughly one second on reference hardware.
const DefaultCost = 14

// Season combines the credential inputs prior to hashing. The order
// salt+password+pepper is a contract: Hash and Verify reproduce it
// symmetrically, and any reordering invalidates every stored hash.
func Season(password, salt, pepper string) string {
	return salt + password + pepper
}

// PasswordHasher hashes and verifies seasoned passwords with bcrypt.
type PasswordHasher struct {
	pepper string
	cost   int
}

// NewPasswordHasher builds a hasher around the server-wide pepper. A
// non-positive cost falls back to DefaultCost; tests pass bcrypt.MinCost to
// stay fast.
func NewPasswordHasher(pepper string, cost int) *PasswordHasher {
	if cost <= 0 {
		cost = DefaultCost
	}
	return &PasswordHasher{pepper: pepper, cost: cost}
}

// Hash seasons the password with the given salt and applies bcrypt. An empty
// pepper yields domain.ErrMisconfigured; callers surface that as an opaque
// internal error only.
func (h *PasswordHasher) Hash(password, salt string) (string, error) {
	if h.pepper == "" {
		return "", domain.ErrMisconfigured
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(Season(password, salt, h.pepper)), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password+salt+pepper matches the stored hash. The
// comparison is bcrypt's own, which is constant-time with respect to
// mismatch position; no byte compare happens here.
func (h *PasswordHasher) Verify(password, salt, hash string) (bool, error) {
	if h.pepper == "" {
		return false, domain.ErrMisconfigured
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(Season(password, salt, h.pepper)))
	return err == nil, nil
}
