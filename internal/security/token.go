package security

import "github.com/google/uuid"

// NewToken returns a 128-bit random identifier used for email verification
// and password reset links. The nil UUID string is reserved as the
// "no pending reset" sentinel and is never produced here.
func NewToken() string {
	return uuid.NewString()
}

// NewSalt returns a fresh per-account salt. Same shape as a token; the two
// are never interchangeable in storage.
func NewSalt() string {
	return uuid.NewString()
}

// NewID returns an identifier for new account and role records.
func NewID() string {
	return uuid.NewString()
}
