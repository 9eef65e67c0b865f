package domain

import "time"

// NoResetToken is the sentinel stored in PasswordResetToken when no reset is
// pending. It is the string form of the nil UUID and can never collide with a
// generated token.
const NoResetToken = "00000000-0000-0000-0000-000000000000"

// Account is the identity record for a registered user.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	AboutMe      string    `json:"about_me,omitempty"`

	// EmailVerificationToken is issued once at registration and matched at
	// redemption together with a nil VerifiedAt.
	EmailVerificationToken string     `json:"-"`
	VerifiedAt             *time.Time `json:"verified_at,omitempty"`

	// PasswordResetToken holds NoResetToken unless a reset is pending, in
	// which case ResetExpiresAt is also set. Both are cleared together.
	PasswordResetToken string     `json:"-"`
	ResetExpiresAt     *time.Time `json:"-"`
}

// Verified reports whether the account completed the email handshake.
func (a *Account) Verified() bool {
	return a.VerifiedAt != nil
}

// ResetPending reports whether a password reset is currently open. Expiry is
// enforced at redemption time, not here.
func (a *Account) ResetPending() bool {
	return a.PasswordResetToken != NoResetToken && a.ResetExpiresAt != nil
}

// AccountInfo is the public projection of an account, safe to return to the
// authenticated owner.
type AccountInfo struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
