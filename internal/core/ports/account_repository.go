package ports

import (
	"context"
	"time"

	"github.com/examplecore/account-service/internal/core/domain"
)

// AccountRepository is the persistence port for account records. Every method
// is atomic per call; the conditional updates below are the only enforcement
// point for single-use token semantics, so implementations must evaluate the
// predicate and apply the write as one operation.
type AccountRepository interface {
	// FindByEmail returns domain.ErrAccountNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Insert stores a new account, returning domain.ErrEmailTaken when the
	// email is already registered.
	Insert(ctx context.Context, account *domain.Account) error

	// Update overwrites the mutable fields (names, about-me, hash, salt) of
	// an existing account, keyed by email.
	Update(ctx context.Context, account *domain.Account) error

	// MarkEmailVerified sets the verified timestamp on the account whose
	// verification token matches and whose timestamp is still unset. Returns
	// false when no such account exists, which covers both unknown and
	// already-redeemed tokens.
	MarkEmailVerified(ctx context.Context, token string, now time.Time) (bool, error)

	// SetPasswordReset installs a fresh reset token and expiry, overwriting
	// any pending reset. Returns false when the email is unknown.
	SetPasswordReset(ctx context.Context, email, token string, expiresAt time.Time) (bool, error)

	// HasPendingReset reports whether email holds the given non-sentinel
	// token with an expiry strictly after now.
	HasPendingReset(ctx context.Context, email, token string, now time.Time) (bool, error)

	// RedeemPasswordReset atomically installs the new hash and salt and
	// clears the reset token and expiry, but only if the token still matches
	// and is unexpired at now. Returns false when the predicate fails; two
	// concurrent redemptions of one token must not both return true.
	RedeemPasswordReset(ctx context.Context, email, token, newHash, newSalt string, now time.Time) (bool, error)
}
