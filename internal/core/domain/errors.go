package domain

import "errors"

var (
	// ErrEmailTaken is returned by Create when the email already has an account.
	ErrEmailTaken = errors.New("account already exists")

	// ErrInvalidCredentials covers unknown email and password mismatch alike,
	// so a failed login never confirms that an account exists.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers unknown, already-used and expired
	// verification/reset tokens. One error for all three keeps valid-but-used
	// indistinguishable from never-issued.
	ErrInvalidToken = errors.New("invalid or expired token")

	ErrAccountNotFound = errors.New("account not found")
	ErrRoleNotFound    = errors.New("role not found")
	ErrRoleExists      = errors.New("role already exists")

	// ErrMisconfigured signals missing secret material (pepper, signing key).
	// It must reach the client only as an opaque internal error; the detail
	// is logged server-side.
	ErrMisconfigured = errors.New("service misconfigured")
)
