package ports

import (
	"context"

	"github.com/examplecore/account-service/internal/core/domain"
)

// CreateAccountInput carries a registration request. Field shape (non-empty,
// email format, password length) is validated at the HTTP boundary before
// the service runs.
type CreateAccountInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UpdateAccountInput carries a profile update. NewPassword empty means the
// password is unchanged; names are always overwritten.
type UpdateAccountInput struct {
	Email       string
	OldPassword string
	NewPassword string
	FirstName   string
	LastName    string
}

// AccountService implements the account lifecycle as atomic business
// operations.
type AccountService interface {
	// Create registers an Unverified account and returns the email
	// verification token for out-of-band delivery.
	Create(ctx context.Context, in CreateAccountInput) (string, error)

	// Login verifies credentials and returns the account. Unknown email and
	// wrong password both yield domain.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*domain.Account, error)

	Update(ctx context.Context, in UpdateAccountInput) error

	GetInfo(ctx context.Context, email string) (*domain.AccountInfo, error)

	// VerifyEmail redeems a verification token. Used and unknown tokens fail
	// with the same domain.ErrInvalidToken.
	VerifyEmail(ctx context.Context, token string) error

	// RequestPasswordReset opens (or re-opens) a reset window. It succeeds
	// regardless of whether the email is registered.
	RequestPasswordReset(ctx context.Context, email string) error

	// CheckPasswordReset reports whether the token is currently redeemable.
	CheckPasswordReset(ctx context.Context, email, token string) (bool, error)

	// ResetPassword redeems a reset token and installs the new password.
	ResetPassword(ctx context.Context, email, token, newPassword string) error
}

// RoleService manages flat role labels and their assignment to accounts.
type RoleService interface {
	CreateRole(ctx context.Context, name string) (*domain.Role, error)
	ListRoles(ctx context.Context) ([]string, error)
	RolesFor(ctx context.Context, email string) ([]domain.Role, error)

	// Assign fails when the email or role name is unknown; assigning a role
	// the account already holds succeeds without effect.
	Assign(ctx context.Context, email, roleName string) error

	// Unassign is a no-op success when the account does not hold the role.
	Unassign(ctx context.Context, email, roleName string) error
}
