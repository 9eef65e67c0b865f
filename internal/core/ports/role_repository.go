package ports

import (
	"context"
	"time"

	"github.com/examplecore/account-service/internal/core/domain"
)

// RoleRepository is the persistence port for roles and the account-role
// association.
type RoleRepository interface {
	// InsertRole stores a new role, returning domain.ErrRoleExists on a
	// duplicate name.
	InsertRole(ctx context.Context, role *domain.Role) error

	ListRoles(ctx context.Context) ([]domain.Role, error)

	// FindRoleByName returns domain.ErrRoleNotFound when the name is unknown.
	FindRoleByName(ctx context.Context, name string) (*domain.Role, error)

	// FindRolesByEmail returns the roles held by the account, empty when the
	// account holds none or does not exist.
	FindRolesByEmail(ctx context.Context, email string) ([]domain.Role, error)

	// AssignRole records the association. Assigning an already-held role is
	// a no-op success.
	AssignRole(ctx context.Context, accountID, roleID string, now time.Time) error

	// UnassignRole removes the association. Removing a role the account does
	// not hold is a no-op success.
	UnassignRole(ctx context.Context, accountID, roleID string) error
}
