package service

import (
	"context"
	"errors"
	"time"

	"github.com/examplecore/account-service/internal/core/domain"
	"github.com/examplecore/account-service/internal/core/ports"
	"github.com/examplecore/account-service/internal/security"
)

// RoleService manages role labels and their assignment to accounts. Roles
// are flat names; the association carries its own creation timestamp.
type RoleService struct {
	accounts ports.AccountRepository
	roles    ports.RoleRepository

	now func() time.Time
}

func NewRoleService(accounts ports.AccountRepository, roles ports.RoleRepository) *RoleService {
	return &RoleService{accounts: accounts, roles: roles, now: time.Now}
}

func (s *RoleService) CreateRole(ctx context.Context, name string) (*domain.Role, error) {
	if name == "" || len(name) > domain.MaxRoleNameLength {
		return nil, domain.ErrRoleNotFound
	}
	role := &domain.Role{
		ID:        security.NewID(),
		Name:      name,
		CreatedAt: s.now().UTC(),
	}
	if err := s.roles.InsertRole(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *RoleService) ListRoles(ctx context.Context) ([]string, error) {
	roles, err := s.roles.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return names, nil
}

func (s *RoleService) RolesFor(ctx context.Context, email string) ([]domain.Role, error) {
	return s.roles.FindRolesByEmail(ctx, email)
}

// Assign attaches the role to the account. Both must already exist; a
// duplicate assignment succeeds without effect.
func (s *RoleService) Assign(ctx context.Context, email, roleName string) error {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	role, err := s.roles.FindRoleByName(ctx, roleName)
	if err != nil {
		return err
	}
	return s.roles.AssignRole(ctx, account.ID, role.ID, s.now().UTC())
}

// Unassign detaches the role. An unknown role name or an association the
// account does not hold is a no-op success; only an unknown email fails.
func (s *RoleService) Unassign(ctx context.Context, email, roleName string) error {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	role, err := s.roles.FindRoleByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return nil
		}
		return err
	}
	return s.roles.UnassignRole(ctx, account.ID, role.ID)
}
