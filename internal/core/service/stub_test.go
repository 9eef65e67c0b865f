package service

import (
	"context"
	"time"

	"github.com/examplecore/account-service/internal/core/domain"
	"github.com/examplecore/account-service/internal/core/ports"
)

// stubAccountRepo is an in-memory AccountRepository with the same
// conditional-update semantics the Mongo adapter provides.
type stubAccountRepo struct {
	accounts map[string]*domain.Account // keyed by email
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	if a.VerifiedAt != nil {
		ts := *a.VerifiedAt
		clone.VerifiedAt = &ts
	}
	if a.ResetExpiresAt != nil {
		ts := *a.ResetExpiresAt
		clone.ResetExpiresAt = &ts
	}
	return &clone
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	a, ok := r.accounts[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := r.accounts[email]
	return ok, nil
}

func (r *stubAccountRepo) Insert(_ context.Context, account *domain.Account) error {
	if _, exists := r.accounts[account.Email]; exists {
		return domain.ErrEmailTaken
	}
	r.accounts[account.Email] = cloneAccount(account)
	return nil
}

func (r *stubAccountRepo) Update(_ context.Context, account *domain.Account) error {
	stored, ok := r.accounts[account.Email]
	if !ok {
		return domain.ErrAccountNotFound
	}
	stored.FirstName = account.FirstName
	stored.LastName = account.LastName
	stored.AboutMe = account.AboutMe
	stored.PasswordHash = account.PasswordHash
	stored.Salt = account.Salt
	return nil
}

func (r *stubAccountRepo) MarkEmailVerified(_ context.Context, token string, now time.Time) (bool, error) {
	for _, a := range r.accounts {
		if a.EmailVerificationToken == token && a.VerifiedAt == nil {
			ts := now
			a.VerifiedAt = &ts
			return true, nil
		}
	}
	return false, nil
}

func (r *stubAccountRepo) SetPasswordReset(_ context.Context, email, token string, expiresAt time.Time) (bool, error) {
	a, ok := r.accounts[email]
	if !ok {
		return false, nil
	}
	a.PasswordResetToken = token
	ts := expiresAt
	a.ResetExpiresAt = &ts
	return true, nil
}

func (r *stubAccountRepo) hasPending(email, token string, now time.Time) *domain.Account {
	a, ok := r.accounts[email]
	if !ok {
		return nil
	}
	if a.PasswordResetToken == domain.NoResetToken || a.PasswordResetToken != token {
		return nil
	}
	if a.ResetExpiresAt == nil || !a.ResetExpiresAt.After(now) {
		return nil
	}
	return a
}

func (r *stubAccountRepo) HasPendingReset(_ context.Context, email, token string, now time.Time) (bool, error) {
	return r.hasPending(email, token, now) != nil, nil
}

func (r *stubAccountRepo) RedeemPasswordReset(_ context.Context, email, token, newHash, newSalt string, now time.Time) (bool, error) {
	a := r.hasPending(email, token, now)
	if a == nil {
		return false, nil
	}
	a.PasswordHash = newHash
	a.Salt = newSalt
	a.PasswordResetToken = domain.NoResetToken
	a.ResetExpiresAt = nil
	return true, nil
}

// stubRoleRepo is an in-memory RoleRepository. It resolves emails through
// the account repo the same way the Mongo adapter joins collections.
type stubRoleRepo struct {
	accounts    *stubAccountRepo
	roles       map[string]*domain.Role // keyed by name
	assignments map[string]domain.AccountRole
}

func newStubRoleRepo(accounts *stubAccountRepo) *stubRoleRepo {
	return &stubRoleRepo{
		accounts:    accounts,
		roles:       make(map[string]*domain.Role),
		assignments: make(map[string]domain.AccountRole),
	}
}

func (r *stubRoleRepo) InsertRole(_ context.Context, role *domain.Role) error {
	if _, exists := r.roles[role.Name]; exists {
		return domain.ErrRoleExists
	}
	clone := *role
	r.roles[role.Name] = &clone
	return nil
}

func (r *stubRoleRepo) ListRoles(_ context.Context) ([]domain.Role, error) {
	var out []domain.Role
	for _, role := range r.roles {
		out = append(out, *role)
	}
	return out, nil
}

func (r *stubRoleRepo) FindRoleByName(_ context.Context, name string) (*domain.Role, error) {
	role, ok := r.roles[name]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	clone := *role
	return &clone, nil
}

func (r *stubRoleRepo) FindRolesByEmail(_ context.Context, email string) ([]domain.Role, error) {
	account, ok := r.accounts.accounts[email]
	if !ok {
		return nil, nil
	}
	var out []domain.Role
	for _, ar := range r.assignments {
		if ar.AccountID != account.ID {
			continue
		}
		for _, role := range r.roles {
			if role.ID == ar.RoleID {
				out = append(out, *role)
			}
		}
	}
	return out, nil
}

func (r *stubRoleRepo) AssignRole(_ context.Context, accountID, roleID string, now time.Time) error {
	key := accountID + "/" + roleID
	if _, exists := r.assignments[key]; exists {
		return nil
	}
	r.assignments[key] = domain.AccountRole{AccountID: accountID, RoleID: roleID, CreatedAt: now}
	return nil
}

func (r *stubRoleRepo) UnassignRole(_ context.Context, accountID, roleID string) error {
	delete(r.assignments, accountID+"/"+roleID)
	return nil
}

// stubDispatcher records enqueued mail instead of delivering it.
type stubDispatcher struct {
	sent []ports.EmailMessage
}

func (d *stubDispatcher) Enqueue(msg ports.EmailMessage) {
	d.sent = append(d.sent, msg)
}
