package domain

import "time"

// RoleAdmin is the only role with built-in meaning: it gates the role
// management endpoints. Everything else is a free-form label.
const RoleAdmin = "admin"

// MaxRoleNameLength bounds role names at the storage layer.
const MaxRoleNameLength = 200

// Role is a flat named label attached to accounts. No hierarchy.
type Role struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountRole is the account-role association. Composite identity is
// (AccountID, RoleID); a pair appears at most once.
type AccountRole struct {
	AccountID string    `json:"account_id"`
	RoleID    string    `json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
}
