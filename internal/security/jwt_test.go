package security

import (
	"errors"
	"testing"
	"time"

	"github.com/examplecore/account-service/internal/core/domain"
)

func testAccount() *domain.Account {
	return &domain.Account{
		ID:        "acc-1",
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Smith",
	}
}

func frozenTokens(key string, ttl time.Duration, at time.Time) *SessionTokens {
	s := NewSessionTokens(key, "issuer", "audience", ttl)
	s.now = func() time.Time { return at }
	return s
}

func TestSessionTokens_RoundTrip(t *testing.T) {
	s := NewSessionTokens("secret", "issuer", "audience", 5*time.Minute)

	roles := []domain.Role{{Name: "admin"}, {Name: "editor"}}
	raw, err := s.Issue(testAccount(), roles)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := s.Validate(raw)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("unexpected email claim: %q", claims.Email)
	}
	if claims.Name != "Alice" {
		t.Fatalf("unexpected name claim: %q", claims.Name)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "admin" || claims.Roles[1] != "editor" {
		t.Fatalf("unexpected role claims: %v", claims.Roles)
	}
}

func TestSessionTokens_NoRoles(t *testing.T) {
	s := NewSessionTokens("secret", "issuer", "audience", 5*time.Minute)

	raw, err := s.Issue(testAccount(), nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := s.Validate(raw)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(claims.Roles) != 0 {
		t.Fatalf("expected zero role claims, got %v", claims.Roles)
	}
}

func TestSessionTokens_ExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s := frozenTokens("secret", 5*time.Minute, issuedAt)

	raw, err := s.Issue(testAccount(), nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// One tick inside the window passes; at and past expiry fail. No skew
	// tolerance.
	s.now = func() time.Time { return issuedAt.Add(5*time.Minute - time.Second) }
	if _, err := s.Validate(raw); err != nil {
		t.Fatalf("token rejected before expiry: %v", err)
	}

	s.now = func() time.Time { return issuedAt.Add(5*time.Minute + time.Second) }
	if _, err := s.Validate(raw); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestSessionTokens_UniformRejection(t *testing.T) {
	s := NewSessionTokens("secret", "issuer", "audience", 5*time.Minute)
	raw, err := s.Issue(testAccount(), nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	validators := map[string]*SessionTokens{
		"wrong key":      NewSessionTokens("other", "issuer", "audience", 5*time.Minute),
		"wrong issuer":   NewSessionTokens("secret", "someone-else", "audience", 5*time.Minute),
		"wrong audience": NewSessionTokens("secret", "issuer", "intruders", 5*time.Minute),
	}
	for name, v := range validators {
		if _, err := v.Validate(raw); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}

	if _, err := s.Validate("not.a.token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("garbage token: expected ErrInvalidToken, got %v", err)
	}
}

func TestSessionTokens_MissingKey(t *testing.T) {
	s := NewSessionTokens("", "issuer", "audience", 5*time.Minute)
	if _, err := s.Issue(testAccount(), nil); !errors.Is(err, domain.ErrMisconfigured) {
		t.Fatalf("expected ErrMisconfigured, got %v", err)
	}
}

func TestSessionTokens_DefaultTTL(t *testing.T) {
	s := NewSessionTokens("secret", "issuer", "audience", 0)
	if s.ttl != DefaultSessionTTL {
		t.Fatalf("expected default ttl, got %v", s.ttl)
	}
}
