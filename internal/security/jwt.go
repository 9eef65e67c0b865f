package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/examplecore/account-service/internal/core/domain"
)

// DefaultSessionTTL keeps sessions on the same scale as the reset window.
// There is no refresh mechanism; clients re-authenticate.
const DefaultSessionTTL = 5 * time.Minute

// SessionClaims is the claim set carried by a bearer token.
type SessionClaims struct {
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// SessionTokens issues and validates signed bearer tokens. Signing is
// symmetric HS256 over claims+expiry+issuer+audience with a server-wide key.
type SessionTokens struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration

	now func() time.Time
}

// NewSessionTokens builds an issuer/validator pair. A non-positive ttl falls
// back to DefaultSessionTTL.
func NewSessionTokens(key, issuer, audience string, ttl time.Duration) *SessionTokens {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionTokens{
		key:      []byte(key),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Issue signs a token for an authenticated account with one role claim per
// assigned role. A missing signing key is a misconfiguration and must never
// be described to the caller.
func (s *SessionTokens) Issue(account *domain.Account, roles []domain.Role) (string, error) {
	if len(s.key) == 0 {
		return "", domain.ErrMisconfigured
	}

	now := s.now()
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}

	claims := SessionClaims{
		Email: account.Email,
		Name:  account.FirstName,
		Roles: names,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// Validate checks signature, issuer, audience and expiry (zero clock-skew
// tolerance) and returns the claim set. Every failure collapses to
// domain.ErrInvalidToken so callers cannot distinguish expired from
// bad-signature from wrong-audience.
func (s *SessionTokens) Validate(raw string) (*SessionClaims, error) {
	if len(s.key) == 0 {
		return nil, domain.ErrMisconfigured
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (interface{}, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
