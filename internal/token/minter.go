// Package token mints and verifies the signed session credentials handed
// back to the authentication engine on every session issuance.
//
// The role claim reflects the profile store at mint time. Role changes are
// not propagated into outstanding credentials; they take effect on the next
// issuance and stale tokens expire naturally within the configured TTL.
package token

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"rentora.org/internal/profile"
)

const defaultTTL = time.Hour

// ErrInvalidToken indicates the token failed validation.
var ErrInvalidToken = errors.New("invalid token")

// RoleResolver yields the current authorization role for a principal.
type RoleResolver interface {
	ResolveRole(ctx context.Context, principalID string) (profile.Role, error)
}

// Claims is the payload of a minted credential. Downstream consumers (the
// row-level-security data tier) read the role claim after verifying the
// signature and expiry.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Credential is a freshly signed, time-boxed token. Never persisted.
type Credential struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Minter signs session credentials with a fixed algorithm (HS256). The
// algorithm is hard-coded on both the signing and verification paths and is
// never taken from token headers.
type Minter struct {
	secret   []byte
	resolver RoleResolver
	ttl      time.Duration
	issuer   string
	now      func() time.Time
}

// Option configures the Minter.
type Option func(*Minter)

// WithTTL sets the credential lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(m *Minter) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithIssuer sets the iss claim.
func WithIssuer(issuer string) Option {
	return func(m *Minter) {
		m.issuer = strings.TrimSpace(issuer)
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(m *Minter) {
		if fn != nil {
			m.now = fn
		}
	}
}

// NewMinter constructs a Minter. An empty secret is a configuration error
// and fails here, at startup, rather than on the first mint.
func NewMinter(secret string, resolver RoleResolver, opts ...Option) (*Minter, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("token: signing secret is not configured")
	}
	if resolver == nil {
		return nil, errors.New("token: role resolver is required")
	}
	m := &Minter{
		secret:   []byte(secret),
		resolver: resolver,
		ttl:      defaultTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// TTL returns the configured credential lifetime.
func (m *Minter) TTL() time.Duration { return m.ttl }

// Mint resolves the principal's current role and signs a credential carrying
// it. If role resolution fails with an infrastructure error, minting fails:
// no credential with a guessed or default role is ever issued.
func (m *Minter) Mint(ctx context.Context, principal profile.Principal) (Credential, error) {
	id := strings.TrimSpace(principal.ID)
	email := strings.TrimSpace(principal.Email)
	if id == "" {
		return Credential{}, errors.New("token: principal id is required")
	}
	if email == "" {
		return Credential{}, errors.New("token: principal email is required")
	}

	role, err := m.resolver.ResolveRole(ctx, id)
	if err != nil {
		return Credential{}, fmt.Errorf("mint: %w", err)
	}

	now := m.now().UTC()
	expiresAt := now.Add(m.ttl)
	claims := Claims{
		Email: email,
		Role:  string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return Credential{}, fmt.Errorf("sign token: %w", err)
	}
	return Credential{Token: signed, IssuedAt: now, ExpiresAt: expiresAt}, nil
}

// ParseAndValidate verifies the signature and required claims. Tokens signed
// with any method other than HS256 are rejected regardless of header content.
func (m *Minter) ParseAndValidate(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return m.now().UTC() }))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if err := m.validateClaims(claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *Minter) validateClaims(claims *Claims) error {
	if m.issuer != "" && claims.Issuer != m.issuer {
		return fmt.Errorf("unexpected issuer: %s", claims.Issuer)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return errors.New("subject missing")
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return errors.New("timestamps missing")
	}
	if claims.ExpiresAt.Time.Before(claims.IssuedAt.Time) {
		return errors.New("token expiry precedes issued-at")
	}
	if _, err := profile.ParseRole(claims.Role); err != nil {
		return fmt.Errorf("unknown role claim: %s", claims.Role)
	}
	return nil
}
