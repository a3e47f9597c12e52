package profile

import (
	"fmt"
	"strings"
	"time"
)

// Role is the authorization level carried by profiles and embedded into
// session credentials for downstream row-level-security decisions.
type Role string

const (
	RoleTenant   Role = "tenant"
	RoleLandlord Role = "landlord"
	RoleAdmin    Role = "admin"
)

// DefaultRole is assigned at provisioning time and assumed by the resolver
// when no profile row exists yet.
const DefaultRole = RoleTenant

// ParseRole normalizes and validates a role string.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.TrimSpace(strings.ToLower(raw)))
	if !role.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, raw)
	}
	return role, nil
}

// Valid reports whether the role is one of the known enumerated values.
func (r Role) Valid() bool {
	switch r {
	case RoleTenant, RoleLandlord, RoleAdmin:
		return true
	}
	return false
}

// IsLandlord reports whether the role implies the landlord flag.
func (r Role) IsLandlord() bool { return r == RoleLandlord }

// Principal is the authenticated identity owned by the external
// authentication engine. It is never persisted here.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Profile is the application-owned record keyed by principal identifier.
// Invariant: IsLandlord == (Role == RoleLandlord) after every write path.
type Profile struct {
	ID         string    `json:"id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	IsLandlord bool      `json:"is_landlord"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
