// Package profile owns the application-side identity records: one profile
// per principal created by the external authentication engine, carrying the
// authorization role and verification status consumed at credential mint
// time.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rentora.org/internal/audit"
	"rentora.org/internal/obs"
)

const defaultStoreTimeout = 3 * time.Second

// Service implements the identity pipeline on top of a Store: provisioning
// on principal-created events and role resolution during session issuance.
type Service struct {
	store   Store
	timeout time.Duration
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithStoreTimeout bounds each store round-trip.
func WithStoreTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewService constructs the pipeline service around the given store.
func NewService(store Store, opts ...ServiceOption) *Service {
	svc := &Service{store: store, timeout: defaultStoreTimeout}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// EnsureProfile creates the profile row for a freshly created principal.
// It is idempotent: a duplicate delivery of the creation event returns the
// existing profile instead of failing, so at-least-once delivery converges.
// The created result reports whether this call inserted the row.
func (s *Service) EnsureProfile(ctx context.Context, principal Principal) (*Profile, bool, error) {
	principal.ID = strings.TrimSpace(principal.ID)
	principal.Email = strings.TrimSpace(principal.Email)
	if principal.ID == "" {
		return nil, false, fmt.Errorf("%w: principal id is required", ErrInvalidInput)
	}
	if principal.Email == "" {
		return nil, false, fmt.Errorf("%w: principal email is required", ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	p := &Profile{
		ID:         principal.ID,
		FullName:   strings.TrimSpace(principal.Name),
		Email:      principal.Email,
		Role:       DefaultRole,
		IsLandlord: DefaultRole.IsLandlord(),
		IsVerified: false,
	}
	err := s.store.Create(ctx, p)
	switch {
	case err == nil:
		obs.ObserveProvision("created")
		_ = audit.LogEvent(ctx, "profile.provisioned", map[string]any{
			"principal_id": p.ID,
			"role":         string(p.Role),
		})
		return p, true, nil
	case errors.Is(err, ErrAlreadyExists):
		// Expected under at-least-once delivery; the first writer won.
		obs.ObserveProvision("duplicate")
		existing, findErr := s.store.Find(ctx, principal.ID)
		if findErr != nil {
			return nil, false, fmt.Errorf("load existing profile: %w", findErr)
		}
		return existing, false, nil
	default:
		obs.ObserveProvision("error")
		_ = audit.LogEvent(ctx, "profile.provision_failed", map[string]any{
			"principal_id": principal.ID,
			"error":        err.Error(),
		})
		return nil, false, fmt.Errorf("create profile: %w", err)
	}
}

// ResolveRole returns the current authorization role for the principal.
// A missing profile resolves to DefaultRole so session issuance survives
// replication lag between the principal and profile stores; any other store
// failure propagates so the caller never mints with a guessed role.
func (s *Service) ResolveRole(ctx context.Context, principalID string) (Role, error) {
	principalID = strings.TrimSpace(principalID)
	if principalID == "" {
		return "", fmt.Errorf("%w: principal id is required", ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	p, err := s.store.Find(ctx, principalID)
	switch {
	case err == nil:
		obs.ObserveRoleResolution("found")
		return p.Role, nil
	case errors.Is(err, ErrNotFound):
		obs.ObserveRoleResolution("defaulted")
		return DefaultRole, nil
	default:
		obs.ObserveRoleResolution("error")
		return "", fmt.Errorf("resolve role for %s: %w", principalID, err)
	}
}

// Get loads a profile by principal id.
func (s *Service) Get(ctx context.Context, id string) (*Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: principal id is required", ErrInvalidInput)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.Find(ctx, id)
}

// ChangeRole updates the authorization role; the landlord flag is kept
// consistent by the store in the same write. Takes effect on the next
// session issuance; outstanding credentials stay valid until expiry.
func (s *Service) ChangeRole(ctx context.Context, id string, role Role) (*Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: principal id is required", ErrInvalidInput)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	p, err := s.store.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}
	_ = audit.LogEvent(ctx, "profile.role_changed", map[string]any{
		"principal_id": id,
		"role":         string(role),
	})
	return p, nil
}

// SetVerified flips the verification flag owned by the separate
// verification process.
func (s *Service) SetVerified(ctx context.Context, id string, verified bool) (*Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: principal id is required", ErrInvalidInput)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	p, err := s.store.SetVerified(ctx, id, verified)
	if err != nil {
		return nil, err
	}
	_ = audit.LogEvent(ctx, "profile.verified_changed", map[string]any{
		"principal_id": id,
		"verified":     verified,
	})
	return p, nil
}
