package profile

import "context"

// Store describes persistence operations required by the identity pipeline.
// Any error other than the package sentinels is an infrastructure failure
// and must be surfaced to the caller, never collapsed into a default.
type Store interface {
	// Find returns the profile for the principal id, or ErrNotFound.
	Find(ctx context.Context, id string) (*Profile, error)

	// Create inserts a new profile. A duplicate principal id returns
	// ErrAlreadyExists; concurrent creates race-resolve on the store's
	// uniqueness constraint.
	Create(ctx context.Context, p *Profile) error

	// UpdateRole sets the role and keeps the landlord flag consistent with it
	// in the same write. Returns the updated profile or ErrNotFound.
	UpdateRole(ctx context.Context, id string, role Role) (*Profile, error)

	// SetVerified flips the verification flag owned by the separate
	// verification process. Returns the updated profile or ErrNotFound.
	SetVerified(ctx context.Context, id string, verified bool) (*Profile, error)
}
