package profile

import (
	"context"
	"sync"
	"time"
)

var _ Store = (*InMemory)(nil)

// InMemory implements Store with in-process concurrency safety. Used by
// tests and local development without a database.
type InMemory struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

// NewInMemory creates an empty store.
func NewInMemory() *InMemory {
	return &InMemory{profiles: make(map[string]*Profile)}
}

func (s *InMemory) Find(ctx context.Context, id string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *p
	return &out, nil
}

func (s *InMemory) Create(ctx context.Context, p *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.ID]; ok {
		return ErrAlreadyExists
	}
	now := time.Now().UTC()
	stored := *p
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.profiles[p.ID] = &stored
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (s *InMemory) UpdateRole(ctx context.Context, id string, role Role) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Role = role
	p.IsLandlord = role.IsLandlord()
	p.UpdatedAt = time.Now().UTC()
	out := *p
	return &out, nil
}

func (s *InMemory) SetVerified(ctx context.Context, id string, verified bool) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.IsVerified = verified
	p.UpdatedAt = time.Now().UTC()
	out := *p
	return &out, nil
}
