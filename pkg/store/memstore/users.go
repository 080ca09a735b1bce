// Package memstore keeps users, refresh records and OAuth states in process
// memory. It is meant for tests and local development.
package memstore

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/auth"
)

// Users is an in-memory auth.UserDirectory.
type Users struct {
	mu       sync.RWMutex
	byID     map[uuid.UUID]*auth.User
	email    map[string]uuid.UUID
	identity map[identityKey]uuid.UUID
}

type identityKey struct{ provider, providerUserID string }

// NewUsers creates an empty directory.
func NewUsers() *Users {
	return &Users{
		byID:     make(map[uuid.UUID]*auth.User),
		email:    make(map[string]uuid.UUID),
		identity: make(map[identityKey]uuid.UUID),
	}
}

func (s *Users) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.email[email]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return clone(s.byID[id]), nil
}

func (s *Users) FindByID(_ context.Context, id uuid.UUID) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return clone(u), nil
}

func (s *Users) FindByVerificationToken(_ context.Context, token string) (*auth.User, error) {
	if token == "" {
		return nil, auth.ErrUserNotFound
	}
	return s.find(func(u *auth.User) bool { return u.VerificationToken == token })
}

func (s *Users) FindByOAuthIdentity(_ context.Context, provider, providerUserID string) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.identity[identityKey{provider, providerUserID}]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return clone(s.byID[id]), nil
}

// Create stores a copy of user. Empty emails are not indexed, so several
// OAuth accounts without an address can coexist. A (provider,
// providerUserID) pair belongs to at most one user.
func (s *Users) Create(_ context.Context, user *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[user.ID]; ok {
		return auth.ErrAlreadyRegistered
	}
	if user.Email != "" {
		if _, ok := s.email[user.Email]; ok {
			return auth.ErrAlreadyRegistered
		}
	}
	if s.identityTaken(user) {
		return auth.ErrAlreadyRegistered
	}

	if user.Email != "" {
		s.email[user.Email] = user.ID
	}
	s.indexIdentities(user)
	s.byID[user.ID] = clone(user)
	return nil
}

func (s *Users) Update(_ context.Context, user *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.byID[user.ID]
	if !ok {
		return auth.ErrUserNotFound
	}
	if user.Email != prev.Email {
		if owner, taken := s.email[user.Email]; taken && owner != user.ID {
			return auth.ErrAlreadyRegistered
		}
	}
	if s.identityTaken(user) {
		return auth.ErrAlreadyRegistered
	}

	if user.Email != prev.Email {
		delete(s.email, prev.Email)
		if user.Email != "" {
			s.email[user.Email] = user.ID
		}
	}
	for _, l := range prev.OAuthLinks {
		delete(s.identity, identityKey{l.Provider, l.ProviderUserID})
	}
	s.indexIdentities(user)
	s.byID[user.ID] = clone(user)
	return nil
}

func (s *Users) identityTaken(user *auth.User) bool {
	for _, l := range user.OAuthLinks {
		if owner, ok := s.identity[identityKey{l.Provider, l.ProviderUserID}]; ok && owner != user.ID {
			return true
		}
	}
	return false
}

func (s *Users) indexIdentities(user *auth.User) {
	for _, l := range user.OAuthLinks {
		s.identity[identityKey{l.Provider, l.ProviderUserID}] = user.ID
	}
}

// Len returns the number of stored users.
func (s *Users) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func (s *Users) find(match func(*auth.User) bool) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.byID {
		if match(u) {
			return clone(u), nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func clone(u *auth.User) *auth.User {
	c := *u
	c.OAuthLinks = slices.Clone(u.OAuthLinks)
	return &c
}

var _ auth.UserDirectory = (*Users)(nil)
