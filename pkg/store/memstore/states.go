package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrymomot/authkit/pkg/auth"
)

// States is an in-memory auth.StateStore.
type States struct {
	mu     sync.Mutex
	states map[string]time.Time
	clock  auth.Clock
}

func NewStates(clock auth.Clock) *States {
	if clock == nil {
		clock = auth.SystemClock
	}
	return &States{states: make(map[string]time.Time), clock: clock}
}

func (s *States) StoreState(_ context.Context, state string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[state] = expiresAt
	return nil
}

func (s *States) ConsumeState(_ context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.states[state]
	if !ok {
		return auth.ErrStateNotFound
	}
	delete(s.states, state)

	if !expiresAt.After(s.clock.Now()) {
		return auth.ErrStateNotFound
	}
	return nil
}

// PurgeExpired removes states that were never consumed before expiring.
func (s *States) PurgeExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	var n int64
	for state, expiresAt := range s.states {
		if !expiresAt.After(now) {
			delete(s.states, state)
			n++
		}
	}
	return n, nil
}

// Len returns the number of states held.
func (s *States) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

var _ auth.StateStore = (*States)(nil)
