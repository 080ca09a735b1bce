package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrymomot/authkit/pkg/auth"
)

type pairKey struct {
	access  string
	refresh string
}

// RefreshTokens is an in-memory auth.RefreshStore. Expired records are
// dropped when they are looked up or by PurgeExpired.
type RefreshTokens struct {
	mu      sync.Mutex
	records map[pairKey]auth.RefreshRecord
	ttl     time.Duration
	clock   auth.Clock
}

// NewRefreshTokens creates a store whose records expire ttl after issuance.
func NewRefreshTokens(ttl time.Duration, clock auth.Clock) *RefreshTokens {
	if clock == nil {
		clock = auth.SystemClock
	}
	return &RefreshTokens{
		records: make(map[pairKey]auth.RefreshRecord),
		ttl:     ttl,
		clock:   clock,
	}
}

func (s *RefreshTokens) Put(_ context.Context, record auth.RefreshRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[pairKey{record.AccessToken, record.RefreshToken}] = record
	return nil
}

func (s *RefreshTokens) Consume(_ context.Context, accessToken, refreshToken string) (*auth.RefreshRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{accessToken, refreshToken}
	rec, ok := s.records[key]
	if !ok {
		return nil, auth.ErrRefreshTokenNotFound
	}
	delete(s.records, key)

	if rec.Expired(s.clock.Now(), s.ttl) {
		return nil, auth.ErrRefreshTokenNotFound
	}
	return &rec, nil
}

// PurgeExpired removes every expired record and reports how many were dropped.
func (s *RefreshTokens) PurgeExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	var n int64
	for key, rec := range s.records {
		if rec.Expired(now, s.ttl) {
			delete(s.records, key)
			n++
		}
	}
	return n, nil
}

// Len returns the number of records held, including expired ones not yet looked up.
func (s *RefreshTokens) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

var _ auth.RefreshStore = (*RefreshTokens)(nil)
