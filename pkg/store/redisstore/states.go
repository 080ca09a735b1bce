package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/authkit/pkg/auth"
)

// States is a Redis auth.StateStore.
type States struct {
	client redis.UniversalClient
	prefix string
	clock  auth.Clock
}

func NewStates(client redis.UniversalClient, prefix string, clock auth.Clock) *States {
	if clock == nil {
		clock = auth.SystemClock
	}
	return &States{client: client, prefix: prefix, clock: clock}
}

func (s *States) StoreState(ctx context.Context, state string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.clock.Now())
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.key(state), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store oauth state: %w", err)
	}
	return nil
}

func (s *States) ConsumeState(ctx context.Context, state string) error {
	n, err := s.client.Del(ctx, s.key(state)).Result()
	if err != nil {
		return fmt.Errorf("failed to consume oauth state: %w", err)
	}
	if n == 0 {
		return auth.ErrStateNotFound
	}
	return nil
}

func (s *States) key(state string) string {
	return s.prefix + "oauth_state:" + state
}

var _ auth.StateStore = (*States)(nil)
