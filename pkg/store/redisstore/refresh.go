package redisstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/authkit/pkg/auth"
)

type refreshValue struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	UserID       uuid.UUID `json:"user_id"`
	IssuedAt     time.Time `json:"issued_at"`
}

// RefreshTokens is a Redis auth.RefreshStore. Records are keyed by a digest
// of both tokens and expire together with the refresh TTL.
type RefreshTokens struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	clock  auth.Clock
}

func NewRefreshTokens(client redis.UniversalClient, prefix string, ttl time.Duration, clock auth.Clock) *RefreshTokens {
	if clock == nil {
		clock = auth.SystemClock
	}
	return &RefreshTokens{client: client, prefix: prefix, ttl: ttl, clock: clock}
}

func (s *RefreshTokens) Put(ctx context.Context, rec auth.RefreshRecord) error {
	remaining := rec.IssuedAt.Add(s.ttl).Sub(s.clock.Now())
	if remaining <= 0 {
		return nil
	}

	data, err := json.Marshal(refreshValue(rec))
	if err != nil {
		return fmt.Errorf("failed to encode refresh record: %w", err)
	}
	if err := s.client.Set(ctx, s.key(rec.AccessToken, rec.RefreshToken), data, remaining).Err(); err != nil {
		return fmt.Errorf("failed to store refresh record: %w", err)
	}
	return nil
}

func (s *RefreshTokens) Consume(ctx context.Context, accessToken, refreshToken string) (*auth.RefreshRecord, error) {
	data, err := s.client.GetDel(ctx, s.key(accessToken, refreshToken)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, auth.ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("failed to consume refresh record: %w", err)
	}

	var v refreshValue
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode refresh record: %w", err)
	}
	rec := auth.RefreshRecord(v)
	if rec.Expired(s.clock.Now(), s.ttl) {
		return nil, auth.ErrRefreshTokenNotFound
	}
	return &rec, nil
}

func (s *RefreshTokens) key(accessToken, refreshToken string) string {
	sum := sha256.Sum256([]byte(accessToken + "\x00" + refreshToken))
	return s.prefix + "refresh:" + hex.EncodeToString(sum[:])
}

var _ auth.RefreshStore = (*RefreshTokens)(nil)
