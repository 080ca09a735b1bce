package pgstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/pg"
)

// RefreshTokens is a PostgreSQL auth.RefreshStore. Consume relies on
// DELETE ... RETURNING so only one caller can observe a given row.
// Expired rows are removed by PurgeExpired.
type RefreshTokens struct {
	pool  *pgxpool.Pool
	ttl   time.Duration
	clock auth.Clock
}

func NewRefreshTokens(pool *pgxpool.Pool, ttl time.Duration, clock auth.Clock) *RefreshTokens {
	if clock == nil {
		clock = auth.SystemClock
	}
	return &RefreshTokens{pool: pool, ttl: ttl, clock: clock}
}

func (s *RefreshTokens) Put(ctx context.Context, rec auth.RefreshRecord) error {
	_, err := s.pool.Exec(ctx, `
INSERT INTO refresh_tokens (refresh_token, access_token, user_id, issued_at)
VALUES ($1, $2, $3, $4)`,
		rec.RefreshToken, rec.AccessToken, rec.UserID, rec.IssuedAt)
	if err != nil {
		return fmt.Errorf("failed to insert refresh token: %w", err)
	}
	return nil
}

func (s *RefreshTokens) Consume(ctx context.Context, accessToken, refreshToken string) (*auth.RefreshRecord, error) {
	rec := &auth.RefreshRecord{}
	err := s.pool.QueryRow(ctx, `
DELETE FROM refresh_tokens
WHERE refresh_token = $1 AND access_token = $2 AND issued_at > $3
RETURNING access_token, refresh_token, user_id, issued_at`,
		refreshToken, accessToken, s.clock.Now().Add(-s.ttl),
	).Scan(&rec.AccessToken, &rec.RefreshToken, &rec.UserID, &rec.IssuedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("failed to consume refresh token: %w", err)
	}
	return rec, nil
}

// PurgeExpired deletes records older than the TTL and returns how many were removed.
func (s *RefreshTokens) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE issued_at <= $1`, s.clock.Now().Add(-s.ttl))
	if err != nil {
		return 0, fmt.Errorf("failed to purge refresh tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ auth.RefreshStore = (*RefreshTokens)(nil)
