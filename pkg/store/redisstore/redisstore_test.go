package redisstore_test

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/redis"
	"github.com/dmitrymomot/authkit/pkg/store/redisstore"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func setupClient(t *testing.T) (*goredis.Client, string) {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL is not set")
	}

	client, err := redis.Connect(context.Background(), redis.Config{
		ConnectionURL: url,
		RetryAttempts: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client, "authkit_test:" + uuid.NewString()[:8] + ":"
}

func TestRefreshTokens(t *testing.T) {
	client, prefix := setupClient(t)
	ctx := context.Background()

	now := time.Now().UTC()
	ttl := time.Hour
	tokens := redisstore.NewRefreshTokens(client, prefix, ttl, fixedClock{now: now})

	t.Run("consume once", func(t *testing.T) {
		rec := auth.RefreshRecord{AccessToken: "a1", RefreshToken: "r1", UserID: uuid.New(), IssuedAt: now}
		require.NoError(t, tokens.Put(ctx, rec))

		_, err := tokens.Consume(ctx, "a1", "other")
		assert.ErrorIs(t, err, auth.ErrRefreshTokenNotFound)

		got, err := tokens.Consume(ctx, "a1", "r1")
		require.NoError(t, err)
		assert.Equal(t, rec.UserID, got.UserID)
		assert.True(t, rec.IssuedAt.Equal(got.IssuedAt))

		_, err = tokens.Consume(ctx, "a1", "r1")
		assert.ErrorIs(t, err, auth.ErrRefreshTokenNotFound)
	})

	t.Run("key expires with the record", func(t *testing.T) {
		rec := auth.RefreshRecord{AccessToken: "a2", RefreshToken: "r2", UserID: uuid.New(), IssuedAt: now.Add(-ttl + time.Minute)}
		require.NoError(t, tokens.Put(ctx, rec))

		keys, err := client.Keys(ctx, prefix+"refresh:*").Result()
		require.NoError(t, err)
		require.Len(t, keys, 1)

		left, err := client.TTL(ctx, keys[0]).Result()
		require.NoError(t, err)
		assert.LessOrEqual(t, left, time.Minute)
		assert.Positive(t, left)
	})

	t.Run("already expired record is not stored", func(t *testing.T) {
		rec := auth.RefreshRecord{AccessToken: "a3", RefreshToken: "r3", UserID: uuid.New(), IssuedAt: now.Add(-2 * ttl)}
		require.NoError(t, tokens.Put(ctx, rec))

		_, err := tokens.Consume(ctx, "a3", "r3")
		assert.ErrorIs(t, err, auth.ErrRefreshTokenNotFound)
	})

	t.Run("concurrent consume", func(t *testing.T) {
		rec := auth.RefreshRecord{AccessToken: "a4", RefreshToken: "r4", UserID: uuid.New(), IssuedAt: now}
		require.NoError(t, tokens.Put(ctx, rec))

		var wins atomic.Int32
		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := tokens.Consume(ctx, "a4", "r4"); err == nil {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), wins.Load())
	})
}

func TestStates(t *testing.T) {
	client, prefix := setupClient(t)
	ctx := context.Background()

	now := time.Now()
	states := redisstore.NewStates(client, prefix, fixedClock{now: now})

	require.NoError(t, states.StoreState(ctx, "s1", now.Add(time.Minute)))
	require.NoError(t, states.ConsumeState(ctx, "s1"))
	assert.ErrorIs(t, states.ConsumeState(ctx, "s1"), auth.ErrStateNotFound)
	assert.ErrorIs(t, states.ConsumeState(ctx, "unknown"), auth.ErrStateNotFound)

	require.NoError(t, states.StoreState(ctx, "s2", now.Add(-time.Second)))
	assert.ErrorIs(t, states.ConsumeState(ctx, "s2"), auth.ErrStateNotFound)
}
