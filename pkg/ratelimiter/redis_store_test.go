package ratelimiter_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/ratelimiter"
)

func TestRedisStore(t *testing.T) {
	t.Parallel()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	opts, err := goredis.ParseURL(url)
	require.NoError(t, err)
	client := goredis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	store := ratelimiter.NewRedisStore(client, "authkit-test:"+uuid.NewString()+":")
	b, err := ratelimiter.NewBucket(store, ratelimiter.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Hour})
	require.NoError(t, err)

	res, err := b.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Remaining)

	res, err = b.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Remaining)

	res, err = b.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.False(t, res.Allowed())
	assert.Greater(t, res.RetryAfter(), time.Duration(0))

	require.NoError(t, b.Reset(ctx, "ip"))
	res, err = b.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Remaining)
}
