package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/logger"
)

func TestOpenBackends(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		t.Parallel()

		b, err := openBackends(ctx, appConfig{StoreDriver: storeMemory}, time.Hour, logger.Discard())
		require.NoError(t, err)
		t.Cleanup(func() { b.Close(ctx) })

		assert.NotNil(t, b.users)
		assert.NotNil(t, b.refresh)
		assert.NotNil(t, b.states)
		assert.NotNil(t, b.limits)
		require.NotNil(t, b.purge)
		n, err := b.purge(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Empty(t, b.checks)
	})

	t.Run("unknown store driver", func(t *testing.T) {
		t.Parallel()

		_, err := openBackends(ctx, appConfig{StoreDriver: "cassandra"}, time.Hour, logger.Discard())
		assert.ErrorContains(t, err, "STORE_DRIVER")
	})

	t.Run("unknown refresh driver", func(t *testing.T) {
		t.Parallel()

		_, err := openBackends(ctx, appConfig{StoreDriver: storeMemory, RefreshStoreDriver: "memcached"}, time.Hour, logger.Discard())
		assert.ErrorContains(t, err, "REFRESH_STORE_DRIVER")
	})
}

func TestPurgeAll(t *testing.T) {
	t.Parallel()

	var ran atomic.Int32
	sweep := func(n int64, err error) purgeFunc {
		return func(context.Context) (int64, error) {
			ran.Add(1)
			return n, err
		}
	}
	boom := errors.New("boom")

	n, err := purgeAll(sweep(2, nil), sweep(0, boom), sweep(3, nil))(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, int32(3), ran.Load())
}

func TestRunPurge(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan struct{})

	go func() {
		runPurge(ctx, func(context.Context) (int64, error) {
			calls.Add(1)
			return 1, nil
		}, 5*time.Millisecond, logger.Discard())
		close(done)
	}()

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runPurge did not stop after cancel")
	}
}
