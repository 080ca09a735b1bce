package memstore_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/store/memstore"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestUsers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("create and lookup", func(t *testing.T) {
		t.Parallel()

		users := memstore.NewUsers()
		u := &auth.User{ID: uuid.New(), Email: "a@x.com", VerificationToken: "tok"}
		require.NoError(t, users.Create(ctx, u))

		byEmail, err := users.FindByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)

		byToken, err := users.FindByVerificationToken(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byToken.ID)

		_, err = users.FindByEmail(ctx, "A@x.com")
		assert.ErrorIs(t, err, auth.ErrUserNotFound)

		_, err = users.FindByVerificationToken(ctx, "")
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()

		users := memstore.NewUsers()
		require.NoError(t, users.Create(ctx, &auth.User{ID: uuid.New(), Email: "a@x.com", DisplayName: "first"}))
		err := users.Create(ctx, &auth.User{ID: uuid.New(), Email: "a@x.com", DisplayName: "second"})
		assert.ErrorIs(t, err, auth.ErrAlreadyRegistered)

		u, err := users.FindByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, "first", u.DisplayName)
	})

	t.Run("returned users are copies", func(t *testing.T) {
		t.Parallel()

		users := memstore.NewUsers()
		id := uuid.New()
		require.NoError(t, users.Create(ctx, &auth.User{ID: id, Email: "a@x.com", VerificationToken: "tok"}))

		u, err := users.FindByID(ctx, id)
		require.NoError(t, err)
		u.VerificationToken = ""

		again, err := users.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "tok", again.VerificationToken)

		require.NoError(t, users.Update(ctx, u))
		again, err = users.FindByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, again.IsVerified())
	})

	t.Run("oauth identity", func(t *testing.T) {
		t.Parallel()

		users := memstore.NewUsers()
		u := &auth.User{ID: uuid.New(), OAuthLinks: []auth.OAuthLink{{ProviderUserID: "42", Provider: auth.ProviderGitHub}}}
		require.NoError(t, users.Create(ctx, u))
		require.NoError(t, users.Create(ctx, &auth.User{ID: uuid.New()}))

		found, err := users.FindByOAuthIdentity(ctx, auth.ProviderGitHub, "42")
		require.NoError(t, err)
		assert.Equal(t, u.ID, found.ID)

		_, err = users.FindByOAuthIdentity(ctx, auth.ProviderGoogle, "42")
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
		assert.Equal(t, 2, users.Len())
	})

	t.Run("oauth identity is unique", func(t *testing.T) {
		t.Parallel()

		users := memstore.NewUsers()
		link := auth.OAuthLink{ProviderUserID: "7", Provider: auth.ProviderGitHub}
		first := &auth.User{ID: uuid.New(), OAuthLinks: []auth.OAuthLink{link}}
		require.NoError(t, users.Create(ctx, first))

		err := users.Create(ctx, &auth.User{ID: uuid.New(), OAuthLinks: []auth.OAuthLink{link}})
		assert.ErrorIs(t, err, auth.ErrAlreadyRegistered)

		other := &auth.User{ID: uuid.New()}
		require.NoError(t, users.Create(ctx, other))
		other.OAuthLinks = []auth.OAuthLink{link}
		assert.ErrorIs(t, users.Update(ctx, other), auth.ErrAlreadyRegistered)

		// Dropping the link on update frees the identity.
		first.OAuthLinks = nil
		require.NoError(t, users.Update(ctx, first))
		require.NoError(t, users.Update(ctx, other))

		found, err := users.FindByOAuthIdentity(ctx, auth.ProviderGitHub, "7")
		require.NoError(t, err)
		assert.Equal(t, other.ID, found.ID)
		assert.Equal(t, 2, users.Len())
	})

	t.Run("update missing user", func(t *testing.T) {
		t.Parallel()

		err := memstore.NewUsers().Update(ctx, &auth.User{ID: uuid.New()})
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})
}

func TestRefreshTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("consume once", func(t *testing.T) {
		t.Parallel()

		clock := &fakeClock{now: time.Now()}
		store := memstore.NewRefreshTokens(time.Hour, clock)
		rec := auth.RefreshRecord{AccessToken: "a", RefreshToken: "r", UserID: uuid.New(), IssuedAt: clock.Now()}
		require.NoError(t, store.Put(ctx, rec))

		got, err := store.Consume(ctx, "a", "r")
		require.NoError(t, err)
		assert.Equal(t, rec.UserID, got.UserID)

		_, err = store.Consume(ctx, "a", "r")
		assert.ErrorIs(t, err, auth.ErrRefreshTokenNotFound)
	})

	t.Run("both tokens must match", func(t *testing.T) {
		t.Parallel()

		store := memstore.NewRefreshTokens(time.Hour, nil)
		require.NoError(t, store.Put(ctx, auth.RefreshRecord{AccessToken: "a", RefreshToken: "r", IssuedAt: time.Now()}))

		_, err := store.Consume(ctx, "a", "other")
		assert.ErrorIs(t, err, auth.ErrRefreshTokenNotFound)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("expired record", func(t *testing.T) {
		t.Parallel()

		clock := &fakeClock{now: time.Now()}
		store := memstore.NewRefreshTokens(time.Minute, clock)
		require.NoError(t, store.Put(ctx, auth.RefreshRecord{AccessToken: "a", RefreshToken: "r", IssuedAt: clock.Now()}))

		clock.Advance(time.Minute)
		_, err := store.Consume(ctx, "a", "r")
		assert.ErrorIs(t, err, auth.ErrRefreshTokenNotFound)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("purge expired", func(t *testing.T) {
		t.Parallel()

		clock := &fakeClock{now: time.Now()}
		store := memstore.NewRefreshTokens(time.Minute, clock)
		require.NoError(t, store.Put(ctx, auth.RefreshRecord{AccessToken: "old", RefreshToken: "r", IssuedAt: clock.Now()}))
		clock.Advance(time.Minute)
		require.NoError(t, store.Put(ctx, auth.RefreshRecord{AccessToken: "new", RefreshToken: "r", IssuedAt: clock.Now()}))

		n, err := store.PurgeExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		assert.Equal(t, 1, store.Len())

		_, err = store.Consume(ctx, "new", "r")
		assert.NoError(t, err)
	})

	t.Run("concurrent consume", func(t *testing.T) {
		t.Parallel()

		store := memstore.NewRefreshTokens(time.Hour, nil)
		require.NoError(t, store.Put(ctx, auth.RefreshRecord{AccessToken: "a", RefreshToken: "r", IssuedAt: time.Now()}))

		var wins atomic.Int32
		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := store.Consume(ctx, "a", "r"); err == nil {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), wins.Load())
	})
}

func TestStates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	clock := &fakeClock{now: time.Now()}
	states := memstore.NewStates(clock)

	require.NoError(t, states.StoreState(ctx, "s1", clock.Now().Add(time.Minute)))
	require.NoError(t, states.StoreState(ctx, "s2", clock.Now().Add(time.Minute)))

	require.NoError(t, states.ConsumeState(ctx, "s1"))
	assert.ErrorIs(t, states.ConsumeState(ctx, "s1"), auth.ErrStateNotFound)
	assert.ErrorIs(t, states.ConsumeState(ctx, "unknown"), auth.ErrStateNotFound)

	clock.Advance(2 * time.Minute)
	assert.ErrorIs(t, states.ConsumeState(ctx, "s2"), auth.ErrStateNotFound)
}

func TestStates_PurgeExpired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	clock := &fakeClock{now: time.Now()}
	states := memstore.NewStates(clock)

	require.NoError(t, states.StoreState(ctx, "stale", clock.Now().Add(time.Minute)))
	require.NoError(t, states.StoreState(ctx, "fresh", clock.Now().Add(time.Hour)))
	clock.Advance(2 * time.Minute)

	n, err := states.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, states.Len())
	assert.NoError(t, states.ConsumeState(ctx, "fresh"))
}
