package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/config"
	"github.com/dmitrymomot/authkit/pkg/httpserver"
	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/mongo"
	"github.com/dmitrymomot/authkit/pkg/pg"
	"github.com/dmitrymomot/authkit/pkg/ratelimiter"
	"github.com/dmitrymomot/authkit/pkg/redis"
	"github.com/dmitrymomot/authkit/pkg/store/memstore"
	"github.com/dmitrymomot/authkit/pkg/store/mongostore"
	"github.com/dmitrymomot/authkit/pkg/store/pgstore"
	"github.com/dmitrymomot/authkit/pkg/store/redisstore"
)

// backends holds the storage chosen by STORE_DRIVER and REFRESH_STORE_DRIVER.
type backends struct {
	users   auth.UserDirectory
	refresh auth.RefreshStore
	states  auth.StateStore
	limits  ratelimiter.Store
	checks  []httpserver.Check
	purge   purgeFunc
	closers []func(context.Context) error
}

func (b *backends) Close(ctx context.Context) {
	for i := len(b.closers) - 1; i >= 0; i-- {
		_ = b.closers[i](ctx)
	}
}

func openBackends(ctx context.Context, app appConfig, refreshTTL time.Duration, log *slog.Logger) (_ *backends, err error) {
	b := &backends{}
	defer func() {
		if err != nil {
			b.Close(ctx)
		}
	}()
	clock := auth.SystemClock

	mem := ratelimiter.NewMemoryStore()
	b.limits = mem
	b.closers = append(b.closers, func(context.Context) error { mem.Close(); return nil })

	switch app.StoreDriver {
	case storeMemory:
		tokens := memstore.NewRefreshTokens(refreshTTL, clock)
		states := memstore.NewStates(clock)
		b.users, b.refresh, b.states = memstore.NewUsers(), tokens, states
		b.purge = purgeAll(tokens.PurgeExpired, states.PurgeExpired)

	case storeMongo:
		var cfg mongo.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := mongo.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, client.Disconnect)
		b.checks = append(b.checks, httpserver.Check{Name: "mongo", Fn: mongo.Healthcheck(client)})

		db := client.Database(cfg.Database)
		users := mongostore.NewUsers(db)
		tokens := mongostore.NewRefreshTokens(db, refreshTTL, clock)
		if err := mongostore.EnsureIndexes(ctx, users, tokens); err != nil {
			return nil, err
		}
		// The TTL index expires refresh records; only OAuth states need sweeping.
		states := memstore.NewStates(clock)
		b.users, b.refresh, b.states = users, tokens, states
		b.purge = states.PurgeExpired

	case storePostgres:
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func(context.Context) error { pool.Close(); return nil })
		b.checks = append(b.checks, httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)})

		if err := pg.Migrate(ctx, pool, cfg, pgstore.Migrations, pgstore.MigrationsDir, log); err != nil {
			return nil, err
		}
		tokens := pgstore.NewRefreshTokens(pool, refreshTTL, clock)
		states := memstore.NewStates(clock)
		b.users, b.refresh, b.states = pgstore.NewUsers(pool), tokens, states
		b.purge = purgeAll(tokens.PurgeExpired, states.PurgeExpired)

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", app.StoreDriver)
	}

	switch app.RefreshStoreDriver {
	case "":
	case storeRedis:
		var cfg redis.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func(context.Context) error { return client.Close() })
		b.checks = append(b.checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})

		// Redis expires keys itself, so there is nothing left to purge.
		b.refresh = redisstore.NewRefreshTokens(client, cfg.KeyPrefix, refreshTTL, clock)
		b.states = redisstore.NewStates(client, cfg.KeyPrefix, clock)
		b.limits = ratelimiter.NewRedisStore(client, cfg.KeyPrefix)
		b.purge = nil
	default:
		return nil, fmt.Errorf("unknown REFRESH_STORE_DRIVER %q", app.RefreshStoreDriver)
	}

	log.InfoContext(ctx, "storage ready",
		logger.Driver(app.StoreDriver),
		slog.String("refresh_driver", app.RefreshStoreDriver),
		logger.Component("authd"),
	)
	return b, nil
}

type purgeFunc = func(context.Context) (int64, error)

// purgeAll runs every sweep and sums the removed counts. The first error is
// returned after all sweeps ran.
func purgeAll(fns ...purgeFunc) purgeFunc {
	return func(ctx context.Context) (int64, error) {
		var (
			total    int64
			firstErr error
		)
		for _, fn := range fns {
			n, err := fn(ctx)
			total += n
			if err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return total, firstErr
	}
}

// runPurge deletes expired refresh records and OAuth states every interval
// until ctx is done.
func runPurge(ctx context.Context, purge purgeFunc, interval time.Duration, log *slog.Logger) {
	if purge == nil || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := purge(ctx)
			if err != nil {
				log.ErrorContext(ctx, "failed to purge expired records", logger.Error(err), logger.Component("authd"))
				continue
			}
			if n > 0 {
				log.InfoContext(ctx, "purged expired records", slog.Int64("count", n), logger.Component("authd"))
			}
		}
	}
}
