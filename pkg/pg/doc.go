// Package pg wraps pgx/v5 connection pooling and goose migrations.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	if err := pg.Migrate(ctx, pool, cfg, pgstore.Migrations, "migrations", log); err != nil {
//		return err
//	}
//
// IsNotFoundError and IsDuplicateKeyError translate driver errors for store
// implementations.
package pg
