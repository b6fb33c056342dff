// Package pg connects to PostgreSQL through pgx/v5 and applies goose
// migrations.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//	if err := pg.Migrate(ctx, pool, pgstore.Migrations, "migrations", cfg, log); err != nil {
//		return err
//	}
//
// Connect retries with a growing pause until RetryAttempts is exhausted or
// the context ends. IsDuplicateKeyError and IsNotFoundError classify driver
// errors for repository code.
package pg
