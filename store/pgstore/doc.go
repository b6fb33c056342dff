// Package pgstore implements store.Repository for accounts and sessions on
// PostgreSQL. The schema ships as embedded goose migrations:
//
//	if err := pg.Migrate(ctx, pool, pgstore.Migrations, pgstore.MigrationsDir, cfg, log); err != nil {
//		return err
//	}
//	accounts := pgstore.NewAccounts(pool)
//	sessions := pgstore.NewSessions(pool)
//
// Unique violations surface as store.ErrConflict, missing rows as
// store.ErrNotFound.
package pgstore
