package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/wirekit/pkg/account"
	"github.com/dmitrymomot/wirekit/pkg/config"
	"github.com/dmitrymomot/wirekit/pkg/httpserver"
	"github.com/dmitrymomot/wirekit/pkg/logger"
	"github.com/dmitrymomot/wirekit/pkg/mongo"
	"github.com/dmitrymomot/wirekit/pkg/pg"
	"github.com/dmitrymomot/wirekit/pkg/redis"
	"github.com/dmitrymomot/wirekit/pkg/session"
	"github.com/dmitrymomot/wirekit/store"
	"github.com/dmitrymomot/wirekit/store/mongostore"
	"github.com/dmitrymomot/wirekit/store/pgstore"
	"github.com/dmitrymomot/wirekit/store/redisstore"
)

// Storage drivers accepted by STORE_DRIVER and SESSION_DRIVER.
const (
	driverMemory   = "memory"
	driverPostgres = "postgres"
	driverMongo    = "mongo"
	driverRedis    = "redis"
)

type backends struct {
	accounts store.Repository[account.Account]
	sessions store.Repository[session.Session]
	probes   []httpserver.Probe
	closers  []func(context.Context) error
}

func (b *backends) close(log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](ctx); err != nil {
			log.Warn("backend close failed", logger.Error(err))
		}
	}
}

// openBackends connects only the databases the selected drivers need.
func openBackends(ctx context.Context, app appConfig, log *slog.Logger) (*backends, error) {
	b := &backends{}
	uses := func(driver string) bool {
		return app.StoreDriver == driver || app.SessionDriver == driver
	}

	var (
		pgAccounts *pgstore.Accounts
		pgSess     *pgstore.Sessions
	)
	if uses(driverPostgres) {
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return nil, fmt.Errorf("postgres config: %w", err)
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func(context.Context) error { pool.Close(); return nil })
		if err := pg.Migrate(ctx, pool, pgstore.Migrations, pgstore.MigrationsDir, cfg, log); err != nil {
			b.close(log)
			return nil, err
		}
		b.probes = append(b.probes, httpserver.Probe{Name: "postgres", Check: pg.Healthcheck(pool)})
		pgAccounts, pgSess = pgstore.NewAccounts(pool), pgstore.NewSessions(pool)
	}

	var mongoAccounts store.Repository[account.Account]
	var mongoSessions store.Repository[session.Session]
	if uses(driverMongo) {
		var cfg mongo.Config
		if err := config.Load(&cfg); err != nil {
			b.close(log)
			return nil, fmt.Errorf("mongo config: %w", err)
		}
		client, err := mongo.Connect(ctx, cfg)
		if err != nil {
			b.close(log)
			return nil, err
		}
		b.closers = append(b.closers, client.Disconnect)
		b.probes = append(b.probes, httpserver.Probe{Name: "mongo", Check: mongo.Healthcheck(client)})
		db := client.Database(cfg.Database)
		if mongoAccounts, err = mongostore.NewAccounts(ctx, db); err != nil {
			b.close(log)
			return nil, err
		}
		if mongoSessions, err = mongostore.NewSessions(ctx, db); err != nil {
			b.close(log)
			return nil, err
		}
	}

	switch app.StoreDriver {
	case driverMemory, "":
		b.accounts = store.NewMemory[account.Account](store.WithUnique("email"))
	case driverPostgres:
		b.accounts = pgAccounts
	case driverMongo:
		b.accounts = mongoAccounts
	default:
		b.close(log)
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", app.StoreDriver)
	}

	switch app.SessionDriver {
	case driverMemory, "":
		b.sessions = store.NewMemory[session.Session]()
	case driverPostgres:
		b.sessions = pgSess
	case driverMongo:
		b.sessions = mongoSessions
	case driverRedis:
		var cfg redis.Config
		if err := config.Load(&cfg); err != nil {
			b.close(log)
			return nil, fmt.Errorf("redis config: %w", err)
		}
		client, err := redis.Connect(ctx, cfg)
		if err != nil {
			b.close(log)
			return nil, err
		}
		b.closers = append(b.closers, func(context.Context) error { return client.Close() })
		b.probes = append(b.probes, httpserver.Probe{Name: "redis", Check: redis.Healthcheck(client)})
		b.sessions = redisstore.NewSessions(client, redisstore.WithPrefix(cfg.KeyPrefix))
	default:
		b.close(log)
		return nil, fmt.Errorf("unknown SESSION_DRIVER %q", app.SessionDriver)
	}

	return b, nil
}
