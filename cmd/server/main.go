// Command server runs the wirekit API listener, the ops listener and the task
// worker until it receives SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/wirekit/file"
	"github.com/dmitrymomot/wirekit/handler"
	accountmod "github.com/dmitrymomot/wirekit/modules/account"
	"github.com/dmitrymomot/wirekit/pkg/account"
	"github.com/dmitrymomot/wirekit/pkg/config"
	"github.com/dmitrymomot/wirekit/pkg/httpserver"
	"github.com/dmitrymomot/wirekit/pkg/logger"
	"github.com/dmitrymomot/wirekit/pkg/queue"
	"github.com/dmitrymomot/wirekit/pkg/ratelimiter"
	"github.com/dmitrymomot/wirekit/pkg/requestid"
	"github.com/dmitrymomot/wirekit/router"
	"github.com/dmitrymomot/wirekit/server"
	"github.com/dmitrymomot/wirekit/svc/auth"
)

type appConfig struct {
	Name          string `env:"APP_NAME" envDefault:"wirekit"`
	Env           string `env:"APP_ENV" envDefault:"development"`
	StoreDriver   string `env:"STORE_DRIVER" envDefault:"memory"`
	SessionDriver string `env:"SESSION_DRIVER" envDefault:"memory"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		app      appConfig
		logCfg   logger.Config
		authCfg  auth.Config
		srvCfg   server.Config
		opsCfg   httpserver.Config
		fileCfg  file.Config
		queueCfg queue.Config
		limitCfg ratelimiter.Config
	)
	if err := errors.Join(
		config.Load(&app),
		config.Load(&logCfg),
		config.Load(&authCfg),
		config.Load(&srvCfg),
		config.Load(&opsCfg),
		config.Load(&fileCfg),
		config.Load(&queueCfg),
		config.Load(&limitCfg),
	); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(
		logger.WithEnvironment(app.Env, app.Name),
		logger.WithConfig(logCfg),
		logger.WithContextExtractors(requestid.LoggerExtractor(), requestid.ConnExtractor()),
	)

	be, err := openBackends(ctx, app, log)
	if err != nil {
		return err
	}
	defer be.close(log)

	files, err := file.New(ctx, fileCfg)
	if err != nil {
		return fmt.Errorf("file storage: %w", err)
	}

	tasks := queue.NewMemoryStorage()
	enqueuer, err := queue.NewEnqueuer(tasks, queue.WithDefaultMaxAttempts(queueCfg.MaxAttempts))
	if err != nil {
		return err
	}
	worker, err := queue.NewWorker(tasks,
		queue.WithQueues(accountmod.FileQueue, accountmod.AccountQueue),
		queue.WithPullInterval(queueCfg.PollInterval),
		queue.WithTaskTimeout(queueCfg.TaskTimeout),
		queue.WithWorkerLogger(log.With(logger.Component("queue"))),
	)
	if err != nil {
		return err
	}
	worker.RegisterHandlers(
		accountmod.FileUploadedHandler(files, log),
		accountmod.AccountRegisteredHandler(log),
	)

	svc, err := auth.NewService(authCfg, be.accounts, be.sessions,
		auth.WithServiceLogger(log),
		auth.WithAfterRegister(accountmod.AnnounceRegistration(enqueuer, log)),
	)
	if err != nil {
		return fmt.Errorf("auth service: %w", err)
	}
	gateway, err := auth.NewGatewayFromConfig(authCfg, be.sessions, be.accounts, log)
	if err != nil {
		return fmt.Errorf("auth gateway: %w", err)
	}
	if err := seedAdmin(ctx, svc, app, log); err != nil {
		return err
	}

	buckets := ratelimiter.NewMemoryStore()
	defer buckets.Close()
	limiter, err := ratelimiter.NewBucket(buckets, limitCfg)
	if err != nil {
		return err
	}

	routes := router.NewBuilder[handler.Endpoint]()
	accountmod.New(svc,
		accountmod.WithMaxFileBytes(fileCfg.MaxBytes),
		accountmod.WithLimiter(limiter),
	).Register(routes)
	tree, err := routes.Build()
	if err != nil {
		return fmt.Errorf("build routes: %w", err)
	}

	srv, err := server.NewFromConfig(srvCfg, tree, &handler.Resources{
		Accounts: be.accounts,
		Sessions: be.sessions,
		Tasks:    enqueuer,
		Files:    files,
		Logger:   log,
	}, server.WithAuthenticator(gateway), server.WithLogger(log))
	if err != nil {
		return err
	}
	ops := httpserver.NewFromConfig(opsCfg, httpserver.WithLogger(log))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ListenAndServe(gctx) })
	g.Go(func() error { return ops.Run(gctx, httpserver.Routes(log, opsCfg.ProbeTimeout, be.probes...)) })
	g.Go(worker.Run(gctx))

	log.InfoContext(ctx, "wirekit started",
		slog.String("addr", srvCfg.Addr),
		slog.String("ops_addr", opsCfg.Addr),
		slog.String("store", app.StoreDriver),
		slog.String("sessions", app.SessionDriver),
		slog.Int("routes", tree.Len()),
	)
	return g.Wait()
}

// seedAdmin creates the bootstrap admin account once.
func seedAdmin(ctx context.Context, svc *auth.Service, app appConfig, log *slog.Logger) error {
	if app.AdminEmail == "" || app.AdminPassword == "" {
		return nil
	}
	_, err := svc.Register(ctx, app.AdminEmail, app.AdminPassword, account.RoleUser, account.RoleAdmin)
	switch {
	case err == nil:
		log.InfoContext(ctx, "admin account created")
		return nil
	case errors.Is(err, auth.ErrEmailTaken):
		return nil
	default:
		return fmt.Errorf("seed admin: %w", err)
	}
}
