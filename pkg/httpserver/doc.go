// Package httpserver runs the operational listener that exposes liveness and
// readiness probes next to the raw-socket application server.
//
//	ops := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	g.Go(func() error {
//		return ops.Run(ctx, httpserver.Routes(log, cfg.ProbeTimeout,
//			httpserver.Probe{Name: "postgres", Check: pg.Healthcheck(pool)},
//		))
//	})
package httpserver
