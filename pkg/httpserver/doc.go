// Package httpserver runs an http.Handler with graceful shutdown and ships
// the health probe and request logging pieces every service mounts.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware, httpserver.RequestLogger(log))
//	r.Get("/health/live", httpserver.Liveness())
//	r.Get("/health/ready", httpserver.Readiness(log,
//		httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)},
//	))
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Run returns once ctx is canceled and in-flight requests drained, or the
// shutdown timeout passed. Listen failures wrap ErrStart and shutdown
// failures wrap ErrShutdown.
package httpserver
