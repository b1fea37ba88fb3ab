// Package server exposes a router over HTTP.
//
// Server wraps a gin engine in an h2c handler so HTTP/1.1 and cleartext
// HTTP/2 clients share one port. Mount registers a router's procedures on
// the engine:
//
//	srv := server.New(cfg, log)
//	srv.ApplyMiddleware()
//	server.Mount(srv.Engine(), cfg.BasePath, appRouter, func(c *gin.Context) (Session, error) {
//		return Session{Token: c.GetHeader("Authorization")}, nil
//	})
//	srv.RegisterDefaultEndpoints("billing", registry.HealthAll)
//	err := srv.Start(ctx)
//
// Queries are served on GET with a JSON ?input= parameter and mutations on
// POST with a JSON body. Failures are encoded as errors.ErrorResponse with
// the error's HTTP status, so BAD_REQUEST answers 400 and NOT_FOUND 404.
//
// Server-level middleware (server/middleware) wraps the whole mux and deals
// with HTTP concerns only; per-call behavior belongs to procedure middleware.
//
// Built-in endpoints (server/endpoint): /health, /alive, /ready and /info.
package server
