// Package middleware provides ready-made procedure middlewares: logging,
// metrics, tracing, timeouts, rate limiting, per-path concurrency limits,
// panic recovery, authorization and request ids. Every middleware is generic
// over the call context and composes with
// procedure.Procedure.InheritMiddlewares or a router.
//
//	r := router.New[Ctx]().Middleware(middleware.Stack[Ctx](cfg.Procedures, middleware.StackOptions{
//		ServiceName: cfg.Name,
//		Logger:      log,
//	})...)
package middleware
