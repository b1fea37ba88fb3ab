// Package bootstrap runs an rpckit service.
//
// NewApp turns a validated config into a ready-to-start App: the logger,
// an OpenTelemetry component, procedure metrics and the HTTP server with
// its standard middleware and probe endpoints. Mount serves a router with
// the default procedure middleware stack applied to every procedure.
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil { ... }
//	bootstrap.Mount(app, appRouter, sessionFromRequest)
//	if err := app.Run(ctx); err != nil { ... }
//
// Components start in registration order (telemetry, then the HTTP server,
// then anything registered later) and stop in reverse on SIGINT or SIGTERM.
package bootstrap
