package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/rpckit/component"
	"github.com/kbukum/rpckit/logger"
	"github.com/kbukum/rpckit/middleware"
	"github.com/kbukum/rpckit/observability"
	"github.com/kbukum/rpckit/router"
	"github.com/kbukum/rpckit/server"
)

const defaultGracefulTimeout = 15 * time.Second

// App runs an rpckit service: telemetry, the HTTP server and any other
// registered component, started in order and stopped on SIGINT/SIGTERM.
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger
	Server     *server.Server

	// Metrics records procedure calls; instruments bind to the meter
	// provider installed when the telemetry component starts.
	Metrics *observability.Metrics

	// injected is the logger passed with WithLogger. Without one, every
	// component logs through logger.Get and its configured level.
	injected *logger.Logger

	gracefulTimeout time.Duration
	onStart         []Hook
	onReady         []Hook
	onStop          []Hook
}

// NewApp applies defaults to cfg, validates it and assembles the service:
// logger, telemetry component, procedure metrics and the HTTP server with
// its default middleware and endpoints.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	base := cfg.GetServiceConfig()
	o := resolveOptions(opts)

	log := o.logger
	if log == nil {
		logger.Init(&base.Logging)
		log = logger.GetGlobalLogger()
	}

	metrics, err := observability.NewMetrics(observability.Meter(base.Name))
	if err != nil {
		return nil, fmt.Errorf("procedure metrics: %w", err)
	}

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Components:      component.NewRegistry(o.logger),
		Logger:          log,
		Metrics:         metrics,
		injected:        o.logger,
		gracefulTimeout: defaultGracefulTimeout,
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}

	if err := app.Components.Register(newTelemetry(base.Observability)); err != nil {
		return nil, err
	}

	app.Server = server.New(base.HTTP, o.logger)
	app.Server.ApplyMiddleware()
	app.Server.RegisterDefaultEndpoints(base.Name, app.Components.HealthAll)
	if err := app.Components.Register(server.NewComponent(app.Server)); err != nil {
		return nil, err
	}
	return app, nil
}

// Mount serves r under the configured base path, wrapping every procedure
// in the default middleware stack built from the procedures config.
func Mount[C Config, X any](app *App[C], r *router.Router[X], createContext server.ContextFunc[X]) {
	base := app.Cfg.GetServiceConfig()
	stack := middleware.Stack[X](base.Procedures, middleware.StackOptions{
		ServiceName: base.Name,
		Logger:      app.componentLogger("procedure"),
		Metrics:     app.Metrics,
	})
	served := router.New[X]().Middleware(stack...).Merge("", r)
	server.Mount(app.Server.Engine(), base.HTTP.BasePath, served, createContext)

	app.Logger.Info("Procedures mounted", map[string]interface{}{
		"base_path":  base.HTTP.BasePath,
		"procedures": len(served.Paths()),
	})
}

// componentLogger returns the logger of the named component: the injected
// logger tagged with name, or the registered one.
func (a *App[C]) componentLogger(name string) *logger.Logger {
	if a.injected != nil {
		return a.injected.WithComponent(name)
	}
	return logger.Get(name)
}

// RegisterComponent adds a component; it starts after telemetry and the
// HTTP server.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// ReadyCheck verifies that all registered components are healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status != component.StatusHealthy {
			detail := h.Name + "=" + string(h.Status)
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			unhealthy = append(unhealthy, detail)
		}
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// Run starts the service, blocks until a shutdown signal or ctx is done,
// then shuts down gracefully.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}
	a.WaitForSignal(ctx)
	return a.Shutdown(context.Background())
}

// Start starts components and runs the start and ready hooks.
func (a *App[C]) Start(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("Starting application", map[string]interface{}{
		"name":    a.Name,
		"version": a.Version,
	})

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start components: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", map[string]interface{}{logger.FieldError: err.Error()})
	}
	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Logger.Info("Application ready", map[string]interface{}{
		"addr":               a.Server.Addr(),
		logger.FieldDuration: time.Since(start).Milliseconds(),
	})
	return nil
}

// WaitForSignal blocks until SIGINT/SIGTERM or ctx cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", map[string]interface{}{"signal": sig.String()})
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown runs the stop hooks and stops all components within the
// graceful timeout.
func (a *App[C]) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", map[string]interface{}{logger.FieldError: err.Error()})
		shutdownErr = err
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Shutdown completed with errors", map[string]interface{}{logger.FieldError: err.Error()})
		if shutdownErr == nil {
			shutdownErr = err
		}
	}
	a.Logger.Info("Application shutdown complete")
	return shutdownErr
}
