package bootstrap

import (
	"context"
	"sync"

	"github.com/kbukum/rpckit/component"
	"github.com/kbukum/rpckit/observability"
)

// telemetry installs the OpenTelemetry providers on Start and flushes them
// on Stop.
type telemetry struct {
	cfg observability.Config

	mu       sync.Mutex
	shutdown func(context.Context) error
}

func newTelemetry(cfg observability.Config) *telemetry {
	return &telemetry{cfg: cfg}
}

func (t *telemetry) Name() string { return "telemetry" }

func (t *telemetry) Start(ctx context.Context) error {
	shutdown, err := observability.Setup(ctx, t.cfg)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.shutdown = shutdown
	t.mu.Unlock()
	return nil
}

func (t *telemetry) Stop(ctx context.Context) error {
	t.mu.Lock()
	shutdown := t.shutdown
	t.shutdown = nil
	t.mu.Unlock()
	if shutdown == nil {
		return nil
	}
	return shutdown(ctx)
}

func (t *telemetry) Health(context.Context) component.Health {
	h := component.Health{Name: t.Name(), Status: component.StatusHealthy}
	if !t.cfg.Tracing && !t.cfg.Metrics {
		h.Message = "export disabled"
	}
	return h
}
