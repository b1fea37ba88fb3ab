package server

import (
	"context"

	"github.com/kbukum/rpckit/component"
)

const componentName = "http-server"

var _ component.Component = (*Component)(nil)

// Component adapts a Server to the component lifecycle.
type Component struct {
	server *Server
}

// NewComponent returns a component.Component backed by s.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

func (sc *Component) Name() string { return componentName }

func (sc *Component) Start(ctx context.Context) error {
	return sc.server.Start(ctx)
}

func (sc *Component) Stop(ctx context.Context) error {
	return sc.server.Stop(ctx)
}

// Health reports unhealthy until the listener is bound.
func (sc *Component) Health(context.Context) component.Health {
	sc.server.mu.RLock()
	bound := sc.server.addr != nil
	sc.server.mu.RUnlock()

	if !bound {
		return component.Health{
			Name:    componentName,
			Status:  component.StatusUnhealthy,
			Message: "HTTP server not started",
		}
	}
	return component.Health{Name: componentName, Status: component.StatusHealthy}
}
