package middleware

import (
	"github.com/kbukum/rpckit/logger"
	"github.com/kbukum/rpckit/observability"
	"github.com/kbukum/rpckit/procedure"
)

// StackOptions are the collaborators of the default middleware stack.
type StackOptions struct {
	ServiceName string
	Logger      *logger.Logger
	// Metrics may be nil when metrics are disabled.
	Metrics *observability.Metrics
}

// Stack returns the default middlewares in the order they should wrap a
// procedure: request id outermost, then tracing, logging and metrics, so
// they observe the error Recovery makes of a panic. Rate limiting, the
// timeout and the concurrency limit follow and are omitted when cfg
// disables them. The concurrency limit sits inside the timeout so a slot is
// held until the handler returns, even after the caller timed out.
func Stack[C any](cfg Config, opts StackOptions) []procedure.MiddlewareFunc[C] {
	mws := []procedure.MiddlewareFunc[C]{
		RequestID[C](),
		Tracing[C](opts.ServiceName),
		Logging[C](opts.Logger),
		Metrics[C](opts.Metrics),
		Recovery[C](opts.Logger),
	}
	if cfg.RateLimit.Enabled {
		mws = append(mws, RateLimit[C](cfg.RateLimit))
	}
	if cfg.Timeout > 0 {
		mws = append(mws, Timeout[C](cfg.Timeout))
	}
	if cfg.Concurrency.MaxInFlight > 0 {
		mws = append(mws, Concurrency[C](cfg.Concurrency))
	}
	return mws
}
