package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/kbukum/rpckit/errors"
	"github.com/kbukum/rpckit/procedure"
)

// Concurrency returns a middleware that isolates procedures from each
// other: each path gets cfg.MaxInFlight slots, and a call that cannot take
// one within cfg.MaxWait fails with RATE_LIMITED without reaching the
// handler. A zero MaxInFlight yields a pass-through middleware.
func Concurrency[C any](cfg ConcurrencyConfig) procedure.MiddlewareFunc[C] {
	if cfg.MaxInFlight <= 0 {
		return func(ctx context.Context, opts procedure.MiddlewareOptions[C]) (procedure.Result, error) {
			return opts.Next(ctx)
		}
	}
	b := &bulkheads{size: cfg.MaxInFlight, wait: cfg.MaxWait}

	return func(ctx context.Context, opts procedure.MiddlewareOptions[C]) (procedure.Result, error) {
		sem := b.forPath(opts.Path)
		if err := acquire(ctx, sem, b.wait); err != nil {
			if ctx.Err() != nil {
				return procedure.Result{}, err
			}
			return procedure.Result{}, errors.RateLimited().
				WithDetail("path", opts.Path).
				WithDetail("max_in_flight", b.size)
		}
		defer func() { <-sem }()
		return opts.Next(ctx)
	}
}

type bulkheads struct {
	size int
	wait time.Duration

	mu     sync.Mutex
	byPath map[string]chan struct{}
}

func (b *bulkheads) forPath(path string) chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.byPath == nil {
		b.byPath = make(map[string]chan struct{})
	}
	sem, ok := b.byPath[path]
	if !ok {
		sem = make(chan struct{}, b.size)
		b.byPath[path] = sem
	}
	return sem
}

var errFull = errors.New(errors.ErrCodeRateLimited, "too many concurrent calls")

func acquire(ctx context.Context, sem chan struct{}, wait time.Duration) error {
	select {
	case sem <- struct{}{}:
		return nil
	default:
	}
	if wait <= 0 {
		return errFull
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case sem <- struct{}{}:
		return nil
	case <-timer.C:
		return errFull
	case <-ctx.Done():
		return ctx.Err()
	}
}
