package middleware

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/kbukum/rpckit/errors"
	"github.com/kbukum/rpckit/procedure"
)

// sweepEvery is the number of admissions between idle-bucket sweeps.
const sweepEvery = 512

// KeyFunc extracts the rate-limit key of a call.
type KeyFunc[C any] func(opts procedure.MiddlewareOptions[C]) string

// PathKey limits each procedure path independently.
func PathKey[C any](opts procedure.MiddlewareOptions[C]) string {
	return opts.Path
}

// RateLimit returns a middleware that admits calls through a token bucket
// per procedure path. Calls over budget fail with RATE_LIMITED and never
// reach the handler. A disabled config yields a pass-through middleware.
func RateLimit[C any](cfg RateLimitConfig) procedure.MiddlewareFunc[C] {
	return RateLimitBy[C](cfg, PathKey[C])
}

// RateLimitBy is RateLimit with a custom key, e.g. the caller's identity.
func RateLimitBy[C any](cfg RateLimitConfig, key KeyFunc[C]) procedure.MiddlewareFunc[C] {
	if !cfg.Enabled {
		return func(ctx context.Context, opts procedure.MiddlewareOptions[C]) (procedure.Result, error) {
			return opts.Next(ctx)
		}
	}
	cfg.ApplyDefaults()
	l := newLimiter(cfg)

	return func(ctx context.Context, opts procedure.MiddlewareOptions[C]) (procedure.Result, error) {
		if !l.allow(key(opts), time.Now()) {
			return procedure.Result{}, errors.RateLimited().WithDetail("path", opts.Path)
		}
		return opts.Next(ctx)
	}
}

type limiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	mu    sync.Mutex
	byKey map[string]*limiterEntry
	hits  uint64
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiter(cfg RateLimitConfig) *limiter {
	return &limiter{
		limit:   rate.Limit(cfg.RPS),
		burst:   cfg.Burst,
		idleTTL: cfg.IdleTTL,
		byKey:   make(map[string]*limiterEntry),
	}
}

func (l *limiter) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.byKey[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byKey[key] = entry
	}
	entry.lastSeen = now
	allowed := entry.limiter.AllowN(now, 1)

	l.hits++
	if l.hits%sweepEvery == 0 {
		cutoff := now.Add(-l.idleTTL)
		for k, v := range l.byKey {
			if v.lastSeen.Before(cutoff) {
				delete(l.byKey, k)
			}
		}
	}
	return allowed
}
