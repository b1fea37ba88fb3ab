package ssg

import (
	"context"
	stderrors "errors"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/kbukum/rpckit/errors"
	"github.com/kbukum/rpckit/logger"
	"github.com/kbukum/rpckit/router"
)

// prefetchConcurrency bounds the calls PrefetchQueries runs at once.
const prefetchConcurrency = 8

// ErrNoRouter is returned by New without a router.
var ErrNoRouter = stderrors.New("ssg: router is required")

// Options configure Helpers.
type Options[C any] struct {
	Router *router.Router[C]
	// Context is the call context every query runs with.
	Context C
	// Transformer serializes Dehydrate output. Nil returns the state as is.
	Transformer Transformer
	// StaleTime is how long a successful result is served from the cache.
	// Zero always refetches.
	StaleTime time.Duration
	// Cache defaults to a new QueryCache.
	Cache *QueryCache
	// Logger defaults to the "ssg" component logger.
	Logger *logger.Logger
}

// Helpers run queries in-process ahead of rendering and collect their
// results into a cache that can be dehydrated for the client.
type Helpers[C any] struct {
	caller      *router.Caller[C]
	cache       *QueryCache
	transformer Transformer
	staleTime   time.Duration
	log         *logger.Logger
	group       singleflight.Group
	now         func() time.Time
}

// InfiniteData is the cached form of a paginated query.
type InfiniteData struct {
	Pages      []any `json:"pages"`
	PageParams []any `json:"pageParams"`
}

// DehydratedState is the serializable snapshot of the cache.
type DehydratedState struct {
	Queries []Query `json:"queries"`
}

// Request names one query to prefetch.
type Request struct {
	Path     string
	Input    any
	Infinite bool
}

// New returns Helpers bound to opts.Router and opts.Context.
func New[C any](opts Options[C]) (*Helpers[C], error) {
	if opts.Router == nil {
		return nil, ErrNoRouter
	}
	if opts.Cache == nil {
		opts.Cache = NewQueryCache()
	}
	log := logger.Get("ssg")
	if opts.Logger != nil {
		log = opts.Logger.WithComponent("ssg")
	}
	return &Helpers[C]{
		caller:      opts.Router.CreateCaller(opts.Context),
		cache:       opts.Cache,
		transformer: opts.Transformer,
		staleTime:   opts.StaleTime,
		log:         log,
		now:         time.Now,
	}, nil
}

// Cache returns the underlying query cache.
func (h *Helpers[C]) Cache() *QueryCache { return h.cache }

// FetchQuery runs the query on path, caches the outcome and returns it.
func (h *Helpers[C]) FetchQuery(ctx context.Context, path string, input any) (any, error) {
	return h.fetch(QueryKey(path, input), func() (any, error) {
		return h.caller.Query(ctx, path, input)
	})
}

// PrefetchQuery is FetchQuery for warming the cache: failures are cached as
// error states and logged, never returned.
func (h *Helpers[C]) PrefetchQuery(ctx context.Context, path string, input any) {
	if _, err := h.FetchQuery(ctx, path, input); err != nil {
		h.logPrefetchFailure(path, err)
	}
}

// FetchInfiniteQuery runs the first page of a paginated query and caches it
// as InfiniteData.
func (h *Helpers[C]) FetchInfiniteQuery(ctx context.Context, path string, input any) (InfiniteData, error) {
	key, err := InfiniteQueryKey(path, input)
	if err != nil {
		return InfiniteData{}, errors.Wrap(errors.ErrCodeBadRequest, err, "")
	}
	v, err := h.fetch(key, func() (any, error) {
		page, err := h.caller.Query(ctx, path, input)
		if err != nil {
			return nil, err
		}
		return InfiniteData{Pages: []any{page}, PageParams: []any{nil}}, nil
	})
	if err != nil {
		return InfiniteData{}, err
	}
	data, _ := v.(InfiniteData)
	return data, nil
}

// PrefetchInfiniteQuery is FetchInfiniteQuery without a result.
func (h *Helpers[C]) PrefetchInfiniteQuery(ctx context.Context, path string, input any) {
	if _, err := h.FetchInfiniteQuery(ctx, path, input); err != nil {
		h.logPrefetchFailure(path, err)
	}
}

// PrefetchQueries prefetches reqs concurrently and waits for all of them.
func (h *Helpers[C]) PrefetchQueries(ctx context.Context, reqs ...Request) {
	var g errgroup.Group
	g.SetLimit(prefetchConcurrency)
	for _, req := range reqs {
		g.Go(func() error {
			if req.Infinite {
				h.PrefetchInfiniteQuery(ctx, req.Path, req.Input)
			} else {
				h.PrefetchQuery(ctx, req.Path, req.Input)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Dehydrate snapshots every cached query, failed ones included, and
// serializes the snapshot with the configured transformer.
func (h *Helpers[C]) Dehydrate() (any, error) {
	state := DehydratedState{Queries: h.cache.All()}
	if h.transformer == nil {
		return state, nil
	}
	return h.transformer.Serialize(state)
}

// fetch serves key from the cache while fresh and otherwise runs fn once
// for all concurrent callers of the same key.
func (h *Helpers[C]) fetch(key Key, fn func() (any, error)) (any, error) {
	hash, err := key.Hash()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBadRequest, err, "")
	}
	if q, ok := h.cache.Get(hash); ok && h.fresh(q) {
		return q.State.Data, nil
	}

	v, err, _ := h.group.Do(hash, func() (any, error) {
		data, err := fn()
		state := State{Status: StatusSuccess, Data: data, UpdatedAt: h.now()}
		if err != nil {
			body := errors.From(err).Body()
			state = State{Status: StatusError, Error: &body, UpdatedAt: state.UpdatedAt}
		}
		h.cache.Set(Query{Key: key, Hash: hash, State: state})
		return data, err
	})
	return v, err
}

func (h *Helpers[C]) fresh(q Query) bool {
	return h.staleTime > 0 &&
		q.State.Status == StatusSuccess &&
		h.now().Sub(q.State.UpdatedAt) < h.staleTime
}

func (h *Helpers[C]) logPrefetchFailure(path string, err error) {
	h.log.Debug("prefetch failed", map[string]interface{}{
		logger.FieldPath:      path,
		logger.FieldErrorCode: string(errors.From(err).Code),
		logger.FieldError:     err.Error(),
	})
}

// Fetch is FetchQuery with a typed result.
func Fetch[O, C any](ctx context.Context, h *Helpers[C], path string, input any) (O, error) {
	return router.As[O](h.FetchQuery(ctx, path, input))
}
