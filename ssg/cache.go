package ssg

import (
	"sort"
	"sync"
	"time"

	"github.com/kbukum/rpckit/errors"
)

// Status is the outcome of the last fetch of a query.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// State is the cached outcome of a query.
type State struct {
	Data      any               `json:"data"`
	Error     *errors.ErrorBody `json:"error"`
	Status    Status            `json:"status"`
	UpdatedAt time.Time         `json:"dataUpdatedAt"`
}

// Query is one cache entry.
type Query struct {
	Key   Key    `json:"queryKey"`
	Hash  string `json:"queryHash"`
	State State  `json:"state"`
}

// QueryCache is an in-memory, concurrency-safe store of queries keyed by
// their hash. Nothing is persisted.
type QueryCache struct {
	mu      sync.RWMutex
	queries map[string]Query
}

// NewQueryCache returns an empty cache.
func NewQueryCache() *QueryCache {
	return &QueryCache{queries: make(map[string]Query)}
}

// Get returns the query stored under hash.
func (c *QueryCache) Get(hash string) (Query, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.queries[hash]
	return q, ok
}

// Set stores q, replacing any entry with the same hash.
func (c *QueryCache) Set(q Query) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queries[q.Hash] = q
}

// All returns every query ordered by hash.
func (c *QueryCache) All() []Query {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Query, 0, len(c.queries))
	for _, q := range c.queries {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hash < out[j].Hash })
	return out
}

// Len returns the number of cached queries.
func (c *QueryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.queries)
}

// Clear removes every query.
func (c *QueryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.queries)
}
