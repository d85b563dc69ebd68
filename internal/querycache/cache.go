// Package querycache provides the read-through cache over persisted-store queries
package querycache

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/rfin/internal/common"
)

// Cache is an in-memory read-through cache. Entries expire passively after
// the freshness window; there is no scheduled eviction, so memory growth is
// bounded only by key cardinality. Acceptable here: keys are resolved query
// parameters over a small set of endpoints.
type Cache struct {
	freshness time.Duration
	logger    *common.Logger
	now       func() time.Time // injectable clock for testing

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	ready      chan struct{}
	value      any
	err        error
	insertedAt time.Time
}

// New creates a cache with the given freshness window.
func New(freshness time.Duration, logger *common.Logger) *Cache {
	if freshness <= 0 {
		freshness = common.FreshnessQuery
	}
	return &Cache{
		freshness: freshness,
		logger:    logger,
		now:       time.Now,
		entries:   make(map[string]*entry),
	}
}

// BuildKey derives a deterministic cache key from the endpoint identity and
// every resolved query parameter. Absent parameters are included as empty
// values so distinct effective queries never collide and identical effective
// queries always do, regardless of phrasing.
func BuildKey(endpoint string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(endpoint)
	for _, k := range keys {
		sb.WriteByte('|')
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(params[k])
	}
	return sb.String()
}

// GetOrCompute returns the cached value for key when fresh, otherwise runs
// compute, stores its result, and returns it. Concurrent callers on the same
// key share a single compute call; failed computes are not cached.
func (c *Cache) GetOrCompute(ctx context.Context, key string, compute func(ctx context.Context) (any, error)) (any, error) {
	for {
		c.mu.Lock()
		e, ok := c.entries[key]
		if ok {
			select {
			case <-e.ready:
				// Completed entry: check freshness, drop stale or failed
				if e.err == nil && c.now().Sub(e.insertedAt) < c.freshness {
					c.mu.Unlock()
					c.logger.Debug().Str("key", key).Msg("Cache hit")
					return e.value, nil
				}
				delete(c.entries, key)
				c.mu.Unlock()
				continue
			default:
				// In flight: wait on it outside the lock
				c.mu.Unlock()
				select {
				case <-e.ready:
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				continue
			}
		}

		e = &entry{ready: make(chan struct{})}
		c.entries[key] = e
		c.mu.Unlock()

		c.logger.Debug().Str("key", key).Msg("Cache miss, computing")
		e.value, e.err = compute(ctx)
		e.insertedAt = c.now()
		close(e.ready)

		if e.err != nil {
			c.mu.Lock()
			if c.entries[key] == e {
				delete(c.entries, key)
			}
			c.mu.Unlock()
			return nil, e.err
		}
		return e.value, nil
	}
}

// Len returns the current number of cache entries, fresh or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
