package query

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the value for one key from upstream.
type FetchFunc func(ctx context.Context) (any, error)

// Persister stores last-good values for warm restarts. Implemented by the
// snapshot store.
type Persister interface {
	SaveSnapshot(ctx context.Context, key string, payload []byte, fetchedAt time.Time) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// ErrUnknownKey is returned when a refetch targets a key that has never
// carried a fetch function.
var ErrUnknownKey = errors.New("unknown cache key")

// CacheStats counts cache effectiveness since process start.
type CacheStats struct {
	Hits          int64         `json:"hits"`
	Misses        int64         `json:"misses"`
	Revalidations int64         `json:"revalidations"`
	Errors        int64         `json:"errors"`
	Entries       int           `json:"entries"`
	States        map[State]int `json:"states"`
}

// Cache is the process-wide query cache. It is safe for concurrent use:
// entry state is guarded by one RWMutex and at most one fetch per key is in
// flight at any time.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	group   singleflight.Group
	clock   Clock
	logger  *logging.ChanneledLogger
	persist Persister
	watch   *watchRegistry

	hits          int64
	misses        int64
	revalidations int64
	errors        int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock substitutes the staleness clock.
func WithClock(clock Clock) Option {
	return func(c *Cache) { c.clock = clock }
}

// WithPersister enables snapshot persistence of successful fetches.
func WithPersister(p Persister) Option {
	return func(c *Cache) { c.persist = p }
}

// NewCache creates an empty cache.
func NewCache(logger *logging.ChanneledLogger, opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]*entry),
		clock:   systemClock{},
		logger:  logger,
	}
	c.watch = newWatchRegistry(c)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the value for key, fetching through fn when the cache
// cannot serve it. Fresh values are served directly. Stale values are served
// immediately while one revalidation proceeds in the background, so callers
// never see data vanish during a refresh. Misses and errored entries block
// on the fetch. Concurrent callers of an equal key share a single in-flight
// fetch. The fetch runs detached from ctx: a caller that gives up stops
// waiting, but the result still lands in the cache.
func (c *Cache) Fetch(ctx context.Context, key Key, policy Policy, fn FetchFunc) (any, error) {
	start := time.Now()
	ck := key.Canonical()

	c.mu.Lock()
	e, ok := c.entries[ck]
	if !ok {
		e = &entry{key: key, state: StateIdle}
		c.entries[ck] = e
	}
	e.policy = policy
	e.fetch = fn
	e.lastAccess = c.clock.Now()

	if e.hasValue && e.state != StateError {
		value := e.value
		stale := e.state == StateSuccess && c.clock.Now().Sub(e.fetchedAt) > policy.StaleTime
		c.hits++
		if stale {
			c.revalidations++
		}
		c.mu.Unlock()

		if stale {
			c.launchFlight(key)
		}
		c.logger.LogCacheOperation("fetch", ck, true, time.Since(start))
		return value, nil
	}

	// Idle, errored, or first load already in flight: block on the shared
	// fetch.
	c.misses++
	c.mu.Unlock()

	c.logger.LogCacheOperation("fetch", ck, false, time.Since(start))

	results := c.launchFlight(key)
	select {
	case res := <-results:
		return res.Val, res.Err
	case <-ctx.Done():
		// The flight carries on and will cache its result; this caller just
		// stops listening.
		return nil, ctx.Err()
	}
}

// Lookup returns the current snapshot for key without forcing a fetch.
func (c *Cache) Lookup(key Key) (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key.Canonical()]
	if !ok {
		return Snapshot{}, false
	}
	return c.snapshotLocked(e, c.clock.Now()), true
}

// Refetch forces a fresh fetch for a key that has been fetched before,
// bypassing the staleness window. It blocks until the shared flight lands.
func (c *Cache) Refetch(ctx context.Context, key Key) (any, error) {
	ck := key.Canonical()

	c.mu.Lock()
	e, ok := c.entries[ck]
	if !ok || e.fetch == nil {
		c.mu.Unlock()
		return nil, ErrUnknownKey
	}
	c.revalidations++
	c.mu.Unlock()

	results := c.launchFlight(key)
	select {
	case res := <-results:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// refreshInBackground revalidates a key on behalf of the interval timer.
func (c *Cache) refreshInBackground(key Key) {
	c.mu.Lock()
	e, ok := c.entries[key.Canonical()]
	if !ok || e.fetch == nil {
		c.mu.Unlock()
		return
	}
	c.revalidations++
	c.mu.Unlock()

	c.launchFlight(key)
}

// launchFlight moves the entry to loading and starts, or joins, the single
// in-flight fetch for the key. The returned channel delivers the shared
// result.
func (c *Cache) launchFlight(key Key) <-chan singleflight.Result {
	ck := key.Canonical()

	c.mu.Lock()
	e, ok := c.entries[ck]
	if !ok || e.fetch == nil {
		c.mu.Unlock()
		results := make(chan singleflight.Result, 1)
		results <- singleflight.Result{Err: ErrUnknownKey}
		return results
	}
	fn := e.fetch
	e.state = StateLoading
	c.mu.Unlock()

	return c.group.DoChan(ck, func() (any, error) {
		// Detached from every caller so no single departure cancels work
		// the others share. The transport bounds the call duration.
		value, err := fn(context.Background())
		c.completeFlight(key, value, err)
		return value, err
	})
}

// completeFlight records a fetch result and fans the new snapshot out to
// watchers.
func (c *Cache) completeFlight(key Key, value any, err error) {
	ck := key.Canonical()
	now := c.clock.Now()

	c.mu.Lock()
	e, ok := c.entries[ck]
	if !ok {
		// The key was invalidated while the fetch ran. Resurrecting it would
		// undo the invalidation, so the result is dropped.
		c.mu.Unlock()
		return
	}

	if err != nil {
		e.state = StateError
		e.err = err
		c.errors++
	} else {
		e.state = StateSuccess
		e.value = value
		e.hasValue = true
		e.err = nil
		e.fetchedAt = now
	}
	snap := c.snapshotLocked(e, now)
	persist := c.persist
	c.mu.Unlock()

	if err != nil {
		c.logger.LogError(logging.ChannelCache, "fetch", err, map[string]any{"key": ck})
	} else if persist != nil {
		c.persistValue(ck, value, now)
	}

	c.watch.notify(key, snap)
}

// persistValue writes the latest successful value to the snapshot store
// without holding up the fetch path.
func (c *Cache) persistValue(ck string, value any, fetchedAt time.Time) {
	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.Snapshot().Warn("Snapshot marshal failed", "key", ck, "error", err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.persist.SaveSnapshot(ctx, ck, payload, fetchedAt); err != nil {
			c.logger.Snapshot().Warn("Snapshot save failed", "key", ck, "error", err)
		}
	}()
}

// Invalidate removes every entry whose key extends prefix and returns the
// count removed. Snapshot rows under the prefix are dropped with the
// entries.
func (c *Cache) Invalidate(prefix Key) int {
	c.mu.Lock()
	removed := 0
	for ck, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			delete(c.entries, ck)
			removed++
		}
	}
	persist := c.persist
	c.mu.Unlock()

	if removed > 0 && persist != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := persist.DeleteByPrefix(ctx, prefix.Canonical()); err != nil {
				c.logger.Snapshot().Warn("Snapshot prefix delete failed", "prefix", prefix.String(), "error", err)
			}
		}()
	}

	c.logger.Cache().Info("Cache invalidated", "prefix", prefix.String(), "removed", removed)
	return removed
}

// Seed installs a success entry directly, used by boot warming. fetchedAt
// keeps the original fetch time so a seeded value that is already stale
// revalidates on first access instead of masquerading as fresh. Seeding
// never overwrites a live entry.
func (c *Cache) Seed(key Key, value any, fetchedAt time.Time, policy Policy) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ck := key.Canonical()
	if e, ok := c.entries[ck]; ok && e.state != StateIdle {
		return
	}

	c.entries[ck] = &entry{
		key:        key,
		state:      StateSuccess,
		value:      value,
		hasValue:   true,
		fetchedAt:  fetchedAt,
		lastAccess: c.clock.Now(),
		policy:     policy,
	}
}

// PruneIdle drops entries not accessed within olderThan and returns the
// count removed. Loading entries are kept so an in-flight fetch always has
// a home.
func (c *Cache) PruneIdle(olderThan time.Duration) int {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for ck, e := range c.entries {
		if e.state == StateLoading {
			continue
		}
		if now.Sub(e.lastAccess) > olderThan {
			delete(c.entries, ck)
			removed++
		}
	}
	return removed
}

// Stats reports cache effectiveness counters and the entry population.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := CacheStats{
		Hits:          c.hits,
		Misses:        c.misses,
		Revalidations: c.revalidations,
		Errors:        c.errors,
		Entries:       len(c.entries),
		States:        make(map[State]int),
	}
	for _, e := range c.entries {
		stats.States[e.state]++
	}
	return stats
}

// Entries returns a snapshot of every cached key, ordered canonically.
func (c *Cache) Entries() []Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.clock.Now()
	snaps := make([]Snapshot, 0, len(c.entries))
	for _, e := range c.entries {
		snaps = append(snaps, c.snapshotLocked(e, now))
	}
	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].Key.Canonical() < snaps[j].Key.Canonical()
	})
	return snaps
}

// policyFor reports the policy currently attached to key. The zero policy
// means the key is unknown.
func (c *Cache) policyFor(key Key) Policy {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if e, ok := c.entries[key.Canonical()]; ok {
		return e.policy
	}
	return Policy{}
}

func (c *Cache) snapshotLocked(e *entry, now time.Time) Snapshot {
	snap := Snapshot{
		Key:       e.key,
		State:     e.state,
		FetchedAt: e.fetchedAt,
		Stale:     e.state != StateSuccess || now.Sub(e.fetchedAt) > e.policy.StaleTime,
	}
	if e.hasValue {
		snap.Data = e.value
	}
	if e.err != nil {
		snap.Err = e.err
		snap.ErrorText = e.err.Error()
	}
	return snap
}
