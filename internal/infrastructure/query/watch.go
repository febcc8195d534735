package query

import (
	"sync"
	"time"
)

// watcher is one attached consumer of a key's snapshots.
type watcher struct {
	ch chan Snapshot
}

// keyWatch groups every watcher of one key with the stop signal for that
// key's refetch timer.
type keyWatch struct {
	watchers map[int64]*watcher
	stop     chan struct{}
}

// watchRegistry tracks which keys have attached watchers and runs the
// per-key refetch timers. A timer exists only while at least one watcher is
// attached; the last detach stops it.
type watchRegistry struct {
	mu      sync.Mutex
	cache   *Cache
	watches map[string]*keyWatch
	nextID  int64
}

func newWatchRegistry(c *Cache) *watchRegistry {
	return &watchRegistry{
		cache:   c,
		watches: make(map[string]*keyWatch),
	}
}

// Watch attaches to a key's snapshot feed. Every completed fetch for the
// key is delivered on the returned channel, and slow receivers drop
// updates rather than stall the cache. The caller must invoke detach when
// done. Watch is normally called after an initial Fetch so the key already
// carries its policy; watching an unknown key delivers nothing until the
// key is fetched.
func (c *Cache) Watch(key Key) (<-chan Snapshot, func()) {
	return c.watch.add(key)
}

func (r *watchRegistry) add(key Key) (<-chan Snapshot, func()) {
	ck := key.Canonical()

	r.mu.Lock()
	defer r.mu.Unlock()

	kw, ok := r.watches[ck]
	if !ok {
		kw = &keyWatch{
			watchers: make(map[int64]*watcher),
			stop:     make(chan struct{}),
		}
		r.watches[ck] = kw

		if interval := r.cache.policyFor(key).RefetchInterval; interval > 0 {
			go r.runTimer(key, kw.stop, interval)
		}
	}

	r.nextID++
	id := r.nextID
	w := &watcher{ch: make(chan Snapshot, 8)}
	kw.watchers[id] = w

	return w.ch, func() { r.remove(ck, id) }
}

func (r *watchRegistry) remove(ck string, id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kw, ok := r.watches[ck]
	if !ok {
		return
	}
	w, ok := kw.watchers[id]
	if !ok {
		return
	}
	delete(kw.watchers, id)
	close(w.ch)

	if len(kw.watchers) == 0 {
		close(kw.stop)
		delete(r.watches, ck)
	}
}

// notify fans a completed snapshot out to the key's watchers. The registry
// lock is held across the sends so they serialize with remove closing
// watcher channels.
func (r *watchRegistry) notify(key Key, snap Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kw, ok := r.watches[key.Canonical()]
	if !ok {
		return
	}
	for _, w := range kw.watchers {
		select {
		case w.ch <- snap:
		default:
		}
	}
}

// runTimer revalidates the key on a fixed cadence until the last watcher
// detaches.
func (r *watchRegistry) runTimer(key Key, stop <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.cache.refreshInBackground(key)
		}
	}
}
