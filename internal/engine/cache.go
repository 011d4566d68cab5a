/*
Package engine implements the cache's core data structures: a
byte-bounded LRU keyed by a hash index, TTL expiry that is lazy on read
and eagerly swept in the background, and the single coarse lock that
keeps them all mutually consistent.

================================================================================
ARCHITECTURAL OVERVIEW
================================================================================

The engine combines three data structures:

1. Hash index (map[string]*entry)
   - Provides O(1) key lookup.
   - Maps keys directly to their intrusive list node.

2. Intrusive doubly linked list (entry.prev/entry.next)
   - Maintains LRU ordering with no separate element wrapper.
   - Most recently used entries sit at the head.
   - Least recently used entries sit at the tail, where eviction starts.

3. Expiry min-heap (container/heap over expiryNode)
   - Orders pending expirations by (expireAt, version, key).
   - Lets the background sweeper find the next thing to expire in
     O(log n) instead of scanning every entry on every tick.

================================================================================
CONCURRENCY MODEL
================================================================================

- A single sync.Mutex guards the index, the LRU list, the expiry heap,
  byte accounting, the version counter, and the stats counters.
- Every public method takes the lock for its full duration; hold times
  stay small because every operation is O(1) amortized.
- Sharding by key hash is a later optimization: keeping one coarse lock
  now means a sharded implementation can be a drop-in replacement later
  without callers noticing.

================================================================================
EXPIRATION STRATEGY
================================================================================

1. Lazy expiration
   - Get() checks an entry's own expireAt and evicts it on a stale hit.
2. Active expiration
   - The background sweeper pops the heap's earliest candidate each
     tick, within a wall-clock budget, and removes it if still expired.
   - A version mismatch between the popped node and the live entry means
     the entry was overwritten since the node was queued; the node is
     discarded without touching the entry.
*/
package engine

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultCapacityBytes = 64 * 1024 * 1024
	defaultSweepInterval = 50 * time.Millisecond // ~20 Hz
	defaultSweepBudget   = 10 * time.Millisecond
)

// Cache is a thread-safe, in-memory key/value store bounded by a byte
// capacity, with per-entry TTL and LRU eviction.
//
// Every public operation is performed under a single mutex covering the
// index, the LRU list, the expiry queue, the byte accounting, the version
// counter, and the stats counters. Operations are O(1) amortized and the
// wire protocol driving them is line-oriented, so lock hold times stay
// tiny; this is the justification for one coarse lock instead of
// sharding.
type Cache struct {
	mu sync.Mutex

	index map[string]*entry
	lru   lruList
	expQ  expiryHeap

	bytes         int64
	capacityBytes int64
	versionCtr    uint64
	stats         Stats

	sweepInterval time.Duration
	sweepBudget   time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	wg            sync.WaitGroup

	logger *zap.Logger
}

// New constructs a Cache and starts its background sweeper.
func New(opts ...Option) *Cache {
	c := &Cache{
		index:         make(map[string]*entry),
		capacityBytes: defaultCapacityBytes,
		sweepInterval: defaultSweepInterval,
		sweepBudget:   defaultSweepBudget,
		stopCh:        make(chan struct{}),
		logger:        zap.NewNop(),
	}
	c.stats.Capacity = c.capacityBytes

	for _, opt := range opts {
		opt(c)
	}
	c.stats.Capacity = c.capacityBytes

	c.startSweeper()
	return c
}

// Get returns the value for key if present and unexpired. A hit moves the
// entry to the head of the LRU list; a miss (including a lazily-detected
// expiry) does not mutate ordering.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, found := c.index[key]
	if !found {
		c.stats.Misses++
		return nil, false
	}

	now := time.Now()
	if e.expired(now) {
		c.removeLocked(e)
		c.stats.Misses++
		c.stats.Expired++
		return nil, false
	}

	c.lru.moveToFront(e)
	c.stats.Hits++
	return e.value, true
}

// Set creates or overwrites key. ttl <= 0 means the entry never expires.
// Set always succeeds; the eviction loop runs afterward to bring the
// cache back within capacity, unless this single entry's own size
// exceeds capacity, in which case it is admitted and left resident (see
// spec.md §4.1 edge case).
func (c *Cache) Set(key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	c.versionCtr++
	version := c.versionCtr

	if e, found := c.index[key]; found {
		oldSize := e.size
		e.value = value
		e.size = entrySize(key, value)
		c.bytes += e.size - oldSize
		e.version = version
		e.expireAt = time.Time{}
		if ttl > 0 {
			e.expireAt = now.Add(ttl)
			c.expQ.push(expiryNode{expireAt: e.expireAt, version: e.version, key: e.key})
		}
		c.lru.moveToFront(e)
	} else {
		e := newEntry(key, value, ttl, version, now)
		c.index[key] = e
		c.lru.pushFront(e)
		c.bytes += e.size
		if !e.expireAt.IsZero() {
			c.expQ.push(expiryNode{expireAt: e.expireAt, version: e.version, key: e.key})
		}
	}

	c.stats.Sets++
	c.stats.Keys = int64(len(c.index))
	c.stats.Bytes = c.bytes
	c.evictIfNeeded()
}

// Delete removes key if present, returning 1 if it was removed or 0 if it
// was already absent. Idempotent beyond the first call.
func (c *Cache) Delete(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, found := c.index[key]
	if !found {
		return 0
	}
	c.removeLocked(e)
	return 1
}

// Stats returns a consistent snapshot of the cache's counters and sizes.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Keys = int64(len(c.index))
	c.stats.Bytes = c.bytes
	c.stats.Capacity = c.capacityBytes
	return c.stats
}

// Close stops the background sweeper. It is safe to call more than once.
func (c *Cache) Close() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
	c.wg.Wait()
}

// evictIfNeeded unlinks entries from the LRU tail while bytes exceeds
// capacityBytes. It stops once a single entry remains even if that entry
// alone exceeds capacity: the entry Set just admitted is always at the
// head, so leaving one entry in place guarantees it is never the one
// evicted (spec.md §4.1's oversized-entry edge case). Caller must hold
// c.mu.
func (c *Cache) evictIfNeeded() {
	for c.bytes > c.capacityBytes && c.lru.len > 1 {
		victim := c.lru.tail
		c.removeLocked(victim)
		c.stats.Evictions++
		c.logger.Debug("evicted entry", zap.String("key", victim.key), zap.Int64("size", victim.size))
	}
	c.stats.Keys = int64(len(c.index))
	c.stats.Bytes = c.bytes
}

// removeLocked unlinks e from the LRU list and the index and adjusts
// byte accounting. Caller must hold c.mu. It does not touch any stats
// counter beyond bytes/keys bookkeeping; callers increment the counter
// appropriate to why the entry was removed (eviction, expiry, or none
// for an explicit delete, which updates no dedicated counter per
// spec.md's open question).
func (c *Cache) removeLocked(e *entry) {
	delete(c.index, e.key)
	c.bytes -= e.size
	c.lru.remove(e)
	c.stats.Keys = int64(len(c.index))
	c.stats.Bytes = c.bytes
}
