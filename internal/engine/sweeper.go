package engine

import (
	"time"

	"go.uber.org/zap"
)

/*
startSweeper launches the background expiry sweeper.

================================================================================
ROLE IN CACHE LIFECYCLE
================================================================================

The engine implements a dual-expiration strategy, same as a lazy-plus-
active janitor:

1. Lazy expiration
   - Get() removes an expired entry the moment it's read.
2. Active expiration (this sweeper)
   - Runs on a ticker and drains the expiry heap's earliest candidates,
     even for keys that are never read again.

Without the sweeper, a key set with a TTL and never read again would sit
in the index and count against capacity until something else evicted it.

================================================================================
BUDGET AND STALENESS
================================================================================

- Each tick runs for at most sweepBudget of wall-clock time, so a large
  backlog of expired keys can't stall other goroutines waiting on c.mu.
- Every popped node is checked against the live index entry by version
  before anything is removed. A node survives in the heap even after its
  key is overwritten or deleted; checking version against the current
  entry is what makes a stale node safe to just discard.
*/
func (c *Cache) startSweeper() {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ticker := time.NewTicker(c.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.sweepTick()
			case <-c.stopCh:
				return
			}
		}
	}()
}

// sweepTick processes the expiry queue's head for up to sweepBudget of
// wall-clock time. Each node popped is verified against the live index
// entry before anything is removed: a node with no matching entry, or a
// matching key but a different version, is stale and simply discarded.
func (c *Cache) sweepTick() {
	deadline := time.Now().Add(c.sweepBudget)

	c.mu.Lock()
	defer c.mu.Unlock()

	for {
		if time.Now().After(deadline) {
			return
		}

		node, ok := c.expQ.peek()
		if !ok {
			return
		}

		now := time.Now()
		if node.expireAt.After(now) {
			return
		}
		c.expQ.pop()

		e, found := c.index[node.key]
		if !found || e.version != node.version {
			// Stale node: the key was deleted/evicted, or overwritten
			// since this node was queued.
			continue
		}

		if e.expired(now) {
			c.removeLocked(e)
			c.stats.Expired++
			c.logger.Debug("swept expired entry", zap.String("key", e.key))
			continue
		}

		// Same version, but not yet expired: the node reached the head
		// of the heap before its time. Discard it; the entry lives on
		// and its own SET already queued (or will queue) the node that
		// actually governs its expiry.
	}
}
