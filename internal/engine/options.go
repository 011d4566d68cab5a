package engine

import (
	"time"

	"go.uber.org/zap"
)

/*
Option configures a Cache at construction time.

DESIGN PATTERN

This file implements the functional options pattern: New() accepts a
variadic list of Option values instead of a wide parameter list or a
config struct with zero-value ambiguity.

    cache := New(
        WithCapacityBytes(128 << 20),
        WithSweepInterval(100 * time.Millisecond),
    )

BENEFITS

1. New()'s signature stays stable as knobs are added.
2. Each call site is self-documenting — the option name says what it does.
3. An option that receives a zero or negative value is a no-op rather
   than a panic, so callers can thread through unset config fields
   without special-casing them.
*/
type Option func(*Cache)

// WithCapacityBytes bounds the cache's total resident size. The default is
// 64 MiB, matching the reference server's default.
func WithCapacityBytes(n int64) Option {
	return func(c *Cache) {
		if n > 0 {
			c.capacityBytes = n
		}
	}
}

// WithSweepInterval sets how often the background sweeper wakes to
// process the expiry queue. The default targets roughly 20 Hz.
func WithSweepInterval(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.sweepInterval = d
		}
	}
}

// WithSweepBudget bounds the wall-clock time the sweeper may spend per
// tick before yielding. The default targets roughly 10 ms.
func WithSweepBudget(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.sweepBudget = d
		}
	}
}

// WithLogger attaches a structured logger for eviction and sweeper
// diagnostics. A nil logger (the default) is replaced with zap.NewNop(),
// so callers that don't care about cache-internal logging pay nothing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}
