package engine

import "time"

/*
entry is a single cache record.

STRUCTURE

key/value  -> the stored pair; value is the raw byte payload, unparsed.
expireAt   -> absolute expiry time; the zero value means "never expires".
size       -> len(key)+len(value), cached so byte accounting is O(1).
version    -> bumped on every Set touching this key; lets a queued
              expiry-heap node detect it has gone stale.
prev/next  -> the LRU list's own links.

WHY INTRUSIVE

entry is its own list node: prev/next point directly at neighboring
entries rather than at a container/list.Element wrapper. That means one
allocation per stored key instead of two, and no interface{} boxing to
get the key back out of a list element. The Cache owns every entry;
prev/next are ordering references only, so there is no ownership cycle
to worry about when an entry is unlinked.
*/
type entry struct {
	key      string
	value    []byte
	expireAt time.Time // zero value means "never expires"
	size     int64
	version  uint64

	prev, next *entry
}

func newEntry(key string, value []byte, ttl time.Duration, version uint64, now time.Time) *entry {
	e := &entry{
		key:     key,
		value:   value,
		version: version,
	}
	e.size = entrySize(key, value)
	if ttl > 0 {
		e.expireAt = now.Add(ttl)
	}
	return e
}

func entrySize(key string, value []byte) int64 {
	return int64(len(key)) + int64(len(value))
}

// expired reports whether the entry's own expire_at has passed as of now.
// An entry with a zero expireAt never expires.
func (e *entry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && !now.Before(e.expireAt)
}
