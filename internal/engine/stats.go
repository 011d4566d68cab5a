package engine

// Stats is a point-in-time snapshot of cache counters and sizes, taken
// under the cache's guard so all fields are mutually consistent. The field
// order matches the wire schema's conventional ordering, though per the
// protocol the key set is contractual and the order is not.
type Stats struct {
	Keys      int64  `json:"keys"`
	Bytes     int64  `json:"bytes"`
	Capacity  int64  `json:"capacity"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Sets      uint64 `json:"sets"`
	Evictions uint64 `json:"evictions"`
	Expired   uint64 `json:"expired"`
}
