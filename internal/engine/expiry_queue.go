package engine

import (
	"container/heap"
	"time"
)

// expiryNode is a hint that a key may need expiring at expireAt. It is
// never authoritative: the sweeper always re-checks the live entry in the
// index before acting, using version to detect that the node has gone
// stale because the key was overwritten since the node was queued.
type expiryNode struct {
	expireAt time.Time
	version  uint64
	key      string
}

// expiryHeap is a min-heap ordered by expireAt, then version, then key.
// The tie-break only needs to be a total order; nothing depends on its
// exact shape.
type expiryHeap []expiryNode

func (h expiryHeap) Len() int { return len(h) }

func (h expiryHeap) Less(i, j int) bool {
	if !h[i].expireAt.Equal(h[j].expireAt) {
		return h[i].expireAt.Before(h[j].expireAt)
	}
	if h[i].version != h[j].version {
		return h[i].version < h[j].version
	}
	return h[i].key < h[j].key
}

func (h expiryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *expiryHeap) Push(x any) {
	*h = append(*h, x.(expiryNode))
}

func (h *expiryHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	*h = old[:n-1]
	return node
}

func (h *expiryHeap) push(n expiryNode) {
	heap.Push(h, n)
}

// peek returns the earliest node without removing it.
func (h expiryHeap) peek() (expiryNode, bool) {
	if len(h) == 0 {
		return expiryNode{}, false
	}
	return h[0], true
}

func (h *expiryHeap) pop() expiryNode {
	return heap.Pop(h).(expiryNode)
}
