package dag

import "container/heap"

// nodeItem is a single entry in a RankQueue: a node and its current key
// (unresolved in-degree during initial feasible ranking, §4.3.2).
type nodeItem struct {
	node  NodeID
	key   int
	index int // position in the heap, maintained by heap.Interface
}

type nodeHeap []*nodeItem

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool { return h[i].key < h[j].key }

func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x any) {
	item := x.(*nodeItem)
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// RankQueue is a decrease-key priority queue keyed by a node's current
// unresolved in-degree, used by the initial feasible ranking phase
// (spec.md §4.3.2). It wraps a binary heap with an id->handle side table
// so DecreaseKey runs in O(log n).
//
// RankQueue is not safe for concurrent use.
type RankQueue struct {
	h       nodeHeap
	handles map[NodeID]*nodeItem
}

// NewRankQueue creates a queue seeded with the given node->key pairs.
func NewRankQueue(keys map[NodeID]int) *RankQueue {
	q := &RankQueue{
		h:       make(nodeHeap, 0, len(keys)),
		handles: make(map[NodeID]*nodeItem, len(keys)),
	}
	for n, k := range keys {
		item := &nodeItem{node: n, key: k}
		q.handles[n] = item
		q.h = append(q.h, item)
	}
	heap.Init(&q.h)
	return q
}

// Len returns the number of nodes remaining in the queue.
func (q *RankQueue) Len() int { return q.h.Len() }

// Min returns the node with the smallest key and true, or the zero value
// and false if the queue is empty. It does not remove the node.
func (q *RankQueue) Min() (NodeID, int, bool) {
	if len(q.h) == 0 {
		return InvalidNodeID, 0, false
	}
	return q.h[0].node, q.h[0].key, true
}

// ExtractMin removes and returns the node with the smallest key.
func (q *RankQueue) ExtractMin() (NodeID, int, bool) {
	if len(q.h) == 0 {
		return InvalidNodeID, 0, false
	}
	item := heap.Pop(&q.h).(*nodeItem)
	delete(q.handles, item.node)
	return item.node, item.key, true
}

// DecreaseKey lowers the key of an already-queued node. It is a no-op if
// the node is not present or if newKey is not lower than the current key.
func (q *RankQueue) DecreaseKey(n NodeID, newKey int) {
	item, ok := q.handles[n]
	if !ok || newKey >= item.key {
		return
	}
	item.key = newKey
	heap.Fix(&q.h, item.index)
}

// Key returns a node's current key and true, or 0 and false if the node
// has already been extracted or was never inserted.
func (q *RankQueue) Key(n NodeID) (int, bool) {
	item, ok := q.handles[n]
	if !ok {
		return 0, false
	}
	return item.key, true
}
