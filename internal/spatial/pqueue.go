package spatial

import (
	"container/heap"

	"go.trai.ch/zerr"
)

type pqItem[K comparable] struct {
	key      K
	priority float64
	seq      uint64
	index    int
}

type pqHeap[K comparable] []*pqItem[K]

func (h pqHeap[K]) Len() int { return len(h) }

func (h pqHeap[K]) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h pqHeap[K]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *pqHeap[K]) Push(x any) {
	item := x.(*pqItem[K]) //nolint:forcetypeassert // only pqItem values are pushed
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *pqHeap[K]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// PriorityQueue is a binary min-heap of unique keys ordered by a numeric priority.
// Keys with equal priority leave in insertion order.
type PriorityQueue[K comparable] struct {
	heap  pqHeap[K]
	items map[K]*pqItem[K]
	seq   uint64
}

// NewPriorityQueue creates an empty PriorityQueue.
func NewPriorityQueue[K comparable]() *PriorityQueue[K] {
	return &PriorityQueue[K]{items: make(map[K]*pqItem[K])}
}

// Add inserts key with the given priority. It returns false and leaves the queue unchanged
// if key is already present.
func (q *PriorityQueue[K]) Add(key K, priority float64) bool {
	if _, ok := q.items[key]; ok {
		return false
	}
	item := &pqItem[K]{key: key, priority: priority, seq: q.seq}
	q.seq++
	q.items[key] = item
	heap.Push(&q.heap, item)
	return true
}

// Min returns the key with the lowest priority without removing it.
func (q *PriorityQueue[K]) Min() (K, error) {
	if len(q.heap) == 0 {
		var zero K
		return zero, ErrQueueUnderflow
	}
	return q.heap[0].key, nil
}

// RemoveMin removes and returns the key with the lowest priority.
func (q *PriorityQueue[K]) RemoveMin() (K, error) {
	if len(q.heap) == 0 {
		var zero K
		return zero, ErrQueueUnderflow
	}
	item := heap.Pop(&q.heap).(*pqItem[K]) //nolint:forcetypeassert // heap holds pqItem values
	delete(q.items, item.key)
	return item.key, nil
}

// Decrease lowers the priority of key. The queue is left unchanged on error.
func (q *PriorityQueue[K]) Decrease(key K, priority float64) error {
	item, ok := q.items[key]
	if !ok {
		return zerr.With(ErrKeyNotFound, "key", key)
	}
	if priority >= item.priority {
		err := zerr.With(ErrPriorityNotDecreased, "current", item.priority)
		return zerr.With(err, "requested", priority)
	}
	item.priority = priority
	heap.Fix(&q.heap, item.index)
	return nil
}

// Has reports whether key is in the queue.
func (q *PriorityQueue[K]) Has(key K) bool {
	_, ok := q.items[key]
	return ok
}

// Priority returns the current priority of key.
func (q *PriorityQueue[K]) Priority(key K) (float64, bool) {
	item, ok := q.items[key]
	if !ok {
		return 0, false
	}
	return item.priority, true
}

// Size returns the number of keys in the queue.
func (q *PriorityQueue[K]) Size() int {
	return len(q.heap)
}

// Keys returns the queued keys in heap order.
func (q *PriorityQueue[K]) Keys() []K {
	keys := make([]K, len(q.heap))
	for i, item := range q.heap {
		keys[i] = item.key
	}
	return keys
}
