package filesink

import (
	"runtime"
	"sync/atomic"
)

type node[T any] struct {
	next  atomic.Pointer[node[T]]
	value T
}

// queue is an unbounded multi-producer single-consumer FIFO. Producers never
// block; the consumer side must be serialized by the caller.
type queue[T any] struct {
	head     atomic.Pointer[node[T]] // last linked node, swapped by producers
	tail     *node[T]                // consumer-owned stub
	size     atomic.Int64
	inflight atomic.Int64
	closed   atomic.Bool
}

func newQueue[T any]() *queue[T] {
	stub := &node[T]{}
	q := &queue[T]{tail: stub}
	q.head.Store(stub)
	return q
}

// Enqueue appends v. Fails only after Close.
func (q *queue[T]) Enqueue(v T) error {
	q.inflight.Add(1)
	defer q.inflight.Add(-1)

	if q.closed.Load() {
		return ErrQueueClosed
	}

	n := &node[T]{value: v}
	prev := q.head.Swap(n)
	q.size.Add(1)
	prev.next.Store(n)
	return nil
}

// TryDequeue pops the oldest value. A producer that has swapped head but not
// yet linked its node makes the queue look empty until it finishes.
func (q *queue[T]) TryDequeue() (T, bool) {
	var zero T
	next := q.tail.next.Load()
	if next == nil {
		return zero, false
	}
	v := next.value
	next.value = zero
	q.tail = next
	q.size.Add(-1)
	return v, true
}

// IsEmpty is safe to call from any goroutine
func (q *queue[T]) IsEmpty() bool {
	return q.size.Load() == 0
}

// Len is safe to call from any goroutine
func (q *queue[T]) Len() int {
	return int(q.size.Load())
}

// Close rejects further Enqueue calls and returns once every producer that
// got past the closed check has finished linking its node.
func (q *queue[T]) Close() {
	q.closed.Store(true)
	for q.inflight.Load() > 0 {
		runtime.Gosched()
	}
}
