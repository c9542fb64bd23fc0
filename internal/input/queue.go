// Package input turns button edges into ButtonActions for the tick loop.
//
// Edge handlers run on their own goroutines (the interrupt context) and
// share exactly two things with the tick loop: a per-button debounce
// timestamp accessed with atomics, and a lock-free queue. Handlers never
// block; the tick loop drains the queue once per tick.
package input

import (
	"sync/atomic"

	"github.com/vovakirdan/ledtris/internal/core"
)

type node struct {
	next   atomic.Pointer[node]
	action core.ButtonAction
}

// Queue is an unbounded multi-producer single-consumer FIFO. Push is
// wait-free and safe from any number of goroutines. Pop and Drain must only
// be called from one goroutine at a time.
type Queue struct {
	head atomic.Pointer[node] // last pushed node, producers swap here
	tail *node                // consumed sentinel, owned by the consumer
	size atomic.Int64
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	q := &Queue{}
	stub := &node{}
	q.head.Store(stub)
	q.tail = stub
	return q
}

// Push appends a to the queue. It never blocks.
func (q *Queue) Push(a core.ButtonAction) {
	n := &node{action: a}
	prev := q.head.Swap(n)
	// Between the swap and this store the node is invisible to the
	// consumer. It shows up on a later Pop, never out of order.
	prev.next.Store(n)
	q.size.Add(1)
}

// Pop removes the oldest action.
func (q *Queue) Pop() (core.ButtonAction, bool) {
	next := q.tail.next.Load()
	if next == nil {
		return 0, false
	}
	q.tail = next
	q.size.Add(-1)
	return next.action, true
}

// Drain appends every visible action to dst in enqueue order.
func (q *Queue) Drain(dst []core.ButtonAction) []core.ButtonAction {
	for {
		a, ok := q.Pop()
		if !ok {
			return dst
		}
		dst = append(dst, a)
	}
}

// Len returns an approximate number of queued actions.
func (q *Queue) Len() int {
	return int(q.size.Load())
}
