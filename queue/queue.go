// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue

import (
	"sync/atomic"

	"code.hybscloud.com/spin"

	"code.hybscloud.com/corenet/internal/xpad"
)

// Node is one link of the queue's intrusive list. No other corenet package
// uses it directly: timer and eventloop only go through Queue's methods.
type Node[T any] struct {
	next  atomic.Pointer[Node[T]]
	value T
}

// Queue is an unbounded multi-producer single-consumer linked queue.
//
// head is touched only by the single consumer; tail is shared by every
// producer. The two fields are kept on separate cache lines — sharing one
// would turn every producer's Enqueue into a consumer-stalling cache miss.
type Queue[T any] struct {
	_    xpad.Pad
	head *Node[T]
	_    xpad.Pad
	tail atomic.Pointer[Node[T]]
	_    xpad.Pad
}

// New creates an empty queue, installing the dummy sentinel node described
// in the package doc.
func New[T any]() *Queue[T] {
	dummy := &Node[T]{}
	q := &Queue[T]{head: dummy}
	q.tail.Store(dummy)
	return q
}

// Enqueue adds an element (any number of producer goroutines). elem is
// copied; the caller retains ownership of the pointed-to value and may
// reuse or discard it once Enqueue returns.
//
// Wait-free: one allocation, one pointer exchange, one pointer store.
func (q *Queue[T]) Enqueue(elem *T) error {
	if elem == nil {
		return ErrNilValue
	}
	n := &Node[T]{value: *elem}
	old := q.tail.Swap(n)
	old.next.Store(n)
	return nil
}

// Dequeue removes and returns the head element. Only the single consumer
// goroutine may call this. Returns (zero, false) if the queue is empty.
//
// Lock-free and linearizable with concurrent Enqueues. A torn append (tail
// already swapped but not yet linked) is detected by comparing against tail
// and resolved with a bounded spin — the producer between those two atomic
// operations cannot be preempted indefinitely from the queue's point of
// view, only in practice delayed.
func (q *Queue[T]) Dequeue() (T, bool) {
	next := q.head.next.Load()
	if next == nil {
		if q.head != q.tail.Load() {
			next = q.waitForLink()
		} else {
			var zero T
			return zero, false
		}
	}
	value := next.value
	var zero T
	next.value = zero
	q.head = next
	return value, true
}

// Peek returns the head element without removing it. Consumer-only.
func (q *Queue[T]) Peek() (T, bool) {
	next := q.head.next.Load()
	if next == nil {
		if q.head != q.tail.Load() {
			next = q.waitForLink()
		} else {
			var zero T
			return zero, false
		}
	}
	return next.value, true
}

// IsEmpty reports whether the queue currently has no dequeuable element.
// Consumer-only.
func (q *Queue[T]) IsEmpty() bool {
	_, ok := q.Peek()
	return !ok
}

// Count walks the entire list and returns its length. O(n); for
// diagnostics only — an accurate concurrent length is not something a
// lock-free MPSC queue can offer cheaply, so Count is not on any hot path
// and callers should not poll it in a loop.
func (q *Queue[T]) Count() int {
	n := 0
	for cur := q.head.next.Load(); cur != nil; cur = cur.next.Load() {
		n++
	}
	return n
}

// waitForLink spins until the producer that has already claimed tail
// finishes publishing head.next. Consumer-only.
func (q *Queue[T]) waitForLink() *Node[T] {
	sw := spin.Wait{}
	for {
		if next := q.head.next.Load(); next != nil {
			return next
		}
		sw.Once()
	}
}
