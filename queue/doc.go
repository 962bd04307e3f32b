// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package queue provides an unbounded, lock-free, multi-producer
// single-consumer (MPSC) linked queue.
//
// Unlike the bounded, ring-buffer-based queues elsewhere in this
// ecosystem (code.hybscloud.com/lfq), Queue never rejects an Enqueue for
// being "full" — it grows one node per element. This is the shape the
// event loop's task queue and the hashed-wheel timer's submission and
// cancellation channels need: backpressure there is a shutdown-state
// concern, never a capacity concern.
//
// # Algorithm
//
// Queue is the classic Dmitry Vyukov intrusive MPSC linked queue. A
// dummy sentinel node always occupies head; the first real element (if
// any) is head.next. Producers publish new nodes by atomically
// exchanging the tail pointer, then linking the previous tail's next
// field — a two-step publish that briefly makes the queue's internal
// list "torn" between the exchange and the link. Dequeue (which must
// only ever be called from a single goroutine) detects this window and
// spin-waits for the producer to complete the link; the window is
// bounded by construction since the producer is between two consecutive
// atomic operations.
//
// # Example
//
//	q := queue.New[int]()
//
//	// Producers (any number of goroutines)
//	go func() {
//	    v := 42
//	    q.Enqueue(&v)
//	}()
//
//	// Single consumer
//	for {
//	    v, ok := q.Dequeue()
//	    if !ok {
//	        continue // empty
//	    }
//	    fmt.Println(v)
//	}
//
// # Thread Safety
//
//   - Enqueue: any number of goroutines, wait-free.
//   - Dequeue / Peek / IsEmpty: exactly one goroutine at a time. The
//     implementation elides synchronization on head on the assumption
//     that this single-consumer contract is honored by the caller;
//     violating it is undefined behavior.
//   - Count: consumer-only, O(n), intended for diagnostics/tests only —
//     exactly like code.hybscloud.com/lfq intentionally omits Len() from
//     its bounded queues.
package queue
