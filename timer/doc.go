// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package timer implements a hashed-wheel timer: an O(1)-amortized
// scheduler for one-shot deadlines, backed by a single dedicated worker
// goroutine.
//
// The wheel is an array of buckets whose length is rounded up to the
// next power of two, so bucket indexing is a mask instead of a modulo.
// Submissions and cancellations both flow through a [queue.Queue]; the
// worker drains both queues once per tick, never touching them from any
// other goroutine, so the buckets themselves need no locking at all.
//
//	tm := timer.New(timer.WithTickDuration(10 * time.Millisecond))
//	to, err := tm.NewTimeout(250*time.Millisecond, func() {
//		fmt.Println("fired")
//	})
//	// ...
//	to.Cancel() // no-op if it already fired
//	tm.Stop()
package timer
