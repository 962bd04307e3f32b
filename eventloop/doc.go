// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package eventloop implements a single-threaded, cooperative task
// runner: one dedicated worker goroutine drains a submission queue and a
// min-heap of deadline-ordered scheduled work, in FIFO order per
// submitter.
//
// Everything that touches the scheduled-task heap runs as an ordinary
// task on the loop's own goroutine — including the insertion Schedule
// performs — so the heap itself never needs a lock.
//
//	loop := eventloop.New()
//	go loop.Run()
//	loop.Execute(func() { fmt.Println("hi") })
//	h := loop.Schedule(func() { fmt.Println("later") }, 100*time.Millisecond)
//	h.Cancel()
//	future := loop.ShutdownGracefully(200*time.Millisecond, 5*time.Second)
//	<-future.Done()
package eventloop
