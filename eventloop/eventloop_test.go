// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package eventloop_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/corenet/eventloop"
)

func newRunningLoop(t *testing.T, opts ...eventloop.Option) *eventloop.Loop {
	t.Helper()
	loop := eventloop.New(opts...)
	go loop.Run()
	t.Cleanup(func() {
		future := loop.ShutdownGracefully(0, time.Second)
		select {
		case <-future.Done():
		case <-time.After(5 * time.Second):
			t.Fatalf("loop did not terminate during cleanup")
		}
	})
	return loop
}

func TestExecuteRunsTask(t *testing.T) {
	loop := newRunningLoop(t)
	done := make(chan struct{})
	loop.Execute(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("task never ran")
	}
}

func TestExecuteFIFOPerSubmitter(t *testing.T) {
	loop := newRunningLoop(t)
	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			i := i
			loop.Execute(func() {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
			})
		}
	}()
	wg.Wait()

	deadline := time.Now().Add(time.Second)
	for {
		mu.Lock()
		n := len(order)
		mu.Unlock()
		if n == 100 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out, got %d/100 tasks", n)
		}
		time.Sleep(time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	for i, v := range order {
		if v != i {
			t.Fatalf("FIFO violated at index %d: got %d, want %d", i, v, i)
		}
	}
}

func TestScheduleFiresAfterDelay(t *testing.T) {
	loop := newRunningLoop(t)
	start := time.Now()
	done := make(chan time.Time, 1)
	loop.Schedule(func() { done <- time.Now() }, 30*time.Millisecond)

	select {
	case fired := <-done:
		if fired.Sub(start) < 20*time.Millisecond {
			t.Fatalf("fired too early: %v", fired.Sub(start))
		}
	case <-time.After(time.Second):
		t.Fatalf("scheduled task never fired")
	}
}

func TestScheduleOrderingByDeadline(t *testing.T) {
	loop := newRunningLoop(t)
	var mu sync.Mutex
	var order []string
	record := func(name string) func() {
		return func() {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
		}
	}
	loop.Schedule(record("A"), 30*time.Millisecond)
	loop.Schedule(record("B"), 10*time.Millisecond)
	loop.Schedule(record("C"), 50*time.Millisecond)

	deadline := time.Now().Add(time.Second)
	for {
		mu.Lock()
		n := len(order)
		mu.Unlock()
		if n == 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for scheduled tasks")
		}
		time.Sleep(time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{"B", "A", "C"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order: got %v, want %v", order, want)
		}
	}
}

func TestCancelScheduledTaskPreventsFiring(t *testing.T) {
	loop := newRunningLoop(t)
	fired := make(chan struct{}, 1)
	handle := loop.Schedule(func() { fired <- struct{}{} }, 40*time.Millisecond)

	// Give Schedule's heap-insertion task a moment to run before cancelling.
	time.Sleep(5 * time.Millisecond)
	if !handle.Cancel() {
		t.Fatalf("Cancel: want true")
	}

	select {
	case <-fired:
		t.Fatalf("cancelled task fired")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestInEventLoopTrueInsideTask(t *testing.T) {
	loop := newRunningLoop(t)
	result := make(chan bool, 1)
	loop.Execute(func() {
		result <- loop.InEventLoop()
	})
	if got := <-result; !got {
		t.Fatalf("InEventLoop inside task: got false, want true")
	}
	if loop.InEventLoop() {
		t.Fatalf("InEventLoop from test goroutine: got true, want false")
	}
}

func TestShutdownGracefullyCompletesTermination(t *testing.T) {
	loop := eventloop.New()
	go loop.Run()

	ran := make(chan struct{})
	loop.Execute(func() { close(ran) })
	<-ran

	future := loop.ShutdownGracefully(10*time.Millisecond, time.Second)
	select {
	case <-future.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("termination future never completed")
	}
	if loop.State() != "Terminated" {
		t.Fatalf("State after shutdown: got %q, want Terminated", loop.State())
	}
}

func TestShutdownHardTimeoutDiscardsScheduled(t *testing.T) {
	loop := eventloop.New()
	go loop.Run()

	loop.Schedule(func() {}, time.Hour) // never fires before shutdown

	future := loop.ShutdownGracefully(time.Hour, 50*time.Millisecond)
	select {
	case <-future.Done():
	case <-time.After(time.Second):
		t.Fatalf("hard timeout did not force termination")
	}
}

func TestPanickingTaskDoesNotStopLoop(t *testing.T) {
	loop := newRunningLoop(t)
	loop.Execute(func() { panic("boom") })

	done := make(chan struct{})
	loop.Execute(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("loop appears to have died after a panicking task")
	}
}

func TestRunTwiceReturnsIllegalState(t *testing.T) {
	loop := newRunningLoop(t)
	time.Sleep(10 * time.Millisecond) // let the first Run claim Started
	if err := loop.Run(); !eventloop.IsIllegalState(err) {
		t.Fatalf("second Run: got %v, want IllegalStateError", err)
	}
}
