// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package eventloop

import (
	"container/heap"
	"fmt"
	"math"
	"time"

	"go.uber.org/multierr"

	"code.hybscloud.com/atomix"

	"code.hybscloud.com/corenet/internal/corenetlog"
	"code.hybscloud.com/corenet/internal/xpad"
	"code.hybscloud.com/corenet/queue"
)

const shutdownPollInterval = 10 * time.Millisecond

// Loop is a single-threaded cooperative task runner. Construct with
// [New] and start it with `go loop.Run()`.
type Loop struct {
	_  xpad.Pad
	st atomix.Uint64
	_  xpad.Pad

	tasks *queue.Queue[func()]

	// sched and seqCounter are touched only by the loop's own goroutine:
	// every mutation reaches them through a task enqueued on tasks, never
	// directly from a caller goroutine.
	sched      scheduledHeap
	seqCounter uint64

	wake chan struct{}

	breakoutInterval time.Duration
	taskBatchSize    int
	log              corenetlog.Logger

	// runningTask is the loop's thread-bound identity signal: set only by
	// the loop goroutine itself, around every task it executes, and read
	// from any goroutine by InEventLoop. It never uses a mutex and never
	// parses goroutine stacks.
	runningTask atomix.Bool

	lastSubmitNano atomix.Int64

	quietPeriod     time.Duration
	shutdownTimeout time.Duration
	shutdownStart   time.Time

	termination *TerminationFuture
}

// New creates a Loop. It does nothing until `go loop.Run()` is called.
func New(opts ...Option) *Loop {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	l := &Loop{
		tasks:            queue.New[func()](),
		wake:             make(chan struct{}, 1),
		breakoutInterval: o.breakoutInterval,
		taskBatchSize:    o.taskBatchSize,
		log:              o.log,
		termination:      newTerminationFuture(),
	}
	l.lastSubmitNano.StoreRelease(time.Now().UnixNano())
	return l
}

// Execute submits task for asynchronous execution on the loop goroutine,
// in FIFO order relative to every other Execute call made by the same
// goroutine.
func (l *Loop) Execute(task func()) {
	l.lastSubmitNano.StoreRelease(time.Now().UnixNano())
	_ = l.tasks.Enqueue(&task)
	if !l.InEventLoop() {
		l.wakeSignal()
	}
}

// Schedule submits task to run once delay has elapsed. The insertion
// into the scheduled-task heap happens as an ordinary task on the loop
// goroutine, so the heap itself is never touched from any other
// goroutine.
func (l *Loop) Schedule(task func(), delay time.Duration) *ScheduledHandle {
	st := &scheduledTask{task: task, deadline: time.Now().Add(delay)}
	handle := &ScheduledHandle{t: st}
	l.Execute(func() {
		st.seq = l.nextSeq()
		heap.Push(&l.sched, st)
	})
	return handle
}

func (l *Loop) nextSeq() uint64 {
	l.seqCounter++
	return l.seqCounter
}

// InEventLoop reports whether the calling goroutine is, right now,
// executing a task dispatched by this loop's own worker goroutine.
func (l *Loop) InEventLoop() bool {
	return l.runningTask.LoadAcquire()
}

// State returns a human-readable snapshot of the loop's lifecycle state.
func (l *Loop) State() string {
	return state(l.st.LoadAcquire()).String()
}

// IsShuttingDown reports whether graceful shutdown has been requested.
func (l *Loop) IsShuttingDown() bool {
	switch state(l.st.LoadAcquire()) {
	case stateShuttingDown, stateShutdown, stateTerminated:
		return true
	default:
		return false
	}
}

// PendingTasks returns a best-effort snapshot of the number of tasks
// currently queued for execution. Diagnostic only.
func (l *Loop) PendingTasks() int {
	return l.tasks.Count()
}

// Termination returns the future that completes once the loop has fully
// shut down.
func (l *Loop) Termination() *TerminationFuture {
	return l.termination
}

// ShutdownGracefully requests the loop stop: it keeps draining queued and
// due-scheduled work until quietPeriod passes with no new submissions, or
// timeout elapses, whichever comes first. Returns the future that
// completes once shutdown is done.
func (l *Loop) ShutdownGracefully(quietPeriod, timeout time.Duration) *TerminationFuture {
	start := time.Now()
	for {
		cur := state(l.st.LoadAcquire())
		if cur == stateShuttingDown || cur == stateShutdown || cur == stateTerminated {
			break
		}
		l.quietPeriod = quietPeriod
		l.shutdownTimeout = timeout
		l.shutdownStart = start
		if l.st.CompareAndSwapAcqRel(uint64(cur), uint64(stateShuttingDown)) {
			break
		}
	}
	l.wakeSignal()
	return l.termination
}

func (l *Loop) wakeSignal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run is the loop's worker body. Call it as `go loop.Run()`. It returns
// (with an [IllegalStateError]) immediately if the loop was already
// started. A structural panic — one escaping the loop's own bookkeeping,
// as opposed to a user task panic, which is always caught and logged —
// terminates the worker and is reported through both the return value
// and the [TerminationFuture].
func (l *Loop) Run() (err error) {
	if !l.st.CompareAndSwapAcqRel(uint64(stateNotStarted), uint64(stateStarted)) {
		return &IllegalStateError{Reason: "Run called more than once"}
	}

	var shutdownErr error
	defer func() {
		if r := recover(); r != nil {
			err = multierr.Append(shutdownErr, fmt.Errorf("corenet/eventloop: worker terminated on structural panic: %v", r))
			l.st.StoreRelease(uint64(stateTerminated))
			l.termination.complete(err)
		}
	}()

	for {
		l.transferDueScheduled()
		l.drainTasks(l.breakoutInterval)

		if state(l.st.LoadAcquire()) == stateShuttingDown {
			done, hardTimeout := l.shuttingDownStep()
			if hardTimeout {
				shutdownErr = multierr.Append(shutdownErr, ErrShutdownTimedOut)
			}
			if done {
				break
			}
			continue
		}
		l.sleepUntilNextWakeup()
	}

	l.st.StoreRelease(uint64(stateShutdown))
	l.st.StoreRelease(uint64(stateTerminated))
	l.termination.complete(shutdownErr)
	return shutdownErr
}

// transferDueScheduled moves every scheduled task whose deadline has
// passed from the heap into the task queue, skipping (and discarding)
// cancelled ones.
func (l *Loop) transferDueScheduled() {
	now := time.Now()
	for len(l.sched) > 0 {
		top := l.sched[0]
		if top.deadline.After(now) {
			return
		}
		heap.Pop(&l.sched)
		if !top.markFired() {
			continue
		}
		task := top.task
		_ = l.tasks.Enqueue(&task)
	}
}

// drainTasks runs queued tasks until the queue is empty or budget has
// elapsed, checked every taskBatchSize tasks so a flood of submissions
// can't starve the scheduled-task heap.
func (l *Loop) drainTasks(budget time.Duration) {
	start := time.Now()
	n := 0
	for {
		task, ok := l.tasks.Dequeue()
		if !ok {
			return
		}
		l.runTask(task)
		n++
		if n%l.taskBatchSize == 0 && time.Since(start) >= budget {
			return
		}
	}
}

func (l *Loop) runTask(task func()) {
	l.runningTask.StoreRelease(true)
	defer l.runningTask.StoreRelease(false)
	defer func() {
		if r := recover(); r != nil {
			l.log.WarnTaskPanic("eventloop", r)
		}
	}()
	task()
}

func (l *Loop) sleepUntilNextWakeup() {
	next := time.Now().Add(l.breakoutInterval)
	if len(l.sched) > 0 && l.sched[0].deadline.Before(next) {
		next = l.sched[0].deadline
	}
	d := time.Until(next)
	if d < 0 {
		d = 0
	}
	wait := time.NewTimer(d)
	defer wait.Stop()
	select {
	case <-wait.C:
	case <-l.wake:
	}
}

// shuttingDownStep cancels all scheduled work, runs whatever is already
// queued, and reports whether the loop may now stop — and if so, whether
// that was because the hard timeout forced it rather than a clean quiet
// period.
func (l *Loop) shuttingDownStep() (stop bool, hardTimeout bool) {
	for _, t := range l.sched {
		t.markCancelled()
	}
	l.sched = l.sched[:0]

	l.drainTasks(math.MaxInt64) // shutting down: drain fully, no breakout

	now := time.Now()
	lastSubmit := time.Unix(0, l.lastSubmitNano.LoadAcquire())
	quietElapsed := now.Sub(lastSubmit) >= l.quietPeriod
	timedOut := now.Sub(l.shutdownStart) >= l.shutdownTimeout
	if quietElapsed {
		return true, false
	}
	if timedOut {
		return true, true
	}

	wait := time.NewTimer(shutdownPollInterval)
	defer wait.Stop()
	select {
	case <-wait.C:
	case <-l.wake:
	}
	return false, false
}
