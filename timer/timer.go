// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package timer

import (
	"fmt"
	"sync"
	"time"

	"code.hybscloud.com/atomix"

	"code.hybscloud.com/corenet/internal/corenetlog"
	"code.hybscloud.com/corenet/internal/xpad"
	"code.hybscloud.com/corenet/queue"
)

// Task is invoked once, on the timer's worker goroutine, when a Timeout
// expires. A panicking Task is recovered and logged; it never kills the
// worker.
type Task func()

const (
	timeoutInit uint64 = iota
	timeoutCancelled
	timeoutExpired
)

// Timeout is a cancel handle for a single submitted deadline. Owned by
// its bucket once placed on the wheel; before that it lives only in the
// submission queue.
type Timeout struct {
	task  Task
	timer *Timer

	deadline        int64 // milliseconds since the timer's start time
	remainingRounds int64

	state atomix.Uint64

	prev, next *Timeout
	bucket     *bucket
}

// Cancel marks the timeout cancelled, preventing it from firing if it
// has not already. Returns false if the timeout already fired or was
// already cancelled.
func (t *Timeout) Cancel() bool {
	if !t.state.CompareAndSwapAcqRel(timeoutInit, timeoutCancelled) {
		return false
	}
	_ = t.timer.cancelled.Enqueue(&t)
	return true
}

// IsExpired reports whether the timeout has fired.
func (t *Timeout) IsExpired() bool {
	return t.state.LoadAcquire() == timeoutExpired
}

// IsCancelled reports whether the timeout was cancelled before firing.
func (t *Timeout) IsCancelled() bool {
	return t.state.LoadAcquire() == timeoutCancelled
}

// bucket is a wheel slot: an intrusive doubly-linked chain of Timeouts,
// touched only by the timer's worker goroutine. No locking: see the
// package doc.
type bucket struct {
	head *Timeout
}

func (b *bucket) add(t *Timeout) {
	t.bucket = b
	t.prev = nil
	t.next = b.head
	if b.head != nil {
		b.head.prev = t
	}
	b.head = t
}

func (b *bucket) remove(t *Timeout) {
	if t.prev != nil {
		t.prev.next = t.next
	} else if b.head == t {
		b.head = t.next
	}
	if t.next != nil {
		t.next.prev = t.prev
	}
	t.prev, t.next = nil, nil
	t.bucket = nil
}

const (
	workerNotStarted uint64 = iota
	workerStarted
	workerShutdown
)

// maxTransferPerTick bounds how many submissions one tick will drain from
// the submission queue, so a submission burst cannot starve expiry of
// already-placed timeouts on the same tick.
const maxTransferPerTick = 100_000

// Timer is a hashed-wheel scheduler for one-shot deadlines, run entirely
// on one dedicated worker goroutine. The zero value is not usable;
// construct with [New].
type Timer struct {
	tickDuration time.Duration
	wheel        []bucket
	mask         uint64

	_           xpad.Pad
	workerState atomix.Uint64
	_           xpad.Pad

	startOnce sync.Once
	startTime time.Time

	timeouts  *queue.Queue[*Timeout]
	cancelled *queue.Queue[*Timeout]

	pending    atomix.Int64
	maxPending int64

	log corenetlog.Logger

	stopCh    chan struct{}
	stoppedCh chan struct{}

	runningTask atomix.Bool // best-effort worker-goroutine identity, see Stop

	unprocessedMu sync.Mutex
	unprocessed   []*Timeout
}

var instanceCount atomix.Uint64
var warnInstancesOnce sync.Once

// New creates a hashed-wheel timer. The worker goroutine is started
// lazily, on the first call to NewTimeout.
func New(opts ...Option) *Timer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	n := instanceCount.AddAcqRel(1)
	if maxInstances > 0 && n > uint64(maxInstances) {
		warnInstancesOnce.Do(func() {
			o.log.Warn(fmt.Sprintf("corenet/timer: instance count %d exceeds configured max %d", n, maxInstances))
		})
	}

	size := xpad.RoundToPow2(o.ticksPerWheel)
	t := &Timer{
		tickDuration: o.tickDuration,
		wheel:        make([]bucket, size),
		mask:         uint64(size - 1),
		timeouts:     queue.New[*Timeout](),
		cancelled:    queue.New[*Timeout](),
		maxPending:   o.maxPending,
		log:          o.log,
		stopCh:       make(chan struct{}),
		stoppedCh:    make(chan struct{}),
	}
	return t
}

func (t *Timer) start() {
	t.startTime = time.Now()
	// A Stop that ran before the first NewTimeout has already moved the
	// state to shutdown; the worker is then never started.
	if t.workerState.CompareAndSwapAcqRel(workerNotStarted, workerStarted) {
		go t.run()
	}
}

// NewTimeout submits task to fire after delay. Returns a cancel handle.
// Fails with [RejectedExecutionError] if the admission limit configured
// via [WithMaxPendingTimeouts] is exhausted, or [IllegalStateError] if
// the timer has already been stopped.
func (t *Timer) NewTimeout(delay time.Duration, task Task) (*Timeout, error) {
	t.startOnce.Do(t.start)

	if t.workerState.LoadAcquire() == workerShutdown {
		return nil, &IllegalStateError{Reason: "timer already stopped"}
	}

	pending := t.pending.AddAcqRel(1)
	if t.maxPending > 0 && pending > t.maxPending {
		t.pending.AddAcqRel(-1)
		return nil, &RejectedExecutionError{Pending: pending - 1, Max: t.maxPending}
	}

	deadlineDur := time.Since(t.startTime) + delay
	to := &Timeout{
		task:     task,
		timer:    t,
		deadline: ceilMillis(deadlineDur),
	}
	to.state.StoreRelease(timeoutInit)

	if err := t.timeouts.Enqueue(&to); err != nil {
		t.pending.AddAcqRel(-1)
		return nil, err
	}
	return to, nil
}

// ceilMillis rounds d up to the next whole millisecond.
func ceilMillis(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64((d + time.Millisecond - 1) / time.Millisecond)
}

// PendingTimeouts returns a best-effort snapshot of the number of
// outstanding (neither fired nor cancelled) timeouts. Diagnostic only.
func (t *Timer) PendingTimeouts() int64 {
	return t.pending.LoadAcquire()
}

// Stop halts the worker and returns the timeouts that were neither fired
// nor cancelled at the moment of shutdown. Calling Stop synchronously
// from within a Task is an [IllegalStateError].
func (t *Timer) Stop() ([]*Timeout, error) {
	if t.runningTask.LoadAcquire() {
		return nil, &IllegalStateError{Reason: "stop called from within a timer task"}
	}

	for {
		cur := t.workerState.LoadAcquire()
		if cur == workerShutdown {
			<-t.stoppedCh
			return t.unprocessed, nil
		}
		if t.workerState.CompareAndSwapAcqRel(cur, workerShutdown) {
			if cur == workerStarted {
				close(t.stopCh)
				<-t.stoppedCh
			}
			return t.unprocessed, nil
		}
	}
}

func (t *Timer) run() {
	var tick uint64
	for {
		deadline := t.startTime.Add(t.tickDuration * time.Duration(tick+1))
		if !t.sleepUntil(deadline) {
			break
		}
		if t.workerState.LoadAcquire() != workerStarted {
			break
		}

		t.processCancellations()
		t.transferToBuckets(tick)
		t.expire(tick)
		tick++
	}
	t.drainOnShutdown()
	close(t.stoppedCh)
}

func (t *Timer) sleepUntil(deadline time.Time) bool {
	d := time.Until(deadline)
	if d <= 0 {
		select {
		case <-t.stopCh:
			return false
		default:
			return true
		}
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-t.stopCh:
		return false
	}
}

func (t *Timer) processCancellations() {
	for {
		to, ok := t.cancelled.Dequeue()
		if !ok {
			return
		}
		if to.bucket != nil {
			to.bucket.remove(to)
		}
		t.pending.AddAcqRel(-1)
	}
}

func (t *Timer) tickMillis() int64 {
	return int64(t.tickDuration / time.Millisecond)
}

func (t *Timer) transferToBuckets(tick uint64) {
	tickMs := t.tickMillis()
	wheelLen := int64(len(t.wheel))
	for i := 0; i < maxTransferPerTick; i++ {
		to, ok := t.timeouts.Dequeue()
		if !ok {
			return
		}
		if to.state.LoadAcquire() == timeoutCancelled {
			// processCancellations already decremented pending for this
			// timeout (a cancelled timeout sits in both queues: NewTimeout
			// put it in timeouts, Cancel in cancelled; the cancelled queue
			// is the sole owner of the decrement).
			continue
		}

		calculated := to.deadline / tickMs
		to.remainingRounds = (calculated - int64(tick)) / wheelLen

		placeTick := calculated
		if int64(tick) > placeTick {
			// See the package doc: a submission that arrives after its
			// own deadline has already elapsed is placed on the very
			// next tick, not retroactively.
			placeTick = int64(tick)
		}
		idx := uint64(placeTick) & t.mask
		t.wheel[idx].add(to)
	}
}

func (t *Timer) expire(tick uint64) {
	idx := tick & t.mask
	b := &t.wheel[idx]
	// By the time expire(tick) runs, run's sleepUntil has already slept
	// until startTime+tickDuration*(tick+1) (see run, above): that elapsed
	// wall-clock bound, not tick*tickMillis, is the deadline threshold a
	// timeout must clear to be legitimately due on this tick.
	currentDeadline := int64(tick+1) * t.tickMillis()

	node := b.head
	for node != nil {
		next := node.next
		if node.remainingRounds > 0 {
			node.remainingRounds--
		} else {
			b.remove(node)
			if node.deadline <= currentDeadline {
				t.fire(node)
			} else {
				panic(fmt.Sprintf("corenet/timer: timeout deadline %d exceeds current tick deadline %d: bucket misplacement", node.deadline, currentDeadline))
			}
		}
		node = next
	}
}

func (t *Timer) fire(to *Timeout) {
	if !to.state.CompareAndSwapAcqRel(timeoutInit, timeoutExpired) {
		return
	}
	t.pending.AddAcqRel(-1)

	t.runningTask.StoreRelease(true)
	defer t.runningTask.StoreRelease(false)

	func() {
		defer func() {
			if r := recover(); r != nil {
				t.log.WarnTaskPanic("timer", r)
			}
		}()
		to.task()
	}()
}

func (t *Timer) drainOnShutdown() {
	t.unprocessedMu.Lock()
	defer t.unprocessedMu.Unlock()

	for i := range t.wheel {
		for node := t.wheel[i].head; node != nil; {
			next := node.next
			node.prev, node.next = nil, nil
			if node.state.LoadAcquire() == timeoutInit {
				t.unprocessed = append(t.unprocessed, node)
			}
			node = next
		}
		t.wheel[i].head = nil
	}
	for {
		to, ok := t.timeouts.Dequeue()
		if !ok {
			break
		}
		if to.state.LoadAcquire() == timeoutInit {
			t.unprocessed = append(t.unprocessed, to)
		}
	}
}
