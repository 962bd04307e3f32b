// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package eventloop

import (
	"container/heap"
	"time"

	"code.hybscloud.com/atomix"
)

// scheduledTask is one entry in the loop's scheduled-task heap, touched
// only by the loop's own goroutine. cancelled is the one field read from
// other goroutines (by ScheduledHandle.Cancel), hence atomic: 0 while
// pending, 1 once cancelled, 2 once the loop has claimed it to run.
type scheduledTask struct {
	task     func()
	deadline time.Time
	seq      uint64 // insertion order, breaks deadline ties

	cancelled atomix.Uint64
	heapIndex int
}

func (t *scheduledTask) markCancelled() bool {
	return t.cancelled.CompareAndSwapAcqRel(0, 1)
}

// markFired claims the task for execution, failing if it was cancelled.
func (t *scheduledTask) markFired() bool {
	return t.cancelled.CompareAndSwapAcqRel(0, 2)
}

func (t *scheduledTask) isCancelled() bool {
	return t.cancelled.LoadAcquire() == 1
}

// ScheduledHandle cancels a task scheduled via [Loop.Schedule].
type ScheduledHandle struct {
	t *scheduledTask
}

// Cancel marks the task cancelled so the loop discards it instead of
// running it when its deadline arrives, returning false if it already
// fired or was already cancelled.
func (h *ScheduledHandle) Cancel() bool {
	return h.t.markCancelled()
}

// scheduledHeap implements container/heap.Interface, ordered by deadline
// then insertion sequence.
type scheduledHeap []*scheduledTask

func (h scheduledHeap) Len() int { return len(h) }

func (h scheduledHeap) Less(i, j int) bool {
	if !h[i].deadline.Equal(h[j].deadline) {
		return h[i].deadline.Before(h[j].deadline)
	}
	return h[i].seq < h[j].seq
}

func (h scheduledHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex = i
	h[j].heapIndex = j
}

func (h *scheduledHeap) Push(x any) {
	t := x.(*scheduledTask)
	t.heapIndex = len(*h)
	*h = append(*h, t)
}

func (h *scheduledHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.heapIndex = -1
	*h = old[:n-1]
	return t
}

var _ heap.Interface = (*scheduledHeap)(nil)
