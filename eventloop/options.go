// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package eventloop

import (
	"time"

	"code.hybscloud.com/corenet/internal/corenetlog"
)

const (
	defaultBreakoutInterval = 10 * time.Millisecond
	defaultTaskBatchSize    = 64
)

type options struct {
	breakoutInterval time.Duration
	taskBatchSize    int
	log              corenetlog.Logger
}

func defaultOptions() options {
	return options{
		breakoutInterval: defaultBreakoutInterval,
		taskBatchSize:    defaultTaskBatchSize,
		log:              corenetlog.Nop(),
	}
}

// Option configures a [Loop] at construction.
type Option func(*options)

// WithBreakoutInterval bounds how long a single drain-the-task-queue pass
// may run before the loop checks the heap and rearms its wake-up timer,
// so scheduled tasks and the heap itself are never starved by a flood of
// submitted tasks.
func WithBreakoutInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.breakoutInterval = d
		}
	}
}

// WithTaskBatchSize sets how many tasks the loop runs between wall-clock
// checks during a drain pass.
func WithTaskBatchSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.taskBatchSize = n
		}
	}
}

// WithLogger routes the loop's caught-task-panic warnings through l
// instead of the default no-op logger.
func WithLogger(l corenetlog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}
