// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package timer

import (
	"time"

	"code.hybscloud.com/corenet/internal/corenetenv"
	"code.hybscloud.com/corenet/internal/corenetlog"
)

const (
	defaultTickDuration  = 100 * time.Millisecond
	defaultTicksPerWheel = 512
)

type options struct {
	tickDuration  time.Duration
	ticksPerWheel int
	maxPending    int64
	log           corenetlog.Logger
}

func defaultOptions() options {
	return options{
		tickDuration:  defaultTickDuration,
		ticksPerWheel: defaultTicksPerWheel,
		maxPending:    0,
		log:           corenetlog.Nop(),
	}
}

// Option configures a [Timer] at construction.
type Option func(*options)

// WithTickDuration sets the wheel's fixed tick quantum. Must be positive;
// invalid values are silently ignored in favor of the default.
func WithTickDuration(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.tickDuration = d
		}
	}
}

// WithTicksPerWheel sets the wheel's bucket count, rounded up to the next
// power of two.
func WithTicksPerWheel(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.ticksPerWheel = n
		}
	}
}

// WithMaxPendingTimeouts caps the number of outstanding (submitted, not
// yet fired or cancelled) timeouts. Zero or negative means unlimited.
func WithMaxPendingTimeouts(n int64) Option {
	return func(o *options) {
		o.maxPending = n
	}
}

// WithLogger routes the timer's caught-task-panic warnings through l
// instead of the default no-op logger.
func WithLogger(l corenetlog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// maxInstances caps the number of *Timer values this process will
// construct (Stop does not lower the count) before New starts logging a
// one-shot warning. Overridable via
// CORENET_TIMER_MAX_INSTANCES; zero or negative means unlimited.
var maxInstances = corenetenv.Int64("CORENET_TIMER_MAX_INSTANCES", 0)

// SetMaxInstances overrides the process-wide instance cap programmatically.
func SetMaxInstances(n int64) {
	maxInstances = n
}
