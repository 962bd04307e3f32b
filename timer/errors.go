// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package timer

import (
	"errors"
	"fmt"
)

// RejectedExecutionError is returned by NewTimeout when the timer's
// pending-timeout admission limit (see [WithMaxPendingTimeouts]) is
// already exhausted.
type RejectedExecutionError struct {
	Pending int64
	Max     int64
}

func (e *RejectedExecutionError) Error() string {
	return fmt.Sprintf("corenet/timer: rejected: %d pending timeouts, max %d", e.Pending, e.Max)
}

// IsRejectedExecution reports whether err is (or wraps) a
// [RejectedExecutionError].
func IsRejectedExecution(err error) bool {
	var target *RejectedExecutionError
	return errors.As(err, &target)
}

// IllegalStateError reports a misuse of the timer's lifecycle: submitting
// to an already-stopped timer, or calling Stop synchronously from within a
// timer task.
type IllegalStateError struct {
	Reason string
}

func (e *IllegalStateError) Error() string {
	return "corenet/timer: illegal state: " + e.Reason
}

// IsIllegalState reports whether err is (or wraps) an [IllegalStateError].
func IsIllegalState(err error) bool {
	var target *IllegalStateError
	return errors.As(err, &target)
}
