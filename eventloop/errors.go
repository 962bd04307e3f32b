// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package eventloop

import "errors"

// IllegalStateError reports a misuse of the loop's lifecycle: Run returns
// it when the loop has already left the NotStarted state.
type IllegalStateError struct {
	Reason string
}

func (e *IllegalStateError) Error() string {
	return "corenet/eventloop: illegal state: " + e.Reason
}

// IsIllegalState reports whether err is (or wraps) an [IllegalStateError].
func IsIllegalState(err error) bool {
	var target *IllegalStateError
	return errors.As(err, &target)
}

// ErrShutdownTimedOut is one of the errors a [TerminationFuture] may
// carry: the hard shutdown timeout fired before the quiet period elapsed
// with no new submissions, so remaining queued work was discarded.
var ErrShutdownTimedOut = errors.New("corenet/eventloop: shutdown hard timeout reached before quiet period elapsed")
