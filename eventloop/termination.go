// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package eventloop

// TerminationFuture completes when a [Loop] finishes shutting down.
type TerminationFuture struct {
	done chan struct{}
	err  error
}

func newTerminationFuture() *TerminationFuture {
	return &TerminationFuture{done: make(chan struct{})}
}

// Done returns a channel that closes once the loop has terminated.
func (f *TerminationFuture) Done() <-chan struct{} {
	return f.done
}

// IsDone reports whether the loop has already terminated.
func (f *TerminationFuture) IsDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Err blocks until the loop has terminated, then returns the aggregated
// shutdown error: nil for a clean graceful stop, [ErrShutdownTimedOut] if
// the hard timeout fired before the quiet period elapsed, or a
// structural-panic error if the worker itself (not a user task) faulted.
func (f *TerminationFuture) Err() error {
	<-f.done
	return f.err
}

func (f *TerminationFuture) complete(err error) {
	f.err = err
	close(f.done)
}
