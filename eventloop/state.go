// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package eventloop

// state is the loop's lifecycle: NotStarted->Started->ShuttingDown->
// Shutdown->Terminated. Run moves NotStarted->Started by CAS and, once
// shutdown finishes, stores Shutdown then Terminated. ShutdownGracefully
// moves Started (or NotStarted, for a loop whose Run has not been called)
// to ShuttingDown by CAS from the caller's goroutine.
type state uint64

const (
	stateNotStarted state = iota
	stateStarted
	stateShuttingDown
	stateShutdown
	stateTerminated
)

func (s state) String() string {
	switch s {
	case stateNotStarted:
		return "NotStarted"
	case stateStarted:
		return "Started"
	case stateShuttingDown:
		return "ShuttingDown"
	case stateShutdown:
		return "Shutdown"
	case stateTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}
