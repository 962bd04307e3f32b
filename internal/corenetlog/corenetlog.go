// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package corenetlog is a thin structured-logging shim over go.uber.org/zap.
//
// The timer worker and event loop catch every panic raised by a user task
// (spec: "Task user exceptions — caught at the invocation site, logged at
// WARN, never propagated into the loop/timer worker"). Neither package
// wants to force a concrete logger on callers who haven't configured one,
// so both default to Nop, which logs nowhere (backed by zap.NewNop()). The
// zero Logger holds no zap logger and is not usable; construct with Nop
// or New.
package corenetlog

import "go.uber.org/zap"

// Logger is the narrow slice of *zap.Logger that timer/eventloop need.
type Logger struct {
	z *zap.Logger
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return Logger{z: zap.NewNop()}
}

// New wraps an existing *zap.Logger. A nil logger behaves like Nop.
func New(z *zap.Logger) Logger {
	if z == nil {
		return Nop()
	}
	return Logger{z: z}
}

// WarnTaskPanic logs a recovered task panic at WARN with the given worker
// name (e.g. "timer" or "eventloop") and the recovered value.
func (l Logger) WarnTaskPanic(worker string, recovered any) {
	l.z.Warn("corenet: recovered panic from user task",
		zap.String("worker", worker),
		zap.Any("recovered", recovered),
	)
}

// WarnTaskError logs a user task that returned/produced an error, at WARN.
func (l Logger) WarnTaskError(worker string, err error) {
	l.z.Warn("corenet: user task returned error",
		zap.String("worker", worker),
		zap.Error(err),
	)
}

// Warn logs a free-form WARN message with optional zap fields.
func (l Logger) Warn(msg string, fields ...zap.Field) {
	l.z.Warn(msg, fields...)
}
