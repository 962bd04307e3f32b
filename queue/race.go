// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package queue

// RaceEnabled is true when the race detector is active.
// Used by tests to gate stress tests whose correctness relies on
// acquire-release memory ordering the race detector cannot observe
// (it tracks synchronization primitives, not atomic-operation happens-before
// edges), and so would otherwise false-positive.
const RaceEnabled = true
