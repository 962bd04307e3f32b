// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package xpad provides cache-line padding and small bit-twiddling helpers
// shared by queue, timer, and eventloop.
//
// None of this is exported API surface for callers of corenet; it exists
// so that hot atomic fields in unrelated packages don't share a cache line
// and so that wheel/ring sizing code doesn't reimplement the same
// round-up-to-power-of-2 three times.
package xpad

import "unsafe"

// Pad is cache line padding to prevent false sharing.
type Pad [64]byte

// PadShort is padding to fill a cache line after an 8-byte field.
type PadShort [64 - 8]byte

// ptrSize is the size of a pointer in bytes.
const ptrSize = int(unsafe.Sizeof(uintptr(0)))

// PadPtr is padding to fill a cache line after a pointer-sized field.
type PadPtr [64 - ptrSize]byte

// RoundToPow2 rounds n up to the next power of 2. Values below 2 return 2.
func RoundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
