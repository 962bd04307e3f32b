// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package refcount provides the atomic reference-counting discipline used
// by pooled buffers and shared native handles elsewhere in this ecosystem.
//
// Embed [ReferenceCounted] in a type, supply a Deallocator, and the type
// gets Retain/Release/Touch/ReferenceCount for free:
//
//	type PooledBuffer struct {
//	    refcount.ReferenceCounted
//	    data []byte
//	}
//
//	func NewPooledBuffer(data []byte) *PooledBuffer {
//	    b := &PooledBuffer{data: data}
//	    b.ReferenceCounted = refcount.New(func() { releaseToPool(b) })
//	    return b
//	}
//
// The CAS protocol enforces three invariants without ever taking a lock:
// the count never resurrects from zero, it never goes negative, and
// Deallocate runs exactly once, on whichever goroutine's Release observes
// the count reach zero.
package refcount
