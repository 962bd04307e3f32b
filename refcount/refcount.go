// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package refcount

import "code.hybscloud.com/atomix"

// Counted is the trait pooled buffers and shared native handles implement.
type Counted interface {
	Retain(n ...uint64) (Counted, error)
	Release(n ...uint64) (bool, error)
	Touch(hint any) Counted
	ReferenceCount() uint64
}

// Deallocator is invoked exactly once, by the goroutine whose Release call
// observes the reference count reach zero.
type Deallocator func()

// ReferenceCounted is an embeddable atomic reference-counting primitive.
// The zero value is not usable; construct with [New].
type ReferenceCounted struct {
	count      atomix.Uint64
	deallocate Deallocator
}

// New creates a ReferenceCounted with an initial count of 1 and the given
// deallocate hook.
func New(deallocate Deallocator) ReferenceCounted {
	rc := ReferenceCounted{deallocate: deallocate}
	rc.count.StoreRelaxed(1)
	return rc
}

// Retain increments the reference count by n (default 1) and returns the
// receiver for chaining. Fails with [IllegalReferenceCountError] if the
// count is currently zero (resurrection) or the increment would overflow.
func (rc *ReferenceCounted) Retain(n ...uint64) (Counted, error) {
	delta := argOrOne(n)
	for {
		cur := rc.count.LoadAcquire()
		next := cur + delta
		// next <= delta holds iff cur == 0 (resurrection) or cur+delta
		// overflowed — both are illegal.
		if next <= delta {
			return nil, &IllegalReferenceCountError{Count: cur, Delta: int64(delta)}
		}
		if rc.count.CompareAndSwapAcqRel(cur, next) {
			return rc, nil
		}
	}
}

// Release decrements the reference count by n (default 1). Returns true
// iff this call observed the count reach zero, in which case it also
// invokes Deallocate exactly once before returning. Fails with
// [IllegalReferenceCountError] if n exceeds the current count (underflow).
func (rc *ReferenceCounted) Release(n ...uint64) (bool, error) {
	delta := argOrOne(n)
	for {
		cur := rc.count.LoadAcquire()
		if cur < delta {
			return false, &IllegalReferenceCountError{Count: cur, Delta: -int64(delta)}
		}
		next := cur - delta
		if rc.count.CompareAndSwapAcqRel(cur, next) {
			if cur == delta {
				if rc.deallocate != nil {
					rc.deallocate()
				}
				return true, nil
			}
			return false, nil
		}
	}
}

// Touch records a leak-detector hint. The default implementation is a
// no-op; it exists so callers can thread a debugging breadcrumb through a
// buffer's lifetime without every embedder having to implement it.
func (rc *ReferenceCounted) Touch(hint any) Counted {
	_ = hint
	return rc
}

// ReferenceCount returns the current count. It is a snapshot: by the time
// the caller observes it, concurrent Retain/Release calls may have already
// changed it.
func (rc *ReferenceCounted) ReferenceCount() uint64 {
	return rc.count.LoadAcquire()
}

func argOrOne(n []uint64) uint64 {
	if len(n) == 0 {
		return 1
	}
	return n[0]
}
