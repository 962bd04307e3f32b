// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package refcount

import (
	"errors"
	"fmt"
)

// IllegalReferenceCountError reports a retain/release precondition
// violation: retaining a count that is already zero (resurrection),
// releasing more than the current count (underflow), or retaining past
// overflow. Delta is positive for a failed Retain, negative for a failed
// Release.
type IllegalReferenceCountError struct {
	Count uint64
	Delta int64
}

func (e *IllegalReferenceCountError) Error() string {
	if e.Delta >= 0 {
		return fmt.Sprintf("corenet/refcount: illegal reference count %d, +%d", e.Count, e.Delta)
	}
	return fmt.Sprintf("corenet/refcount: illegal reference count %d, %d", e.Count, e.Delta)
}

// IsIllegalReferenceCount reports whether err is (or wraps) an
// [IllegalReferenceCountError].
func IsIllegalReferenceCount(err error) bool {
	var target *IllegalReferenceCountError
	return errors.As(err, &target)
}
