// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue

import "errors"

// ErrNilValue is returned by Enqueue when elem is nil. A queue has no
// representation for "null" distinct from "empty", so nil is rejected
// outright rather than silently stored and confused with an empty read.
var ErrNilValue = errors.New("corenet/queue: nil value rejected at enqueue")
