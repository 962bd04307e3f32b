// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package constant

import (
	"errors"
	"fmt"
)

// NameExistsError is returned by Pool.NewInstance when name is already
// interned in the pool.
type NameExistsError struct {
	Name string
}

func (e *NameExistsError) Error() string {
	return fmt.Sprintf("corenet/constant: %q already exists in pool", e.Name)
}

// IsNameExists reports whether err is (or wraps) a [NameExistsError].
func IsNameExists(err error) bool {
	var target *NameExistsError
	return errors.As(err, &target)
}
