// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package constant interns names into process-wide, identity-comparable
// singletons.
//
// A Constant's equality is Go's own pointer identity — two *Constant
// values are equal iff they are the same allocation, which only happens
// when they were minted from the same name via the same Pool's ValueOf.
// Ordering falls back to a lazily-assigned, globally unique uniquifier
// only on hash collisions, so the common (hash-distinct) comparison path
// never pays for it.
//
//	pool := constant.NewPool()
//	x1 := pool.ValueOf("x")
//	x2 := pool.ValueOf("x")
//	y := pool.ValueOf("y")
//	x1 == x2 // true — same name, same pool
//	x1 == y  // false
//	_, err := pool.NewInstance("x") // error: already exists
package constant
