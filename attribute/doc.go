// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package attribute provides a lock-striped, per-object attribute store
// indexed by interned [constant.Constant] keys.
//
// A Map holds four bucket slots. Looking up a key hashes its constant id
// modulo 4 and checks that bucket's head entry lock-free; only when the
// head is not a live entry for the key does it take the bucket's mutex and
// walk the doubly-linked chain, appending a new entry if none is found.
// Once an [Attribute] handle is
// obtained its Get/Set/CompareAndSet calls never take a lock: the slot
// itself is updated with a plain atomic pointer swap.
//
//	keys := attribute.NewPool()
//	m := attribute.NewMap()
//	k := attribute.ValueOf[int](keys, "retries")
//	a := attribute.GetAttribute(m, k)
//	a.Set(42)
//	a.GetAndRemove() // 42
//	b := attribute.GetAttribute(m, k) // fresh attribute, b != a
package attribute
