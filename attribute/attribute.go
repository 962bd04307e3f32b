// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package attribute

import (
	"sync"
	"sync/atomic"

	"code.hybscloud.com/corenet/constant"
)

// KeyPool mints [AttributeKey] values, backed by a dedicated constant
// pool so attribute-key ids never collide with unrelated constants.
type KeyPool struct {
	pool *constant.Pool
}

// NewPool creates an empty key pool.
func NewPool() *KeyPool {
	return &KeyPool{pool: constant.NewPool()}
}

// AttributeKey names a typed slot in an attribute [Map]. The type
// parameter is phantom: it never appears in the stored id/name, only in
// the methods used to address the slot, so a single name minted via
// ValueOf as both AttributeKey[int] and AttributeKey[string] addresses the
// same underlying constant (names are scoped per KeyPool, not per type).
type AttributeKey[V comparable] struct {
	c *constant.Constant
}

// ID returns the key's underlying constant id.
func (k *AttributeKey[V]) ID() int { return k.c.ID() }

// Name returns the key's name.
func (k *AttributeKey[V]) Name() string { return k.c.Name() }

// ValueOf returns the existing key named name in p, or mints one.
func ValueOf[V comparable](p *KeyPool, name string) *AttributeKey[V] {
	return &AttributeKey[V]{c: p.pool.ValueOf(name)}
}

// NewInstance mints a new key named name in p, failing if name already
// exists.
func NewInstance[V comparable](p *KeyPool, name string) (*AttributeKey[V], error) {
	c, err := p.pool.NewInstance(name)
	if err != nil {
		return nil, err
	}
	return &AttributeKey[V]{c: c}, nil
}

// Exists reports whether name has already been minted in p.
func Exists(p *KeyPool, name string) bool {
	return p.pool.Exists(name)
}

const bucketCount = 4
const bucketMask = bucketCount - 1

// node is a bucket entry. headMu is the bucket's own mutex, shared by
// every node in the chain, used to serialize chain mutation (append,
// unlink). A node with prev == nil is the bucket's head sentinel: once
// installed it is never unlinked, even after it is marked removed — see
// [Attribute.Remove].
type node struct {
	key     *constant.Constant
	value   atomic.Pointer[any]
	removed atomic.Bool
	prev    *node
	next    *node
	headMu  *sync.Mutex
	attr    any // the *Attribute[V] handle GetAttribute returns for this node
}

// Map is a fixed, four-bucket, lock-striped attribute store. The zero
// value is ready to use.
type Map struct {
	buckets [bucketCount]atomic.Pointer[node]
	mus     [bucketCount]sync.Mutex
}

// NewMap creates an empty attribute map.
func NewMap() *Map {
	return &Map{}
}

func (m *Map) index(id int) int {
	return id & bucketMask
}

// GetAttribute returns the live attribute for key, creating one if none
// exists yet. Repeated calls with the same key return the same
// *Attribute[V] until it is removed via [Attribute.Remove] or
// [Attribute.GetAndRemove], after which a fresh call mints a new one.
//
// The bucket's head slot is read lock-free and compared against key as a
// fast path (the common, head-hit case never touches the mutex); a miss
// falls back to a walk of the full chain under the bucket's mutex, which
// also guards every insert and unlink so the unlocked fast path never
// observes a chain pointer mid-mutation.
func GetAttribute[V comparable](m *Map, key *AttributeKey[V]) *Attribute[V] {
	idx := m.index(key.c.ID())

	head := m.buckets[idx].Load()
	if head == nil {
		candidate := &node{key: key.c, headMu: &m.mus[idx]}
		candidate.attr = &Attribute[V]{n: candidate}
		if m.buckets[idx].CompareAndSwap(nil, candidate) {
			return handleOf[V](candidate)
		}
		head = m.buckets[idx].Load()
	}
	if head.key == key.c && !head.removed.Load() {
		return handleOf[V](head)
	}

	m.mus[idx].Lock()
	defer m.mus[idx].Unlock()

	tail := head
	for n := head; n != nil; n = n.next {
		if n.key == key.c && !n.removed.Load() {
			return handleOf[V](n)
		}
		tail = n
	}

	n := &node{key: key.c, headMu: &m.mus[idx], prev: tail}
	n.attr = &Attribute[V]{n: n}
	tail.next = n
	return handleOf[V](n)
}

// handleOf returns the handle stored on n, or a fresh one if n's handle
// was created for a different V.
func handleOf[V comparable](n *node) *Attribute[V] {
	if a, ok := n.attr.(*Attribute[V]); ok {
		return a
	}
	return &Attribute[V]{n: n}
}

// HasAttribute reports whether key currently has a live attribute in m.
func HasAttribute[V comparable](m *Map, key *AttributeKey[V]) bool {
	idx := m.index(key.c.ID())

	head := m.buckets[idx].Load()
	if head == nil {
		return false
	}
	if head.key == key.c && !head.removed.Load() {
		return true
	}

	m.mus[idx].Lock()
	defer m.mus[idx].Unlock()
	for n := head.next; n != nil; n = n.next {
		if n.key == key.c && !n.removed.Load() {
			return true
		}
	}
	return false
}

// Attribute is a typed handle on a single slot of a [Map]. Once obtained,
// Get/Set/GetAndSet/SetIfAbsent/CompareAndSet are lock-free; Remove and
// GetAndRemove take the bucket's mutex to unlink the slot from its chain.
type Attribute[V comparable] struct {
	n *node
}

// Get returns the current value, or the zero value of V if unset.
func (a *Attribute[V]) Get() V {
	p := a.n.value.Load()
	if p == nil {
		var zero V
		return zero
	}
	return (*p).(V)
}

// Set unconditionally stores v.
func (a *Attribute[V]) Set(v V) {
	boxed := any(v)
	a.n.value.Store(&boxed)
}

// GetAndSet stores v and returns the previous value (zero value of V if
// it was unset).
func (a *Attribute[V]) GetAndSet(v V) V {
	boxed := any(v)
	old := a.n.value.Swap(&boxed)
	if old == nil {
		var zero V
		return zero
	}
	return (*old).(V)
}

// SetIfAbsent stores v only if the slot is currently unset, returning the
// value that ends up in the slot and whether this call was the one that
// set it.
func (a *Attribute[V]) SetIfAbsent(v V) (V, bool) {
	boxed := any(v)
	for {
		old := a.n.value.Load()
		if old != nil {
			return (*old).(V), false
		}
		if a.n.value.CompareAndSwap(nil, &boxed) {
			return v, true
		}
	}
}

// CompareAndSet stores update iff the current value equals old, reporting
// whether the swap took effect.
func (a *Attribute[V]) CompareAndSet(old, update V) bool {
	for {
		cur := a.n.value.Load()
		var curV V
		if cur != nil {
			curV = (*cur).(V)
		}
		if curV != old {
			return false
		}
		boxed := any(update)
		if a.n.value.CompareAndSwap(cur, &boxed) {
			return true
		}
	}
}

// GetAndRemove returns the current value and marks the underlying slot
// removed: subsequent GetAttribute calls for the same key mint a fresh
// attribute rather than returning this one.
func (a *Attribute[V]) GetAndRemove() V {
	v := a.Get()
	a.remove()
	return v
}

// Remove marks the underlying slot removed, same as GetAndRemove but
// without reading the value first.
func (a *Attribute[V]) Remove() {
	a.remove()
}

// remove marks the node removed and, unless it is the bucket's head
// sentinel, unlinks it from the chain under the bucket's mutex. Heads are
// never unlinked: they remain as inert placeholders for the bucket's
// lifetime.
func (a *Attribute[V]) remove() {
	n := a.n
	if !n.removed.CompareAndSwap(false, true) {
		return
	}
	n.value.Store(nil)

	n.headMu.Lock()
	defer n.headMu.Unlock()
	if n.prev == nil {
		return
	}
	n.prev.next = n.next
	if n.next != nil {
		n.next.prev = n.prev
	}
	n.prev, n.next = nil, nil
}
