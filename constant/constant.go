// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package constant

import (
	"hash/fnv"
	"sync"

	"code.hybscloud.com/atomix"
)

// uniquifier is the process-wide monotonic counter constants draw their
// tiebreaker from. The first value it hands out is 1, so 0 can mean "not
// yet assigned" on a Constant.
var uniquifier atomix.Uint64

// Constant is an interned, identity-comparable singleton carrying an id
// and a name. Two *Constant values compare equal (with Go's own ==) iff
// they are literally the same allocation — there is no value-equality
// fallback, by design: names that collide within a pool are rejected at
// creation, never silently merged.
type Constant struct {
	id   int
	name string
	hash uint64

	uniq atomix.Uint64 // 0 until lazily assigned in CompareTo
}

// ID returns the constant's id, monotonically assigned within its pool.
func (c *Constant) ID() int { return c.id }

// Name returns the constant's name.
func (c *Constant) Name() string { return c.name }

// String implements fmt.Stringer.
func (c *Constant) String() string { return c.name }

// CompareTo defines a total order over constants from the same universe
// of pools, stable for the lifetime of the process. Equal constants (by
// pointer identity) always compare 0. Distinct constants compare by hash
// code first; on a hash collision both sides lazily acquire a
// process-wide uniquifier and compare those, so the common,
// hash-distinct path never pays the tiebreak cost.
func (c *Constant) CompareTo(other *Constant) int {
	if c == other {
		return 0
	}
	switch {
	case c.hash < other.hash:
		return -1
	case c.hash > other.hash:
		return 1
	}
	cu, ou := c.uniquify(), other.uniquify()
	switch {
	case cu < ou:
		return -1
	case cu > ou:
		return 1
	default:
		return 0
	}
}

// uniquify returns this constant's tiebreaker, assigning it on first use.
func (c *Constant) uniquify() uint64 {
	if u := c.uniq.LoadAcquire(); u != 0 {
		return u
	}
	next := uniquifier.AddAcqRel(1)
	if c.uniq.CompareAndSwapAcqRel(0, next) {
		return next
	}
	return c.uniq.LoadAcquire()
}

func hashName(name string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return h.Sum64()
}

// Pool interns names into Constants, process-wide and forever: constants
// never expire, and ids are unique within a pool and monotonically
// increasing.
type Pool struct {
	mu     sync.Mutex
	byName map[string]*Constant
	nextID int
}

// NewPool creates an empty constant pool.
func NewPool() *Pool {
	return &Pool{byName: make(map[string]*Constant)}
}

// ValueOf returns the existing constant for name, or creates and inserts
// one if none exists yet.
func (p *Pool) ValueOf(name string) *Constant {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.byName[name]; ok {
		return c
	}
	return p.newConstantLocked(name)
}

// NewInstance creates a new constant for name, failing with
// a [NameExistsError] if name is already interned in this pool.
func (p *Pool) NewInstance(name string) (*Constant, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.byName[name]; ok {
		return nil, &NameExistsError{Name: name}
	}
	return p.newConstantLocked(name), nil
}

// Exists reports whether name has already been interned in this pool.
func (p *Pool) Exists(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.byName[name]
	return ok
}

func (p *Pool) newConstantLocked(name string) *Constant {
	c := &Constant{id: p.nextID, name: name, hash: hashName(name)}
	p.nextID++
	p.byName[name] = c
	return c
}
