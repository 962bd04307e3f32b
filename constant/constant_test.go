// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package constant_test

import (
	"sync"
	"testing"

	"code.hybscloud.com/corenet/constant"
)

// TestInterningScenario is scenario 5 from the spec's testable properties:
// pool.ValueOf("x") called twice returns the same pointer, ValueOf("y")
// differs, NewInstance("x") fails once "x" exists, and distinct constants
// have distinct ids.
func TestInterningScenario(t *testing.T) {
	pool := constant.NewPool()

	k1 := pool.ValueOf("x")
	k2 := pool.ValueOf("x")
	k3 := pool.ValueOf("y")

	if k1 != k2 {
		t.Fatalf("ValueOf(x) twice: got distinct constants")
	}
	if k1 == k3 {
		t.Fatalf("ValueOf(x) == ValueOf(y): want distinct constants")
	}
	if _, err := pool.NewInstance("x"); !constant.IsNameExists(err) {
		t.Fatalf("NewInstance(x) after ValueOf(x): got %v, want NameExistsError", err)
	}
	if k1.ID() == k3.ID() {
		t.Fatalf("distinct constants share id %d", k1.ID())
	}
	if !pool.Exists("x") || !pool.Exists("y") {
		t.Fatalf("Exists: want both x and y present")
	}
	if pool.Exists("z") {
		t.Fatalf("Exists(z): want false")
	}
}

func TestCompareToIdentityIsZero(t *testing.T) {
	pool := constant.NewPool()
	k := pool.ValueOf("solo")
	if got := k.CompareTo(k); got != 0 {
		t.Fatalf("CompareTo(self): got %d, want 0", got)
	}
}

func TestCompareToTotalOrder(t *testing.T) {
	pool := constant.NewPool()
	names := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot"}
	cs := make([]*constant.Constant, len(names))
	for i, n := range names {
		cs[i] = pool.ValueOf(n)
	}

	for i := range cs {
		for j := range cs {
			got := cs[i].CompareTo(cs[j])
			want := -cs[j].CompareTo(cs[i])
			if got != want && !(got == 0 && want == 0) {
				t.Fatalf("CompareTo antisymmetry violated for (%d,%d): %d vs %d", i, j, got, want)
			}
			if i == j && got != 0 {
				t.Fatalf("CompareTo(%d,%d) same constant: got %d, want 0", i, j, got)
			}
			if i != j && got == 0 {
				t.Fatalf("CompareTo(%d,%d) distinct constants compared equal", i, j)
			}
		}
	}
}

func TestNewInstanceSucceedsForFreshName(t *testing.T) {
	pool := constant.NewPool()
	c, err := pool.NewInstance("fresh")
	if err != nil {
		t.Fatalf("NewInstance(fresh): %v", err)
	}
	if c.Name() != "fresh" {
		t.Fatalf("Name(): got %q, want fresh", c.Name())
	}
}

func TestConcurrentValueOfReturnsSingleWinner(t *testing.T) {
	pool := constant.NewPool()
	const goroutines = 64

	results := make([]*constant.Constant, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		i := i
		go func() {
			defer wg.Done()
			results[i] = pool.ValueOf("shared")
		}()
	}
	wg.Wait()

	first := results[0]
	for i, c := range results {
		if c != first {
			t.Fatalf("ValueOf(shared) goroutine %d: got distinct constant", i)
		}
	}
}
