package lru

import (
	"errors"
	"testing"
)

// --- test doubles ---

type testNode[K comparable, V any] struct {
	k K
	v V
}

func (n *testNode[K, V]) Key() K      { return n.k }
func (n *testNode[K, V]) Value() *V   { return &n.v }
func (n *testNode[K, V]) Cost() int64 { return 0 }

type testView struct{ capacity, length int }

func (v testView) Capacity() int { return v.capacity }
func (v testView) Len() int      { return v.length }

func newLRU(t *testing.T) *lru[string, int] {
	t.Helper()
	return New[string, int]().New(testView{capacity: 8}).(*lru[string, int])
}

// --- tests ---

// SelectVictim picks the least recently used entry (insertion order when
// nothing was accessed) and stays idempotent until the eviction commits.
func TestLRU_VictimIsOldestWhenCold(t *testing.T) {
	t.Parallel()

	p := newLRU(t)
	a := &testNode[string, int]{k: "a", v: 1}
	b := &testNode[string, int]{k: "b", v: 2}
	p.OnInsert(a)
	p.OnInsert(b)

	v, err := p.SelectVictim(nil)
	if err != nil {
		t.Fatalf("SelectVictim: %v", err)
	}
	if v != a {
		t.Fatalf("victim must be a (oldest), got %v", v.Key())
	}

	// Idempotent until committed: same victim again.
	v2, err := p.SelectVictim(nil)
	if err != nil || v2 != v {
		t.Fatalf("repeated SelectVictim must return the same victim")
	}

	p.OnEvictCommitted(nil, v)
	v3, err := p.SelectVictim(nil)
	if err != nil {
		t.Fatalf("SelectVictim after commit: %v", err)
	}
	if v3.Key() != "b" {
		t.Fatalf("after committing a, victim must be b, got %v", v3.Key())
	}
}

// A hit promotes the entry to MRU, changing the next victim.
func TestLRU_HitPromotes(t *testing.T) {
	t.Parallel()

	p := newLRU(t)
	a := &testNode[string, int]{k: "a", v: 1}
	b := &testNode[string, int]{k: "b", v: 2}
	p.OnInsert(a)
	p.OnInsert(b)

	p.OnHit(a) // a becomes MRU, so b is now the LRU

	v, err := p.SelectVictim(nil)
	if err != nil {
		t.Fatalf("SelectVictim: %v", err)
	}
	if v.Key() != "b" {
		t.Fatalf("victim must be b after promoting a, got %v", v.Key())
	}
}

// SelectVictim on an empty policy surfaces ErrEmpty instead of guessing.
func TestLRU_SelectVictimEmpty(t *testing.T) {
	t.Parallel()

	p := newLRU(t)
	if _, err := p.SelectVictim(nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("want ErrEmpty, got %v", err)
	}
}

// Shard-initiated removal unlinks the entry from policy state.
func TestLRU_OnRemoveUnlinks(t *testing.T) {
	t.Parallel()

	p := newLRU(t)
	a := &testNode[string, int]{k: "a", v: 1}
	p.OnInsert(a)
	p.OnRemove(a)

	if _, err := p.SelectVictim(nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("want ErrEmpty after removal, got %v", err)
	}
}

// Reset drops all recency state; the policy stays usable.
func TestLRU_Reset(t *testing.T) {
	t.Parallel()

	p := newLRU(t)
	p.OnInsert(&testNode[string, int]{k: "a", v: 1})
	p.OnInsert(&testNode[string, int]{k: "b", v: 2})

	p.Reset()

	if _, err := p.SelectVictim(nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("want ErrEmpty after Reset, got %v", err)
	}

	c := &testNode[string, int]{k: "c", v: 3}
	p.OnInsert(c)
	v, err := p.SelectVictim(nil)
	if err != nil || v.Key() != "c" {
		t.Fatalf("policy must keep working after Reset, got %v err=%v", v, err)
	}
}
