package twoq

import (
	"errors"
	"testing"
)

// --- test doubles (same shape as in LRU tests) ---

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

// --- tests ---

// A first-time key is admitted into A1in.
func TestTwoQ_InsertGoesToA1in(t *testing.T) {
	t.Parallel()

	p := New[string, int](2, 4).New(testView{capacity: 8}).(*twoQ[string, int])

	n1 := &testNode[string, int]{k: "a", v: 1}
	p.OnInsert(n1)

	if p.in.Len() != 1 {
		t.Fatalf("A1in must have 1 element, got %d", p.in.Len())
	}
	e, ok := p.idx["a"]
	if !ok || !e.in {
		t.Fatalf("a must be tracked in A1in")
	}
}

// While A1in is over its budget, the victim is the oldest A1in entry.
func TestTwoQ_VictimIsA1inOldestWhenOverBudget(t *testing.T) {
	t.Parallel()

	p := New[string, int](2, 4).New(testView{capacity: 8}).(*twoQ[string, int])

	n1 := &testNode[string, int]{k: "a", v: 1}
	n2 := &testNode[string, int]{k: "b", v: 2}
	n3 := &testNode[string, int]{k: "c", v: 3}
	p.OnInsert(n1) // A1in: [a]
	p.OnInsert(n2) // A1in: [b, a] (cap reached)
	p.OnInsert(n3) // A1in: [c, b, a] -> over budget, oldest is a

	v, err := p.SelectVictim(nil)
	if err != nil {
		t.Fatalf("SelectVictim: %v", err)
	}
	if v != n1 {
		t.Fatalf("expected victim a (oldest in A1in), got %v", v.Key())
	}
}

// Committing an A1in eviction places the key into ghosts (A1out).
func TestTwoQ_EvictCommitFromA1inRecordsGhost(t *testing.T) {
	t.Parallel()

	p := New[string, int](2, 2).New(testView{capacity: 8}).(*twoQ[string, int])

	n1 := &testNode[string, int]{k: "a", v: 1}
	p.OnInsert(n1)
	p.OnEvictCommitted(nil, n1)

	if _, ok := p.idx["a"]; ok {
		t.Fatal("a must be unlinked after the commit")
	}
	if _, ok := p.ghostIdx["a"]; !ok {
		t.Fatal("key 'a' must be in ghost (A1out)")
	}
}

// Shard-initiated removal does NOT populate ghosts.
func TestTwoQ_OnRemoveLeavesNoGhost(t *testing.T) {
	t.Parallel()

	p := New[string, int](2, 2).New(testView{capacity: 8}).(*twoQ[string, int])

	n1 := &testNode[string, int]{k: "a", v: 1}
	p.OnInsert(n1)
	p.OnRemove(n1)

	if _, ok := p.idx["a"]; ok {
		t.Fatal("a must be unlinked after OnRemove")
	}
	if _, ok := p.ghostIdx["a"]; ok {
		t.Fatal("OnRemove must not record a ghost")
	}
}

// Re-admitting a key that is in ghosts bypasses A1in and goes to Am,
// consuming the ghost entry.
func TestTwoQ_ReadmitFromGhostGoesToAm(t *testing.T) {
	t.Parallel()

	p := New[string, int](1, 2).New(testView{capacity: 8}).(*twoQ[string, int])

	// 1) Admit "a" into A1in and commit its eviction -> key goes to A1out.
	n1 := &testNode[string, int]{k: "a", v: 1}
	p.OnInsert(n1)
	p.OnEvictCommitted(nil, n1)
	if _, ok := p.ghostIdx["a"]; !ok {
		t.Fatal("key 'a' must be in ghost after eviction from A1in")
	}

	// 2) Re-admitting "a" places it directly into Am (not A1in).
	n2 := &testNode[string, int]{k: "a", v: 2}
	p.OnInsert(n2)
	e, ok := p.idx["a"]
	if !ok || e.in {
		t.Fatal("a must be resident in Am, not A1in")
	}
	if _, ok := p.ghostIdx["a"]; ok {
		t.Fatal("ghost entry must be consumed on re-admission")
	}
}

// A hit on an A1in entry promotes it to Am.
func TestTwoQ_HitPromotesFromA1inToAm(t *testing.T) {
	t.Parallel()

	p := New[string, int](2, 2).New(testView{capacity: 8}).(*twoQ[string, int])

	n1 := &testNode[string, int]{k: "a", v: 1}
	p.OnInsert(n1)
	p.OnHit(n1)

	e, ok := p.idx["a"]
	if !ok || e.in {
		t.Fatal("a must be promoted out of A1in after a hit")
	}
	if p.am.Len() != 1 || p.in.Len() != 0 {
		t.Fatalf("queues after promotion: in=%d am=%d", p.in.Len(), p.am.Len())
	}
}

// With A1in within budget, the victim comes from the Am LRU end.
func TestTwoQ_VictimFromAmWhenA1inWithinBudget(t *testing.T) {
	t.Parallel()

	p := New[string, int](2, 2).New(testView{capacity: 8}).(*twoQ[string, int])

	n1 := &testNode[string, int]{k: "a", v: 1}
	n2 := &testNode[string, int]{k: "b", v: 2}
	p.OnInsert(n1)
	p.OnHit(n1) // a -> Am
	p.OnInsert(n2)
	p.OnHit(n2) // b -> Am (MRU), a is Am LRU

	v, err := p.SelectVictim(nil)
	if err != nil {
		t.Fatalf("SelectVictim: %v", err)
	}
	if v != n1 {
		t.Fatalf("expected victim a (Am LRU), got %v", v.Key())
	}
}

// Non-positive constructor sizes are derived from the shard capacity.
func TestTwoQ_DerivedSizes(t *testing.T) {
	t.Parallel()

	p := New[string, int](0, 0).New(testView{capacity: 100}).(*twoQ[string, int])

	if p.capIn != 25 {
		t.Fatalf("derived capIn: want 25, got %d", p.capIn)
	}
	if p.capGhost != 50 {
		t.Fatalf("derived capGhost: want 50, got %d", p.capGhost)
	}
}

// Ghost capacity is enforced by dropping the oldest ghost keys.
func TestTwoQ_GhostCapacity(t *testing.T) {
	t.Parallel()

	p := New[string, int](1, 1).New(testView{capacity: 8}).(*twoQ[string, int])

	n1 := &testNode[string, int]{k: "a", v: 1}
	n2 := &testNode[string, int]{k: "b", v: 2}
	p.OnInsert(n1)
	p.OnEvictCommitted(nil, n1)
	p.OnInsert(n2)
	p.OnEvictCommitted(nil, n2)

	if _, ok := p.ghostIdx["a"]; ok {
		t.Fatal("oldest ghost 'a' must be dropped at capacity 1")
	}
	if _, ok := p.ghostIdx["b"]; !ok {
		t.Fatal("newest ghost 'b' must be kept")
	}
}

// SelectVictim on an empty policy surfaces ErrEmpty, and Reset drops all
// state including ghosts.
func TestTwoQ_EmptyAndReset(t *testing.T) {
	t.Parallel()

	p := New[string, int](2, 2).New(testView{capacity: 8}).(*twoQ[string, int])

	if _, err := p.SelectVictim(nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("want ErrEmpty, got %v", err)
	}

	n1 := &testNode[string, int]{k: "a", v: 1}
	p.OnInsert(n1)
	p.OnEvictCommitted(nil, n1) // "a" becomes a ghost
	p.OnInsert(&testNode[string, int]{k: "b", v: 2})

	p.Reset()

	if _, err := p.SelectVictim(nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("want ErrEmpty after Reset, got %v", err)
	}
	if len(p.ghostIdx) != 0 || p.ghostList.Len() != 0 {
		t.Fatal("Reset must drop ghosts")
	}
}
