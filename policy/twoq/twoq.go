// Package twoq implements the 2Q eviction policy.
package twoq

import (
	"container/list"
	"errors"

	"github.com/go-adaptq/adaptq/policy"
)

// ErrEmpty is returned by SelectVictim when the policy tracks no entries.
var ErrEmpty = errors.New("twoq: no resident entries, nothing to evict")

// twoQ implements the 2Q eviction policy.
//
// Resident queues (both owned by the policy):
//   - A1in (younger queue) — admits first-time entries, FIFO order
//   - Am   (mature queue)  — entries with proven reuse, LRU order
//
// Ghost A1out: keys only (no values), tracks recently evicted A1in keys to
// give them a second chance (bypass A1in on re-admission).
//
// Concurrency: all methods are called under the shard lock.
type twoQ[K comparable, V any] struct {
	capIn    int // A1in capacity (per-shard)
	capGhost int // A1out (ghost) capacity (per-shard)

	// A1in: newest at Front() -> oldest at Back()
	in *list.List
	// Am: MRU at Front() -> LRU at Back()
	am *list.List
	// Resident index: key -> entry; each entry sits in exactly one queue.
	idx map[K]*entry[K, V]

	// A1out (ghosts): keys only, newest at Front() -> oldest at Back()
	ghostList *list.List
	ghostIdx  map[K]*list.Element // key -> element in ghostList (element.Value is K)
}

// entry tracks one resident node and which queue holds it.
type entry[K comparable, V any] struct {
	node policy.Node[K, V]
	el   *list.Element // element.Value is *entry
	in   bool          // true while the entry sits in A1in
}

// New constructs a 2Q policy factory.
// Non-positive sizes are derived from the shard capacity at bind time:
// capIn ≈ 25% and capGhost ≈ 50% of the shard, the classic tuning.
func New[K comparable, V any](capIn, capGhost int) policy.Policy[K, V] {
	return twoQPolicy[K, V]{capIn: capIn, capGhost: capGhost}
}

type twoQPolicy[K comparable, V any] struct {
	capIn    int
	capGhost int
}

func (p twoQPolicy[K, V]) New(view policy.View) policy.ShardPolicy[K, V] {
	capIn, capGhost := p.capIn, p.capGhost
	if capIn < 1 {
		capIn = view.Capacity() / 4
		if capIn < 1 {
			capIn = 1
		}
	}
	if capGhost < 1 {
		capGhost = view.Capacity() / 2
		if capGhost < 1 {
			capGhost = 1
		}
	}
	return &twoQ[K, V]{
		capIn:     capIn,
		capGhost:  capGhost,
		in:        list.New(),
		am:        list.New(),
		idx:       make(map[K]*entry[K, V]),
		ghostList: list.New(),
		ghostIdx:  make(map[K]*list.Element),
	}
}

// OnInsert admission rules:
//   - If key is present in ghosts (A1out), bypass A1in and admit directly
//     to Am (MRU). Also remove the ghost entry.
//   - Otherwise admit into A1in.
func (q *twoQ[K, V]) OnInsert(n policy.Node[K, V]) {
	k := n.Key()
	if e, ok := q.idx[k]; ok {
		// Shard and policy disagree about residency; keep the newer node.
		e.node = n
		return
	}

	e := &entry[K, V]{node: n}
	if ge, ok := q.ghostIdx[k]; ok {
		// Second chance: promote from ghosts directly into Am (skip A1in).
		q.ghostList.Remove(ge)
		delete(q.ghostIdx, k)
		e.el = q.am.PushFront(e)
	} else {
		e.in = true
		e.el = q.in.PushFront(e)
	}
	q.idx[k] = e
}

// OnHit: a hit in A1in promotes the entry to Am (MRU); a hit in Am moves
// it to MRU.
func (q *twoQ[K, V]) OnHit(n policy.Node[K, V]) {
	e, ok := q.idx[n.Key()]
	if !ok {
		// Untracked but resident: adopt into Am at MRU.
		e = &entry[K, V]{node: n}
		e.el = q.am.PushFront(e)
		q.idx[n.Key()] = e
		return
	}
	if e.in {
		q.in.Remove(e.el)
		e.in = false
		e.el = q.am.PushFront(e)
		return
	}
	q.am.MoveToFront(e.el)
}

// SelectVictim picks the oldest A1in entry while A1in is over its budget
// (or Am is empty), otherwise the Am LRU. The victim stays linked until
// OnEvictCommitted confirms the eviction.
func (q *twoQ[K, V]) SelectVictim(policy.Node[K, V]) (policy.Node[K, V], error) {
	if q.in.Len() > q.capIn || q.am.Len() == 0 {
		if el := q.in.Back(); el != nil {
			return el.Value.(*entry[K, V]).node, nil
		}
	}
	if el := q.am.Back(); el != nil {
		return el.Value.(*entry[K, V]).node, nil
	}
	return nil, ErrEmpty
}

// OnEvictCommitted unlinks the committed victim. Victims leaving A1in add
// their key to the ghosts (A1out); removals from Am do NOT populate ghosts.
func (q *twoQ[K, V]) OnEvictCommitted(_, evicted policy.Node[K, V]) {
	k := evicted.Key()
	e, ok := q.idx[k]
	if !ok {
		return
	}
	q.unlink(e, k)
	if !e.in {
		return
	}

	// Insert/move ghost to the newest position.
	if old := q.ghostIdx[k]; old != nil {
		q.ghostList.Remove(old)
	}
	q.ghostIdx[k] = q.ghostList.PushFront(k)

	// Enforce ghost capacity (drop oldest ghosts).
	for q.ghostList.Len() > q.capGhost {
		tail := q.ghostList.Back()
		if tail == nil {
			break
		}
		kk := tail.Value.(K)
		delete(q.ghostIdx, kk)
		q.ghostList.Remove(tail)
	}
}

// OnRemove unlinks a shard-removed entry (explicit delete or TTL expiry).
// Such removals say nothing about reuse, so no ghost is recorded.
func (q *twoQ[K, V]) OnRemove(n policy.Node[K, V]) {
	k := n.Key()
	if e, ok := q.idx[k]; ok {
		q.unlink(e, k)
	}
}

// Reset drops both resident queues and the ghost history.
func (q *twoQ[K, V]) Reset() {
	q.in.Init()
	q.am.Init()
	clear(q.idx)
	q.ghostList.Init()
	clear(q.ghostIdx)
}

func (q *twoQ[K, V]) unlink(e *entry[K, V], k K) {
	if e.in {
		q.in.Remove(e.el)
	} else {
		q.am.Remove(e.el)
	}
	delete(q.idx, k)
}
