// Package lru implements the LRU eviction policy.
package lru

import (
	"container/list"
	"errors"

	"github.com/go-adaptq/adaptq/policy"
)

// ErrEmpty is returned by SelectVictim when the policy tracks no entries.
var ErrEmpty = errors.New("lru: no resident entries, nothing to evict")

// lru is a classic "move-to-front" Least-Recently-Used policy.
// It owns the recency list: MRU at Front, LRU at Back.
type lru[K comparable, V any] struct {
	ll  *list.List
	idx map[K]*list.Element // element.Value is policy.Node[K, V]
}

type lruPolicy[K comparable, V any] struct{}

// New returns a Policy factory that constructs per-shard LRU instances.
func New[K comparable, V any]() policy.Policy[K, V] { return lruPolicy[K, V]{} }

// New implements policy.Policy by returning a shard-local policy instance.
func (lruPolicy[K, V]) New(policy.View) policy.ShardPolicy[K, V] {
	return &lru[K, V]{
		ll:  list.New(),
		idx: make(map[K]*list.Element),
	}
}

// OnInsert places the new entry at MRU.
func (p *lru[K, V]) OnInsert(n policy.Node[K, V]) {
	if el, ok := p.idx[n.Key()]; ok {
		// Shard and policy disagree about residency; keep the newer node.
		el.Value = n
		p.ll.MoveToFront(el)
		return
	}
	p.idx[n.Key()] = p.ll.PushFront(n)
}

// OnHit promotes the entry to MRU. An untracked entry is adopted at MRU.
func (p *lru[K, V]) OnHit(n policy.Node[K, V]) {
	if el, ok := p.idx[n.Key()]; ok {
		p.ll.MoveToFront(el)
		return
	}
	p.idx[n.Key()] = p.ll.PushFront(n)
}

// SelectVictim returns the LRU entry without unlinking it; unlinking
// happens in OnEvictCommitted once the shard commits the eviction.
func (p *lru[K, V]) SelectVictim(policy.Node[K, V]) (policy.Node[K, V], error) {
	el := p.ll.Back()
	if el == nil {
		return nil, ErrEmpty
	}
	return el.Value.(policy.Node[K, V]), nil
}

// OnEvictCommitted unlinks the committed victim.
func (p *lru[K, V]) OnEvictCommitted(_, evicted policy.Node[K, V]) {
	p.drop(evicted)
}

// OnRemove unlinks a shard-removed entry (explicit delete or TTL expiry).
func (p *lru[K, V]) OnRemove(n policy.Node[K, V]) {
	p.drop(n)
}

// Reset drops all recency state.
func (p *lru[K, V]) Reset() {
	p.ll.Init()
	clear(p.idx)
}

func (p *lru[K, V]) drop(n policy.Node[K, V]) {
	if el, ok := p.idx[n.Key()]; ok {
		p.ll.Remove(el)
		delete(p.idx, n.Key())
	}
}
