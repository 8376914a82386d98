package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-adaptq/adaptq/internal/util"
	"github.com/go-adaptq/adaptq/policy"
)

// shard is an independent partition of the cache with its own lock, map,
// and policy instance. The shard owns the key->node map plus TTL/cost
// bookkeeping; all entry ordering lives inside the policy, driven through
// the hook protocol (see policy.ShardPolicy).
type shard[K comparable, V any] struct {
	// ---- guarded by mu ----
	mu      sync.RWMutex
	m       map[K]*node[K, V]
	len     int   // number of resident entries
	cost    int64 // total cost (if MaxCost is enabled)
	cap     int   // per-shard entry capacity
	maxCost int64 // per-shard cost limit (0 = disabled)

	// Policy instance bound to this shard's view.
	pol policy.ShardPolicy[K, V]
	opt Options[K, V]

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_      util.CacheLinePad
	hits   util.PaddedAtomicInt64
	misses util.PaddedAtomicInt64
	evicts util.PaddedAtomicUint64
}

// newShard initializes a shard with per-shard capacity, policy factory, and options.
// maxCost is derived by splitting opt.MaxCost evenly across shards.
func newShard[K comparable, V any](capacity int, pol policy.Policy[K, V], opt Options[K, V]) *shard[K, V] {
	s := &shard[K, V]{
		m:   make(map[K]*node[K, V], capacity),
		cap: capacity,
		opt: opt,
	}

	// Split global MaxCost across shards (ceil division).
	if opt.MaxCost > 0 {
		shards := opt.Shards
		if shards <= 0 {
			shards = util.ReasonableShardCount()
		}
		s.maxCost = (opt.MaxCost + int64(shards) - 1) / int64(shards)
	}

	// Bind the policy instance to this shard's read-only view.
	s.pol = pol.New(shardView[K, V]{s: s})
	return s
}

// Add inserts a NEW entry (no update).
// ttl is an absolute UnixNano deadline (0 = no TTL); cost is the logical weight (0 = equal).
// Returns false if the key already exists.
func (s *shard[K, V]) Add(k K, v V, ttl int64, cost int32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.m[k]; exists {
		return false
	}
	s.insertLocked(k, v, ttl, cost)
	return true
}

// Set inserts or updates an entry. An in-place update counts as an access
// for the policy.
func (s *shard[K, V]) Set(k K, v V, ttl int64, cost int32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, ok := s.m[k]; ok {
		// In-place update: adjust cost delta and record the access.
		oldCost := int64(n.cost)
		n.val = v
		n.exp = ttl
		n.cost = cost
		s.cost += int64(cost) - oldCost

		s.pol.OnHit(n)
		s.enforceCostLocked()
		s.opt.Metrics.Size(s.len, s.cost)
		return
	}
	s.insertLocked(k, v, ttl, cost)
}

// Get returns the value and records the access with the policy.
// TTL: if expired, the entry is evicted and a miss is returned.
func (s *shard[K, V]) Get(k K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.m[k]
	if !ok {
		s.misses.Add(1)
		s.opt.Metrics.Miss()
		var zero V
		return zero, false
	}
	if s.expiredLocked(n) {
		s.expireLocked(n)
		s.misses.Add(1)
		s.opt.Metrics.Miss()
		var zero V
		return zero, false
	}

	s.pol.OnHit(n)
	s.hits.Add(1)
	s.opt.Metrics.Hit()
	return n.val, true
}

// Remove deletes an entry by key. Returns true if the entry existed.
func (s *shard[K, V]) Remove(k K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.m[k]
	if !ok {
		return false
	}
	s.pol.OnRemove(n)
	s.deleteLocked(n)
	// Note: explicit Remove is not counted as an eviction in metrics;
	// add a dedicated "deletes" counter if needed.
	s.opt.Metrics.Size(s.len, s.cost)
	return true
}

// Len returns the number of resident entries in this shard.
func (s *shard[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.len
}

// Clear empties the shard and resets the policy, dropping its ordering
// state, eviction history, and adaptive tuning. Dropped entries do not
// trigger OnEvict.
func (s *shard[K, V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.m)
	s.len = 0
	s.cost = 0
	s.pol.Reset()
	s.opt.Metrics.Size(0, 0)
}

// -------------------- internals (mu held) --------------------

// insertLocked admits a new entry. On a full shard it asks the policy for
// a victim first, deletes it, stores the new entry, and only then confirms
// the eviction. OnInsert runs before OnEvictCommitted so history consumed
// by the incoming key cannot be displaced by the outgoing one.
func (s *shard[K, V]) insertLocked(k K, v V, ttl int64, cost int32) {
	n := &node[K, V]{key: k, val: v, exp: ttl, cost: cost}

	var victim *node[K, V]
	if s.len >= s.cap {
		vn, err := s.pol.SelectVictim(n)
		if err != nil {
			// The map says the shard is full while the policy tracks no
			// entries. That is corruption, not a recoverable miss.
			panic(fmt.Sprintf("cache: victim selection on full shard: %v", err))
		}
		victim = vn.(*node[K, V])
		s.deleteLocked(victim)
		s.evicts.Add(1)
		s.opt.Metrics.Evict(EvictPolicy)
		if cb := s.opt.OnEvict; cb != nil {
			// Note: calling callbacks under the lock is safer but may add latency.
			// If you move this outside the lock later, pass copies of key/value.
			cb(victim.key, victim.val, EvictPolicy)
		}
	}

	s.m[k] = n
	s.len++
	s.cost += int64(cost)

	s.pol.OnInsert(n)
	if victim != nil {
		s.pol.OnEvictCommitted(n, victim)
	}
	s.enforceCostLocked()
	s.opt.Metrics.Size(s.len, s.cost)
}

// expireLocked removes an entry whose deadline passed. TTL removals are
// shard-initiated: the policy hears OnRemove and records no history.
func (s *shard[K, V]) expireLocked(n *node[K, V]) {
	s.pol.OnRemove(n)
	s.deleteLocked(n)
	s.evicts.Add(1)
	s.opt.Metrics.Evict(EvictTTL)
	if cb := s.opt.OnEvict; cb != nil {
		cb(n.key, n.val, EvictTTL)
	}
	s.opt.Metrics.Size(s.len, s.cost)
}

// enforceCostLocked evicts policy-chosen victims until the cost budget is
// satisfied. These evictions follow no single insert, so the commit
// carries a nil inserted node.
func (s *shard[K, V]) enforceCostLocked() {
	if s.maxCost <= 0 {
		return
	}
	for s.cost > s.maxCost && s.len > 0 {
		vn, err := s.pol.SelectVictim(nil)
		if err != nil {
			break
		}
		victim := vn.(*node[K, V])
		s.deleteLocked(victim)
		s.evicts.Add(1)
		s.opt.Metrics.Evict(EvictCapacity)
		if cb := s.opt.OnEvict; cb != nil {
			cb(victim.key, victim.val, EvictCapacity)
		}
		s.pol.OnEvictCommitted(nil, victim)
	}
}

// deleteLocked removes n from the map and adjusts counters. Policy
// notification is the caller's concern.
func (s *shard[K, V]) deleteLocked(n *node[K, V]) {
	delete(s.m, n.key)
	s.len--
	s.cost -= int64(n.cost)
	if s.cost < 0 {
		s.cost = 0
	}
}

func (s *shard[K, V]) expiredLocked(n *node[K, V]) bool {
	if n.exp == 0 {
		return false
	}
	return s.now() > n.exp
}

func (s *shard[K, V]) now() int64 {
	if s.opt.Clock != nil {
		return s.opt.Clock.NowUnixNano()
	}
	return time.Now().UnixNano()
}

// -------------------- policy view --------------------

// shardView adapts the shard to policy.View. Reads happen during hook
// calls with the shard lock already held, so fields are read directly.
type shardView[K comparable, V any] struct{ s *shard[K, V] }

func (v shardView[K, V]) Capacity() int { return v.s.cap }
func (v shardView[K, V]) Len() int      { return v.s.len }
