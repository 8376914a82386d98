package policy

// Node is the minimal contract a cache entry must satisfy for a policy.
// It provides read-only access to the key, a pointer to the value, and the
// entry's cost (size). The pointer allows in-place updates without
// re-linking policy-internal structures.
type Node[K comparable, V any] interface {
	Key() K
	Value() *V
	Cost() int64
}

// View exposes a read-only snapshot of the owning shard's state. It is
// provided by the shard at policy construction time and stays valid for the
// lifetime of the policy instance. Values reflect the shard as of the
// current hook call.
//
// Concurrency: all reads happen under the shard lock.
type View interface {
	// Capacity returns the maximum number of resident entries in the shard.
	Capacity() int
	// Len returns the number of entries currently resident in the shard.
	Len() int
}

// ShardPolicy is a per-shard eviction policy instance bound to a shard view.
// All methods are invoked under the shard lock, strictly sequentially.
//
// Admission protocol, when the shard is full and must admit a new entry:
//
//	victim, err := p.SelectVictim(incoming)
//	// shard deletes victim, stores incoming
//	p.OnInsert(incoming)
//	p.OnEvictCommitted(incoming, victim)
//
// Semantics:
//   - SelectVictim decides which resident entry must leave to admit the
//     incoming one. It must not unlink the victim: repeated calls without an
//     intervening OnInsert/OnEvictCommitted return the same node. It returns
//     ErrEmptyQueues-style errors when it tracks no resident entries; the
//     shard treats that as a broken invariant rather than guessing a key.
//   - OnInsert records a freshly admitted entry. It runs before
//     OnEvictCommitted so history recorded for the outgoing victim cannot
//     displace history consumed by the incoming key.
//   - OnHit records an access to a resident entry (lookup hit or in-place
//     update).
//   - OnEvictCommitted finalizes a policy-chosen eviction: the victim is
//     unlinked from policy state and may enter policy-internal history. The
//     shard has already deleted it.
//   - OnRemove is a notification for shard-initiated removals (explicit
//     delete, TTL expiry, cost pressure). The removed entry must not enter
//     eviction history.
//   - Reset drops all policy state, including history and any adaptive
//     tuning, returning the instance to its as-constructed configuration.
//     The shard empties itself in the same operation.
type ShardPolicy[K comparable, V any] interface {
	OnInsert(Node[K, V])
	OnHit(Node[K, V])
	SelectVictim(incoming Node[K, V]) (Node[K, V], error)
	OnEvictCommitted(inserted, evicted Node[K, V])
	OnRemove(Node[K, V])
	Reset()
}

// Policy is a factory that creates shard-local policy instances bound to a
// particular shard's view. Instances created from the same factory share no
// mutable state.
type Policy[K comparable, V any] interface {
	New(View) ShardPolicy[K, V]
}
