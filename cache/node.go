package cache

// node is a shard-owned cache entry. It stores the key/value alongside
// metadata used for TTL and cost accounting. Entry ordering lives inside
// the eviction policy; the shard owns only the key -> node map.
type node[K comparable, V any] struct {
	key K
	val V

	// Absolute expiration deadline in UnixNano.
	// Zero means "no TTL".
	exp int64

	// Logical "cost" used when MaxCost is enabled.
	// Entries are evicted until both length and cost limits are satisfied.
	cost int32
}

// Key returns the node key (part of policy.Node interface).
func (n *node[K, V]) Key() K { return n.key }

// Value returns a pointer to the stored value (part of policy.Node interface).
// NOTE: callers must only read/write through this pointer while holding the
// shard lock; otherwise data races may occur.
func (n *node[K, V]) Value() *V { return &n.val }

// Cost returns the entry cost (part of policy.Node interface).
func (n *node[K, V]) Cost() int64 { return int64(n.cost) }
