// Package cache provides a fast, generic, sharded in-memory cache with
// pluggable eviction policies (adaptive S3-FIFO by default), per-entry TTL,
// optional singleflight loading, lightweight metrics hooks, and cost-based
// capacity.
//
// Design
//
//   - Concurrency: the cache is split into shards, each protected by an
//     RWMutex. The default shard count is chosen by a heuristic
//     (ReasonableShardCount) and is a power of two. Picking shards reduces
//     contention while keeping memory overhead small.
//
//   - Storage: each shard keeps a map[K]*node for lookups. Entry ordering
//     is owned by the policy instance bound to the shard; the shard drives
//     it through a small hook protocol (insert, hit, victim selection,
//     eviction commit, removal, reset). All operations are O(1) expected.
//
//   - Policies: eviction policy is pluggable via the policy package.
//     Adaptive S3-FIFO is the default: two FIFO queues plus ghost history,
//     with the probation share tuned by ARC-style feedback. Classic LRU and
//     2Q are provided as alternatives and baselines.
//
//   - TTL: entries can have per-item deadlines (UnixNano). Expiration is
//     lazy on read. Expired and explicitly removed entries never enter a
//     policy's eviction history; only policy-chosen victims do.
//
//   - Cost/MaxCost: besides entry count (Capacity), you may account a user-defined
//     "cost" per value (Options.Cost) and enforce a global MaxCost. Shards split
//     the MaxCost budget evenly.
//
//   - GetOrLoad: coalesces concurrent loads for the same key using singleflight.
//     If Loader is nil, GetOrLoad returns ErrNoLoader.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals.
//     By default NoopMetrics is used; plug a Prometheus adapter to export metrics.
//     The S3-FIFO policy has its own metrics sink for queue-level signals.
//
//   - Callbacks: Options.OnEvict(k, v, reason) is called for every eviction
//     (reason is one of EvictPolicy, EvictTTL, EvictCapacity).
//
//   - Clear: drops all entries and resets every policy instance, including
//     ghost history and adaptive state, making the cache indistinguishable
//     from a freshly constructed one.
//
// Basic usage
//
//	// Create a cache with capacity for 10k entries (adaptive S3-FIFO).
//	c := cache.New[string, []byte](cache.Options[string, []byte]{Capacity: 10_000})
//	c.Set("a", []byte("1"))
//	if v, ok := c.Get("a"); ok {
//	    _ = v // use value
//	}
//	c.Remove("a")
//
// With TTL
//
//	c := cache.New[string, string](cache.Options[string, string]{Capacity: 1024})
//	c.SetWithTTL("tmp", "v", 200*time.Millisecond)
//	time.Sleep(300*time.Millisecond)
//	_, ok := c.Get("tmp") // ok == false (expired)
//
// With GetOrLoad (singleflight)
//
//	c := cache.New[string, string](cache.Options[string, string]{
//	    Capacity: 1024,
//	    Loader: func(ctx context.Context, k string) (string, error) {
//	        // e.g. fetch from DB
//	        return "v:" + k, nil
//	    },
//	})
//	v, err := c.GetOrLoad(context.Background(), "key")
//
// Using an alternative policy (2Q)
//
//	c := cache.New[string, string](cache.Options[string, string]{
//	    Capacity: 50_000,
//	    Policy:   twoq.New[string, string](0, 0), // sizes derived per shard
//	})
//
// Tuning the default policy
//
//	c := cache.New[string, string](cache.Options[string, string]{
//	    Capacity: 50_000,
//	    Policy: s3fifo.MustNew[string, string](
//	        s3fifo.WithSmallRatio(0.25),
//	        s3fifo.WithGhostFactor(2.0),
//	    ),
//	})
//
// Exporting metrics (example Prometheus adapter)
//
//	m := prom.New(nil, "adaptq", "demo", nil) // implements Metrics
//	c := cache.New[string, []byte](cache.Options[string, []byte]{
//	    Capacity: 10_000,
//	    Metrics:  m,
//	})
//
// Thread-safety & complexity
//
// All methods on Cache are safe for concurrent use. Typical operation cost is
// O(1) expected time: one map access and a constant amount of pointer fixes.
// Eviction work is amortized O(1) per removed item; a victim scan may touch
// several queue heads but consumes recorded accesses as it goes, so scans
// stay bounded over any workload.
//
// See package cache/options.go for all available Options fields and package
// policy for the Policy/View/ShardPolicy interfaces used to implement
// custom strategies.
package cache
