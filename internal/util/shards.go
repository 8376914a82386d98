package util

import "runtime"

// ReasonableShardCount picks a default shard count from CPU parallelism:
// the next power of two above 2*GOMAXPROCS, clamped to [1, 256]. Enough
// shards to spread lock contention without bloating per-shard overhead.
func ReasonableShardCount() int {
	p := max(runtime.GOMAXPROCS(0), 1)
	return min(int(NextPow2(uint64(2*p))), 256)
}

// ShardIndex maps a 64-bit hash to a shard index. Power-of-two counts use
// a mask; anything else falls back to modulo.
func ShardIndex(hash uint64, shards int) int {
	if shards <= 1 {
		return 0
	}
	if IsPowerOfTwo(uint64(shards)) {
		return int(hash & uint64(shards-1))
	}
	return int(hash % uint64(shards))
}
