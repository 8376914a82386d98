// Package trace produces and loads deterministic key traces for cache
// evaluation. Generators cover the canonical access patterns used to
// compare eviction policies; Load replays recorded traces from files.
package trace

import (
	"math/rand"
	"sort"
)

// Gen produces a key trace of length n for a cache of the given capacity.
// The same seed always yields the same trace.
type Gen func(n, capacity int, seed int64) []uint64

// Sequential emits n distinct keys in order. Nothing repeats, so every
// access on a finite cache misses.
func Sequential(n, _ int, _ int64) []uint64 {
	seq := make([]uint64, n)
	for i := range seq {
		seq[i] = uint64(i)
	}
	return seq
}

// Loop cycles over a working set a quarter larger than capacity, the
// classic pattern where strict recency ordering evicts every key just
// before it comes around again.
func Loop(n, capacity int, _ int64) []uint64 {
	period := capacity + capacity/4
	if period < 2 {
		period = 2
	}
	seq := make([]uint64, n)
	for i := range seq {
		seq[i] = uint64(i % period)
	}
	return seq
}

// Zipf draws from a skewed distribution over a universe 16x capacity.
func Zipf(n, capacity int, seed int64) []uint64 {
	universe := 16 * capacity
	if universe < 2 {
		universe = 2
	}
	rng := rand.New(rand.NewSource(seed))
	z := rand.NewZipf(rng, 1.2, 1, uint64(universe-1))
	seq := make([]uint64, n)
	for i := range seq {
		seq[i] = z.Uint64()
	}
	return seq
}

// Uniform draws uniformly from a universe 4x capacity.
func Uniform(n, capacity int, seed int64) []uint64 {
	universe := 4 * capacity
	if universe < 1 {
		universe = 1
	}
	rng := rand.New(rand.NewSource(seed))
	seq := make([]uint64, n)
	for i := range seq {
		seq[i] = uint64(rng.Intn(universe))
	}
	return seq
}

// HotCold sends 90% of accesses to a capacity-sized hot set and scatters
// the rest across a cold span 16x as wide.
func HotCold(n, capacity int, seed int64) []uint64 {
	if capacity < 1 {
		capacity = 1
	}
	rng := rand.New(rand.NewSource(seed))
	seq := make([]uint64, n)
	for i := range seq {
		if rng.Float64() < 0.9 {
			seq[i] = uint64(rng.Intn(capacity))
		} else {
			seq[i] = uint64(capacity + rng.Intn(16*capacity))
		}
	}
	return seq
}

var gens = map[string]Gen{
	"scan":    Sequential,
	"loop":    Loop,
	"zipf":    Zipf,
	"uniform": Uniform,
	"hotcold": HotCold,
}

// ByName resolves a generator by its pattern name.
func ByName(name string) (Gen, bool) {
	g, ok := gens[name]
	return g, ok
}

// Names lists the available pattern names in stable order.
func Names() []string {
	names := make([]string, 0, len(gens))
	for n := range gens {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
