// Package config loads replay and benchmark settings from YAML or JSON
// files. Fields left out of a file keep their defaults, so a config can
// override just the knobs an experiment cares about.
package config

import (
	"fmt"

	"github.com/go-adaptq/adaptq/policy/s3fifo"
)

// Replay describes one evaluation run: the cache shape, the workload, and
// the policies to compare.
type Replay struct {
	Capacity int    `koanf:"capacity"`
	Shards   int    `koanf:"shards"`
	Pattern  string `koanf:"pattern"`
	// TraceFile overrides Pattern with a recorded trace when set.
	TraceFile string   `koanf:"trace_file"`
	Ops       int      `koanf:"ops"`
	Seed      int64    `koanf:"seed"`
	Policies  []string `koanf:"policies"`

	S3FIFO Engine `koanf:"s3fifo"`
}

// Engine carries the adaptive-engine tuning knobs. Zero values mean "keep
// the engine default".
type Engine struct {
	SmallRatio    float64 `koanf:"small_ratio"`
	RatioMin      float64 `koanf:"ratio_min"`
	RatioMax      float64 `koanf:"ratio_max"`
	Step          float64 `koanf:"step"`
	Decay         float64 `koanf:"decay"`
	GhostFactor   float64 `koanf:"ghost_factor"`
	AccessCap     int     `koanf:"access_cap"`
	GhostFromMain bool    `koanf:"ghost_from_main"`
	Demotion      bool    `koanf:"demotion"`
	GhostSeeding  bool    `koanf:"ghost_seeding"`
}

// Default returns the settings used when no config file is given: a
// single-shard cache replaying a Zipf workload against every policy.
func Default() Replay {
	return Replay{
		Capacity: 1024,
		Shards:   1,
		Pattern:  "zipf",
		Ops:      1 << 16,
		Seed:     1,
		Policies: []string{"s3fifo", "lru", "twoq"},
	}
}

// Validate checks the structural constraints a run cannot start without.
// Pattern and policy names are resolved by the command against its own
// registries.
func (c *Replay) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalid, c.Capacity)
	}
	if c.Ops <= 0 {
		return fmt.Errorf("%w: ops must be positive, got %d", ErrInvalid, c.Ops)
	}
	if c.Shards < 0 {
		return fmt.Errorf("%w: shards must not be negative, got %d", ErrInvalid, c.Shards)
	}
	if c.Pattern == "" && c.TraceFile == "" {
		return fmt.Errorf("%w: either pattern or trace_file is required", ErrInvalid)
	}
	if len(c.Policies) == 0 {
		return fmt.Errorf("%w: at least one policy is required", ErrInvalid)
	}
	return nil
}

// Options translates the non-zero tuning fields into engine options.
func (e Engine) Options() []s3fifo.Option {
	var opts []s3fifo.Option
	if e.SmallRatio > 0 {
		opts = append(opts, s3fifo.WithSmallRatio(e.SmallRatio))
	}
	if e.RatioMin > 0 || e.RatioMax > 0 {
		min, max := e.RatioMin, e.RatioMax
		if min == 0 {
			min = s3fifo.DefaultRatioMin
		}
		if max == 0 {
			max = s3fifo.DefaultRatioMax
		}
		opts = append(opts, s3fifo.WithRatioBounds(min, max))
	}
	if e.Step > 0 {
		opts = append(opts, s3fifo.WithFixedStep(e.Step))
	}
	if e.Decay > 0 {
		opts = append(opts, s3fifo.WithRatioDecay(e.Decay))
	}
	if e.GhostFactor > 0 {
		opts = append(opts, s3fifo.WithGhostFactor(e.GhostFactor))
	}
	if e.AccessCap > 0 {
		n := e.AccessCap
		if n > 255 {
			n = 255
		}
		opts = append(opts, s3fifo.WithAccessCap(uint8(n)))
	}
	if e.GhostFromMain {
		opts = append(opts, s3fifo.WithGhostFromMain())
	}
	if e.Demotion {
		opts = append(opts, s3fifo.WithDemotion())
	}
	if e.GhostSeeding {
		opts = append(opts, s3fifo.WithGhostSeeding())
	}
	return opts
}
