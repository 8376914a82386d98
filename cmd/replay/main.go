// Command replay evaluates eviction policies against deterministic access
// traces and reports per-policy hit rates. Traces come from the built-in
// pattern generators or from a recorded trace file (one key per line).
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/go-adaptq/adaptq/cache"
	"github.com/go-adaptq/adaptq/internal/config"
	"github.com/go-adaptq/adaptq/internal/trace"
	"github.com/go-adaptq/adaptq/policy"
	"github.com/go-adaptq/adaptq/policy/lru"
	"github.com/go-adaptq/adaptq/policy/s3fifo"
	"github.com/go-adaptq/adaptq/policy/twoq"
)

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "replay",
		Usage: "replay access traces against eviction policies and compare hit rates",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file (yaml/json); flags override its settings",
			},
			&cli.StringFlag{
				Name:  "pattern",
				Usage: "trace pattern: " + strings.Join(trace.Names(), " | "),
			},
			&cli.StringFlag{
				Name:  "trace",
				Usage: "recorded trace file (one key per line); overrides the pattern",
			},
			&cli.IntFlag{
				Name:  "ops",
				Usage: "generated trace length",
			},
			&cli.IntFlag{
				Name:  "cap",
				Usage: "cache capacity (entries)",
			},
			&cli.IntFlag{
				Name:  "shards",
				Usage: "shard count (0 = auto)",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "generator seed",
			},
			&cli.StringSliceFlag{
				Name:  "policy",
				Usage: "policy to evaluate (repeatable): s3fifo | lru | twoq",
			},
		},
		Action: run,
	}
}

func run(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	keys, err := buildTrace(cfg)
	if err != nil {
		return err
	}

	// Every policy replays its own cache; runs are independent, so they
	// proceed in parallel.
	results := make([]result, len(cfg.Policies))
	var g errgroup.Group
	for i, name := range cfg.Policies {
		g.Go(func() error {
			pol, err := buildPolicy(name, cfg.S3FIFO)
			if err != nil {
				return err
			}
			results[i] = evaluate(name, cfg, pol, keys)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	report(cfg, len(keys), results)
	return nil
}

// loadConfig layers settings: defaults, then the config file, then any
// explicitly set flags.
func loadConfig(cmd *cli.Command) (*config.Replay, error) {
	cfg := config.Default()
	if path := cmd.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}
	if cmd.IsSet("pattern") {
		cfg.Pattern = cmd.String("pattern")
	}
	if cmd.IsSet("trace") {
		cfg.TraceFile = cmd.String("trace")
	}
	if cmd.IsSet("ops") {
		cfg.Ops = cmd.Int("ops")
	}
	if cmd.IsSet("cap") {
		cfg.Capacity = cmd.Int("cap")
	}
	if cmd.IsSet("shards") {
		cfg.Shards = cmd.Int("shards")
	}
	if cmd.IsSet("seed") {
		cfg.Seed = cmd.Int64("seed")
	}
	if cmd.IsSet("policy") {
		cfg.Policies = cmd.StringSlice("policy")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func buildTrace(cfg *config.Replay) ([]uint64, error) {
	if cfg.TraceFile != "" {
		f, err := os.Open(cfg.TraceFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return trace.Load(f)
	}
	gen, ok := trace.ByName(cfg.Pattern)
	if !ok {
		return nil, fmt.Errorf("unknown pattern %q (available: %s)",
			cfg.Pattern, strings.Join(trace.Names(), ", "))
	}
	return gen(cfg.Ops, cfg.Capacity, cfg.Seed), nil
}

func buildPolicy(name string, eng config.Engine) (policy.Policy[uint64, uint64], error) {
	switch name {
	case "s3fifo":
		return s3fifo.New[uint64, uint64](eng.Options()...)
	case "lru":
		return lru.New[uint64, uint64](), nil
	case "twoq":
		return twoq.New[uint64, uint64](0, 0), nil
	default:
		return nil, fmt.Errorf("unknown policy %q (use s3fifo, lru or twoq)", name)
	}
}

type result struct {
	policy  string
	hits    int
	misses  int
	elapsed time.Duration
}

func evaluate(name string, cfg *config.Replay, pol policy.Policy[uint64, uint64], keys []uint64) result {
	c := cache.New[uint64, uint64](cache.Options[uint64, uint64]{
		Capacity: cfg.Capacity,
		Shards:   cfg.Shards,
		Policy:   pol,
	})
	defer func() { _ = c.Close() }()

	start := time.Now()
	hits := 0
	for _, k := range keys {
		if _, ok := c.Get(k); ok {
			hits++
		} else {
			c.Set(k, k)
		}
	}
	return result{
		policy:  name,
		hits:    hits,
		misses:  len(keys) - hits,
		elapsed: time.Since(start),
	}
}

func report(cfg *config.Replay, ops int, results []result) {
	source := cfg.Pattern
	if cfg.TraceFile != "" {
		source = cfg.TraceFile
	}
	fmt.Printf("trace=%s ops=%d cap=%d shards=%d seed=%d\n\n",
		source, ops, cfg.Capacity, cfg.Shards, cfg.Seed)
	fmt.Printf("%-10s %10s %10s %10s %14s\n", "policy", "hits", "misses", "hit-rate", "ops/s")
	for _, r := range results {
		rate := 0.0
		if ops > 0 {
			rate = float64(r.hits) / float64(ops) * 100
		}
		fmt.Printf("%-10s %10d %10d %9.2f%% %14.0f\n",
			r.policy, r.hits, r.misses, rate, float64(ops)/r.elapsed.Seconds())
	}
}
