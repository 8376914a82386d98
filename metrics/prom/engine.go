package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-adaptq/adaptq/policy/s3fifo"
)

// EngineAdapter implements s3fifo.Metrics and exports the adaptive engine's
// internals: ghost hits by origin queue, head dispositions during victim
// scans, desync repairs, and the current probation share.
//
// One adapter serves every shard of a cache; shards report sequentially
// under their own locks and all Prometheus metric types are goroutine-safe.
// SmallRatio is a gauge, so with several shards it shows the most recently
// adapted shard rather than an aggregate.
type EngineAdapter struct {
	ghostHits  *prometheus.CounterVec
	promotions prometheus.Counter
	second     prometheus.Counter
	demotions  prometheus.Counter
	desync     prometheus.Counter
	smallRatio prometheus.Gauge
}

// NewEngine constructs a Prometheus adapter for the eviction engine.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func NewEngine(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *EngineAdapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &EngineAdapter{
		ghostHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "ghost_hits_total",
				Help:        "Inserts matched in the eviction history, by origin queue",
				ConstLabels: constLabels,
			},
			[]string{"origin"},
		),
		promotions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "promotions_total",
			Help:        "Probation heads promoted to the protected queue",
			ConstLabels: constLabels,
		}),
		second: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "second_chances_total",
			Help:        "Protected heads re-queued instead of evicted",
			ConstLabels: constLabels,
		}),
		demotions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "demotions_total",
			Help:        "Protected heads sent back to probation",
			ConstLabels: constLabels,
		}),
		desync: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "desync_repairs_total",
			Help:        "Self-healed disagreements between shard and policy state",
			ConstLabels: constLabels,
		}),
		smallRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "small_ratio",
			Help:        "Current adaptive share of capacity targeted at probation",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.ghostHits, a.promotions, a.second, a.demotions, a.desync, a.smallRatio)
	return a
}

// GhostHit increments the ghost-hit counter with the origin queue label.
func (a *EngineAdapter) GhostHit(q s3fifo.Queue) {
	a.ghostHits.WithLabelValues(q.String()).Inc()
}

// Promotion increments the promotion counter.
func (a *EngineAdapter) Promotion() { a.promotions.Inc() }

// SecondChance increments the second-chance counter.
func (a *EngineAdapter) SecondChance() { a.second.Inc() }

// Demotion increments the demotion counter.
func (a *EngineAdapter) Demotion() { a.demotions.Inc() }

// DesyncRepaired increments the repair counter.
func (a *EngineAdapter) DesyncRepaired() { a.desync.Inc() }

// SmallRatio publishes the ratio chosen by the adaptive controller.
func (a *EngineAdapter) SmallRatio(r float64) { a.smallRatio.Set(r) }

// Compile-time check: ensure EngineAdapter implements s3fifo.Metrics.
var _ s3fifo.Metrics = (*EngineAdapter)(nil)
