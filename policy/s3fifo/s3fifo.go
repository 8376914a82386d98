package s3fifo

import (
	"github.com/go-adaptq/adaptq/policy"
)

// Tunable defaults. The ratio figures follow the published S3-FIFO setup
// (10% probation) with adaptation bounds wide enough for ARC-style drift.
const (
	DefaultRatio       = 0.10
	DefaultRatioMin    = 0.01
	DefaultRatioMax    = 0.90
	DefaultGhostFactor = 1.0
	DefaultAccessCap   = 3
)

// Option configures the policy factory built by New.
type Option func(*config)

type config struct {
	ratio       float64
	ratioMin    float64
	ratioMax    float64
	step        float64
	decay       float64
	ghostFactor float64
	accessCap   uint8

	ghostFromMain bool
	demote        bool
	seedFromGhost bool

	tiebreak Tiebreaker
	metrics  Metrics
}

func defaultConfig() config {
	return config{
		ratio:       DefaultRatio,
		ratioMin:    DefaultRatioMin,
		ratioMax:    DefaultRatioMax,
		ghostFactor: DefaultGhostFactor,
		accessCap:   DefaultAccessCap,
		tiebreak:    DeterministicTiebreaker{},
		metrics:     NoopMetrics{},
	}
}

func (c config) validate() error {
	if !(0 < c.ratioMin && c.ratioMin <= c.ratio && c.ratio <= c.ratioMax && c.ratioMax <= 1) {
		return ErrRatioBounds
	}
	if c.ghostFactor <= 0 {
		return ErrGhostFactor
	}
	if c.accessCap < 1 {
		return ErrAccessCap
	}
	if c.step < 0 || c.step > 1 {
		return ErrStep
	}
	if c.decay < 0 || c.decay >= 1 {
		return ErrDecay
	}
	return nil
}

// WithSmallRatio sets the initial share of capacity given to the Small
// queue. The adaptive controller moves it within the configured bounds.
func WithSmallRatio(r float64) Option { return func(c *config) { c.ratio = r } }

// WithRatioBounds sets the clamp range for the adaptive ratio.
func WithRatioBounds(min, max float64) Option {
	return func(c *config) { c.ratioMin, c.ratioMax = min, max }
}

// WithFixedStep replaces the proportional (ARC-style) adaptation step with
// a fixed ratio delta per ghost hit.
func WithFixedStep(step float64) Option { return func(c *config) { c.step = step } }

// WithRatioDecay enables a slow pull of the ratio toward its minimum on
// every plain insert, so probation shrinks back while no ghost feedback
// arrives. Disabled by default.
func WithRatioDecay(d float64) Option { return func(c *config) { c.decay = d } }

// WithGhostFactor sizes the eviction history as a multiple of the shard
// capacity. 1.0 remembers as many keys as fit in the cache.
func WithGhostFactor(f float64) Option { return func(c *config) { c.ghostFactor = f } }

// WithAccessCap sets the saturation point of the per-entry access counter.
// A cap of 1 degenerates to a single accessed bit.
func WithAccessCap(n uint8) Option { return func(c *config) { c.accessCap = n } }

// WithGhostFromMain also records Main evictions in the history. The
// baseline records only probation casualties.
func WithGhostFromMain() Option { return func(c *config) { c.ghostFromMain = true } }

// WithDemotion sends spared Main heads back to the Small tail for another
// probation pass instead of re-queueing them inside Main.
func WithDemotion() Option { return func(c *config) { c.demote = true } }

// WithGhostSeeding starts ghost-hit admissions with a warm access counter
// (at least 1) instead of a cold one.
func WithGhostSeeding() Option { return func(c *config) { c.seedFromGhost = true } }

// WithTiebreaker injects the strategy consulted for accessed queue heads
// during victim scans. Nil keeps the deterministic default.
func WithTiebreaker(t Tiebreaker) Option {
	return func(c *config) {
		if t != nil {
			c.tiebreak = t
		}
	}
}

// WithMetrics injects an engine metrics sink. Nil keeps the no-op default.
func WithMetrics(m Metrics) Option {
	return func(c *config) {
		if m != nil {
			c.metrics = m
		}
	}
}

// New builds a policy factory from the given options. Every shard receives
// its own engine instance with independent queues, history, and adaptive
// state; instances share only the immutable configuration.
func New[K comparable, V any](opts ...Option) (policy.Policy[K, V], error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return factory[K, V]{cfg: cfg}, nil
}

// MustNew is New for wiring paths with constant options. It panics on
// invalid configuration.
func MustNew[K comparable, V any](opts ...Option) policy.Policy[K, V] {
	p, err := New[K, V](opts...)
	if err != nil {
		panic(err)
	}
	return p
}

type factory[K comparable, V any] struct{ cfg config }

func (f factory[K, V]) New(view policy.View) policy.ShardPolicy[K, V] {
	return newEngine[K, V](f.cfg, view)
}

// engine is one shard's S3-FIFO instance.
//
// Resident state:
//   - small: probationary FIFO, every first-seen key starts here
//   - main:  protected FIFO for keys with proven reuse
//   - idx:   key -> slot; each slot sits in exactly one queue
//
// Non-resident state: ghosts (bounded eviction history) feeding the
// adaptive controller and the readmission path.
//
// Concurrency: all methods are called under the shard lock, strictly
// sequentially. Nothing here is safe for concurrent use on its own.
type engine[K comparable, V any] struct {
	cfg  config
	view policy.View

	small *fifo[K, V]
	main  *fifo[K, V]
	idx   map[K]*slot[K, V]

	ghosts *ghostLog[K]
	ctl    controller
}

func newEngine[K comparable, V any](cfg config, view policy.View) *engine[K, V] {
	capacity := view.Capacity()
	if capacity < 1 {
		capacity = 1
	}
	ghostCap := int(cfg.ghostFactor * float64(capacity))
	e := &engine[K, V]{
		cfg:    cfg,
		view:   view,
		small:  newFifo[K, V](),
		main:   newFifo[K, V](),
		idx:    make(map[K]*slot[K, V], capacity),
		ghosts: newGhostLog[K](ghostCap),
		ctl:    newController(cfg),
	}
	e.cfg.metrics.SmallRatio(e.ctl.ratio)
	return e
}

// OnInsert links a freshly admitted entry. A key found in the eviction
// history skips probation and joins Main directly; that hit also feeds the
// adaptive controller, growing the queue whose history matched.
func (e *engine[K, V]) OnInsert(n policy.Node[K, V]) {
	k := n.Key()
	if s, ok := e.idx[k]; ok {
		// Insert for a key the policy already tracks: the shard and the
		// policy disagree. Keep the placement, swap the node.
		e.cfg.metrics.DesyncRepaired()
		s.node = n
		return
	}

	s := &slot[K, V]{node: n}
	if ge, ok := e.ghosts.lookup(k); ok {
		// Adapt before dropping the record so the matched side counts
		// itself (the ARC convention, and it keeps the ratio finite).
		e.ctl.onGhostHit(ge.origin, e.ghosts.lenOf(Small), e.ghosts.lenOf(Main), e.capacity())
		e.ghosts.drop(k)
		e.cfg.metrics.GhostHit(ge.origin)
		e.cfg.metrics.SmallRatio(e.ctl.ratio)

		s.seg = Main
		if e.cfg.seedFromGhost {
			s.freq = ge.level
			if s.freq < 1 {
				s.freq = 1
			}
			if s.freq > e.cfg.accessCap {
				s.freq = e.cfg.accessCap
			}
		}
		e.main.pushTail(s)
	} else {
		if e.ctl.onInsert() {
			e.cfg.metrics.SmallRatio(e.ctl.ratio)
		}
		s.seg = Small
		e.small.pushTail(s)
	}
	e.idx[k] = s
}

// OnHit bumps the entry's access counter, saturating at the configured
// cap. Queue position never changes on a hit; reordering happens lazily
// during victim scans.
func (e *engine[K, V]) OnHit(n policy.Node[K, V]) {
	s, ok := e.idx[n.Key()]
	if !ok {
		// The shard believes the key is resident but the policy lost track
		// of it. Adopt it into Main with a cold counter instead of
		// panicking; Main is neutral (no probation pressure, no adaptive
		// signal) and the repair is visible through DesyncRepaired.
		e.cfg.metrics.DesyncRepaired()
		s = &slot[K, V]{node: n, seg: Main}
		e.main.pushTail(s)
		e.idx[n.Key()] = s
		return
	}
	if s.freq < e.cfg.accessCap {
		s.freq++
	}
}

// SelectVictim runs the scan loop over the two queues and returns the
// entry that must leave. The victim stays linked: the shard deletes it
// and then confirms through OnEvictCommitted, so an aborted admission
// leaves no trace. Calling SelectVictim again without an intervening
// mutation returns the same entry.
func (e *engine[K, V]) SelectVictim(policy.Node[K, V]) (policy.Node[K, V], error) {
	for {
		if e.small.len() == 0 && e.main.len() == 0 {
			return nil, ErrEmptyQueues
		}
		// Probation is scanned while it is over target; Main otherwise.
		// Each pass either returns a victim or consumes recorded accesses,
		// so the loop is bounded by the total access count.
		if e.small.len() > e.target() || e.main.len() == 0 {
			if v := e.scanSmall(); v != nil {
				return v.node, nil
			}
		} else {
			if v := e.scanMain(); v != nil {
				return v.node, nil
			}
		}
	}
}

// scanSmall inspects the Small head. Cold heads are victims; accessed
// heads earn promotion to Main with their counter cleared.
func (e *engine[K, V]) scanSmall() *slot[K, V] {
	s := e.small.peekHead()
	if s.freq == 0 || !e.cfg.tiebreak.Spare(Small, s.freq) {
		s.freq = 0
		return s
	}
	e.small.remove(s)
	s.seg = Main
	s.freq = 0
	e.main.pushTail(s)
	e.cfg.metrics.Promotion()
	return nil
}

// scanMain inspects the Main head. Cold heads are victims; accessed heads
// are re-queued at the tail (or demoted to Small) with the counter
// decremented, so every pass over a key consumes recorded accesses.
func (e *engine[K, V]) scanMain() *slot[K, V] {
	s := e.main.peekHead()
	if s.freq == 0 || !e.cfg.tiebreak.Spare(Main, s.freq) {
		s.freq = 0
		return s
	}
	e.main.remove(s)
	s.freq--
	if e.cfg.demote {
		s.seg = Small
		e.small.pushTail(s)
		e.cfg.metrics.Demotion()
	} else {
		e.main.pushTail(s)
		e.cfg.metrics.SecondChance()
	}
	return nil
}

// OnEvictCommitted unlinks the committed victim and records it in the
// eviction history. Only now does the key become a ghost.
func (e *engine[K, V]) OnEvictCommitted(_, evicted policy.Node[K, V]) {
	k := evicted.Key()
	s, ok := e.idx[k]
	if !ok {
		// Stale commit for a key already unlinked. Nothing to do.
		e.cfg.metrics.DesyncRepaired()
		return
	}
	e.unlink(s)
	if s.seg == Small || e.cfg.ghostFromMain {
		e.ghosts.record(k, s.seg, s.freq)
	}
}

// OnRemove unlinks an entry removed by the shard itself (explicit delete,
// TTL expiry, cost pressure). Such removals say nothing about reuse
// distance, so the key does not enter the eviction history.
func (e *engine[K, V]) OnRemove(n policy.Node[K, V]) {
	s, ok := e.idx[n.Key()]
	if !ok {
		e.cfg.metrics.DesyncRepaired()
		return
	}
	e.unlink(s)
}

// Reset drops the queues, the eviction history, and the adaptive state.
// The shard clears its own table in the same operation, so afterwards the
// pair behaves exactly like a freshly constructed cache.
func (e *engine[K, V]) Reset() {
	e.small.clear()
	e.main.clear()
	clear(e.idx)
	e.ghosts.clear()
	e.ctl.reset()
	e.cfg.metrics.SmallRatio(e.ctl.ratio)
}

func (e *engine[K, V]) unlink(s *slot[K, V]) {
	if s.seg == Small {
		e.small.remove(s)
	} else {
		e.main.remove(s)
	}
	delete(e.idx, s.node.Key())
}

func (e *engine[K, V]) target() int {
	return e.ctl.target(e.capacity())
}

func (e *engine[K, V]) capacity() int {
	if c := e.view.Capacity(); c > 0 {
		return c
	}
	return 1
}
