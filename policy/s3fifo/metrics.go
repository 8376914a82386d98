package s3fifo

// Metrics exposes engine-level observability hooks. All calls happen under
// the owning shard's lock; implementations must be cheap and non-blocking.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	// GhostHit counts an admission whose key matched eviction history;
	// q names the queue the key was originally evicted from.
	GhostHit(q Queue)
	// Promotion counts a Small head moved to Main during a victim scan.
	Promotion()
	// SecondChance counts a Main head re-queued at the tail during a scan.
	SecondChance()
	// Demotion counts a Main head moved back to Small (demotion variant).
	Demotion()
	// DesyncRepaired counts self-healed container/policy disagreements.
	DesyncRepaired()
	// SmallRatio reports the adaptive ratio after every change.
	SmallRatio(r float64)
}

// NoopMetrics is a drop-in Metrics implementation that does nothing.
type NoopMetrics struct{}

func (NoopMetrics) GhostHit(Queue)     {}
func (NoopMetrics) Promotion()         {}
func (NoopMetrics) SecondChance()      {}
func (NoopMetrics) Demotion()          {}
func (NoopMetrics) DesyncRepaired()    {}
func (NoopMetrics) SmallRatio(float64) {}

// Ensure NoopMetrics implements the Metrics interface at compile time.
var _ Metrics = NoopMetrics{}
