// Package s3fifo implements an adaptive segmented-FIFO eviction policy in
// the S3-FIFO family: two resident FIFO queues plus a bounded eviction
// history, with the probation share of capacity tuned by ARC-style
// feedback.
//
// Design
//
//   - Queues: first-seen keys enter the Small (probationary) queue. Hits
//     never reorder anything; they only bump a saturating per-entry access
//     counter. All reordering happens lazily during victim scans.
//
//   - Scans: when the container needs a victim, the engine walks queue
//     heads. An accessed Small head is promoted to Main; an accessed Main
//     head is re-queued at the tail with its counter decremented; the
//     first cold head is the victim. Each spared head consumes recorded
//     accesses, so a scan terminates after at most one pass plus the total
//     access count.
//
//   - History: keys evicted from probation leave a ghost record. Inserting
//     a key with a live ghost admits it straight into Main and nudges the
//     adaptive ratio toward the queue that evicted it too early.
//
//   - Adaptation: the Small share of capacity moves inside configurable
//     bounds, by a fixed step or proportionally to the opposing history
//     sizes (the ARC rule). The size target never drops below one entry.
//
//   - Variants: demotion of spared Main heads, Main-origin ghosts, warm
//     readmission, and probabilistic sparing are all available as Options.
//
// The package exposes a policy.Policy factory; each cache shard gets an
// independent engine instance. See the policy package for the hook
// protocol the container drives.
//
// Basic usage
//
//	c := cache.New[string, []byte](cache.Options[string, []byte]{
//	    Capacity: 10_000,
//	    Policy:   s3fifo.MustNew[string, []byte](),
//	})
//
// Tuning
//
//	pol, err := s3fifo.New[string, []byte](
//	    s3fifo.WithSmallRatio(0.25),
//	    s3fifo.WithRatioBounds(0.05, 0.75),
//	    s3fifo.WithGhostFactor(2.0),
//	    s3fifo.WithAccessCap(1), // degenerate to a single accessed bit
//	)
package s3fifo
