package s3fifo

import "errors"

// ErrEmptyQueues is returned by SelectVictim when the policy tracks no
// resident entries while the shard demands a victim.
var ErrEmptyQueues = errors.New("s3fifo: both queues empty, nothing to evict")

// Configuration errors returned by New.
var (
	ErrRatioBounds = errors.New("s3fifo: ratio bounds must satisfy 0 < min <= ratio <= max <= 1")
	ErrGhostFactor = errors.New("s3fifo: ghost factor must be positive")
	ErrAccessCap   = errors.New("s3fifo: access cap must be at least 1")
	ErrStep        = errors.New("s3fifo: adaptive step must be in [0, 1]")
	ErrDecay       = errors.New("s3fifo: ratio decay must be in [0, 1)")
	ErrProbability = errors.New("s3fifo: spare probability must be in [0, 1]")
)
