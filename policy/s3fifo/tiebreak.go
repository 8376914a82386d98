package s3fifo

import "math/rand"

// Tiebreaker decides whether a queue head with recorded accesses is spared
// during a victim scan (promotion or second chance) or evicted despite its
// accesses. The engine consults it only for heads with a nonzero counter;
// cold heads are always victims.
type Tiebreaker interface {
	Spare(q Queue, accesses uint8) bool
}

// DeterministicTiebreaker always spares an accessed head. This is the
// classic behavior: one recorded access buys one pass through the scan.
type DeterministicTiebreaker struct{}

func (DeterministicTiebreaker) Spare(Queue, uint8) bool { return true }

// NewProbabilisticTiebreaker spares accessed heads with probability p,
// which breaks adversarial scan patterns at the cost of determinism. A nil
// src falls back to a fixed seed so replays stay reproducible.
func NewProbabilisticTiebreaker(p float64, src rand.Source) (Tiebreaker, error) {
	if p < 0 || p > 1 {
		return nil, ErrProbability
	}
	if src == nil {
		src = rand.NewSource(1)
	}
	return &probTiebreaker{p: p, rnd: rand.New(src)}, nil
}

type probTiebreaker struct {
	p   float64
	rnd *rand.Rand
}

func (t *probTiebreaker) Spare(Queue, uint8) bool {
	return t.rnd.Float64() < t.p
}
