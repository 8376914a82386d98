package s3fifo

// controller owns the adaptive share of capacity granted to the Small
// queue. A hit on Small-origin history means probation evicted a key that
// came back, so probation grows; a hit on Main-origin history argues the
// opposite. The step per hit is either fixed or proportional to the
// opposing history sizes (the ARC rule), always clamped to [min, max].
type controller struct {
	ratio   float64
	initial float64
	min     float64
	max     float64
	step    float64 // fixed step per ghost hit; 0 selects the proportional rule
	decay   float64 // per-insert pull toward min; 0 disables
}

func newController(cfg config) controller {
	return controller{
		ratio:   cfg.ratio,
		initial: cfg.ratio,
		min:     cfg.ratioMin,
		max:     cfg.ratioMax,
		step:    cfg.step,
		decay:   cfg.decay,
	}
}

// target converts the ratio into a Small queue size target for the given
// capacity. Never below one entry, so probation cannot starve entirely.
func (c *controller) target(capacity int) int {
	t := int(c.ratio * float64(capacity))
	if t < 1 {
		t = 1
	}
	return t
}

// onGhostHit nudges the ratio toward the queue whose history matched.
// Ghost counts are sampled before the matched record is dropped, so the
// matched side is never zero.
func (c *controller) onGhostHit(origin Queue, smallGhosts, mainGhosts, capacity int) {
	if capacity < 1 {
		capacity = 1
	}
	step := c.step
	if step == 0 {
		this, other := smallGhosts, mainGhosts
		if origin == Main {
			this, other = mainGhosts, smallGhosts
		}
		units := 1.0
		if this > 0 && other > this {
			units = float64(other) / float64(this)
		}
		step = units / float64(capacity)
	}
	if origin == Small {
		c.ratio += step
	} else {
		c.ratio -= step
	}
	c.clamp()
}

// onInsert applies the optional idle decay that pulls the ratio back toward
// its minimum while no ghost feedback arrives. Reports whether it moved.
func (c *controller) onInsert() bool {
	if c.decay == 0 || c.ratio <= c.min {
		return false
	}
	c.ratio -= c.decay
	c.clamp()
	return true
}

func (c *controller) clamp() {
	if c.ratio < c.min {
		c.ratio = c.min
	} else if c.ratio > c.max {
		c.ratio = c.max
	}
}

func (c *controller) reset() {
	c.ratio = c.initial
}
