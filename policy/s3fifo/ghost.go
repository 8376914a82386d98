package s3fifo

import "container/list"

// ghostEntry is the non-resident history record left behind by an evicted
// key. It holds no value and is invisible to lookups; it exists to tell a
// future insert of the same key that probation (or protection) failed it.
type ghostEntry[K comparable] struct {
	key    K
	origin Queue // queue the key was evicted from
	level  uint8 // access count remaining at eviction time
}

// ghostLog is a bounded FIFO of ghostEntry records with at most one entry
// per key. Overflow drops the oldest record. Per-origin counts are kept so
// the adaptive controller can weigh one history against the other.
type ghostLog[K comparable] struct {
	capacity int
	ll       *list.List // element.Value is ghostEntry[K]; Front is oldest
	idx      map[K]*list.Element

	nSmall int
	nMain  int
}

func newGhostLog[K comparable](capacity int) *ghostLog[K] {
	if capacity < 1 {
		capacity = 1
	}
	return &ghostLog[K]{
		capacity: capacity,
		ll:       list.New(),
		idx:      make(map[K]*list.Element),
	}
}

// lookup returns the history entry for k without removing it.
func (g *ghostLog[K]) lookup(k K) (ghostEntry[K], bool) {
	if el, ok := g.idx[k]; ok {
		return el.Value.(ghostEntry[K]), true
	}
	return ghostEntry[K]{}, false
}

// record inserts or refreshes the entry for k, then enforces the bound by
// dropping oldest records.
func (g *ghostLog[K]) record(k K, origin Queue, level uint8) {
	if el, ok := g.idx[k]; ok {
		g.unlink(el)
	}
	g.idx[k] = g.ll.PushBack(ghostEntry[K]{key: k, origin: origin, level: level})
	g.count(origin, +1)
	for g.ll.Len() > g.capacity {
		g.unlink(g.ll.Front())
	}
}

// drop removes the entry for k, if any.
func (g *ghostLog[K]) drop(k K) {
	if el, ok := g.idx[k]; ok {
		g.unlink(el)
	}
}

func (g *ghostLog[K]) unlink(el *list.Element) {
	e := el.Value.(ghostEntry[K])
	g.ll.Remove(el)
	delete(g.idx, e.key)
	g.count(e.origin, -1)
}

func (g *ghostLog[K]) count(origin Queue, d int) {
	if origin == Small {
		g.nSmall += d
	} else {
		g.nMain += d
	}
}

func (g *ghostLog[K]) len() int { return g.ll.Len() }

// lenOf returns how many live records originate from the given queue.
func (g *ghostLog[K]) lenOf(q Queue) int {
	if q == Small {
		return g.nSmall
	}
	return g.nMain
}

func (g *ghostLog[K]) clear() {
	g.ll.Init()
	clear(g.idx)
	g.nSmall, g.nMain = 0, 0
}
