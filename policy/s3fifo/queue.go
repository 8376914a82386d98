package s3fifo

import (
	"container/list"

	"github.com/go-adaptq/adaptq/policy"
)

// Queue identifies one of the two resident queues. It doubles as the origin
// tag on eviction-history entries and as the context handed to a Tiebreaker.
type Queue uint8

const (
	// Small is the probationary queue: every first-seen key starts here.
	Small Queue = iota
	// Main is the protected queue for keys that proved reuse.
	Main
)

func (q Queue) String() string {
	if q == Small {
		return "small"
	}
	return "main"
}

// slot is the policy-side record of one resident entry. Exactly one slot
// exists per resident key, linked into exactly one queue; the seg tag names
// which, so the queues stay disjoint by construction.
type slot[K comparable, V any] struct {
	node policy.Node[K, V]
	elem *list.Element // element inside the owning queue, Value is *slot
	seg  Queue
	freq uint8 // saturating access counter, consumed by victim scans
}

// fifo is an insertion-ordered queue of slots. The head (oldest entry, next
// scan candidate) sits at Front; new entries join at the tail. Hits never
// reorder a fifo: position changes only when a scan promotes, re-queues, or
// demotes a head.
type fifo[K comparable, V any] struct {
	ll *list.List
}

func newFifo[K comparable, V any]() *fifo[K, V] {
	return &fifo[K, V]{ll: list.New()}
}

func (f *fifo[K, V]) pushTail(s *slot[K, V]) {
	s.elem = f.ll.PushBack(s)
}

// peekHead returns the oldest slot without unlinking it, or nil when empty.
func (f *fifo[K, V]) peekHead() *slot[K, V] {
	el := f.ll.Front()
	if el == nil {
		return nil
	}
	return el.Value.(*slot[K, V])
}

func (f *fifo[K, V]) remove(s *slot[K, V]) {
	f.ll.Remove(s.elem)
	s.elem = nil
}

func (f *fifo[K, V]) len() int { return f.ll.Len() }

func (f *fifo[K, V]) clear() { f.ll.Init() }
