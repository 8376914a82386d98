// Package singleflight coalesces concurrent calls for the same key so the
// underlying work runs at most once. Unlike golang.org/x/sync/singleflight
// the group is generic: keys stay comparable values (no string conversion)
// and results are typed (no interface boxing).
package singleflight

import (
	"context"
	"errors"
	"sync"
)

// ErrAbandoned is observed by waiters when the leader's fn panicked before
// publishing a result. The panic itself propagates in the leader.
var ErrAbandoned = errors.New("singleflight: leader aborted without a result")

// Group coalesces concurrent Do calls per key. The first caller for a key
// becomes the leader and runs fn; everyone else waits for the shared
// result. The zero value is ready to use.
type Group[K comparable, V any] struct {
	mu sync.Mutex
	m  map[K]*flight[V]
}

// flight is one in-progress call. val/err are written once by the leader
// before done is closed, so reads after <-done observe the final values.
type flight[V any] struct {
	done chan struct{}
	val  V
	err  error
}

// Do runs fn once for the given key; concurrent callers share the result.
// A follower whose ctx is cancelled unblocks with ctx.Err() while the
// leader keeps running. Cancelling the work itself is fn's job: thread ctx
// into fn and handle it there.
func (g *Group[K, V]) Do(ctx context.Context, key K, fn func() (V, error)) (V, error) {
	g.mu.Lock()
	if g.m == nil {
		g.m = make(map[K]*flight[V])
	}
	if f, ok := g.m[key]; ok {
		g.mu.Unlock()
		return g.wait(ctx, f)
	}
	f := &flight[V]{done: make(chan struct{}), err: ErrAbandoned}
	g.m[key] = f
	g.mu.Unlock()

	return g.lead(key, f, fn)
}

// lead runs fn and publishes the result. The in-flight marker is removed
// and done is closed even when fn panics, so waiters see ErrAbandoned and
// later callers start a fresh flight instead of blocking forever.
func (g *Group[K, V]) lead(key K, f *flight[V], fn func() (V, error)) (V, error) {
	defer func() {
		g.mu.Lock()
		delete(g.m, key)
		g.mu.Unlock()
		close(f.done)
	}()

	f.val, f.err = fn()
	return f.val, f.err
}

func (g *Group[K, V]) wait(ctx context.Context, f *flight[V]) (V, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}
