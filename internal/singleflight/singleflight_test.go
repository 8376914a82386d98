package singleflight

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

// Concurrent Do calls for the same key run fn exactly once and share the
// leader's result.
func TestDo_CoalescesWaiters(t *testing.T) {
	t.Parallel()

	var g Group[string, string]
	var calls atomic.Int64
	entered := make(chan struct{})
	release := make(chan struct{})

	var eg errgroup.Group
	eg.Go(func() error {
		v, err := g.Do(context.Background(), "k", func() (string, error) {
			calls.Add(1)
			close(entered)
			<-release
			return "v:k", nil
		})
		if err != nil || v != "v:k" {
			return fmt.Errorf("leader: v=%q err=%v", v, err)
		}
		return nil
	})
	<-entered

	for i := 0; i < 8; i++ {
		eg.Go(func() error {
			v, err := g.Do(context.Background(), "k", func() (string, error) {
				calls.Add(1)
				return "v:k", nil
			})
			if err != nil || v != "v:k" {
				return fmt.Errorf("follower: v=%q err=%v", v, err)
			}
			return nil
		})
	}
	time.Sleep(10 * time.Millisecond) // let followers join the flight
	close(release)

	if err := eg.Wait(); err != nil {
		t.Fatal(err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("fn must run exactly once, got %d", got)
	}
}

// Cancelling a follower's context unblocks only that follower; the leader
// keeps running and still publishes its result.
func TestDo_FollowerCancelUnblocks(t *testing.T) {
	t.Parallel()

	var g Group[string, int]
	entered := make(chan struct{})
	release := make(chan struct{})
	leaderDone := make(chan struct{})

	go func() {
		defer close(leaderDone)
		v, err := g.Do(context.Background(), "k", func() (int, error) {
			close(entered)
			<-release
			return 1, nil
		})
		if err != nil || v != 1 {
			t.Errorf("leader: v=%d err=%v", v, err)
		}
	}()
	<-entered

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Do(ctx, "k", func() (int, error) { return 2, nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}

	close(release)
	<-leaderDone
}

// A panicking leader abandons the flight: waiters observe ErrAbandoned,
// the panic propagates in the leader, and the next Do for the key starts
// a fresh flight instead of blocking.
func TestDo_PanicAbandonsFlight(t *testing.T) {
	t.Parallel()

	var g Group[string, int]
	entered := make(chan struct{})
	waiterErr := make(chan error, 1)

	go func() {
		<-entered
		_, err := g.Do(context.Background(), "k", func() (int, error) { return 2, nil })
		waiterErr <- err
	}()

	func() {
		defer func() {
			if recover() == nil {
				t.Error("panic must propagate in the leader")
			}
		}()
		_, _ = g.Do(context.Background(), "k", func() (int, error) {
			close(entered)
			time.Sleep(50 * time.Millisecond) // let the waiter join
			panic("boom")
		})
	}()

	if err := <-waiterErr; !errors.Is(err, ErrAbandoned) {
		t.Fatalf("waiter: want ErrAbandoned, got %v", err)
	}

	v, err := g.Do(context.Background(), "k", func() (int, error) { return 3, nil })
	if err != nil || v != 3 {
		t.Fatalf("flight after panic must run fresh: v=%d err=%v", v, err)
	}
}
