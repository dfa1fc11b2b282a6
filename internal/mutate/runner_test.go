package mutate_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"talentflow-backend/internal/mutate"
)

func TestDoSerializesSameKey(t *testing.T) {
	runner := mutate.NewRunner()

	var inFlight int32
	var maxInFlight int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = runner.Do(context.Background(), "candidate:1", func(ctx context.Context) error {
				n := atomic.AddInt32(&inFlight, 1)
				for {
					max := atomic.LoadInt32(&maxInFlight)
					if n <= max || atomic.CompareAndSwapInt32(&maxInFlight, max, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inFlight, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&maxInFlight); got != 1 {
		t.Fatalf("same-key mutations overlapped: max in flight = %d", got)
	}
}

func TestDoAllowsDifferentKeysToOverlap(t *testing.T) {
	runner := mutate.NewRunner()

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = runner.Do(context.Background(), "candidate:1", func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	done := make(chan error, 1)
	go func() {
		done <- runner.Do(context.Background(), "candidate:2", func(ctx context.Context) error {
			return nil
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unrelated key mutation failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("mutation on a different key blocked")
	}
	close(release)
}

func TestDoReturnsFnError(t *testing.T) {
	runner := mutate.NewRunner()
	sentinel := errors.New("boom")

	var hookCalls int32
	runner.OnSuccess(func(ctx context.Context, key string) {
		atomic.AddInt32(&hookCalls, 1)
	})

	err := runner.Do(context.Background(), "candidate:3", func(ctx context.Context) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	if atomic.LoadInt32(&hookCalls) != 0 {
		t.Fatalf("invalidation hook must not fire on failure")
	}
}

func TestOnSuccessHookReceivesKey(t *testing.T) {
	runner := mutate.NewRunner()

	var got string
	runner.OnSuccess(func(ctx context.Context, key string) {
		got = key
	})

	if err := runner.Do(context.Background(), "candidate:9", func(ctx context.Context) error {
		return nil
	}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if got != "candidate:9" {
		t.Fatalf("hook key = %q, want candidate:9", got)
	}
}

func TestPendingCountsQueuedMutations(t *testing.T) {
	runner := mutate.NewRunner()

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = runner.Do(context.Background(), "job:1", func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	if got := runner.Pending("job:1"); got != 1 {
		t.Fatalf("Pending = %d, want 1", got)
	}
	if got := runner.Pending("job:2"); got != 0 {
		t.Fatalf("Pending for idle key = %d, want 0", got)
	}
	close(release)
}

func TestDoHonorsContextWhileQueued(t *testing.T) {
	runner := mutate.NewRunner()

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = runner.Do(context.Background(), "candidate:5", func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runner.Do(ctx, "candidate:5", func(ctx context.Context) error {
			return nil
		})
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("queued mutation did not observe cancellation")
	}
	close(release)
}
