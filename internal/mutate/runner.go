// Package mutate serializes entity mutations. The UI can fire overlapping
// writes for the same candidate (a rapid double-drag on the board); running
// them concurrently would interleave the read-diff-write sequence that keeps
// the timeline consistent. The runner queues mutations per key while letting
// mutations on different keys proceed in parallel, and fires invalidation
// hooks after each success so cached derivations stay honest.
package mutate

import (
	"context"
	"sync"
)

// Runner executes mutations serialized per key.
type Runner struct {
	mu           sync.Mutex
	locks        map[string]*entityLock
	hooksMu      sync.RWMutex
	invalidation []func(ctx context.Context, key string)
}

type entityLock struct {
	sem     chan struct{}
	pending int
}

func NewRunner() *Runner {
	return &Runner{locks: make(map[string]*entityLock)}
}

// OnSuccess registers a hook invoked after every successful mutation with the
// mutation's key. Hooks run on the mutating goroutine, after the key lock is
// released.
func (r *Runner) OnSuccess(hook func(ctx context.Context, key string)) {
	r.hooksMu.Lock()
	r.invalidation = append(r.invalidation, hook)
	r.hooksMu.Unlock()
}

// Pending reports how many mutations are queued or running for key.
func (r *Runner) Pending(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.locks[key]; ok {
		return l.pending
	}
	return 0
}

// Do runs fn while holding the lock for key. Mutations with the same key run
// one at a time; other keys are unaffected. The error from fn is returned
// as-is; no retry is attempted.
func (r *Runner) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	lock := r.acquireSlot(key)

	select {
	case lock.sem <- struct{}{}:
	case <-ctx.Done():
		r.releaseSlot(key)
		return ctx.Err()
	}

	err := fn(ctx)

	<-lock.sem
	r.releaseSlot(key)

	if err != nil {
		return err
	}

	r.hooksMu.RLock()
	hooks := r.invalidation
	r.hooksMu.RUnlock()
	for _, hook := range hooks {
		hook(ctx, key)
	}
	return nil
}

func (r *Runner) acquireSlot(key string) *entityLock {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[key]
	if !ok {
		lock = &entityLock{sem: make(chan struct{}, 1)}
		r.locks[key] = lock
	}
	lock.pending++
	return lock
}

func (r *Runner) releaseSlot(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[key]
	if !ok {
		return
	}
	lock.pending--
	if lock.pending <= 0 {
		delete(r.locks, key)
	}
}
