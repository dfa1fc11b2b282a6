// Package faults emulates flaky network conditions for UI development and
// testing. The injector sits behind an interface and is applied as HTTP
// middleware only; services never see it. Production runs Disabled.
package faults

import (
	"context"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"talentflow-backend/internal/shared/server/respond"
)

// Injector decides whether a write request should be delayed or failed.
type Injector interface {
	// Delay blocks for an artificial latency period, or until ctx is done.
	Delay(ctx context.Context)
	// ShouldFail reports whether the request should fail with a transient
	// error. path is the matched route path.
	ShouldFail(method, path string) bool
}

// Disabled injects nothing.
type Disabled struct{}

func (Disabled) Delay(ctx context.Context)           {}
func (Disabled) ShouldFail(method, path string) bool { return false }

// Random reproduces the original mock transport's behavior: 200-1200ms delay
// on every request through the middleware, 8% failure on writes, 10% on job
// reorder.
type Random struct {
	MinDelay           time.Duration
	MaxDelay           time.Duration
	WriteFailureRate   float64
	ReorderFailureRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom seeds a Random injector. Pass the same seed to make a test run
// reproducible.
func NewRandom(seed int64) *Random {
	return &Random{
		MinDelay:           200 * time.Millisecond,
		MaxDelay:           1200 * time.Millisecond,
		WriteFailureRate:   0.08,
		ReorderFailureRate: 0.10,
		rng:                rand.New(rand.NewSource(seed)),
	}
}

func (r *Random) Delay(ctx context.Context) {
	span := r.MaxDelay - r.MinDelay
	if span < 0 {
		span = 0
	}
	r.mu.Lock()
	d := r.MinDelay
	if span > 0 {
		d += time.Duration(r.rng.Int63n(int64(span)))
	}
	r.mu.Unlock()

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (r *Random) ShouldFail(method, path string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return false
	}
	rate := r.WriteFailureRate
	if strings.HasSuffix(path, "/reorder") {
		rate = r.ReorderFailureRate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64() < rate
}

// Middleware applies the injector to every request that reaches it. Reads
// only get latency; failures are confined to writes by ShouldFail.
func Middleware(inj Injector) gin.HandlerFunc {
	return func(c *gin.Context) {
		inj.Delay(c.Request.Context())
		if inj.ShouldFail(c.Request.Method, c.FullPath()) {
			respond.Error(c, http.StatusServiceUnavailable, respond.CodeTransient, "simulated transient failure", nil)
			return
		}
		c.Next()
	}
}
