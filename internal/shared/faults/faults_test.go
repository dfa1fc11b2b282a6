package faults

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestRandomNeverFailsReads(t *testing.T) {
	inj := NewRandom(1)
	inj.WriteFailureRate = 1.0
	for i := 0; i < 100; i++ {
		if inj.ShouldFail(http.MethodGet, "/api/candidates") {
			t.Fatalf("GET should never fail")
		}
	}
}

func TestRandomFailureRateBounds(t *testing.T) {
	inj := NewRandom(42)
	const n = 5000
	failures := 0
	for i := 0; i < n; i++ {
		if inj.ShouldFail(http.MethodPatch, "/api/candidates/:id") {
			failures++
		}
	}
	rate := float64(failures) / n
	if rate < 0.05 || rate > 0.12 {
		t.Fatalf("write failure rate %.3f outside expected band around 0.08", rate)
	}
}

func TestRandomReorderRateHigher(t *testing.T) {
	inj := NewRandom(7)
	inj.WriteFailureRate = 0
	inj.ReorderFailureRate = 1.0
	if !inj.ShouldFail(http.MethodPatch, "/api/jobs/:id/reorder") {
		t.Fatalf("reorder should use its own failure rate")
	}
	if inj.ShouldFail(http.MethodPatch, "/api/jobs/:id") {
		t.Fatalf("plain update should use the write rate")
	}
}

func TestDelayRespectsContext(t *testing.T) {
	inj := NewRandom(1)
	inj.MinDelay = time.Hour
	inj.MaxDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	inj.Delay(ctx)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Delay ignored context cancellation, took %v", elapsed)
	}
}

func TestDisabledInjectsNothing(t *testing.T) {
	var inj Disabled
	if inj.ShouldFail(http.MethodPost, "/api/candidates") {
		t.Fatalf("Disabled must never fail")
	}
	start := time.Now()
	inj.Delay(context.Background())
	if time.Since(start) > 50*time.Millisecond {
		t.Fatalf("Disabled must not delay")
	}
}
