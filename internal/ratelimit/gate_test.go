package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/ChadFarrow/feedctl/internal/ratelimit"
)

func TestGate_EnforcesInterval(t *testing.T) {
	g := ratelimit.NewGate(30 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := g.Wait(ctx); err != nil {
			t.Fatalf("Wait %d: %v", i, err)
		}
	}
	elapsed := time.Since(start)

	// First acquisition is immediate, the next two each wait a slot.
	if elapsed < 60*time.Millisecond {
		t.Errorf("three acquisitions took %v, want >= 60ms", elapsed)
	}
}

func TestGate_CanceledContext(t *testing.T) {
	g := ratelimit.NewGate(time.Minute)
	ctx := context.Background()

	if err := g.Wait(ctx); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()

	start := time.Now()
	err := g.Wait(canceled)
	if err == nil {
		t.Fatal("expected context error")
	}
	if time.Since(start) > time.Second {
		t.Error("canceled Wait did not return promptly")
	}
}

func TestGate_NilAndZero(t *testing.T) {
	ctx := context.Background()

	var nilGate *ratelimit.Gate
	if err := nilGate.Wait(ctx); err != nil {
		t.Errorf("nil gate: %v", err)
	}
	if err := ratelimit.NewGate(0).Wait(ctx); err != nil {
		t.Errorf("zero interval: %v", err)
	}
}

func TestSleep_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := ratelimit.Sleep(ctx, time.Minute); err == nil {
		t.Error("expected context error")
	}
}
