// Package ratelimit spaces out outbound feed requests. Remote hosts
// throttle aggressive pollers, so every fetch path shares one Gate.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Gate enforces a minimum interval between successive acquisitions.
// A nil Gate and a zero interval both mean "no pacing".
type Gate struct {
	interval time.Duration

	mu   sync.Mutex
	next time.Time
}

// NewGate creates a Gate with the given minimum interval.
func NewGate(interval time.Duration) *Gate {
	return &Gate{interval: interval}
}

// Wait blocks until the interval since the previous acquisition has
// elapsed, or until ctx is done. Concurrent callers are serialized:
// each gets its own slot one interval after the previous one.
func (g *Gate) Wait(ctx context.Context) error {
	if g == nil || g.interval <= 0 {
		return ctx.Err()
	}

	g.mu.Lock()
	now := time.Now()
	slot := g.next
	if slot.Before(now) {
		slot = now
	}
	g.next = slot.Add(g.interval)
	g.mu.Unlock()

	return Sleep(ctx, time.Until(slot))
}

// Sleep pauses for d, returning early with the context error if ctx is
// done first. Non-positive durations return immediately.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
