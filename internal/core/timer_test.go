package core

import (
	"math"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestFixedStepDrainsWholeTicks(t *testing.T) {
	clock := &fakeClock{t: time.Unix(100, 0)}
	fs := NewFixedStep(100)
	fs.SetClock(clock.now)

	if n := fs.Advance(); n != 0 {
		t.Fatalf("first advance = %d ticks, want 0", n)
	}

	clock.advance(25 * time.Millisecond)
	if n := fs.Advance(); n != 2 {
		t.Fatalf("25ms at 100tps = %d ticks, want 2", n)
	}
	if a := fs.Alpha(); math.Abs(a-0.5) > 1e-9 {
		t.Fatalf("alpha = %f, want 0.5", a)
	}

	clock.advance(5 * time.Millisecond)
	if n := fs.Advance(); n != 1 {
		t.Fatalf("leftover + 5ms = %d ticks, want 1", n)
	}
	if a := fs.Alpha(); a != 0 {
		t.Fatalf("alpha = %f, want 0", a)
	}
}

func TestFixedStepSlowFrameNeverSkips(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	fs := NewFixedStep(120)
	fs.SetClock(clock.now)
	fs.Advance()

	clock.advance(time.Second)
	calls := 0
	if n := fs.Drain(func() { calls++ }); n != 120 || calls != 120 {
		t.Fatalf("one second at 120tps drained n=%d calls=%d, want 120", n, calls)
	}
}

func TestFixedStepResetDropsBacklog(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	fs := NewFixedStep(60)
	fs.SetClock(clock.now)
	fs.Advance()
	clock.advance(10 * time.Millisecond)
	fs.Advance()
	fs.Reset()
	if a := fs.Alpha(); a != 0 {
		t.Fatalf("alpha after reset = %f, want 0", a)
	}
	clock.advance(time.Hour)
	if n := fs.Advance(); n != 0 {
		t.Fatalf("first advance after reset = %d, want 0", n)
	}
}
