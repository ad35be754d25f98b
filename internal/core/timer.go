package core

import "time"

// FixedStep converts wall-clock frame deltas into whole simulation ticks. The
// leftover fraction of a tick is exposed as Alpha for render interpolation.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
func NewFixedStep(tps int) *FixedStep {
	fs := &FixedStep{now: time.Now}
	fs.SetTPS(tps)
	return fs
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// SetClock replaces the wall clock, mainly for tests.
func (f *FixedStep) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	f.now = now
	f.last = time.Time{}
}

// Step returns the duration of one tick.
func (f *FixedStep) Step() time.Duration { return f.step }

// Advance samples the clock, adds the elapsed time to the accumulator and
// returns how many whole ticks are due. Ticks are never dropped: a slow frame
// yields several ticks.
func (f *FixedStep) Advance() int {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	if delta > 0 {
		f.accumulator += delta
	}
	if f.step <= 0 {
		return 0
	}
	n := int(f.accumulator / f.step)
	f.accumulator -= time.Duration(n) * f.step
	return n
}

// Drain advances the clock and calls tick once per due tick.
func (f *FixedStep) Drain(tick func()) int {
	n := f.Advance()
	for i := 0; i < n; i++ {
		tick()
	}
	return n
}

// Alpha reports the fraction of a tick left in the accumulator, in [0, 1).
func (f *FixedStep) Alpha() float64 {
	if f.step <= 0 {
		return 0
	}
	a := float64(f.accumulator) / float64(f.step)
	if a < 0 {
		return 0
	}
	if a >= 1 {
		return 0.999999
	}
	return a
}

// Reset discards accumulated time, e.g. after a pause or a scene change.
func (f *FixedStep) Reset() {
	f.accumulator = 0
	f.last = time.Time{}
}
