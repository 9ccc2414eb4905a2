package clock

import "time"

// DefaultMaxStep caps a single step after a long stall (debugger, suspend)
const DefaultMaxStep = 250 * time.Millisecond

// FrameTimer turns successive time readings into per-frame deltas
type FrameTimer struct {
	provider TimeProvider
	last     time.Time
	maxStep  time.Duration
	started  bool
}

// NewFrameTimer creates a timer; a nil provider uses the monotonic clock.
// maxStep <= 0 disables the cap.
func NewFrameTimer(provider TimeProvider, maxStep time.Duration) *FrameTimer {
	if provider == nil {
		provider = NewMonotonicTimeProvider()
	}
	return &FrameTimer{provider: provider, maxStep: maxStep}
}

// Delta returns seconds elapsed since the previous call.
// The first call returns 0, as does any backwards reading.
func (f *FrameTimer) Delta() float64 {
	now := f.provider.Now()
	if !f.started {
		f.started = true
		f.last = now
		return 0
	}

	d := now.Sub(f.last)
	f.last = now
	if d <= 0 {
		return 0
	}
	if f.maxStep > 0 && d > f.maxStep {
		d = f.maxStep
	}
	return d.Seconds()
}

// Restart forgets the previous reading so the next Delta returns 0
func (f *FrameTimer) Restart() {
	f.started = false
}
