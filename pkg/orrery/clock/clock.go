package clock

import (
	"math"
	"time"
)

// SimulationClock accumulates the two independent simulation clocks.
// SpinTime tracks wall time and keeps running while paused; OrbitTime
// follows the signed playback speed and freezes while paused.
type SimulationClock struct {
	OrbitTime float64 // seconds, signed
	SpinTime  float64 // seconds, non-decreasing
}

// Tick advances both clocks by dt seconds.
// Negative or non-finite dt counts as zero.
func (c *SimulationClock) Tick(dt float64, paused bool, speed float64) {
	dt = sanitizeStep(dt)
	if dt == 0 {
		return
	}
	c.SpinTime += dt
	if !paused && !math.IsNaN(speed) && !math.IsInf(speed, 0) {
		c.OrbitTime += dt * speed
	}
}

// Advance is Tick with a duration
func (c *SimulationClock) Advance(d time.Duration, paused bool, speed float64) {
	c.Tick(d.Seconds(), paused, speed)
}

// Reset zeroes both clocks; used only when a session restarts
func (c *SimulationClock) Reset() {
	c.OrbitTime = 0
	c.SpinTime = 0
}

func sanitizeStep(dt float64) float64 {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return 0
	}
	return dt
}
