package kinematics

import "math"

// Params are the visual mapping constants of the orrery. They are tuning
// values for presentation, not physical constants.
type Params struct {
	OrbitRate       float64 // radians per orbit-second per unit of orbit speed
	DistanceScale   float64 // world units per catalog distance unit
	CenterBaseScale float64 // render scale of the center body at scale 1
	BaseSize        float64 // minimum render scale of an orbiting body
	SizeFactor      float64 // render scale added per unit of body radius
	SelectedSwell   float64 // scale multiplier of the selected body, >= 1
}

// DefaultParams returns the reference tuning
func DefaultParams() Params {
	return Params{
		OrbitRate:       0.3,
		DistanceScale:   0.1,
		CenterBaseScale: 0.5,
		BaseSize:        0.1,
		SizeFactor:      0.2,
		SelectedSwell:   1.5,
	}
}

// Sanitize replaces unusable values with their defaults
func (p Params) Sanitize() Params {
	d := DefaultParams()
	fix := func(v *float64, def float64, ok func(float64) bool) {
		if math.IsNaN(*v) || math.IsInf(*v, 0) || !ok(*v) {
			*v = def
		}
	}
	unbounded := func(float64) bool { return true }
	positive := func(v float64) bool { return v > 0 }
	nonNegative := func(v float64) bool { return v >= 0 }

	fix(&p.OrbitRate, d.OrbitRate, unbounded)
	fix(&p.DistanceScale, d.DistanceScale, positive)
	fix(&p.CenterBaseScale, d.CenterBaseScale, positive)
	fix(&p.BaseSize, d.BaseSize, nonNegative)
	fix(&p.SizeFactor, d.SizeFactor, nonNegative)
	fix(&p.SelectedSwell, d.SelectedSwell, func(v float64) bool { return v >= 1 })
	return p
}
