package math

import "math"

// DegToRad converts degrees to radians
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// WrapDegrees maps any finite angle into [0, 360).
// Non-finite input maps to 0.
func WrapDegrees(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	w := math.Mod(deg, 360)
	if w < 0 {
		w += 360
	}
	// -tiny + 360 rounds to 360
	if w >= 360 {
		w = 0
	}
	return w
}
