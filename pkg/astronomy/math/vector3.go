package math

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vector3 represents a point or direction in orrery space.
// Y is the orbit-plane normal; bodies revolve in the X/Z plane.
type Vector3 struct {
	X, Y, Z float64
}

// Zero is the origin.
var Zero = Vector3{}

// Axis unit vectors
var (
	UnitX = Vector3{X: 1}
	UnitY = Vector3{Y: 1}
	UnitZ = Vector3{Z: 1}
)

// FromR3 converts a gonum vector
func FromR3(v r3.Vec) Vector3 {
	return Vector3{X: v.X, Y: v.Y, Z: v.Z}
}

// R3 returns the gonum representation of v
func (v Vector3) R3() r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

// Add returns the sum of two vectors
func (v Vector3) Add(other Vector3) Vector3 {
	return FromR3(r3.Add(v.R3(), other.R3()))
}

// Sub returns the difference between two vectors
func (v Vector3) Sub(other Vector3) Vector3 {
	return FromR3(r3.Sub(v.R3(), other.R3()))
}

// Scale returns the vector scaled by a scalar
func (v Vector3) Scale(s float64) Vector3 {
	return FromR3(r3.Scale(s, v.R3()))
}

// Dot returns the dot product of two vectors
func (v Vector3) Dot(other Vector3) float64 {
	return r3.Dot(v.R3(), other.R3())
}

// Cross returns the cross product of two vectors
func (v Vector3) Cross(other Vector3) Vector3 {
	return FromR3(r3.Cross(v.R3(), other.R3()))
}

// Magnitude returns the length of the vector
func (v Vector3) Magnitude() float64 {
	return r3.Norm(v.R3())
}

// Normalize returns a unit vector in the same direction.
// The zero vector is returned unchanged.
func (v Vector3) Normalize() Vector3 {
	if v.IsZero() {
		return v
	}
	return FromR3(r3.Unit(v.R3()))
}

// Distance returns the distance between two vectors
func (v Vector3) Distance(other Vector3) float64 {
	return v.Sub(other).Magnitude()
}

// PlanarRadius returns the distance from the Y axis, i.e. the orbit radius
// of a point in the X/Z plane.
func (v Vector3) PlanarRadius() float64 {
	return math.Hypot(v.X, v.Z)
}

// IsZero checks if the vector is zero
func (v Vector3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// IsFinite reports whether every component is a finite number
func (v Vector3) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
