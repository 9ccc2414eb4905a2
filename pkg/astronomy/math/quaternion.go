package math

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Quaternion is a unit rotation quaternion (W + Xi + Yj + Zk)
type Quaternion struct {
	W, X, Y, Z float64
}

// Identity is the no-op rotation
var Identity = Quaternion{W: 1}

// FromNumber converts a gonum quaternion
func FromNumber(n quat.Number) Quaternion {
	return Quaternion{W: n.Real, X: n.Imag, Y: n.Jmag, Z: n.Kmag}
}

// Number returns the gonum representation of q
func (q Quaternion) Number() quat.Number {
	return quat.Number{Real: q.W, Imag: q.X, Jmag: q.Y, Kmag: q.Z}
}

// AxisAngle builds the rotation of angle radians about axis.
// A zero axis yields Identity.
func AxisAngle(axis Vector3, angle float64) Quaternion {
	if axis.IsZero() {
		return Identity
	}
	return FromNumber(quat.Number(r3.NewRotation(angle, axis.Normalize().R3())))
}

// AxisAngleDegrees is AxisAngle with the angle in degrees
func AxisAngleDegrees(axis Vector3, degrees float64) Quaternion {
	return AxisAngle(axis, DegToRad(degrees))
}

// Mul returns the Hamilton product q*other.
// Applied to a vector, other acts first and q second, so q is the outer
// transform.
func (q Quaternion) Mul(other Quaternion) Quaternion {
	return FromNumber(quat.Mul(q.Number(), other.Number()))
}

// Conjugate returns the inverse rotation of a unit quaternion
func (q Quaternion) Conjugate() Quaternion {
	return FromNumber(quat.Conj(q.Number()))
}

// Norm returns the quaternion magnitude
func (q Quaternion) Norm() float64 {
	return quat.Abs(q.Number())
}

// Normalize rescales q to unit length; a zero quaternion becomes Identity
func (q Quaternion) Normalize() Quaternion {
	n := q.Norm()
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return Identity
	}
	return FromNumber(quat.Scale(1/n, q.Number()))
}

// Rotate applies the rotation to v
func (q Quaternion) Rotate(v Vector3) Vector3 {
	return FromR3(r3.Rotation(q.Number()).Rotate(v.R3()))
}
