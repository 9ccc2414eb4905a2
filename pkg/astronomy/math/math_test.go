package math

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"
)

const tol = 1e-12

func requireVecNear(t *testing.T, want, got Vector3) {
	t.Helper()
	require.Truef(t,
		scalar.EqualWithinAbs(want.X, got.X, tol) &&
			scalar.EqualWithinAbs(want.Y, got.Y, tol) &&
			scalar.EqualWithinAbs(want.Z, got.Z, tol),
		"want %+v, got %+v", want, got)
}

func TestVectorBasics(t *testing.T) {
	t.Parallel()

	a := Vector3{X: 1, Y: 2, Z: 3}
	b := Vector3{X: -1, Y: 0.5, Z: 2}

	requireVecNear(t, Vector3{X: 0, Y: 2.5, Z: 5}, a.Add(b))
	requireVecNear(t, Vector3{X: 2, Y: 1.5, Z: 1}, a.Sub(b))
	requireVecNear(t, Vector3{X: 2, Y: 4, Z: 6}, a.Scale(2))
	require.InDelta(t, 6.0, a.Dot(b), tol)
	requireVecNear(t, UnitZ, UnitX.Cross(UnitY))
	require.InDelta(t, 5.0, Vector3{X: 3, Z: 4}.PlanarRadius(), tol)
	require.Equal(t, Zero, Zero.Normalize())
	require.InDelta(t, 1.0, a.Normalize().Magnitude(), tol)
	require.False(t, Vector3{X: math.NaN()}.IsFinite())
}

func TestWrapDegrees(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{359.5, 359.5},
		{360, 0},
		{725, 5},
		{-30, 330},
		{-720, 0},
		{1e12 + 90, math.Mod(1e12+90, 360)},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}
	for _, c := range cases {
		got := WrapDegrees(c.in)
		require.InDelta(t, c.want, got, 1e-9, "in=%v", c.in)
		require.GreaterOrEqual(t, got, 0.0)
		require.Less(t, got, 360.0)
	}

	require.Less(t, WrapDegrees(-1e-15), 360.0)
}

func TestAxisAngleRotate(t *testing.T) {
	t.Parallel()

	q := AxisAngleDegrees(UnitY, 90)
	requireVecNear(t, Vector3{Z: -1}, q.Rotate(UnitX))
	require.InDelta(t, 1.0, q.Norm(), tol)

	require.Equal(t, Identity, AxisAngle(Zero, 1))
	requireVecNear(t, UnitX, Identity.Rotate(UnitX))
}

func TestMulAppliesInnerFirst(t *testing.T) {
	t.Parallel()

	tilt := AxisAngleDegrees(UnitX, 90)
	spin := AxisAngleDegrees(UnitY, 90)

	// spin first, then tilt
	composed := tilt.Mul(spin)
	requireVecNear(t, tilt.Rotate(spin.Rotate(UnitX)), composed.Rotate(UnitX))

	// the spin axis ends up tilted
	requireVecNear(t, tilt.Rotate(UnitY), composed.Rotate(UnitY))
}

func TestConjugateInverts(t *testing.T) {
	t.Parallel()

	q := AxisAngle(Vector3{X: 1, Y: 1, Z: 0}, 0.7)
	v := Vector3{X: 0.3, Y: -2, Z: 5}
	requireVecNear(t, v, q.Conjugate().Rotate(q.Rotate(v)))
	require.Equal(t, Identity, Quaternion{}.Normalize())
}
