package kinematics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/oxygene76/orrery/pkg/astronomy/catalog"
	astromath "github.com/oxygene76/orrery/pkg/astronomy/math"
	"github.com/oxygene76/orrery/pkg/orrery/clock"
	"github.com/oxygene76/orrery/pkg/orrery/control"
)

const tol = 1e-9

func unitParams() Params {
	p := DefaultParams()
	p.DistanceScale = 1
	return p
}

func finishedState() control.State {
	return control.State{Speed: 1, Scale: 1, Phase: control.PhaseFinished}
}

func requireNear(t *testing.T, want, got float64, msgAndArgs ...any) {
	t.Helper()
	require.Truef(t, scalar.EqualWithinAbsOrRel(want, got, tol, tol), "want %v, got %v %v", want, got, msgAndArgs)
}

func TestGoldenOrbitPosition(t *testing.T) {
	t.Parallel()

	e := NewEngine(unitParams())
	b := catalog.Body{ID: "probe", OrbitDistance: 10, OrbitSpeed: 2}

	require.InDelta(t, 0.6, e.OrbitAngle(b, 1.0), tol)

	pos := e.Position(b, 1.0, 1)
	requireNear(t, 10*math.Cos(0.6), pos.X)
	require.Zero(t, pos.Y)
	requireNear(t, 10*math.Sin(0.6), pos.Z)
}

func TestDistanceScaleApplies(t *testing.T) {
	t.Parallel()

	e := NewEngine(DefaultParams())
	b := catalog.Body{ID: "probe", OrbitDistance: 10, OrbitSpeed: 2}
	require.InDelta(t, 1.0, e.Position(b, 1.0, 1).PlanarRadius(), tol)
}

func TestSpinAngleAlwaysWrapped(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	for _, b := range catalog.Default().Bodies() {
		for i := 0; i < 500; i++ {
			spinTime := math.Pow(10, rng.Float64()*12) * rng.Float64()
			a := SpinAngle(b, spinTime)
			require.GreaterOrEqual(t, a, 0.0, "%s at %v", b.ID, spinTime)
			require.Less(t, a, 360.0, "%s at %v", b.ID, spinTime)
		}
	}

	venus, _ := catalog.Default().Lookup(catalog.Venus)
	require.InDelta(t, 345.0, SpinAngle(venus, 1), tol)
}

func TestRetrogradeReversePlaybackMatchesPrograde(t *testing.T) {
	t.Parallel()

	e := NewEngine(DefaultParams())
	prograde := catalog.Body{ID: "p", OrbitDistance: 4, OrbitSpeed: 1}
	retrograde := catalog.Body{ID: "r", OrbitDistance: 4, OrbitSpeed: -1}

	var fwd, rev clock.SimulationClock
	for i := 0; i < 120; i++ {
		prevFwd := e.Position(prograde, fwd.OrbitTime, 1)
		prevRev := e.Position(retrograde, rev.OrbitTime, 1)

		fwd.Tick(1.0/60, false, 1)
		rev.Tick(1.0/60, false, -1)

		dFwd := e.Position(prograde, fwd.OrbitTime, 1).Sub(prevFwd)
		dRev := e.Position(retrograde, rev.OrbitTime, 1).Sub(prevRev)
		requireNear(t, dFwd.X, dRev.X)
		requireNear(t, dFwd.Z, dRev.Z)
	}
	requireNear(t, e.OrbitAngle(prograde, fwd.OrbitTime), e.OrbitAngle(retrograde, rev.OrbitTime))
}

func TestStationaryBodyStaysAtAngleZero(t *testing.T) {
	t.Parallel()

	e := NewEngine(unitParams())
	b := catalog.Body{ID: "parked", OrbitDistance: 3}
	for _, ot := range []float64{0, 1, 1e6, -50} {
		pos := e.Position(b, ot, 1)
		requireNear(t, 3, pos.X)
		require.Zero(t, pos.Z)
	}
}

func TestNonFiniteAngleClamped(t *testing.T) {
	t.Parallel()

	e := NewEngine(unitParams())
	b := catalog.Body{ID: "fast", OrbitDistance: 1, OrbitSpeed: math.MaxFloat64}
	require.Zero(t, e.OrbitAngle(b, math.MaxFloat64))
	require.True(t, e.Position(b, math.MaxFloat64, 1).IsFinite())
}

func TestOrientationTiltThenSpin(t *testing.T) {
	t.Parallel()

	b := catalog.Body{ID: "roller", AxialTilt: 90, RotationSpeed: 90}
	q := Orientation(b, 1) // 90 degrees of spin

	// the spin axis is the tilted pole, not world up
	pole := q.Rotate(astromath.UnitY)
	tiltedPole := astromath.AxisAngleDegrees(astromath.UnitX, 90).Rotate(astromath.UnitY)
	requireNear(t, tiltedPole.X, pole.X)
	requireNear(t, tiltedPole.Y, pole.Y)
	requireNear(t, tiltedPole.Z, pole.Z)

	// spinning further never moves the pole
	later := Orientation(b, 2.5).Rotate(astromath.UnitY)
	requireNear(t, pole.Z, later.Z)

	// untilted body spins about world up
	flat := Orientation(catalog.Body{ID: "flat", RotationSpeed: 90}, 1)
	x := flat.Rotate(astromath.UnitX)
	requireNear(t, 0, x.X)
	requireNear(t, -1, x.Z)
	require.InDelta(t, 1.0, flat.Norm(), tol)
}

func TestSwellAndScale(t *testing.T) {
	t.Parallel()

	e := NewEngine(DefaultParams())
	cat := catalog.Default()
	state := finishedState()
	state.Selected = catalog.Earth

	f := e.ComputeFrame(cat, Input{State: state})
	earth, _ := f.Pose(catalog.Earth)
	mars, _ := f.Pose(catalog.Mars)
	sun, _ := f.Pose(catalog.Sun)

	require.Equal(t, 1.5, earth.Swell)
	require.Equal(t, 1.0, mars.Swell)
	require.Equal(t, 1.0, f.ParentSwell)
	requireNear(t, (0.1+0.2*0.2)*1.5, earth.Scale)
	requireNear(t, 0.1+0.15*0.2, mars.Scale)
	requireNear(t, 0.5, sun.Scale)

	state.Scale = 3
	state.Selected = catalog.Sun
	f = e.ComputeFrame(cat, Input{State: state})
	sun, _ = f.Pose(catalog.Sun)
	requireNear(t, 0.5*3*1.5, sun.Scale)
	require.Equal(t, 1.5, f.ParentSwell)
}

func TestCenterSelectionCounterScales(t *testing.T) {
	t.Parallel()

	e := NewEngine(DefaultParams())
	cat := catalog.Default()
	clk := clock.SimulationClock{OrbitTime: 12.34, SpinTime: 56.7}
	anchor := astromath.Vector3{X: 0.2, Y: 1.1, Z: -0.8}

	none := finishedState()
	none.Scale = 2
	selected := none
	selected.Selected = catalog.Sun

	base := e.ComputeFrame(cat, Input{Clock: clk, State: none, Anchor: anchor})
	swollen := e.ComputeFrame(cat, Input{Clock: clk, State: selected, Anchor: anchor})

	for _, b := range cat.Planets() {
		w0, ok := base.World(b.ID)
		require.True(t, ok)
		w1, _ := swollen.World(b.ID)

		requireNear(t, w0.Position.Sub(anchor).PlanarRadius(), w1.Position.Sub(anchor).PlanarRadius(), b.ID)
		requireNear(t, w0.Position.X, w1.Position.X, b.ID)
		requireNear(t, w0.Position.Z, w1.Position.Z, b.ID)
		requireNear(t, w0.Scale, w1.Scale, b.ID)

		// local values shrink to compensate
		l0, _ := base.Pose(b.ID)
		l1, _ := swollen.Pose(b.ID)
		requireNear(t, l0.Position.PlanarRadius()/1.5, l1.Position.PlanarRadius(), b.ID)
	}

	sun0, _ := base.World(catalog.Sun)
	sun1, _ := swollen.World(catalog.Sun)
	requireNear(t, sun0.Scale*1.5, sun1.Scale)
}

func TestRevealGating(t *testing.T) {
	t.Parallel()

	cases := map[control.Phase]float64{
		control.PhaseLoading:  0,
		control.PhaseWelcome:  0,
		control.PhaseAuthor:   0,
		control.PhaseReveal:   1,
		control.PhaseFinished: 1,
	}
	e := NewEngine(DefaultParams())
	for phase, want := range cases {
		require.Equal(t, want, RevealTarget(phase), phase.String())

		state := finishedState()
		state.Phase = phase
		f := e.ComputeFrame(catalog.Default(), Input{State: state})
		require.Equal(t, want, f.Reveal)

		earth, _ := f.World(catalog.Earth)
		if want == 0 {
			require.Zero(t, earth.Scale, phase.String())
			require.True(t, earth.Position.IsZero(), phase.String())
		} else {
			require.Positive(t, earth.Scale, phase.String())
		}
	}
}

func TestAnchorIsReadNotOverwritten(t *testing.T) {
	t.Parallel()

	e := NewEngine(DefaultParams())
	anchor := astromath.Vector3{X: 1, Y: 2, Z: 3}
	clk := clock.SimulationClock{OrbitTime: 5}
	f := e.ComputeFrame(catalog.Default(), Input{Clock: clk, State: finishedState(), Anchor: anchor})

	sun, _ := f.Pose(catalog.Sun)
	require.Equal(t, anchor, sun.Position)
	require.Zero(t, sun.OrbitAngle)

	earth, _ := f.World(catalog.Earth)
	local, _ := f.Pose(catalog.Earth)
	requireNear(t, anchor.X+local.Position.X*sun.Scale, earth.Position.X)
	requireNear(t, anchor.Y, earth.Position.Y)
}

func TestFrameOrderFollowsCatalog(t *testing.T) {
	t.Parallel()

	cat := catalog.Default()
	f := NewEngine(DefaultParams()).ComputeFrame(cat, Input{State: finishedState()})
	require.Len(t, f.Order, cat.Len())
	require.Equal(t, catalog.Sun, f.Order[0])
	require.Equal(t, catalog.Neptune, f.Order[len(f.Order)-1])

	_, ok := f.World("pluto")
	require.False(t, ok)
}

func TestParamsSanitize(t *testing.T) {
	t.Parallel()

	p := Params{
		OrbitRate:       -0.3,
		DistanceScale:   0,
		CenterBaseScale: math.NaN(),
		BaseSize:        -1,
		SizeFactor:      math.Inf(1),
		SelectedSwell:   0.5,
	}.Sanitize()
	d := DefaultParams()

	require.Equal(t, -0.3, p.OrbitRate)
	require.Equal(t, d.DistanceScale, p.DistanceScale)
	require.Equal(t, d.CenterBaseScale, p.CenterBaseScale)
	require.Equal(t, d.BaseSize, p.BaseSize)
	require.Equal(t, d.SizeFactor, p.SizeFactor)
	require.Equal(t, d.SelectedSwell, p.SelectedSwell)

	zero := NewEngine(Params{}).Params()
	require.Zero(t, zero.OrbitRate, "zero orbit rate freezes revolution")
	require.Equal(t, d.DistanceScale, zero.DistanceScale)
	require.Equal(t, d.SelectedSwell, zero.SelectedSwell)
}

func TestGuardSwell(t *testing.T) {
	t.Parallel()

	e := NewEngine(unitParams())
	b := catalog.Body{ID: "a", OrbitDistance: 2, Radius: 1}
	require.Equal(t, e.OrbitRadius(b, 1), e.OrbitRadius(b, 0))
	require.Equal(t, e.OrbitRadius(b, 1), e.OrbitRadius(b, math.NaN()))
	require.Equal(t, e.BodyScale(b, 1, 1), e.BodyScale(b, -2, 1))
}

func TestPeriods(t *testing.T) {
	t.Parallel()

	e := NewEngine(DefaultParams())
	earth, _ := catalog.Default().Lookup(catalog.Earth)
	sun := catalog.Default().Center()

	period := e.OrbitPeriod(earth)
	require.InDelta(t, 2*math.Pi/(2.5*0.3), period, 1e-12)
	p := e.Position(earth, period, 1)
	require.InDelta(t, e.OrbitRadius(earth, 1), p.X, 1e-9, "back at the start after one period")
	require.InDelta(t, 0, p.Z, 1e-9)
	require.Zero(t, e.OrbitPeriod(sun))

	venus, _ := catalog.Default().Lookup(catalog.Venus)
	require.InDelta(t, 24.0, SpinPeriod(venus), 1e-12)
	require.Zero(t, SpinPeriod(catalog.Body{ID: "rock"}))
}
