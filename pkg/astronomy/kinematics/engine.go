package kinematics

import (
	"math"

	"github.com/oxygene76/orrery/pkg/astronomy/catalog"
	astromath "github.com/oxygene76/orrery/pkg/astronomy/math"
	"github.com/oxygene76/orrery/pkg/orrery/clock"
	"github.com/oxygene76/orrery/pkg/orrery/control"
)

// Engine maps clock and control state to body poses. It holds no mutable
// state and may be shared.
type Engine struct {
	params Params
}

// NewEngine creates an engine; invalid params fall back to defaults
func NewEngine(p Params) *Engine {
	return &Engine{params: p.Sanitize()}
}

// Params returns the active tuning
func (e *Engine) Params() Params {
	return e.params
}

// OrbitAngle returns the revolution angle in radians
func (e *Engine) OrbitAngle(b catalog.Body, orbitTime float64) float64 {
	a := orbitTime * b.OrbitSpeed * e.params.OrbitRate
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0
	}
	return a
}

// OrbitPeriod returns the orbit time of one revolution at speed 1, or 0 for a
// body that does not orbit
func (e *Engine) OrbitPeriod(b catalog.Body) float64 {
	w := math.Abs(b.OrbitSpeed * e.params.OrbitRate)
	if w == 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return 0
	}
	return 2 * math.Pi / w
}

// SpinPeriod returns the spin time of one self-rotation, or 0 if the body
// does not spin
func SpinPeriod(b catalog.Body) float64 {
	w := math.Abs(b.RotationSpeed)
	if w == 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return 0
	}
	return 360 / w
}

// SpinAngle returns the self-rotation angle in degrees, wrapped to [0, 360)
func SpinAngle(b catalog.Body, spinTime float64) float64 {
	return astromath.WrapDegrees(spinTime * b.RotationSpeed)
}

// OrbitRadius returns the local orbit radius, divided by the parent swell so
// the world radius is unaffected by the center's selection state
func (e *Engine) OrbitRadius(b catalog.Body, parentSwell float64) float64 {
	return b.OrbitDistance * e.params.DistanceScale / guardSwell(parentSwell)
}

// Position returns the local position of an orbiting body in the X/Z plane
func (e *Engine) Position(b catalog.Body, orbitTime, parentSwell float64) astromath.Vector3 {
	angle := e.OrbitAngle(b, orbitTime)
	r := e.OrbitRadius(b, parentSwell)
	return astromath.Vector3{X: math.Cos(angle) * r, Z: math.Sin(angle) * r}
}

// Orientation composes the static axial tilt (about +X) with the spin
// (about +Y). The tilt is the outer rotation, so the body spins about its
// own tilted axis.
func Orientation(b catalog.Body, spinTime float64) astromath.Quaternion {
	tilt := astromath.AxisAngleDegrees(astromath.UnitX, b.AxialTilt)
	spin := astromath.AxisAngleDegrees(astromath.UnitY, SpinAngle(b, spinTime))
	return tilt.Mul(spin).Normalize()
}

// Input is everything a frame depends on besides the catalog
type Input struct {
	Clock  clock.SimulationClock
	State  control.State
	Anchor astromath.Vector3 // externally dragged center position
}

// ComputeFrame computes the pose of every catalog body. The center body
// takes the anchor as its position; orbiting bodies are local to the center
// pivot.
func (e *Engine) ComputeFrame(cat *catalog.Catalog, in Input) Frame {
	bodies := cat.Bodies()
	center := cat.Center()

	f := Frame{
		Center: center.ID,
		Order:  make([]catalog.BodyID, 0, len(bodies)),
		Poses:  make(map[catalog.BodyID]Pose, len(bodies)),
		Reveal: RevealTarget(in.State.Phase),
	}

	parentSwell := e.Swell(center.ID, in.State)
	f.ParentSwell = parentSwell

	for _, b := range bodies {
		spin := SpinAngle(b, in.Clock.SpinTime)
		p := Pose{
			Orientation: Orientation(b, in.Clock.SpinTime),
			Swell:       e.Swell(b.ID, in.State),
			SpinDegrees: spin,
		}
		if b.ID == center.ID {
			p.Position = in.Anchor
			p.Scale = e.CenterScale(in.State, p.Swell)
		} else {
			p.OrbitAngle = e.OrbitAngle(b, in.Clock.OrbitTime)
			p.Position = e.Position(b, in.Clock.OrbitTime, parentSwell)
			p.Scale = e.BodyScale(b, parentSwell, p.Swell)
		}
		f.Order = append(f.Order, b.ID)
		f.Poses[b.ID] = p
	}
	return f
}
