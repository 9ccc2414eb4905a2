package kinematics

import (
	"github.com/oxygene76/orrery/pkg/astronomy/catalog"
	astromath "github.com/oxygene76/orrery/pkg/astronomy/math"
)

// Pose is one body's computed transform for a tick. For orbiting bodies
// Position and Scale are local to the center pivot.
type Pose struct {
	Position    astromath.Vector3
	Orientation astromath.Quaternion
	Scale       float64

	Swell       float64 // selection swell target
	SpinDegrees float64 // spin angle in [0, 360)
	OrbitAngle  float64 // radians, 0 for the center
}

// Frame is the full output of one tick
type Frame struct {
	Center      catalog.BodyID
	Order       []catalog.BodyID
	Poses       map[catalog.BodyID]Pose
	Reveal      float64 // startup reveal target
	ParentSwell float64 // swell of the center used for counter-scaling
}

// Pose returns the pose of id
func (f Frame) Pose(id catalog.BodyID) (Pose, bool) {
	p, ok := f.Poses[id]
	return p, ok
}

// WorldPose is a pose resolved into world space
type WorldPose struct {
	Position    astromath.Vector3
	Orientation astromath.Quaternion
	Scale       float64
}

// World resolves id into world space. Orbiting bodies hang off the center
// pivot: the anchor translation and the center's uniform scale, without the
// center's spin.
func (f Frame) World(id catalog.BodyID) (WorldPose, bool) {
	p, ok := f.Poses[id]
	if !ok {
		return WorldPose{}, false
	}
	c := f.Poses[f.Center]
	if id == f.Center {
		return WorldPose{Position: p.Position, Orientation: p.Orientation, Scale: p.Scale}, true
	}
	return WorldPose{
		Position:    c.Position.Add(p.Position.Scale(c.Scale)),
		Orientation: p.Orientation,
		Scale:       p.Scale * c.Scale,
	}, true
}
