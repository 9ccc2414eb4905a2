package simulation

import (
	"time"

	"github.com/oxygene76/orrery/internal/types"
	"github.com/oxygene76/orrery/pkg/astronomy/catalog"
	"github.com/oxygene76/orrery/pkg/astronomy/kinematics"
	astromath "github.com/oxygene76/orrery/pkg/astronomy/math"
	"github.com/oxygene76/orrery/pkg/orrery/clock"
	"github.com/oxygene76/orrery/pkg/orrery/control"
)

// ToMessage converts a frame to its wire form
func ToMessage(f kinematics.Frame, clk clock.SimulationClock, st control.State, seq uint64, at time.Time) types.FrameMessage {
	msg := types.FrameMessage{
		Sequence:  seq,
		OrbitTime: clk.OrbitTime,
		SpinTime:  clk.SpinTime,
		Control:   ControlSnapshot(st),
		Bodies:    make([]types.BodyPose, 0, len(f.Order)),
		Timestamp: at.UTC(),
	}
	msg.Control.Reveal = f.Reveal

	for _, id := range f.Order {
		p := f.Poses[id]
		w, _ := f.World(id)
		msg.Bodies = append(msg.Bodies, types.BodyPose{
			ID:          string(id),
			Position:    vec(p.Position),
			Orientation: types.Quat{W: p.Orientation.W, X: p.Orientation.X, Y: p.Orientation.Y, Z: p.Orientation.Z},
			Scale:       p.Scale,
			World:       vec(w.Position),
			WorldScale:  w.Scale,
			Swell:       p.Swell,
			SpinDegrees: p.SpinDegrees,
		})
	}
	return msg
}

// ControlSnapshot converts control state to its wire form
func ControlSnapshot(st control.State) types.ControlSnapshot {
	return types.ControlSnapshot{
		Paused:   st.Paused,
		Speed:    st.Speed,
		Scale:    st.Scale,
		Selected: string(st.Selected),
		Phase:    st.Phase.String(),
		Skybox:   st.Skybox,
		Reveal:   kinematics.RevealTarget(st.Phase),
	}
}

// BodyInfos converts the catalog to its wire form. Orbit periods use the
// default tuning; see Simulation.BodyInfos for the active one.
func BodyInfos(cat *catalog.Catalog) []types.BodyInfo {
	return bodyInfos(cat, kinematics.NewEngine(kinematics.DefaultParams()))
}

func bodyInfos(cat *catalog.Catalog, e *kinematics.Engine) []types.BodyInfo {
	bodies := cat.Bodies()
	out := make([]types.BodyInfo, 0, len(bodies))
	for _, b := range bodies {
		out = append(out, types.BodyInfo{
			ID:            string(b.ID),
			Name:          b.Name,
			Radius:        b.Radius,
			OrbitDistance: b.OrbitDistance,
			OrbitSpeed:    b.OrbitSpeed,
			RotationSpeed: b.RotationSpeed,
			AxialTilt:     b.AxialTilt,
			Color:         b.Color,
			Description:   b.Description,
			OrbitPeriod:   e.OrbitPeriod(b),
			SpinPeriod:    kinematics.SpinPeriod(b),
			Center:        cat.IsCenter(b.ID),
		})
	}
	return out
}

func vec(v astromath.Vector3) types.Vec3 {
	return types.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}
