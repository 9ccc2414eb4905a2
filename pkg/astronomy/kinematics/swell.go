package kinematics

import (
	"github.com/oxygene76/orrery/pkg/astronomy/catalog"
	"github.com/oxygene76/orrery/pkg/orrery/control"
)

// Swell returns the target scale multiplier of a body: SelectedSwell when it
// is the current selection, 1 otherwise. Easing toward the target belongs to
// the renderer.
func (e *Engine) Swell(id catalog.BodyID, state control.State) float64 {
	if state.IsSelected(id) {
		return e.params.SelectedSwell
	}
	return 1
}

// RevealTarget is the startup reveal multiplier for a phase: hidden until
// Reveal, fully shown from Reveal on. The 0→1 ramp is animated by the
// renderer.
func RevealTarget(phase control.Phase) float64 {
	switch phase {
	case control.PhaseReveal, control.PhaseFinished:
		return 1
	default:
		return 0
	}
}

// guardSwell keeps a parent swell usable as a divisor
func guardSwell(s float64) float64 {
	if !(s >= 1) {
		return 1
	}
	return s
}

// CenterScale is the render scale of the center body. Orbiting bodies are
// expressed relative to it, so reveal and global scale reach them through
// the parent.
func (e *Engine) CenterScale(state control.State, swell float64) float64 {
	return e.params.CenterBaseScale * state.Scale * swell * RevealTarget(state.Phase)
}

// BodyScale is the local render scale of an orbiting body, counter-scaled by
// the parent swell so the body keeps its absolute size when the center is
// selected.
func (e *Engine) BodyScale(b catalog.Body, parentSwell, swell float64) float64 {
	return (e.params.BaseSize + b.Radius*e.params.SizeFactor) / guardSwell(parentSwell) * swell
}
