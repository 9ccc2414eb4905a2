package control

import (
	"math"

	"github.com/oxygene76/orrery/pkg/astronomy/catalog"
)

// Limits bounds user-adjustable values
type Limits struct {
	MinScale float64
	MaxScale float64
}

// DefaultLimits matches the reference scale slider
func DefaultLimits() Limits {
	return Limits{MinScale: 0.5, MaxScale: 5.0}
}

// State is a snapshot of the user-controlled simulation state
type State struct {
	Paused   bool
	Speed    float64
	Scale    float64
	Selected catalog.BodyID // empty when nothing is selected
	Phase    Phase
	Skybox   bool
}

// HasSelection reports whether a body is selected
func (s State) HasSelection() bool {
	return s.Selected != ""
}

// IsSelected reports whether id is the current selection
func (s State) IsSelected(id catalog.BodyID) bool {
	return s.Selected != "" && s.Selected == id
}

// Controller mutates State in response to user actions.
// It is not safe for concurrent use; hosts serialise access.
type Controller struct {
	state  State
	limits Limits
	known  func(catalog.BodyID) bool
}

// Option configures a Controller
type Option func(*Controller)

// WithLimits overrides the scale bounds
func WithLimits(l Limits) Option {
	return func(c *Controller) {
		if l.MinScale > 0 && l.MaxScale >= l.MinScale {
			c.limits = l
		}
	}
}

// WithBodyValidator makes SelectBody ignore ids the validator rejects
func WithBodyValidator(known func(catalog.BodyID) bool) Option {
	return func(c *Controller) { c.known = known }
}

// WithInitial seeds the state; Scale is clamped to the limits
func WithInitial(s State) Option {
	return func(c *Controller) { c.state = s }
}

// NewController creates a controller in its session-start state:
// running at speed 1, scale 1, skybox on, phase Loading.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		state: State{
			Speed:  1,
			Scale:  1,
			Phase:  PhaseLoading,
			Skybox: true,
		},
		limits: DefaultLimits(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state.Scale = c.clampScale(c.state.Scale)
	return c
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() State {
	return c.state
}

// Limits returns the active scale bounds
func (c *Controller) Limits() Limits {
	return c.limits
}

// TogglePause flips whether orbit time advances
func (c *Controller) TogglePause() bool {
	c.state.Paused = !c.state.Paused
	return c.state.Paused
}

// SetSpeed sets the signed playback multiplier. Non-finite values are ignored.
func (c *Controller) SetSpeed(v float64) float64 {
	if finite(v) {
		c.state.Speed = v
	}
	return c.state.Speed
}

// SetScale sets the global scale, clamped to the limits. NaN is ignored.
func (c *Controller) SetScale(v float64) float64 {
	if !math.IsNaN(v) {
		c.state.Scale = c.clampScale(v)
	}
	return c.state.Scale
}

// ToggleSkybox flips the skybox flag
func (c *Controller) ToggleSkybox() bool {
	c.state.Skybox = !c.state.Skybox
	return c.state.Skybox
}

// SelectBody selects id, or clears the selection when id is already
// selected. Empty or unknown ids leave the selection untouched.
func (c *Controller) SelectBody(id catalog.BodyID) catalog.BodyID {
	switch {
	case id == "":
	case c.known != nil && !c.known(id):
	case c.state.Selected == id:
		c.state.Selected = ""
	default:
		c.state.Selected = id
	}
	return c.state.Selected
}

// ClearSelection deselects any body
func (c *Controller) ClearSelection() {
	c.state.Selected = ""
}

// AdvanceStartup moves to the next startup phase and returns it
func (c *Controller) AdvanceStartup() Phase {
	c.state.Phase = c.state.Phase.Next()
	return c.state.Phase
}

func (c *Controller) clampScale(v float64) float64 {
	return math.Max(c.limits.MinScale, math.Min(c.limits.MaxScale, v))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
