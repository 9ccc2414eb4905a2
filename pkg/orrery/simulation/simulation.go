package simulation

import (
	"sync"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/google/uuid"

	"github.com/oxygene76/orrery/internal/types"
	"github.com/oxygene76/orrery/pkg/astronomy/catalog"
	"github.com/oxygene76/orrery/pkg/astronomy/kinematics"
	astromath "github.com/oxygene76/orrery/pkg/astronomy/math"
	"github.com/oxygene76/orrery/pkg/orrery/clock"
	"github.com/oxygene76/orrery/pkg/orrery/control"
)

// Simulation is the single-writer container around the orrery core. Every
// method takes the same lock, so input handlers and the frame loop may call
// it from different goroutines.
type Simulation struct {
	mu sync.Mutex

	catalog    *catalog.Catalog
	engine     *kinematics.Engine
	controller *control.Controller
	sequencer  *Sequencer
	timer      *clock.FrameTimer

	session  uuid.UUID
	clock    clock.SimulationClock
	anchor   astromath.Vector3
	sequence uint64
	now      func() time.Time
}

// Option configures a Simulation
type Option func(*Simulation)

// WithTimeProvider sets the clock used by Step
func WithTimeProvider(p clock.TimeProvider, maxStep time.Duration) Option {
	return func(s *Simulation) {
		s.timer = clock.NewFrameTimer(p, maxStep)
		s.now = p.Now
	}
}

// WithStartupTimings overrides the startup hold times
func WithStartupTimings(t StartupTimings) Option {
	return func(s *Simulation) { s.sequencer = NewSequencer(t) }
}

// WithInitialState seeds the control state
func WithInitialState(st control.State) Option {
	return func(s *Simulation) {
		s.controller = control.NewController(
			control.WithLimits(s.controller.Limits()),
			control.WithBodyValidator(s.catalog.Contains),
			control.WithInitial(st),
		)
	}
}

// New creates a simulation over cat
func New(cat *catalog.Catalog, params kinematics.Params, limits control.Limits, opts ...Option) *Simulation {
	s := &Simulation{
		catalog: cat,
		engine:  kinematics.NewEngine(params),
		controller: control.NewController(
			control.WithLimits(limits),
			control.WithBodyValidator(cat.Contains),
		),
		sequencer: NewSequencer(DefaultStartupTimings()),
		timer:     clock.NewFrameTimer(nil, clock.DefaultMaxStep),
		session:   uuid.New(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session identifies this simulation run in published frames
func (s *Simulation) Session() uuid.UUID {
	return s.session
}

// Catalog returns the body catalog
func (s *Simulation) Catalog() *catalog.Catalog {
	return s.catalog
}

// BodyInfos describes the catalog with periods under the active tuning
func (s *Simulation) BodyInfos() []types.BodyInfo {
	return bodyInfos(s.catalog, s.engine)
}

// Engine returns the kinematics engine
func (s *Simulation) Engine() *kinematics.Engine {
	return s.engine
}

// Tick advances the clocks and the startup sequence by dt seconds
func (s *Simulation) Tick(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickLocked(dt)
}

func (s *Simulation) tickLocked(dt float64) {
	st := s.controller.Snapshot()
	s.clock.Tick(dt, st.Paused, st.Speed)
	s.sequencer.Update(s.controller, dt)
}

// Step advances by the wall time elapsed since the previous Step and returns
// the step in seconds
func (s *Simulation) Step() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	dt := s.timer.Delta()
	s.tickLocked(dt)
	return dt
}

// Frame computes the poses for the current state
func (s *Simulation) Frame() kinematics.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameLocked()
}

func (s *Simulation) frameLocked() kinematics.Frame {
	return s.engine.ComputeFrame(s.catalog, kinematics.Input{
		Clock:  s.clock,
		State:  s.controller.Snapshot(),
		Anchor: s.anchor,
	})
}

// Message computes a frame and converts it to its wire form. Each call gets
// the next sequence number.
func (s *Simulation) Message() types.FrameMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sequence++
	return s.messageLocked()
}

// Current converts the current frame without consuming a sequence number.
// It carries the sequence of the last Message.
func (s *Simulation) Current() types.FrameMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messageLocked()
}

func (s *Simulation) messageLocked() types.FrameMessage {
	msg := ToMessage(s.frameLocked(), s.clock, s.controller.Snapshot(), s.sequence, s.now())
	msg.Session = s.session.String()
	return msg
}

// State returns the current control state
func (s *Simulation) State() control.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.Snapshot()
}

// Clock returns the current clock values
func (s *Simulation) Clock() clock.SimulationClock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock
}

// TogglePause flips pause and returns the new value
func (s *Simulation) TogglePause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.TogglePause()
}

// SetSpeed sets the playback speed and returns the applied value
func (s *Simulation) SetSpeed(v float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.SetSpeed(v)
}

// SetScale sets the global scale and returns the clamped value
func (s *Simulation) SetScale(v float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.SetScale(v)
}

// ToggleSkybox flips the skybox flag and returns the new value
func (s *Simulation) ToggleSkybox() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.ToggleSkybox()
}

// SelectBody toggles the selection of id and returns the resulting selection
func (s *Simulation) SelectBody(id catalog.BodyID) catalog.BodyID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.SelectBody(id)
}

// ClearSelection deselects any body
func (s *Simulation) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controller.ClearSelection()
}

// AdvanceStartup moves to the next startup phase. The sequencer restarts its
// hold timer for the new phase.
func (s *Simulation) AdvanceStartup() control.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequencer.Restart()
	return s.controller.AdvanceStartup()
}

// MarkReady lets the startup sequence leave Loading on the next tick
func (s *Simulation) MarkReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequencer.MarkReady()
}

// SkipStartup jumps straight to Finished
func (s *Simulation) SkipStartup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequencer.MarkReady()
	for !s.controller.Snapshot().Phase.Terminal() {
		s.controller.AdvanceStartup()
	}
}

// SetAnchor moves the center body, e.g. after a drag in the renderer
func (s *Simulation) SetAnchor(v astromath.Vector3) {
	if !v.IsFinite() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anchor = v
}

// Anchor returns the center body position
func (s *Simulation) Anchor() astromath.Vector3 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.anchor
}

// ApplyCommand executes a control command received from a client
func (s *Simulation) ApplyCommand(cmd types.ControlCommand) error {
	switch cmd.Command {
	case types.CommandTogglePause:
		s.TogglePause()
	case types.CommandSetSpeed:
		s.SetSpeed(cmd.Value)
	case types.CommandSetScale:
		s.SetScale(cmd.Value)
	case types.CommandToggleSkybox:
		s.ToggleSkybox()
	case types.CommandSelect:
		id := catalog.BodyID(cmd.BodyID)
		if !s.catalog.Contains(id) {
			return errorsmod.Wrapf(types.ErrUnknownBody, "%q", cmd.BodyID)
		}
		s.SelectBody(id)
	case types.CommandClearSelection:
		s.ClearSelection()
	case types.CommandAdvanceStartup:
		s.AdvanceStartup()
	case types.CommandSetAnchor:
		if cmd.Anchor == nil {
			return errorsmod.Wrap(types.ErrInvalidRequest, "set_anchor requires an anchor")
		}
		s.SetAnchor(astromath.Vector3{X: cmd.Anchor.X, Y: cmd.Anchor.Y, Z: cmd.Anchor.Z})
	default:
		return errorsmod.Wrapf(types.ErrInvalidRequest, "unknown command %q", cmd.Command)
	}
	return nil
}
