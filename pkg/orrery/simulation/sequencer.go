package simulation

import (
	"time"

	"github.com/oxygene76/orrery/pkg/orrery/control"
)

// StartupTimings are the hold times of the timed startup phases
type StartupTimings struct {
	Welcome time.Duration
	Author  time.Duration
	Reveal  time.Duration
}

// DefaultStartupTimings returns the stock hold times: 3s welcome, 3.5s author, 2s reveal
func DefaultStartupTimings() StartupTimings {
	return StartupTimings{
		Welcome: 3 * time.Second,
		Author:  3500 * time.Millisecond,
		Reveal:  2 * time.Second,
	}
}

// Sequencer auto-advances the startup phases. Loading waits for MarkReady;
// each later phase is held for its timing, measured in accumulated tick
// time so the sequence is independent of frame rate.
type Sequencer struct {
	timings StartupTimings
	ready   bool
	elapsed float64
}

// NewSequencer creates a sequencer
func NewSequencer(t StartupTimings) *Sequencer {
	return &Sequencer{timings: t}
}

// MarkReady signals that assets are loaded
func (s *Sequencer) MarkReady() {
	s.ready = true
}

// Ready reports whether MarkReady was called
func (s *Sequencer) Ready() bool {
	return s.ready
}

// Restart clears time spent in the current phase
func (s *Sequencer) Restart() {
	s.elapsed = 0
}

// Update adds dt seconds and advances ctrl through every phase whose hold
// time has passed. It returns the number of transitions taken.
func (s *Sequencer) Update(ctrl *control.Controller, dt float64) int {
	if dt > 0 {
		s.elapsed += dt
	}

	steps := 0
	for {
		switch phase := ctrl.Snapshot().Phase; phase {
		case control.PhaseFinished:
			s.elapsed = 0
			return steps
		case control.PhaseLoading:
			if !s.ready {
				s.elapsed = 0
				return steps
			}
		default:
			hold := s.hold(phase).Seconds()
			if s.elapsed < hold {
				return steps
			}
			s.elapsed -= hold
		}
		ctrl.AdvanceStartup()
		steps++
	}
}

func (s *Sequencer) hold(p control.Phase) time.Duration {
	switch p {
	case control.PhaseWelcome:
		return s.timings.Welcome
	case control.PhaseAuthor:
		return s.timings.Author
	case control.PhaseReveal:
		return s.timings.Reveal
	default:
		return 0
	}
}
