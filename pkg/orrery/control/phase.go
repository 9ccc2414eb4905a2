package control

import (
	"fmt"
	"strings"
)

// Phase is a step of the startup sequence
type Phase int

const (
	PhaseLoading  Phase = iota // waiting for assets
	PhaseWelcome               // greeting shown
	PhaseAuthor                // credits shown
	PhaseReveal                // system scales up
	PhaseFinished              // normal operation
)

var phaseNames = [...]string{"loading", "welcome", "author", "reveal", "finished"}

// Next returns the successor phase. Finished is terminal.
func (p Phase) Next() Phase {
	switch p {
	case PhaseLoading:
		return PhaseWelcome
	case PhaseWelcome:
		return PhaseAuthor
	case PhaseAuthor:
		return PhaseReveal
	default:
		return PhaseFinished
	}
}

// Terminal reports whether p is the final phase
func (p Phase) Terminal() bool {
	return p == PhaseFinished
}

func (p Phase) String() string {
	if p < PhaseLoading || p > PhaseFinished {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// ParsePhase converts a phase name back to a Phase
func ParsePhase(s string) (Phase, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range phaseNames {
		if n == name {
			return Phase(i), nil
		}
	}
	return PhaseLoading, fmt.Errorf("unknown startup phase %q", s)
}
