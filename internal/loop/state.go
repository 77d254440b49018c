package loop

import (
	"time"

	"github.com/tomz197/lasereye/internal/input"
)

// Phase is the screen a session is on.
type Phase int

const (
	PhaseStart    Phase = iota // Title screen
	PhasePlaying               // Engine running
	PhaseShutdown              // Server going down, countdown shown
)

var phaseNames = [...]string{"start", "playing", "shutdown"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// State holds the per-session frontend state.
type State struct {
	Phase     Phase
	prevPhase Phase
	Running   bool

	Input     input.Input
	lastInput time.Time
	idle      bool // idle warning shown
	wasIdle   bool

	shutdownAt time.Time

	// Pointer in logical pixels, valid once the mouse has reported.
	PointerX, PointerY float64
	hasPointer         bool
}

// NewState creates the state of a fresh session at now.
func NewState(now time.Time) *State {
	return &State{
		Phase:     PhaseStart,
		prevPhase: PhaseStart,
		Running:   true,
		lastInput: now,
	}
}

// active reports whether this frame's input counts as player activity.
func active(in input.Input) bool {
	return len(in.Pressed) > 0 || in.Escape || in.Moved || len(in.Clicks) > 0 || in.Power
}
