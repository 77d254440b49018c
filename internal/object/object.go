// Package object defines the game entities, their per-kind profiles and kinematics.
package object

import (
	"time"
)

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Now    time.Time
	Screen Screen
}

// Screen represents viewport dimensions in pixels.
type Screen struct {
	Width   int
	Height  int
	CenterX int
	CenterY int
}

// NewScreen returns a screen of the given size with its center filled in.
func NewScreen(width, height int) Screen {
	return Screen{
		Width:   width,
		Height:  height,
		CenterX: width / 2,
		CenterY: height / 2,
	}
}

// Destructible is implemented by objects that can be destroyed/marked for removal.
type Destructible interface {
	// MarkDestroyed switches the object to its destroyed visual state.
	MarkDestroyed()
	// IsDestroyed returns true if the object is destroyed and awaiting recycling.
	IsDestroyed() bool
}

// VisualState is the presentation state of a target slot.
type VisualState int

const (
	VisualHidden VisualState = iota
	VisualActive
	VisualCrashed
	VisualDestroyed
)

var visualNames = [...]string{"hidden", "active", "crashed", "destroyed"}

func (v VisualState) String() string {
	if v < 0 || int(v) >= len(visualNames) {
		return "unknown"
	}
	return visualNames[v]
}
