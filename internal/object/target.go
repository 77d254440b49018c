package object

import (
	"math"
	"math/rand"
	"time"
)

// Target is a pooled, shootable entity: a cloud, an airplane or a robot.
type Target struct {
	Kind   Kind
	Slot   int
	Active bool

	X, Y   float64 // Center, in viewport pixels
	StartX float64
	Band   float64 // Vertical position as a fraction of viewport height
	Speed  float64
	Travel float64 // Horizontal displacement since spawn (airplane, robot)

	SpawnTime  time.Time
	WaveOffset float64 // Phase in [0, 2π)
	Wave       float64 // Current vertical offset

	Visual VisualState
}

var _ Destructible = (*Target)(nil)

// Reset clears all transient state and returns the target to the origin.
// It is the pool reset hook for targets.
func (t *Target) Reset() {
	*t = Target{Kind: t.Kind}
}

// ResetTarget adapts Reset to the pool hook signature.
func ResetTarget(t *Target) {
	t.Reset()
}

// Launch initializes a freshly acquired target from its profile.
func (t *Target) Launch(p Profile, slot int, now time.Time, rng *rand.Rand, screen Screen) {
	t.Kind = p.Kind
	t.Slot = slot
	t.Active = true
	t.Visual = VisualActive
	t.StartX = p.StartX
	t.X = p.StartX
	t.Travel = 0
	t.Band = uniform(rng, p.BandMin, p.BandMax)
	t.Speed = uniform(rng, p.SpeedMin, p.SpeedMax)
	t.SpawnTime = now
	t.WaveOffset = 0
	t.Wave = 0
	if p.Wavy() {
		t.WaveOffset = rng.Float64() * 2 * math.Pi
	}
	t.Y = t.Band * float64(screen.Height)
}

// Rearm brings a vaporized cloud back at its start position.
func (t *Target) Rearm() {
	t.Visual = VisualActive
	t.X = t.StartX
}

// MarkDestroyed switches the target to its destroyed visual state.
// Airplanes crash; clouds vaporize and robots are destroyed.
func (t *Target) MarkDestroyed() {
	if t.Kind == KindAirplane {
		t.Visual = VisualCrashed
		return
	}
	t.Visual = VisualDestroyed
}

// IsDestroyed returns true while the target shows a destroyed visual.
func (t *Target) IsDestroyed() bool {
	return t.Visual == VisualCrashed || t.Visual == VisualDestroyed
}

// Vaporized reports whether a cloud is waiting to re-arm.
func (t *Target) Vaporized() bool {
	return t.Kind == KindCloud && t.Visual == VisualDestroyed
}

// HitTestable reports whether a shot can hit this target.
func (t *Target) HitTestable() bool {
	return t.Active && !t.IsDestroyed()
}

// Aux is the per-kind render parameter: the wave offset for robots, zero otherwise.
func (t *Target) Aux() float64 {
	if t.Kind == KindRobot {
		return t.Wave
	}
	return 0
}

// Update advances the target. Returns true once an airplane or robot has left the screen.
func (t *Target) Update(ctx UpdateContext, p Profile) (remove bool) {
	switch t.Kind {
	case KindCloud:
		t.drift(ctx.Screen, p)
		return false
	case KindAirplane, KindRobot:
		return t.fly(ctx, p)
	}
	return false
}

// drift moves a cloud by its per-tick speed and wraps it past the right edge.
func (t *Target) drift(screen Screen, p Profile) {
	if t.Vaporized() {
		return
	}
	t.X += t.Speed
	if t.X > float64(screen.Width)+p.ExitMargin {
		t.X = t.StartX
	}
	t.Y = t.Band * float64(screen.Height)
}

func (t *Target) fly(ctx UpdateContext, p Profile) bool {
	elapsed := ctx.Now.Sub(t.SpawnTime).Seconds()
	t.Travel = t.Speed * elapsed
	if t.Travel >= float64(ctx.Screen.Width)+p.ExitMargin {
		return true
	}

	t.X = t.StartX + t.Travel
	t.Y = t.Band * float64(ctx.Screen.Height)
	if p.Wavy() {
		t.Wave = math.Sin(elapsed*p.WaveFrequency+t.WaveOffset) * p.WaveAmplitude
		t.Y += t.Wave
	}
	return false
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}
