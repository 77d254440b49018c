package object

import "time"

// EffectKind identifies a one-shot visual effect.
type EffectKind int

const (
	EffectImpact EffectKind = iota
	EffectDestruction
	EffectPowerMarker
	EffectScreenFlash
)

var effectNames = [...]string{"impact", "destruction", "power_marker", "screen_flash"}

func (k EffectKind) String() string {
	if k < 0 || int(k) >= len(effectNames) {
		return "unknown"
	}
	return effectNames[k]
}

// Effect is a short-lived visual at a fixed position.
type Effect struct {
	Kind     EffectKind
	X, Y     float64
	Start    time.Time
	Duration time.Duration
}

// ResetEffect is the pool reset hook for effects.
func ResetEffect(e *Effect) {
	*e = Effect{}
}

// Begin starts the effect at (x,y).
func (e *Effect) Begin(kind EffectKind, x, y float64, now time.Time, d time.Duration) {
	e.Kind = kind
	e.X = x
	e.Y = y
	e.Start = now
	e.Duration = d
}

// Expired reports whether the effect has run its course.
func (e *Effect) Expired(now time.Time) bool {
	return !now.Before(e.Start.Add(e.Duration))
}

// Progress returns the elapsed fraction in [0,1].
func (e *Effect) Progress(now time.Time) float64 {
	if e.Duration <= 0 {
		return 1
	}
	p := float64(now.Sub(e.Start)) / float64(e.Duration)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
