// Package scene is the frontend-neutral view model. It implements game.Presenter
// by recording what should be on screen, and frontends draw from it each frame.
package scene

import (
	"sort"
	"time"

	"github.com/tomz197/lasereye/internal/game"
	"github.com/tomz197/lasereye/internal/object"
)

// Cue is a sound the scene asks the audio layer to play.
type Cue int

const (
	CueBeam Cue = iota
	CueImpact
	CueDestruction
	CuePowerMarker
	CueScreenFlash
)

// SoundPlayer plays cues. Implementations must not block.
type SoundPlayer interface {
	PlayCue(c Cue)
}

// Sprite is the last reported state of one target slot.
type Sprite struct {
	Kind  object.Kind
	Slot  int
	X, Y  float64
	Aux   float64 // Wave offset for robots
	State object.VisualState
}

// Visible reports whether the sprite should be drawn.
func (s Sprite) Visible() bool {
	return s.State != object.VisualHidden
}

// Effect is a running timed visual.
type Effect struct {
	Kind     object.EffectKind
	X, Y     float64
	Start    time.Time
	Duration time.Duration
}

// Progress returns the elapsed fraction of the effect at now, in [0,1].
func (e Effect) Progress(now time.Time) float64 {
	fx := object.Effect{Kind: e.Kind, Start: e.Start, Duration: e.Duration}
	return fx.Progress(now)
}

type spriteKey struct {
	kind object.Kind
	slot int
}

// Scene collects presenter calls into drawable state.
type Scene struct {
	clock  game.Clock
	sounds SoundPlayer

	sprites map[spriteKey]*Sprite

	beam      object.Beam
	beamStart time.Time
	beamOn    bool

	effects []Effect

	score     int
	indicator game.PowerIndicator

	pointerX, pointerY float64
	irisX, irisY       float64
}

var _ game.Presenter = (*Scene)(nil)

// New creates an empty scene. sounds may be nil.
func New(clock game.Clock, sounds SoundPlayer) *Scene {
	if clock == nil {
		clock = game.SystemClock{}
	}
	return &Scene{
		clock:   clock,
		sounds:  sounds,
		sprites: make(map[spriteKey]*Sprite),
	}
}

func (s *Scene) play(c Cue) {
	if s.sounds != nil {
		s.sounds.PlayCue(c)
	}
}

func (s *Scene) sprite(kind object.Kind, slot int) *Sprite {
	k := spriteKey{kind, slot}
	sp := s.sprites[k]
	if sp == nil {
		sp = &Sprite{Kind: kind, Slot: slot}
		s.sprites[k] = sp
	}
	return sp
}

func (s *Scene) RenderTargetPosition(kind object.Kind, slot int, x, y, aux float64) {
	sp := s.sprite(kind, slot)
	sp.X, sp.Y, sp.Aux = x, y, aux
}

func (s *Scene) SetTargetVisualState(kind object.Kind, slot int, state object.VisualState) {
	if state == object.VisualHidden {
		delete(s.sprites, spriteKey{kind, slot})
		return
	}
	s.sprite(kind, slot).State = state
}

func (s *Scene) RenderBeam(b object.Beam) {
	s.beam = b
	s.beamStart = s.clock.Now()
	s.beamOn = true
	s.play(CueBeam)
}

func (s *Scene) PlayEffect(kind object.EffectKind, x, y float64, d time.Duration) {
	s.effects = append(s.effects, Effect{Kind: kind, X: x, Y: y, Start: s.clock.Now(), Duration: d})
	switch kind {
	case object.EffectImpact:
		s.play(CueImpact)
	case object.EffectDestruction:
		s.play(CueDestruction)
	case object.EffectPowerMarker:
		s.play(CuePowerMarker)
	case object.EffectScreenFlash:
		s.play(CueScreenFlash)
	}
}

func (s *Scene) UpdateScoreDisplay(score int) {
	s.score = score
}

func (s *Scene) UpdatePowerIndicator(ind game.PowerIndicator) {
	s.indicator = ind
}

func (s *Scene) RenderReticle(px, py, irisX, irisY float64) {
	s.pointerX, s.pointerY = px, py
	s.irisX, s.irisY = irisX, irisY
}

// Prune drops the beam and effects that have expired by now.
func (s *Scene) Prune(now time.Time) {
	if s.beamOn && !now.Before(s.beamStart.Add(s.beam.Duration)) {
		s.beamOn = false
	}
	kept := s.effects[:0]
	for _, e := range s.effects {
		if now.Before(e.Start.Add(e.Duration)) {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(s.effects); i++ {
		s.effects[i] = Effect{}
	}
	s.effects = kept
}

// Sprites returns the visible sprites ordered by kind, then slot.
func (s *Scene) Sprites() []Sprite {
	out := make([]Sprite, 0, len(s.sprites))
	for _, sp := range s.sprites {
		if sp.Visible() {
			out = append(out, *sp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Slot < out[j].Slot
	})
	return out
}

// Beam returns the active beam, if any.
func (s *Scene) Beam() (object.Beam, bool) {
	return s.beam, s.beamOn
}

// Effects returns the running effects in start order.
func (s *Scene) Effects() []Effect {
	return s.effects
}

// Score returns the displayed score.
func (s *Scene) Score() int { return s.score }

// Indicator returns the displayed power indicator.
func (s *Scene) Indicator() game.PowerIndicator { return s.indicator }

// Reticle returns the pointer position and iris offset.
func (s *Scene) Reticle() (px, py, irisX, irisY float64) {
	return s.pointerX, s.pointerY, s.irisX, s.irisY
}

// Reset clears everything, as after a game restart.
func (s *Scene) Reset() {
	clear(s.sprites)
	s.beamOn = false
	s.effects = s.effects[:0]
	s.score = 0
	s.indicator = game.IndicatorIdle
}
