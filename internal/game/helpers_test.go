package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/tomz197/lasereye/internal/object"
	"github.com/tomz197/lasereye/internal/pool"
)

var epoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type effectCall struct {
	kind object.EffectKind
	x, y float64
	d    time.Duration
}

type slotKey struct {
	kind object.Kind
	slot int
}

// recorder is a Presenter that remembers every call.
type recorder struct {
	positions  int
	states     map[slotKey][]object.VisualState
	beams      []object.Beam
	effects    []effectCall
	scores     []int
	indicators []PowerIndicator
	reticles   int
}

func newRecorder() *recorder {
	return &recorder{states: make(map[slotKey][]object.VisualState)}
}

func (r *recorder) RenderTargetPosition(object.Kind, int, float64, float64, float64) {
	r.positions++
}

func (r *recorder) SetTargetVisualState(kind object.Kind, slot int, s object.VisualState) {
	k := slotKey{kind, slot}
	r.states[k] = append(r.states[k], s)
}

func (r *recorder) RenderBeam(b object.Beam) { r.beams = append(r.beams, b) }

func (r *recorder) PlayEffect(kind object.EffectKind, x, y float64, d time.Duration) {
	r.effects = append(r.effects, effectCall{kind, x, y, d})
}

func (r *recorder) UpdateScoreDisplay(score int) { r.scores = append(r.scores, score) }

func (r *recorder) UpdatePowerIndicator(p PowerIndicator) {
	r.indicators = append(r.indicators, p)
}

func (r *recorder) RenderReticle(float64, float64, float64, float64) { r.reticles++ }

func (r *recorder) lastState(kind object.Kind, slot int) object.VisualState {
	s := r.states[slotKey{kind, slot}]
	if len(s) == 0 {
		return -1
	}
	return s[len(s)-1]
}

func (r *recorder) countEffects(kind object.EffectKind) int {
	n := 0
	for _, e := range r.effects {
		if e.kind == kind {
			n++
		}
	}
	return n
}

func (r *recorder) lastIndicator() PowerIndicator {
	if len(r.indicators) == 0 {
		return -1
	}
	return r.indicators[len(r.indicators)-1]
}

type harness struct {
	t     *testing.T
	e     *Engine
	clock *ManualClock
	rec   *recorder
}

// newHarness builds a started engine on a manual clock with an 800x600 viewport.
// By default there are no clouds, no spawn timers and no power hint.
func newHarness(t *testing.T, configure ...func(*Options)) *harness {
	t.Helper()
	clock := NewManualClock(epoch)
	rec := newRecorder()

	opts := DefaultOptions()
	opts.Clock = clock
	opts.Rand = rand.New(rand.NewSource(1))
	opts.Presenter = rec
	opts.CloudCount = 0
	opts.ManualSpawn = true
	opts.PowerHint = false
	for _, fn := range configure {
		fn(&opts)
	}

	e, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.Init(clock.Now())
	return &harness{t: t, e: e, clock: clock, rec: rec}
}

// advance moves the clock and ticks once.
func (h *harness) advance(d time.Duration) {
	h.clock.Advance(d)
	h.e.Tick(h.clock.Now())
}

// step ticks repeatedly at the given frame interval until d has passed.
func (h *harness) step(d, frame time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		h.advance(frame)
	}
}

// place spawns a target of kind and moves it to (x,y).
func (h *harness) place(kind object.Kind, x, y float64) pool.Handle {
	h.t.Helper()
	hd, ok := h.e.Spawn(kind)
	if !ok {
		h.t.Fatalf("spawn %v failed", kind)
	}
	tgt, _ := h.e.fleetFor(kind).pool.Get(hd)
	tgt.X, tgt.Y = x, y
	return hd
}

// placeCloud moves cloud i to (x,y).
func (h *harness) placeCloud(i int, x, y float64) {
	h.e.clouds[i].X, h.e.clouds[i].Y = x, y
}

func (h *harness) eye() (float64, float64) {
	r := h.e.Reticle()
	return r.EyeX, r.EyeY
}
