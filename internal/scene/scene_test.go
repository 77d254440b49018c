package scene

import (
	"math/rand"
	"testing"
	"time"

	"github.com/tomz197/lasereye/internal/game"
	"github.com/tomz197/lasereye/internal/object"
)

var epoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type cueLog struct {
	cues []Cue
}

func (c *cueLog) PlayCue(cue Cue) { c.cues = append(c.cues, cue) }

func TestSpriteLifecycle(t *testing.T) {
	s := New(game.NewManualClock(epoch), nil)

	s.SetTargetVisualState(object.KindRobot, 2, object.VisualActive)
	s.RenderTargetPosition(object.KindRobot, 2, 10, 20, 5)
	s.SetTargetVisualState(object.KindCloud, 0, object.VisualActive)
	s.RenderTargetPosition(object.KindCloud, 0, 1, 2, 0)

	sprites := s.Sprites()
	if len(sprites) != 2 {
		t.Fatalf("sprites = %d", len(sprites))
	}
	if sprites[0].Kind != object.KindCloud || sprites[1].Kind != object.KindRobot {
		t.Errorf("sprites not ordered by kind: %+v", sprites)
	}
	if r := sprites[1]; r.X != 10 || r.Y != 20 || r.Aux != 5 {
		t.Errorf("robot sprite = %+v", r)
	}

	s.SetTargetVisualState(object.KindRobot, 2, object.VisualDestroyed)
	if got := s.Sprites()[1].State; got != object.VisualDestroyed {
		t.Errorf("state = %v", got)
	}
	s.SetTargetVisualState(object.KindRobot, 2, object.VisualHidden)
	if len(s.Sprites()) != 1 {
		t.Error("hidden sprite still listed")
	}
}

func TestBeamAndEffectsExpire(t *testing.T) {
	clock := game.NewManualClock(epoch)
	cues := &cueLog{}
	s := New(clock, cues)

	s.RenderBeam(object.NewBeam(0, 0, 10, 0, 150*time.Millisecond))
	s.PlayEffect(object.EffectImpact, 10, 0, 600*time.Millisecond)
	s.PlayEffect(object.EffectDestruction, 10, 0, 800*time.Millisecond)

	clock.Advance(149 * time.Millisecond)
	s.Prune(clock.Now())
	if _, on := s.Beam(); !on {
		t.Error("beam expired early")
	}

	clock.Advance(time.Millisecond)
	s.Prune(clock.Now())
	if _, on := s.Beam(); on {
		t.Error("beam outlived its duration")
	}

	clock.Advance(450 * time.Millisecond)
	s.Prune(clock.Now())
	fx := s.Effects()
	if len(fx) != 1 || fx[0].Kind != object.EffectDestruction {
		t.Fatalf("effects at 600ms = %+v", fx)
	}
	if p := fx[0].Progress(clock.Now()); p != 0.75 {
		t.Errorf("progress = %v, want 0.75", p)
	}

	clock.Advance(200 * time.Millisecond)
	s.Prune(clock.Now())
	if len(s.Effects()) != 0 {
		t.Error("effects outlived their duration")
	}

	want := []Cue{CueBeam, CueImpact, CueDestruction}
	if len(cues.cues) != len(want) {
		t.Fatalf("cues = %v", cues.cues)
	}
	for i := range want {
		if cues.cues[i] != want[i] {
			t.Errorf("cue %d = %v, want %v", i, cues.cues[i], want[i])
		}
	}
}

// The scene must be a complete presenter for a real engine.
func TestSceneDrivenByEngine(t *testing.T) {
	clock := game.NewManualClock(epoch)
	s := New(clock, nil)

	opts := game.DefaultOptions()
	opts.Clock = clock
	opts.Rand = rand.New(rand.NewSource(3))
	opts.Presenter = s
	opts.ManualSpawn = true
	opts.CloudCount = 3
	e, err := game.New(opts)
	if err != nil {
		t.Fatal(err)
	}
	e.Init(clock.Now())

	if _, ok := e.Spawn(object.KindAirplane); !ok {
		t.Fatal("spawn failed")
	}
	clock.Advance(16 * time.Millisecond)
	e.Tick(clock.Now())

	if n := len(s.Sprites()); n != 4 {
		t.Errorf("sprites = %d, want 3 clouds + 1 airplane", n)
	}
	if s.Indicator() != game.IndicatorIdle || s.Score() != 0 {
		t.Errorf("hud = %v/%d", s.Indicator(), s.Score())
	}

	e.OnPointerMove(100, 100)
	if px, py, _, _ := s.Reticle(); px != 100 || py != 100 {
		t.Errorf("reticle = %v,%v", px, py)
	}

	e.OnFireIntent(790, 10)
	if _, on := s.Beam(); !on {
		t.Error("no beam after firing")
	}

	e.Shutdown()
	if n := len(s.Sprites()); n != 0 {
		t.Errorf("%d sprites visible after shutdown", n)
	}
}
