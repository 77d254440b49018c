package game

import (
	"testing"
	"time"

	"github.com/tomz197/lasereye/internal/object"
)

func TestPowerGatedByScore(t *testing.T) {
	h := newHarness(t)
	var changes []PowerStateChanged
	Subscribe(h.e.Bus(), func(ev PowerStateChanged) { changes = append(changes, ev) })

	h.e.addScore(9, h.clock.Now())
	if h.e.PowerState() != PowerIdle {
		t.Fatalf("state = %v at score 9", h.e.PowerState())
	}
	h.e.OnPowerActivateIntent()
	if h.e.Score() != 9 {
		t.Fatal("activation outside ready changed the score")
	}

	h.e.addScore(1, h.clock.Now())
	if !h.e.PowerReady() {
		t.Fatalf("state = %v at score 10", h.e.PowerState())
	}
	if h.rec.lastIndicator() != IndicatorReady {
		t.Errorf("indicator = %v", h.rec.lastIndicator())
	}
	if len(changes) != 1 || changes[0] != (PowerStateChanged{From: PowerIdle, To: PowerReady}) {
		t.Errorf("changes = %+v", changes)
	}

	h.e.addScore(-1, h.clock.Now())
	if h.e.PowerState() != PowerIdle {
		t.Errorf("state = %v after dropping below threshold", h.e.PowerState())
	}
}

func TestPowerActivationSequence(t *testing.T) {
	h := newHarness(t)
	h.e.addScore(10, h.clock.Now())
	h.place(object.KindAirplane, 100, 100)
	h.place(object.KindAirplane, 300, 100)
	robot := h.place(object.KindRobot, 500, 100)

	var scoreEvents []ScoreChanged
	Subscribe(h.e.Bus(), func(ev ScoreChanged) { scoreEvents = append(scoreEvents, ev) })
	var byPower int
	Subscribe(h.e.Bus(), func(ev TargetDestroyed) {
		if ev.ByPower {
			byPower++
		}
	})

	h.e.OnPowerActivateIntent()
	if h.e.Score() != 5 {
		t.Fatalf("score after activation = %d, want 5", h.e.Score())
	}
	if h.e.PowerState() != PowerCharging {
		t.Fatalf("state = %v, want charging", h.e.PowerState())
	}
	if h.rec.countEffects(object.EffectPowerMarker) != 1 {
		t.Error("marker not dropped at activation")
	}

	// A second activation is ignored.
	h.e.OnPowerActivateIntent()
	if h.e.Score() != 5 {
		t.Fatal("second activation was not ignored")
	}

	h.advance(time.Second)
	if h.rec.countEffects(object.EffectScreenFlash) != 1 {
		t.Error("no screen flash at 1000ms")
	}
	if len(h.e.Targets(object.KindAirplane)) != 2 {
		t.Fatal("targets destroyed before 1500ms")
	}

	h.advance(500 * time.Millisecond)
	if h.e.Score() != 10 {
		t.Errorf("score after mass destroy = %d, want 10", h.e.Score())
	}
	if byPower != 3 {
		t.Errorf("destroyed by power = %d, want 3", byPower)
	}
	// Activation cost, then one batched award.
	if len(scoreEvents) != 2 || scoreEvents[0].Delta != -PowerCost || scoreEvents[1].Delta != 5 {
		t.Errorf("score events = %+v", scoreEvents)
	}
	if got := h.rec.lastState(object.KindRobot, robot.Index); got != object.VisualDestroyed {
		t.Errorf("robot visual = %v", got)
	}
	if h.e.PowerReady() {
		t.Error("ready during cooldown")
	}

	h.advance(time.Second)
	for _, kind := range []object.Kind{object.KindAirplane, object.KindRobot} {
		if _, active := h.e.PoolUsage(kind); active != 0 {
			t.Errorf("%v: %d still pooled 1s after mass destroy", kind, active)
		}
	}

	h.advance(500 * time.Millisecond)
	if h.e.PowerState() != PowerCooldown {
		t.Errorf("state after sequence = %v, want cooldown", h.e.PowerState())
	}
	if h.rec.lastIndicator() != IndicatorCharging {
		t.Errorf("indicator during cooldown = %v", h.rec.lastIndicator())
	}
}

func TestCooldownExpiryNeedsEvaluation(t *testing.T) {
	h := newHarness(t)
	h.e.addScore(20, h.clock.Now())
	h.e.OnPowerActivateIntent()

	// Tick once per second; the cooldown ends 20s after activation.
	for range 19 {
		h.advance(time.Second)
		if h.e.PowerReady() {
			t.Fatalf("ready after %v", h.clock.Now().Sub(epoch))
		}
	}
	h.advance(time.Second)
	if !h.e.PowerReady() {
		t.Fatalf("state = %v after cooldown", h.e.PowerState())
	}
}

func TestCooldownExpiryWithoutEnoughScore(t *testing.T) {
	h := newHarness(t)
	h.e.addScore(10, h.clock.Now())
	h.e.OnPowerActivateIntent()

	h.step(21*time.Second, 500*time.Millisecond)
	if h.e.PowerState() != PowerIdle {
		t.Errorf("state = %v, want idle at score %d", h.e.PowerState(), h.e.Score())
	}
}

func TestPowerHintShowsChargingWhileIdle(t *testing.T) {
	h := newHarness(t, func(o *Options) { o.PowerHint = true })
	if h.rec.lastIndicator() != IndicatorIdle {
		t.Fatalf("initial indicator = %v", h.rec.lastIndicator())
	}

	h.advance(time.Second)
	if h.rec.lastIndicator() != IndicatorCharging {
		t.Fatalf("indicator at 1s = %v, want charging", h.rec.lastIndicator())
	}
	if h.e.PowerState() != PowerIdle {
		t.Errorf("hint changed the real state to %v", h.e.PowerState())
	}

	// Reaching the threshold during the hint shows ready.
	h.e.addScore(10, h.clock.Now())
	if h.rec.lastIndicator() != IndicatorReady {
		t.Errorf("indicator = %v, want ready", h.rec.lastIndicator())
	}
	h.e.addScore(-10, h.clock.Now())
	if h.rec.lastIndicator() != IndicatorCharging {
		t.Errorf("indicator = %v, want hint", h.rec.lastIndicator())
	}

	h.advance(PowerCooldownDuration)
	if h.rec.lastIndicator() != IndicatorIdle {
		t.Errorf("indicator after hint = %v, want idle", h.rec.lastIndicator())
	}
}

func TestPowerStateIndicatorMapping(t *testing.T) {
	tests := []struct {
		state PowerState
		want  PowerIndicator
	}{
		{PowerIdle, IndicatorIdle},
		{PowerReady, IndicatorReady},
		{PowerCharging, IndicatorCharging},
		{PowerCooldown, IndicatorCharging},
	}
	for _, tt := range tests {
		if got := tt.state.Indicator(); got != tt.want {
			t.Errorf("%v.Indicator() = %v, want %v", tt.state, got, tt.want)
		}
	}
}
