package game

import (
	"time"

	"github.com/tomz197/lasereye/internal/object"
	"github.com/tomz197/lasereye/internal/pool"
	"go.uber.org/zap"
)

// PowerState is the state of the area-of-effect power ability.
type PowerState int

const (
	PowerIdle     PowerState = iota // Not enough score
	PowerReady                      // Can be activated
	PowerCharging                   // Activation sequence running
	PowerCooldown                   // Sequence finished, cooldown not yet observed as expired
)

var powerNames = [...]string{"idle", "ready", "charging", "cooldown"}

func (s PowerState) String() string {
	if s < 0 || int(s) >= len(powerNames) {
		return "unknown"
	}
	return powerNames[s]
}

// Indicator maps the state to what the HUD shows.
func (s PowerState) Indicator() PowerIndicator {
	switch s {
	case PowerReady:
		return IndicatorReady
	case PowerCharging, PowerCooldown:
		return IndicatorCharging
	}
	return IndicatorIdle
}

// powerGate holds the power ability bookkeeping.
type powerGate struct {
	state      PowerState
	cooldown   bool
	sequence   bool // activation sequence in flight
	lastUse    time.Time
	token      uint64 // invalidates sequence steps across activations and shutdown
	hintActive bool
	indicator  PowerIndicator
}

// evaluatePower recomputes the power state from score and cooldown.
func (e *Engine) evaluatePower(now time.Time) {
	p := &e.power
	if p.cooldown && now.Sub(p.lastUse) >= PowerCooldownDuration {
		p.cooldown = false
	}

	next := PowerIdle
	switch {
	case p.sequence:
		next = PowerCharging
	case p.cooldown:
		next = PowerCooldown
	case e.score >= PowerMinScore:
		next = PowerReady
	}

	if next != p.state {
		prev := p.state
		p.state = next
		e.log.Debug("power state changed",
			zap.Stringer("from", prev),
			zap.Stringer("to", next),
			zap.Int("score", e.score),
		)
		Publish(e.bus, PowerStateChanged{From: prev, To: next})
	}
	e.refreshIndicator()
}

// refreshIndicator pushes the HUD indicator when it changes.
// The start-of-game hint shows charging while the real state is idle.
func (e *Engine) refreshIndicator() {
	p := &e.power
	ind := p.state.Indicator()
	if p.hintActive && p.state == PowerIdle {
		ind = IndicatorCharging
	}
	if ind != p.indicator {
		p.indicator = ind
		e.out.UpdatePowerIndicator(ind)
	}
}

// OnPowerActivateIntent fires the power ability. Ignored unless the power is ready.
func (e *Engine) OnPowerActivateIntent() {
	if !e.running || e.power.state != PowerReady {
		return
	}
	now := e.clock.Now()
	// Evaluation may be up to one interval stale.
	e.evaluatePower(now)
	if e.power.state != PowerReady {
		return
	}

	p := &e.power
	p.cooldown = true
	p.sequence = true
	p.lastUse = now
	p.token++
	e.addScore(-PowerCost, now)

	e.log.Info("power activated", zap.Int("score", e.score))
	e.runPowerSequence(now, p.token)
}

func (e *Engine) runPowerSequence(now time.Time, token uint64) {
	step := func(at time.Duration, fn func(now time.Time)) {
		e.timers.After(now, at, func(now time.Time) {
			if e.power.token != token {
				return
			}
			fn(now)
		})
	}

	// The marker is placed immediately so it shows on the activation frame.
	e.out.PlayEffect(object.EffectPowerMarker, float64(e.screen.CenterX), 0, powerCleanupAt-powerMarkerAt)

	step(powerFlashAt, func(time.Time) {
		e.out.PlayEffect(object.EffectScreenFlash, float64(e.screen.CenterX), float64(e.screen.CenterY), powerFlashLasts)
	})
	step(powerDestroyAt, func(now time.Time) {
		n, points := e.destroyAll(now)
		e.log.Debug("power mass destroy", zap.Int("targets", n), zap.Int("points", points))
	})
	step(powerCleanupAt, func(now time.Time) {
		e.power.sequence = false
		e.evaluatePower(now)
	})
}

// destroyAll destroys every live airplane and robot and awards their points as one score change.
func (e *Engine) destroyAll(now time.Time) (destroyed, points int) {
	for _, f := range e.fleets() {
		f.registry.Each(func(h pool.Handle) bool {
			t, ok := f.pool.Get(h)
			if !ok || !t.HitTestable() {
				return true
			}
			points += e.destroy(f, h, t, now, true)
			destroyed++
			return true
		})
	}
	if points > 0 {
		e.addScore(points, now)
	}
	return destroyed, points
}
