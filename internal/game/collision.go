package game

import (
	"time"

	"github.com/tomz197/lasereye/internal/object"
	"github.com/tomz197/lasereye/internal/physics"
	"github.com/tomz197/lasereye/internal/pool"
	"go.uber.org/zap"
)

// OnFireIntent fires the beam from the eye toward (x,y). At most one target is hit.
func (e *Engine) OnFireIntent(x, y float64) {
	if !e.running || e.beamLatched {
		return
	}
	now := e.clock.Now()
	e.beamLatched = true
	e.timers.After(now, BeamDuration, func(time.Time) {
		e.beamLatched = false
	})
	e.stats.Shots++

	ox, oy := e.reticle.EyeX, e.reticle.EyeY
	e.out.RenderBeam(object.NewBeam(ox, oy, x, y, BeamDuration))
	e.playEffect(object.EffectImpact, x, y, now)

	if e.resolveShot(ox, oy, x, y, now) {
		e.stats.Hits++
	}
}

// resolveShot hit-tests clouds, then airplanes, then robots, stopping at the first hit.
func (e *Engine) resolveShot(ox, oy, px, py float64, now time.Time) bool {
	r := e.cloudProfile.HitRadius
	for i := range e.clouds {
		c := &e.clouds[i]
		if c.HitTestable() && physics.SegmentHits(c.X, c.Y, r, ox, oy, px, py) {
			e.vaporize(i, now)
			return true
		}
	}
	for _, f := range e.fleets() {
		if e.hitFleet(f, ox, oy, px, py, now) {
			return true
		}
	}
	return false
}

func (e *Engine) hitFleet(f *fleet, ox, oy, px, py float64, now time.Time) bool {
	hit := false
	f.registry.Each(func(h pool.Handle) bool {
		t, ok := f.pool.Get(h)
		if !ok || !t.HitTestable() {
			return true
		}
		if !physics.SegmentHits(t.X, t.Y, f.profile.HitRadius, ox, oy, px, py) {
			return true
		}
		points := e.destroy(f, h, t, now, false)
		e.addScore(points, now)
		hit = true
		return false
	})
	return hit
}

// vaporize hides a cloud and re-arms it after the cloud removal delay.
func (e *Engine) vaporize(i int, now time.Time) {
	c := &e.clouds[i]
	c.MarkDestroyed()
	e.cloudEpoch[i]++
	epoch := e.cloudEpoch[i]

	e.out.SetTargetVisualState(object.KindCloud, i, c.Visual)
	e.playEffect(object.EffectDestruction, c.X, c.Y, now)
	Publish(e.bus, TargetDestroyed{
		Kind:   object.KindCloud,
		Slot:   i,
		X:      c.X,
		Y:      c.Y,
		Points: e.cloudProfile.Points,
	})
	e.addScore(e.cloudProfile.Points, now)

	e.timers.After(now, e.cloudProfile.RemovalDelay, func(time.Time) {
		if e.cloudEpoch[i] != epoch {
			return
		}
		c.Rearm()
		e.out.SetTargetVisualState(object.KindCloud, i, object.VisualActive)
	})
}

// destroy marks a pooled target destroyed, drops it from the registry and
// schedules its generation-checked pool return. Returns the points it is worth.
func (e *Engine) destroy(f *fleet, h pool.Handle, t *object.Target, now time.Time, byPower bool) int {
	t.MarkDestroyed()
	f.registry.Remove(h)

	e.out.SetTargetVisualState(f.kind, h.Index, t.Visual)
	e.playEffect(object.EffectDestruction, t.X, t.Y, now)
	Publish(e.bus, TargetDestroyed{
		Kind:    f.kind,
		Slot:    h.Index,
		X:       t.X,
		Y:       t.Y,
		Points:  f.profile.Points,
		ByPower: byPower,
	})

	e.timers.After(now, f.profile.RemovalDelay, func(time.Time) {
		// A stale handle means the slot was already recycled.
		if f.pool.Release(h) {
			e.out.SetTargetVisualState(f.kind, h.Index, object.VisualHidden)
		}
	})
	return f.profile.Points
}

// playEffect shows a pooled effect and frees its slot when it ends.
func (e *Engine) playEffect(kind object.EffectKind, x, y float64, now time.Time) {
	fx := e.effects[kind]
	h, ef, ok := fx.pool.Acquire()
	if !ok {
		e.stats.EffectsDropped++
		e.log.Debug("effect dropped: pool exhausted", zap.Stringer("kind", kind))
		return
	}
	ef.Begin(kind, x, y, now, fx.duration)
	e.out.PlayEffect(kind, x, y, fx.duration)
	e.timers.After(now, fx.duration, func(time.Time) {
		fx.pool.Release(h)
	})
}
