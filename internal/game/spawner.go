package game

import (
	"time"

	"github.com/tomz197/lasereye/internal/object"
	"github.com/tomz197/lasereye/internal/pool"
	"go.uber.org/zap"
)

// layoutClouds places the fixed cloud set at init.
func (e *Engine) layoutClouds(now time.Time) {
	for i := range e.clouds {
		e.cloudEpoch[i]++
		c := &e.clouds[i]
		c.Reset()
		c.Launch(e.cloudProfile, i, now, e.rng, e.screen)
		e.out.SetTargetVisualState(object.KindCloud, i, object.VisualActive)
		e.out.RenderTargetPosition(object.KindCloud, i, c.X, c.Y, 0)
	}
}

// armSpawners starts the independent self-rescheduling spawn timers.
func (e *Engine) armSpawners(now time.Time) {
	for _, f := range e.fleets() {
		e.timers.After(now, f.spawn.First(), func(now time.Time) {
			e.spawnWave(f, now)
		})
	}
}

// spawnWave launches one burst, staggered, then reschedules itself.
func (e *Engine) spawnWave(f *fleet, now time.Time) {
	n := f.spawn.BurstMin
	if extra := f.spawn.BurstMax - f.spawn.BurstMin; extra > 0 {
		n += e.rng.Intn(extra + 1)
	}
	for i := 0; i < n; i++ {
		e.timers.After(now, time.Duration(i)*f.spawn.Stagger(), func(now time.Time) {
			e.spawn(f, now)
		})
	}

	next := f.spawn.MinInterval()
	if span := f.spawn.MaxInterval() - next; span > 0 {
		next += time.Duration(e.rng.Int63n(int64(span)))
	}
	e.timers.After(now, next, func(now time.Time) {
		e.spawnWave(f, now)
	})
}

// Spawn launches one target of kind now. Returns false if the kind is not
// spawnable, the engine is stopped or the pool is exhausted.
func (e *Engine) Spawn(kind object.Kind) (pool.Handle, bool) {
	f := e.fleetFor(kind)
	if f == nil || !e.running {
		return pool.Handle{}, false
	}
	return e.spawn(f, e.now)
}

func (e *Engine) spawn(f *fleet, now time.Time) (pool.Handle, bool) {
	h, t, ok := f.pool.Acquire()
	if !ok {
		e.stats.SpawnsDropped++
		e.log.Debug("spawn dropped: pool exhausted",
			zap.Stringer("kind", f.kind),
			zap.Int("size", f.pool.Len()),
		)
		return pool.Handle{}, false
	}

	t.Launch(f.profile, h.Index, now, e.rng, e.screen)
	f.registry.Add(h)
	e.stats.Spawned++

	e.out.SetTargetVisualState(f.kind, h.Index, object.VisualActive)
	e.out.RenderTargetPosition(f.kind, h.Index, t.X, t.Y, t.Aux())
	e.log.Debug("spawned",
		zap.Stringer("kind", f.kind),
		zap.Int("slot", h.Index),
		zap.Float64("speed", t.Speed),
	)
	return h, true
}
