// Package game is the runtime engine: pooled targets, spawning, kinematics,
// hit testing, scoring and the power ability, driven by one update loop.
//
// The engine is single-threaded. Tick, the intents and every deferred timer
// must be called from the same goroutine.
package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/tomz197/lasereye/internal/data"
	"github.com/tomz197/lasereye/internal/object"
	"github.com/tomz197/lasereye/internal/pool"
	"go.uber.org/zap"
)

// Options configures an Engine. Start from DefaultOptions; nil dependencies
// and non-positive intervals fall back to defaults.
type Options struct {
	Clock     Clock
	Rand      *rand.Rand
	Logger    *zap.Logger
	Presenter Presenter
	Table     *data.Table

	CloudCount       int
	OriginX, OriginY float64 // Eye position as a fraction of the viewport
	PowerHint        bool

	PowerEvalInterval   time.Duration
	MaintenanceInterval time.Duration

	// ManualSpawn disables the spawn timers; targets only appear through Spawn.
	ManualSpawn bool

	Width, Height int // Initial viewport in pixels
}

// DefaultOptions returns the standard game setup.
func DefaultOptions() Options {
	return Options{
		CloudCount:          DefaultCloudCount,
		OriginX:             DefaultOriginX,
		OriginY:             DefaultOriginY,
		PowerHint:           true,
		PowerEvalInterval:   DefaultPowerEvalInterval,
		MaintenanceInterval: DefaultMaintenanceInterval,
		Width:               800,
		Height:              600,
	}
}

// fleet is a pooled, spawned target kind.
type fleet struct {
	kind     object.Kind
	profile  object.Profile
	spawn    data.SpawnSpec
	pool     *pool.Pool[object.Target]
	registry *Registry
	trim     data.PoolSpec
}

// effectPool recycles one kind of timed effect.
type effectPool struct {
	kind     object.EffectKind
	duration time.Duration
	pool     *pool.Pool[object.Effect]
	trim     data.PoolSpec
}

// Stats counts engine activity for diagnostics and tests.
type Stats struct {
	Shots          int // Fire intents that passed the latch
	Hits           int
	Spawned        int
	SpawnsDropped  int
	EffectsDropped int
	Culled         int
	Compacted      int
	Trimmed        int
}

// Engine runs one game session.
type Engine struct {
	clock Clock
	rng   *rand.Rand
	log   *zap.Logger
	out   Presenter
	bus   *Bus

	timers *Scheduler

	cloudProfile object.Profile
	clouds       []object.Target
	cloudEpoch   []uint64 // invalidates pending re-arms across restarts

	airplanes *fleet
	robots    *fleet
	effects   [2]*effectPool // impact, destruction

	screen  object.Screen
	reticle object.Reticle
	originX float64
	originY float64

	score       int
	power       powerGate
	beamLatched bool
	stats       Stats

	powerHint           bool
	manualSpawn         bool
	powerEvalInterval   time.Duration
	maintenanceInterval time.Duration
	lastPowerEval       time.Time
	lastMaintenance     time.Time

	fpsWindowStart time.Time
	fpsFrames      int
	fps            int

	startedAt time.Time
	now       time.Time // Last tick
	running   bool
}

// New builds an engine and pre-warms its pools. The engine is idle until Init.
func New(opts Options) (*Engine, error) {
	def := DefaultOptions()
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Presenter == nil {
		opts.Presenter = NopPresenter{}
	}
	if opts.Table == nil {
		opts.Table = data.Default()
	}
	if opts.CloudCount < 0 {
		return nil, fmt.Errorf("cloud count must not be negative: %d", opts.CloudCount)
	}
	if opts.PowerEvalInterval <= 0 {
		opts.PowerEvalInterval = def.PowerEvalInterval
	}
	if opts.MaintenanceInterval <= 0 {
		opts.MaintenanceInterval = def.MaintenanceInterval
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = def.Width, def.Height
	}

	e := &Engine{
		clock:               opts.Clock,
		rng:                 opts.Rand,
		log:                 opts.Logger,
		out:                 opts.Presenter,
		bus:                 NewBus(),
		timers:              NewScheduler(),
		originX:             opts.OriginX,
		originY:             opts.OriginY,
		powerHint:           opts.PowerHint,
		manualSpawn:         opts.ManualSpawn,
		powerEvalInterval:   opts.PowerEvalInterval,
		maintenanceInterval: opts.MaintenanceInterval,
	}

	var err error
	if e.cloudProfile, err = profileFor(opts.Table, object.KindCloud); err != nil {
		return nil, err
	}
	e.clouds = make([]object.Target, opts.CloudCount)
	e.cloudEpoch = make([]uint64, opts.CloudCount)
	if e.airplanes, err = newFleet(opts.Table, object.KindAirplane); err != nil {
		return nil, err
	}
	if e.robots, err = newFleet(opts.Table, object.KindRobot); err != nil {
		return nil, err
	}
	for i, kind := range []object.EffectKind{object.EffectImpact, object.EffectDestruction} {
		spec := opts.Table.Effect(kind.String())
		if spec == nil {
			return nil, fmt.Errorf("target table has no %s effect", kind)
		}
		e.effects[i] = &effectPool{
			kind:     kind,
			duration: spec.Duration(),
			pool:     pool.New(spec.Pool.Size, object.ResetEffect),
			trim:     spec.Pool,
		}
	}

	// Score changes reach the HUD through the bus.
	Subscribe(e.bus, func(ev ScoreChanged) {
		e.out.UpdateScoreDisplay(ev.Score)
	})

	e.OnViewportResize(opts.Width, opts.Height)
	return e, nil
}

func newFleet(tbl *data.Table, kind object.Kind) (*fleet, error) {
	p, err := profileFor(tbl, kind)
	if err != nil {
		return nil, err
	}
	spec := tbl.Target(kind.String())
	return &fleet{
		kind:     kind,
		profile:  p,
		spawn:    spec.Spawn,
		pool:     pool.New(spec.Pool.Size, object.ResetTarget),
		registry: NewRegistry(spec.Pool.Size),
		trim:     spec.Pool,
	}, nil
}

func profileFor(tbl *data.Table, kind object.Kind) (object.Profile, error) {
	s := tbl.Target(kind.String())
	if s == nil {
		return object.Profile{}, fmt.Errorf("target table has no %s entry", kind)
	}
	return object.Profile{
		Kind:          kind,
		HitRadius:     s.HitRadius,
		Points:        s.Points,
		SpeedMin:      s.SpeedMin,
		SpeedMax:      s.SpeedMax,
		BandMin:       s.BandMin,
		BandMax:       s.BandMax,
		StartX:        s.StartX,
		ExitMargin:    s.ExitMargin,
		WaveAmplitude: s.WaveAmplitude,
		WaveFrequency: s.WaveFrequency,
		RemovalDelay:  s.RemovalDelay(),
	}, nil
}

func (e *Engine) fleets() [2]*fleet {
	return [2]*fleet{e.airplanes, e.robots}
}

func (e *Engine) fleetFor(kind object.Kind) *fleet {
	switch kind {
	case object.KindAirplane:
		return e.airplanes
	case object.KindRobot:
		return e.robots
	}
	return nil
}

// Bus exposes the engine's event bus for subscribers.
func (e *Engine) Bus() *Bus {
	return e.bus
}

// Init starts a game at now: clouds are laid out, spawners and the power hint armed.
func (e *Engine) Init(now time.Time) {
	if e.running {
		return
	}
	e.startedAt = now
	e.now = now
	e.score = 0
	e.beamLatched = false
	e.stats = Stats{}
	token := e.power.token + 1
	e.power = powerGate{token: token, indicator: -1}
	e.lastPowerEval = now
	e.lastMaintenance = now
	e.fpsWindowStart = now
	e.fpsFrames = 0
	e.fps = 0
	e.running = true

	e.layoutClouds(now)
	if !e.manualSpawn {
		e.armSpawners(now)
	}
	if e.powerHint {
		e.armPowerHint(now)
	}

	e.out.UpdateScoreDisplay(e.score)
	e.refreshIndicator()
	e.out.RenderReticle(e.reticle.PointerX, e.reticle.PointerY, e.reticle.IrisX, e.reticle.IrisY)
	e.log.Info("engine started",
		zap.Int("clouds", len(e.clouds)),
		zap.Int("width", e.screen.Width),
		zap.Int("height", e.screen.Height),
	)
}

func (e *Engine) armPowerHint(now time.Time) {
	token := e.power.token
	e.timers.After(now, PowerHintDelay, func(time.Time) {
		if e.power.token != token {
			return
		}
		e.power.hintActive = true
		e.refreshIndicator()
	})
	e.timers.After(now, PowerHintDelay+PowerCooldownDuration, func(now time.Time) {
		if !e.power.hintActive {
			return
		}
		e.power.hintActive = false
		e.evaluatePower(now)
	})
}

// Shutdown stops the game: timers are dropped, pooled entities released and intents ignored.
func (e *Engine) Shutdown() {
	if !e.running {
		return
	}
	e.running = false
	e.timers.Clear()
	e.power.token++
	e.power.sequence = false
	e.power.hintActive = false

	for _, f := range e.fleets() {
		f.pool.Each(func(h pool.Handle, _ *object.Target) {
			e.out.SetTargetVisualState(f.kind, h.Index, object.VisualHidden)
		})
		f.pool.ReleaseAll()
		f.registry.Reset()
	}
	for _, fx := range e.effects {
		fx.pool.ReleaseAll()
	}
	for i := range e.clouds {
		e.cloudEpoch[i]++
		e.clouds[i].Reset()
		e.out.SetTargetVisualState(object.KindCloud, i, object.VisualHidden)
	}

	e.log.Info("engine stopped",
		zap.Int("score", e.score),
		zap.Duration("played", e.now.Sub(e.startedAt)),
		zap.Int("shots", e.stats.Shots),
		zap.Int("hits", e.stats.Hits),
	)
}

// Tick advances the game to now. Call once per displayed frame.
func (e *Engine) Tick(now time.Time) {
	if !e.running {
		return
	}

	e.now = now
	e.timers.RunDue(now)
	e.countFrame(now)

	ctx := object.UpdateContext{Now: now, Screen: e.screen}
	e.updateClouds(ctx)
	e.updateFleet(e.airplanes, ctx)
	e.updateFleet(e.robots, ctx)

	if now.Sub(e.lastPowerEval) >= e.powerEvalInterval {
		e.lastPowerEval = now
		e.evaluatePower(now)
	}
	if now.Sub(e.lastMaintenance) >= e.maintenanceInterval {
		e.lastMaintenance = now
		e.maintain()
	}
}

func (e *Engine) countFrame(now time.Time) {
	e.fpsFrames++
	if elapsed := now.Sub(e.fpsWindowStart); elapsed >= fpsWindow {
		e.fps = int(float64(e.fpsFrames) / elapsed.Seconds())
		e.fpsFrames = 0
		e.fpsWindowStart = now
	}
}

func (e *Engine) updateClouds(ctx object.UpdateContext) {
	for i := range e.clouds {
		c := &e.clouds[i]
		if c.Vaporized() {
			continue
		}
		c.Update(ctx, e.cloudProfile)
		e.out.RenderTargetPosition(object.KindCloud, i, c.X, c.Y, c.Aux())
	}
}

func (e *Engine) updateFleet(f *fleet, ctx object.UpdateContext) {
	f.registry.Each(func(h pool.Handle) bool {
		t, ok := f.pool.Get(h)
		if !ok || !t.HitTestable() {
			f.registry.Remove(h)
			return true
		}
		if t.Update(ctx, f.profile) {
			f.registry.Remove(h)
			f.pool.Release(h)
			e.out.SetTargetVisualState(f.kind, h.Index, object.VisualHidden)
			e.stats.Culled++
			return true
		}
		e.out.RenderTargetPosition(f.kind, h.Index, t.X, t.Y, t.Aux())
		return true
	})
}

// maintain compacts registries and trims pools.
func (e *Engine) maintain() {
	for _, f := range e.fleets() {
		e.stats.Compacted += f.registry.Compact(func(h pool.Handle) bool {
			t, ok := f.pool.Get(h)
			return ok && t.HitTestable()
		})
		e.stats.Trimmed += f.pool.Trim(f.trim.Ceiling, f.trim.Floor)
	}
	for _, fx := range e.effects {
		e.stats.Trimmed += fx.pool.Trim(fx.trim.Ceiling, fx.trim.Floor)
	}
}

// OnViewportResize records the new viewport size in pixels and re-centers the eye.
func (e *Engine) OnViewportResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.screen = object.NewScreen(width, height)
	e.reticle.PlaceEye(float64(width)*e.originX, float64(height)*e.originY)
}

// OnPointerMove aims the eye at the pointer.
func (e *Engine) OnPointerMove(x, y float64) {
	e.reticle.Track(x, y)
	if !e.running {
		return
	}
	e.out.RenderReticle(x, y, e.reticle.IrisX, e.reticle.IrisY)
}

// addScore applies a score change, publishes it and re-evaluates the power gate.
func (e *Engine) addScore(delta int, now time.Time) {
	e.score += delta
	Publish(e.bus, ScoreChanged{Score: e.score, Delta: delta})
	e.evaluatePower(now)
}

// Running reports whether the engine is between Init and Shutdown.
func (e *Engine) Running() bool { return e.running }

// Score returns the current score.
func (e *Engine) Score() int { return e.score }

// PowerState returns the power state as of the last evaluation.
func (e *Engine) PowerState() PowerState { return e.power.state }

// PowerReady reports whether the power ability can be activated.
func (e *Engine) PowerReady() bool { return e.power.state == PowerReady }

// FPS returns the frame rate measured over the last full window.
func (e *Engine) FPS() int { return e.fps }

// Screen returns the viewport.
func (e *Engine) Screen() object.Screen { return e.screen }

// Reticle returns the eye and pointer state.
func (e *Engine) Reticle() object.Reticle { return e.reticle }

// Stats returns the activity counters.
func (e *Engine) Stats() Stats { return e.stats }

// BeamActive reports whether a beam is currently latched.
func (e *Engine) BeamActive() bool { return e.beamLatched }

// Targets returns copies of the hit-testable targets of kind, in hit-test order.
func (e *Engine) Targets(kind object.Kind) []object.Target {
	var out []object.Target
	if kind == object.KindCloud {
		for i := range e.clouds {
			if e.clouds[i].HitTestable() {
				out = append(out, e.clouds[i])
			}
		}
		return out
	}
	f := e.fleetFor(kind)
	if f == nil {
		return nil
	}
	f.registry.Each(func(h pool.Handle) bool {
		if t, ok := f.pool.Get(h); ok && t.HitTestable() {
			out = append(out, *t)
		}
		return true
	})
	return out
}

// PoolUsage returns the slot count and active count of a kind's pool.
func (e *Engine) PoolUsage(kind object.Kind) (size, active int) {
	f := e.fleetFor(kind)
	if f == nil {
		return len(e.clouds), len(e.clouds)
	}
	return f.pool.Len(), f.pool.ActiveCount()
}
