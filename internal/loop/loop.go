// Package loop runs one terminal game session: input, engine tick and drawing
// at a fixed frame rate. Sessions are independent; a Hub only tracks them.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/tomz197/lasereye/internal/config"
	"github.com/tomz197/lasereye/internal/data"
	"github.com/tomz197/lasereye/internal/draw"
	"github.com/tomz197/lasereye/internal/game"
	"github.com/tomz197/lasereye/internal/input"
	"github.com/tomz197/lasereye/internal/scene"
	"go.uber.org/zap"
)

// Options configures a session.
type Options struct {
	Terminal config.TerminalConfig
	Game     config.GameConfig
	Table    *data.Table // nil = embedded table
	Logger   *zap.Logger
	Sounds   scene.SoundPlayer // nil = silent

	TermSizeFunc draw.TermSizeFunc // nil = size of os.Stdout
	Hub          *Hub              // optional
	Username     string

	IdleTimeout time.Duration // 0 disables the idle disconnect
	AutoStart   bool          // skip the title screen
}

// Session is one player's terminal: it owns an engine, a scene and a canvas.
type Session struct {
	opts   Options
	log    *zap.Logger
	engine *game.Engine
	scene  *scene.Scene

	canvas   *draw.Canvas
	cw       *draw.ChunkWriter
	writer   io.Writer
	stream   *input.Stream
	handle   *Handle
	state    *State
	termSize draw.TermSizeFunc
	frame    time.Duration
}

// NewSession builds a session reading input from r and drawing to w.
func NewSession(r *bufio.Reader, w io.Writer, opts Options) (*Session, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	if opts.Terminal.FPS <= 0 {
		opts.Terminal = config.Defaults().Terminal
	}

	s := &Session{
		opts:     opts,
		log:      opts.Logger,
		scene:    scene.New(game.SystemClock{}, opts.Sounds),
		canvas:   draw.NewScaledCanvas(0, 0, 1, 1),
		cw:       draw.NewChunkWriter(w, 0, 0),
		writer:   w,
		state:    NewState(time.Now()),
		termSize: opts.TermSizeFunc,
		frame:    time.Second / time.Duration(opts.Terminal.FPS),
	}
	if opts.Hub != nil {
		s.handle = opts.Hub.Register(opts.Username)
		s.log = s.log.With(zap.Int("session", s.handle.ID))
	}

	e, err := game.New(s.engineOptions())
	if err != nil {
		if s.handle != nil {
			opts.Hub.Unregister(s.handle.ID)
		}
		return nil, fmt.Errorf("create engine: %w", err)
	}
	s.engine = e
	s.subscribe()

	s.updateScreen()
	s.stream = input.StartStream(r)
	return s, nil
}

func (s *Session) engineOptions() game.Options {
	g := s.opts.Game
	seed := g.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	opts := game.DefaultOptions()
	opts.Rand = rand.New(rand.NewSource(seed))
	opts.Logger = s.log
	opts.Presenter = s.scene
	opts.Table = s.opts.Table
	opts.CloudCount = g.CloudCount
	opts.OriginX, opts.OriginY = g.OriginX, g.OriginY
	opts.PowerHint = g.PowerHint
	opts.PowerEvalInterval = g.PowerEvalInterval
	opts.MaintenanceInterval = g.MaintenanceInterval
	return opts
}

// subscribe logs the engine's gameplay events.
func (s *Session) subscribe() {
	bus := s.engine.Bus()
	game.Subscribe(bus, func(ev game.TargetDestroyed) {
		s.log.Debug("target destroyed",
			zap.Stringer("kind", ev.Kind),
			zap.Int("points", ev.Points),
			zap.Bool("power", ev.ByPower),
		)
	})
	game.Subscribe(bus, func(ev game.PowerStateChanged) {
		s.log.Debug("power state changed", zap.Stringer("from", ev.From), zap.Stringer("to", ev.To))
	})
}

// Run drives the session until the player quits, the input closes or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	draw.HideCursor(s.writer)
	input.EnableMouse(s.writer)
	draw.ClearScreen(s.writer)
	defer func() {
		input.DisableMouse(s.writer)
		draw.ShowCursor(s.writer)
		draw.ClearScreen(s.writer)
	}()
	if s.handle != nil {
		defer s.opts.Hub.Unregister(s.handle.ID)
	}

	s.log.Info("session started", zap.String("user", s.opts.Username))
	if s.opts.AutoStart {
		s.startGame(time.Now())
	}

	for s.state.Running {
		frameStart := time.Now()
		if ctx.Err() != nil {
			break
		}

		s.updateScreen()
		s.processInput(frameStart)
		s.processHubEvents(frameStart)

		switch s.state.Phase {
		case PhaseStart:
			s.updateStartState(frameStart)
		case PhasePlaying:
			s.updatePlayingState(frameStart)
		case PhaseShutdown:
			s.updateShutdownState(frameStart)
		}

		if err := s.drawFrame(frameStart); err != nil {
			s.stopGame("write error")
			return err
		}

		if wait := s.frame - time.Since(frameStart); wait > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(wait):
			}
		}
	}

	s.stopGame("session ended")
	s.log.Info("session ended", zap.String("user", s.opts.Username))
	return nil
}

// processInput reads this frame's input and tracks activity.
func (s *Session) processInput(now time.Time) {
	in := input.ReadInput(s.stream)
	s.state.Input = in

	if active(in) {
		s.state.lastInput = now
		s.state.idle = false
	} else if s.opts.IdleTimeout > 0 {
		idleFor := now.Sub(s.state.lastInput)
		switch {
		case idleFor >= s.opts.IdleTimeout:
			s.log.Info("disconnecting idle session", zap.Duration("idle", idleFor))
			s.state.Running = false
		case idleFor >= s.opts.IdleTimeout-IdleWarning:
			s.state.idle = true
		}
	}

	if in.Moved {
		s.state.PointerX, s.state.PointerY = s.canvas.TerminalToLogical(in.Col, in.Row)
		s.state.hasPointer = true
	}
	if in.Quit || in.Closed {
		s.state.Running = false
	}
}

// processHubEvents handles notifications from the hub.
func (s *Session) processHubEvents(now time.Time) {
	if s.handle == nil {
		return
	}
	for {
		select {
		case ev := <-s.handle.Events:
			if ev.Type == EventServerShutdown {
				s.stopGame("server shutdown")
				s.state.Phase = PhaseShutdown
				s.state.shutdownAt = now.Add(ShutdownDisplay)
			}
		default:
			return
		}
	}
}

// updateScreen follows terminal resizes, letterboxing to the maximum size.
// A cell is CellWidth x CellHeight logical pixels.
func (s *Session) updateScreen() {
	tw, th, err := s.termSize()
	if err != nil {
		return
	}
	t := s.opts.Terminal
	w, h, offCol, offRow := draw.ClampSize(tw, th, t.MaxWidth, t.MaxHeight)
	if w == s.canvas.TerminalWidth() && h == s.canvas.TerminalHeight() &&
		offCol == s.canvas.OffsetCol() && offRow == s.canvas.OffsetRow() {
		return
	}

	s.cw.Clear()
	s.canvas.Resize(w, h)
	s.canvas.SetOffset(offCol, offRow)
	s.canvas.ForceRedraw()
	s.cw.SetOffset(offCol, offRow)

	vw, vh := w*t.CellWidth, h*t.CellHeight
	s.canvas.SetLogicalSize(float64(vw), float64(vh))
	s.engine.OnViewportResize(vw, vh)
	s.log.Debug("viewport resized", zap.Int("cols", w), zap.Int("rows", h), zap.Int("width", vw), zap.Int("height", vh))
}

// updateStartState waits on the title screen for a click or space.
func (s *Session) updateStartState(now time.Time) {
	in := s.state.Input
	if in.Power || len(in.Clicks) > 0 {
		s.startGame(now)
	}
}

// updatePlayingState feeds intents to the engine and advances it.
func (s *Session) updatePlayingState(now time.Time) {
	in := s.state.Input
	if in.Escape {
		s.stopGame("back to title")
		s.state.Phase = PhaseStart
		return
	}

	if in.Moved {
		s.engine.OnPointerMove(s.state.PointerX, s.state.PointerY)
	}
	for _, click := range in.Clicks {
		x, y := s.canvas.TerminalToLogical(click.Col, click.Row)
		s.engine.OnPointerMove(x, y)
		s.engine.OnFireIntent(x, y)
	}
	if in.Power {
		s.engine.OnPowerActivateIntent()
	}

	s.engine.Tick(now)
	s.scene.Prune(now)
}

// updateShutdownState counts down the shutdown notice.
func (s *Session) updateShutdownState(now time.Time) {
	if !now.Before(s.state.shutdownAt) {
		s.state.Running = false
	}
}

// startGame starts a fresh engine run.
func (s *Session) startGame(now time.Time) {
	s.scene.Reset()
	s.engine.Init(now)
	if s.state.hasPointer {
		s.engine.OnPointerMove(s.state.PointerX, s.state.PointerY)
	}
	s.state.Phase = PhasePlaying
}

// stopGame shuts the engine down if it is running.
func (s *Session) stopGame(reason string) {
	if !s.engine.Running() {
		return
	}
	st, score := s.engine.Stats(), s.engine.Score()
	s.engine.Shutdown()
	s.scene.Reset()
	s.log.Info("game over",
		zap.String("reason", reason),
		zap.Int("score", score),
		zap.Int("shots", st.Shots),
		zap.Int("hits", st.Hits),
		zap.Int("spawned", st.Spawned),
	)
}

// drawFrame draws the current phase and flushes the frame.
func (s *Session) drawFrame(now time.Time) error {
	// Phase or idle transitions clear the terminal so stale text disappears.
	if s.state.Phase != s.state.prevPhase || s.state.idle != s.state.wasIdle {
		s.cw.Clear()
		s.canvas.ForceRedraw()
		s.state.prevPhase = s.state.Phase
		s.state.wasIdle = s.state.idle
	}

	s.canvas.Clear()
	if s.state.Phase == PhasePlaying && !s.state.idle {
		s.drawWorld(now)
	}
	s.canvas.Render(s.cw)
	s.canvas.RenderBorder(s.cw)
	s.drawUI(now)

	return s.cw.Flush()
}

// Engine returns the session's engine.
func (s *Session) Engine() *game.Engine { return s.engine }

// State returns the session's frontend state.
func (s *Session) State() *State { return s.state }
