// Package desktop runs the game in a window using ebiten.
package desktop

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tomz197/lasereye/internal/config"
	"github.com/tomz197/lasereye/internal/data"
	"github.com/tomz197/lasereye/internal/game"
	"github.com/tomz197/lasereye/internal/object"
	"github.com/tomz197/lasereye/internal/scene"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"
)

var (
	skyColor      = color.RGBA{0x10, 0x18, 0x30, 0xff}
	cloudColor    = color.RGBA{0xee, 0xee, 0xf4, 0xff}
	vaporColor    = color.NRGBA{0x90, 0x90, 0xa0, 0x80}
	planeColor    = color.RGBA{0x50, 0xd0, 0xf0, 0xff}
	crashColor    = color.RGBA{0xf0, 0x40, 0x30, 0xff}
	robotColor    = color.RGBA{0xa0, 0xa0, 0xb0, 0xff}
	wreckColor    = color.RGBA{0xf0, 0xd0, 0x30, 0xff}
	beamColor     = color.RGBA{0xff, 0x20, 0x20, 0xff}
	irisColor     = color.RGBA{0x30, 0x60, 0xf0, 0xff}
	markerColor   = color.RGBA{0xe0, 0x40, 0xe0, 0xff}
	crosshairClr  = color.RGBA{0x40, 0xf0, 0x60, 0xff}
	readyColor    = color.RGBA{0x40, 0xf0, 0x60, 0xff}
	chargingColor = color.RGBA{0xf0, 0xd0, 0x30, 0xff}
	idleColor     = color.RGBA{0x80, 0x80, 0x80, 0xff}
)

// Options configures the window frontend.
type Options struct {
	Game   config.GameConfig
	Table  *data.Table
	Logger *zap.Logger
	Sounds scene.SoundPlayer
	Width  int
	Height int
}

// App implements ebiten.Game around one engine.
type App struct {
	engine *game.Engine
	scene  *scene.Scene
	log    *zap.Logger

	width, height      int
	started            bool
	pointerX, pointerY int
}

var _ ebiten.Game = (*App)(nil)

// New builds the app. The game starts on the first click or space.
func New(opts Options) (*App, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	sc := scene.New(game.SystemClock{}, opts.Sounds)

	seed := opts.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	eo := game.DefaultOptions()
	eo.Rand = rand.New(rand.NewSource(seed))
	eo.Logger = opts.Logger
	eo.Presenter = sc
	eo.Table = opts.Table
	eo.CloudCount = opts.Game.CloudCount
	eo.OriginX, eo.OriginY = opts.Game.OriginX, opts.Game.OriginY
	eo.PowerHint = opts.Game.PowerHint
	eo.PowerEvalInterval = opts.Game.PowerEvalInterval
	eo.MaintenanceInterval = opts.Game.MaintenanceInterval
	eo.Width, eo.Height = opts.Width, opts.Height

	e, err := game.New(eo)
	if err != nil {
		return nil, err
	}
	return &App{
		engine: e,
		scene:  sc,
		log:    opts.Logger,
		width:  opts.Width,
		height: opts.Height,
	}, nil
}

// Update handles input and advances the engine.
func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		a.stop()
		return ebiten.Termination
	}
	now := time.Now()

	click := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	power := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) ||
		inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeySpace)

	if !a.started {
		if click || power {
			a.scene.Reset()
			a.engine.Init(now)
			a.started = true
		}
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.stop()
		return nil
	}

	x, y := ebiten.CursorPosition()
	if x != a.pointerX || y != a.pointerY {
		a.pointerX, a.pointerY = x, y
		a.engine.OnPointerMove(float64(x), float64(y))
	}
	if click {
		a.engine.OnFireIntent(float64(x), float64(y))
	}
	if power {
		a.engine.OnPowerActivateIntent()
	}

	a.engine.Tick(now)
	a.scene.Prune(now)
	return nil
}

func (a *App) stop() {
	if !a.started {
		return
	}
	a.log.Info("game over", zap.Int("score", a.engine.Score()), zap.Int("shots", a.engine.Stats().Shots))
	a.engine.Shutdown()
	a.scene.Reset()
	a.started = false
}

// Layout follows the window size; the engine works in window pixels.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != a.width || outsideHeight != a.height {
		a.width, a.height = outsideWidth, outsideHeight
		a.engine.OnViewportResize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Draw renders the scene.
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(skyColor)
	if !a.started {
		a.drawTitle(screen)
		return
	}

	now := time.Now()
	for _, sp := range a.scene.Sprites() {
		drawSprite(screen, sp)
	}
	for _, fx := range a.scene.Effects() {
		drawEffect(screen, fx, now, a.width, a.height)
	}
	if b, on := a.scene.Beam(); on {
		ex, ey := b.End()
		vector.StrokeLine(screen, float32(b.OriginX), float32(b.OriginY), float32(ex), float32(ey), 3, beamColor, true)
	}

	r := a.engine.Reticle()
	drawEye(screen, r)

	text.Draw(screen, fmt.Sprintf("Score: %d", a.scene.Score()), basicfont.Face7x13, 12, 20, color.White)
	label, clr := indicatorLabel(a.scene.Indicator())
	text.Draw(screen, label, basicfont.Face7x13, a.width-12-7*len(label), 20, clr)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %d  TPS: %.0f", a.engine.FPS(), ebiten.ActualTPS()), 12, a.height-20)
}

func (a *App) drawTitle(screen *ebiten.Image) {
	lines := []string{
		"L A S E R   E Y E",
		"",
		"Mouse: aim   Click: fire   Right click / P: power",
		"Esc: title   Q: quit",
		"",
		"Click or press SPACE to start",
	}
	y := a.height/2 - len(lines)*16/2
	for i, line := range lines {
		x := a.width/2 - len(line)*7/2
		text.Draw(screen, line, basicfont.Face7x13, x, y+i*16, color.White)
	}
}

func indicatorLabel(ind game.PowerIndicator) (string, color.Color) {
	switch ind {
	case game.IndicatorReady:
		return "POWER READY", readyColor
	case game.IndicatorCharging:
		return "POWER CHARGING", chargingColor
	}
	return "POWER ----", idleColor
}

func drawSprite(screen *ebiten.Image, sp scene.Sprite) {
	x, y := float32(sp.X), float32(sp.Y)
	switch sp.Kind {
	case object.KindCloud:
		clr := color.Color(cloudColor)
		if sp.State == object.VisualDestroyed {
			clr = vaporColor
		}
		vector.DrawFilledCircle(screen, x-30, y+6, 22, clr, true)
		vector.DrawFilledCircle(screen, x, y-8, 30, clr, true)
		vector.DrawFilledCircle(screen, x+30, y+6, 22, clr, true)

	case object.KindAirplane:
		clr, tilt := color.Color(planeColor), float32(0)
		if sp.State == object.VisualCrashed {
			clr, tilt = crashColor, 20
		}
		vector.StrokeLine(screen, x-42, y-tilt, x+42, y+tilt, 10, clr, true)
		vector.StrokeLine(screen, x+2, y, x-12, y-26, 8, clr, true)
		vector.StrokeLine(screen, x-36, y-tilt, x-44, y-tilt-18, 6, clr, true)

	case object.KindRobot:
		if sp.State == object.VisualDestroyed {
			vector.StrokeRect(screen, x-20, y-20, 40, 36, 2, wreckColor, true)
			return
		}
		vector.DrawFilledRect(screen, x-20, y-20, 40, 36, robotColor, true)
		vector.StrokeLine(screen, x, y-20, x, y-34, 2, color.White, true)
		vector.DrawFilledCircle(screen, x, y-36, 4, crashColor, true)
		dx := float32(4 * math.Sin(sp.Aux/10))
		vector.DrawFilledCircle(screen, x-8+dx, y-8, 3, planeColor, true)
		vector.DrawFilledCircle(screen, x+8+dx, y-8, 3, planeColor, true)
	}
}

func drawEffect(screen *ebiten.Image, fx scene.Effect, now time.Time, w, h int) {
	p := float32(fx.Progress(now))
	x, y := float32(fx.X), float32(fx.Y)
	fade := uint8(255 * (1 - p))
	switch fx.Kind {
	case object.EffectImpact:
		vector.StrokeCircle(screen, x, y, 5+25*p, 2, color.NRGBA{0xf0, 0xd0, 0x30, fade}, true)
	case object.EffectDestruction:
		vector.StrokeCircle(screen, x, y, 10+50*p, 3, color.NRGBA{0xf0, 0x40, 0x30, fade}, true)
		vector.DrawFilledCircle(screen, x, y, 8+20*(1-p), color.NRGBA{0xf0, 0xd0, 0x30, fade}, true)
	case object.EffectPowerMarker:
		r := 30 + 10*float32(math.Sin(float64(p)*8*math.Pi))
		vector.StrokeCircle(screen, x, y, r, 3, markerColor, true)
	case object.EffectScreenFlash:
		vector.DrawFilledRect(screen, 0, 0, float32(w), float32(h), color.NRGBA{0xff, 0xff, 0xff, fade / 2}, false)
	}
}

func drawEye(screen *ebiten.Image, r object.Reticle) {
	ex, ey := float32(r.EyeX), float32(r.EyeY)
	vector.DrawFilledCircle(screen, ex, ey, 24, color.White, true)
	vector.DrawFilledCircle(screen, ex+float32(r.IrisX), ey+float32(r.IrisY), 12, irisColor, true)
	vector.DrawFilledCircle(screen, ex+float32(r.IrisX), ey+float32(r.IrisY), 5, color.Black, true)

	px, py := float32(r.PointerX), float32(r.PointerY)
	vector.StrokeLine(screen, px-15, py, px+15, py, 1, crosshairClr, false)
	vector.StrokeLine(screen, px, py-15, px, py+15, 1, crosshairClr, false)
}

// Run opens the window and blocks until it is closed.
func Run(app *App, title string) error {
	ebiten.SetWindowSize(app.width, app.height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetCursorMode(ebiten.CursorModeHidden)
	if err := ebiten.RunGame(app); err != nil && err != ebiten.Termination {
		return err
	}
	app.stop()
	return nil
}
