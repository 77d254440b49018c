package loop

import (
	"math"
	"time"

	"github.com/tomz197/lasereye/internal/draw"
	"github.com/tomz197/lasereye/internal/object"
	"github.com/tomz197/lasereye/internal/scene"
)

// Shapes in logical pixels, facing right (the direction of travel).
var (
	airplaneShape = []draw.Point{
		{X: 42, Y: 0}, {X: 30, Y: -6}, {X: 6, Y: -6}, {X: -6, Y: -26}, {X: -16, Y: -26},
		{X: -10, Y: -6}, {X: -30, Y: -6}, {X: -40, Y: -20}, {X: -46, Y: -20}, {X: -42, Y: 4},
		{X: -10, Y: 6}, {X: 30, Y: 6},
	}
	robotBody = []draw.Point{
		{X: -18, Y: -20}, {X: 18, Y: -20}, {X: 22, Y: 16}, {X: -22, Y: 16},
	}
	cloudPuffs = [][3]float64{ // x, y, radius
		{-30, 6, 22}, {0, -8, 30}, {30, 6, 22}, {0, 12, 20},
	}
)

// crashTilt is how far a crashed airplane noses down, in radians.
const crashTilt = 0.6

// drawWorld draws sprites, effects, the beam and the eye.
func (s *Session) drawWorld(now time.Time) {
	c := s.canvas
	for _, sp := range s.scene.Sprites() {
		drawSprite(c, sp, now)
	}
	for _, fx := range s.scene.Effects() {
		drawEffect(c, fx, now)
	}
	if b, on := s.scene.Beam(); on {
		ex, ey := b.End()
		c.DrawLine(draw.Point{X: b.OriginX, Y: b.OriginY}, draw.Point{X: ex, Y: ey}, draw.Red)
	}

	r := s.engine.Reticle()
	c.DrawEllipse(r.EyeX, r.EyeY, eyeRadiusX, eyeRadiusY, draw.White, false)
	c.DrawCircle(r.EyeX+r.IrisX, r.EyeY+r.IrisY, irisRadius, draw.Blue, true)

	if s.state.hasPointer {
		px, py := r.PointerX, r.PointerY
		c.DrawLine(draw.Point{X: px - crosshairSize, Y: py}, draw.Point{X: px + crosshairSize, Y: py}, draw.Green)
		c.DrawLine(draw.Point{X: px, Y: py - crosshairSize}, draw.Point{X: px, Y: py + crosshairSize}, draw.Green)
	}
}

// drawSprite draws one target in its visual state.
func drawSprite(c *draw.Canvas, sp scene.Sprite, now time.Time) {
	switch sp.Kind {
	case object.KindCloud:
		col := draw.White
		if sp.State == object.VisualDestroyed {
			// Vaporized clouds flicker until they re-form.
			if now.UnixMilli()/100%2 == 0 {
				return
			}
			col = draw.Gray
		}
		for _, p := range cloudPuffs {
			c.DrawCircle(sp.X+p[0], sp.Y+p[1], p[2], col, sp.State == object.VisualActive)
		}

	case object.KindAirplane:
		switch sp.State {
		case object.VisualCrashed:
			c.DrawShape(airplaneShape, sp.X, sp.Y, 1, crashTilt, draw.Red, true)
		default:
			c.DrawShape(airplaneShape, sp.X, sp.Y, 1, 0, draw.Cyan, true)
		}

	case object.KindRobot:
		if sp.State == object.VisualDestroyed {
			c.DrawShape(robotBody, sp.X, sp.Y, 1, 0, draw.Yellow, false)
			return
		}
		c.DrawShape(robotBody, sp.X, sp.Y, 1, 0, draw.Gray, true)
		c.DrawLine(draw.Point{X: sp.X, Y: sp.Y - 20}, draw.Point{X: sp.X, Y: sp.Y - 34}, draw.White)
		c.DrawCircle(sp.X, sp.Y-36, 4, draw.Red, true)
		// Eyes swing with the wave.
		dx := 4 * math.Sin(sp.Aux/10)
		c.Set(sp.X-8+dx, sp.Y-8, draw.Cyan)
		c.Set(sp.X+8+dx, sp.Y-8, draw.Cyan)
	}
}

// drawEffect draws a timed effect at its current progress.
func drawEffect(c *draw.Canvas, fx scene.Effect, now time.Time) {
	p := fx.Progress(now)
	switch fx.Kind {
	case object.EffectImpact:
		c.DrawCircle(fx.X, fx.Y, 5+25*p, draw.Yellow, false)
	case object.EffectDestruction:
		c.DrawCircle(fx.X, fx.Y, 10+50*p, draw.Red, false)
		if p < 0.5 {
			c.DrawCircle(fx.X, fx.Y, 8+30*p, draw.Yellow, true)
		}
	case object.EffectPowerMarker:
		pulse := 30 + 10*math.Sin(p*8*math.Pi)
		c.DrawCircle(fx.X, fx.Y, pulse, draw.Magenta, false)
		c.DrawCircle(fx.X, fx.Y, pulse/3, draw.Magenta, true)
	case object.EffectScreenFlash:
		if p < 0.5 {
			c.Dither(0, 0, c.LogicalWidth(), c.LogicalHeight(), draw.White)
		}
	}
}
