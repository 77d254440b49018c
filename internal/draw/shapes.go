package draw

import "math"

// circleSegments is the vertex count used to approximate round shapes.
const circleSegments = 24

// DrawEllipse draws an axis-aligned ellipse centered at (cx, cy).
func (c *Canvas) DrawEllipse(cx, cy, rx, ry float64, col Color, filled bool) {
	if rx <= 0 || ry <= 0 {
		c.Set(cx, cy, col)
		return
	}
	pts := c.BorrowPoints(circleSegments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / circleSegments
		pts[i] = Point{X: cx + rx*math.Cos(a), Y: cy + ry*math.Sin(a)}
	}
	c.DrawPolygon(pts, col, filled)
}

// DrawCircle draws a circle of radius r centered at (cx, cy).
func (c *Canvas) DrawCircle(cx, cy, r float64, col Color, filled bool) {
	c.DrawEllipse(cx, cy, r, r, col, filled)
}

// DrawShape draws a polygon given in local coordinates, scaled and rotated
// by angle (radians) around (cx, cy).
func (c *Canvas) DrawShape(shape []Point, cx, cy, scale, angle float64, col Color, filled bool) {
	pts := c.BorrowPoints(len(shape))
	sin, cos := math.Sincos(angle)
	for i, p := range shape {
		x, y := p.X*scale, p.Y*scale
		pts[i] = Point{X: cx + x*cos - y*sin, Y: cy + x*sin + y*cos}
	}
	c.DrawPolygon(pts, col, filled)
}

// Dither sets every other sub-pixel inside the rectangle, for translucent fills.
func (c *Canvas) Dither(x, y, w, h float64, col Color) {
	x1, y1 := c.toPixel(x, y)
	x2, y2 := c.toPixel(x+w, y+h)
	for py := max(y1, 0); py < min(y2, c.subPixelHeight); py++ {
		for px := max(x1, 0) + py%2; px < min(x2, c.termWidth); px += 2 {
			if c.pixels[py*c.termWidth+px] == Blank {
				c.pixels[py*c.termWidth+px] = col
			}
		}
	}
}
