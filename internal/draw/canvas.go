// Package draw renders pixel art to a terminal using colored half-block characters.
package draw

import (
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Color is a terminal palette entry. Blank means no pixel.
type Color uint8

const (
	Blank Color = iota
	White
	Gray
	Red
	Yellow
	Green
	Cyan
	Blue
	Magenta
)

// SGR foreground codes per Color; background codes are 10 higher.
var fgCodes = [...]int{39, 97, 90, 91, 93, 92, 96, 94, 95}

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Game objects draw in logical coordinates that are scaled onto the terminal cells.
type Canvas struct {
	termWidth      int
	termHeight     int
	subPixelHeight int     // termHeight * 2
	pixels         []Color // [y * termWidth + x]

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64
	scaleY        float64

	// 0-based terminal offset of the render area (letterboxing).
	offsetCol int
	offsetRow int

	// Cells as last written to the terminal; nil forces a full redraw.
	shown []uint16

	renderBuf       strings.Builder
	numBuf          [20]byte
	scaledBuf       []Point
	intersectionBuf []float64
	polygonBuf      []Point
}

// NewScaledCanvas creates a canvas of termWidth x termHeight cells drawing a
// logicalWidth x logicalHeight coordinate space.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{logicalWidth: logicalWidth, logicalHeight: logicalHeight}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the cell grid while keeping the logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 0)
	termHeight = max(termHeight, 0)
	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]Color, c.subPixelHeight*termWidth)
		c.shown = nil
	}
	c.rescale()
}

// SetLogicalSize changes the coordinate space mapped onto the cells.
func (c *Canvas) SetLogicalSize(width, height float64) {
	c.logicalWidth = width
	c.logicalHeight = height
	c.rescale()
}

func (c *Canvas) rescale() {
	c.scaleX, c.scaleY = 0, 0
	if c.logicalWidth > 0 {
		c.scaleX = float64(c.termWidth) / c.logicalWidth
	}
	if c.logicalHeight > 0 {
		c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
	}
}

// SetOffset sets the column and row offset of the render area.
// The canvas starts at terminal position (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.shown = nil
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// ForceRedraw makes the next Render write every non-blank cell.
// Call it after the terminal has been cleared.
func (c *Canvas) ForceRedraw() {
	c.shown = nil
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// setPixel sets a pixel at sub-pixel coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, col Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

// At returns the color at sub-pixel coordinates.
func (c *Canvas) At(x, y int) Color {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return Blank
	}
	return c.pixels[y*c.termWidth+x]
}

func (c *Canvas) toPixel(x, y float64) (int, int) {
	return int(math.Round(x * c.scaleX)), int(math.Round(y * c.scaleY))
}

// Set sets a pixel at logical coordinates.
func (c *Canvas) Set(x, y float64, col Color) {
	px, py := c.toPixel(x, y)
	c.setPixel(px, py, col)
}

// DrawLine draws a line in logical coordinates using Bresenham's algorithm.
func (c *Canvas) DrawLine(p1, p2 Point, col Color) {
	x1, y1 := c.toPixel(p1.X, p1.Y)
	x2, y2 := c.toPixel(p2.X, p2.Y)

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		c.setPixel(x1, y1, col)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawPolygon draws a closed polygon, filling the interior if filled is set.
func (c *Canvas) DrawPolygon(points []Point, col Color, filled bool) {
	if len(points) < 3 {
		return
	}
	if filled {
		c.fillPolygon(points, col)
	}
	n := len(points)
	for i := range n {
		c.DrawLine(points[i], points[(i+1)%n], col)
	}
}

// fillPolygon scanline-fills a polygon in sub-pixel space.
func (c *Canvas) fillPolygon(points []Point, col Color) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, p := range points {
		scaled[i] = Point{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
		minY = min(minY, scaled[i].Y)
		maxY = max(maxY, scaled[i].Y)
	}

	yStart := max(int(math.Floor(minY)), 0)
	yEnd := min(int(math.Ceil(maxY)), c.subPixelHeight-1)
	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5
		xs := c.intersectionBuf[:0]
		n := len(scaled)
		for i := range n {
			p1, p2 := scaled[i], scaled[(i+1)%n]
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				xs = append(xs, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = xs
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(math.Ceil(xs[i])); x <= int(math.Floor(xs[i+1])); x++ {
				c.setPixel(x, y, col)
			}
		}
	}
}

// BorrowPoints returns a reusable slice of n points, valid until the next call.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]Point, n)
	}
	return c.polygonBuf[:n]
}

// maxChunkSize keeps single terminal writes below a typical MTU for smooth SSH output.
const maxChunkSize = 1400

// cellGlyph picks the character and colors showing two stacked sub-pixels.
func cellGlyph(top, bottom Color) (ch rune, fg, bg Color) {
	switch {
	case top == Blank && bottom == Blank:
		return ' ', Blank, Blank
	case top == bottom:
		return BlockFull, top, Blank
	case bottom == Blank:
		return BlockUpperHalf, top, Blank
	case top == Blank:
		return BlockLowerHalf, bottom, Blank
	default:
		return BlockUpperHalf, top, bottom
	}
}

// Render writes the cells that changed since the previous Render.
// After ForceRedraw or a resize every non-blank cell is written instead.
func (c *Canvas) Render(w io.Writer) {
	full := c.shown == nil
	if full {
		c.shown = make([]uint16, c.termWidth*c.termHeight)
	}

	b := &c.renderBuf
	b.Reset()
	b.Grow(c.termWidth * c.termHeight * 4)

	curFg, curBg := Blank, Blank
	nextCol, nextRow := -1, -1
	for row := range c.termHeight {
		top := c.pixels[row*2*c.termWidth:]
		bottom := c.pixels[(row*2+1)*c.termWidth:]
		for col := range c.termWidth {
			cell := uint16(top[col])<<8 | uint16(bottom[col])
			idx := row*c.termWidth + col
			if full && cell == 0 || !full && c.shown[idx] == cell {
				continue
			}
			c.shown[idx] = cell

			ch, fg, bg := cellGlyph(top[col], bottom[col])
			if col != nextCol || row != nextRow {
				c.moveTo(col+1+c.offsetCol, row+1+c.offsetRow)
			}
			if fg != curFg || bg != curBg {
				c.sgr(fg, bg)
				curFg, curBg = fg, bg
			}
			b.WriteRune(ch)
			nextCol, nextRow = col+1, row
		}
	}
	if curFg != Blank || curBg != Blank {
		b.WriteString(seqReset)
	}
	io.WriteString(w, b.String())
}

func (c *Canvas) moveTo(col, row int) {
	b := &c.renderBuf
	b.WriteString("\033[")
	b.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	b.WriteByte(';')
	b.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	b.WriteByte('H')
}

func (c *Canvas) sgr(fg, bg Color) {
	b := &c.renderBuf
	b.WriteString("\033[")
	b.Write(strconv.AppendInt(c.numBuf[:0], int64(fgCodes[fg]), 10))
	b.WriteByte(';')
	b.Write(strconv.AppendInt(c.numBuf[:0], int64(fgCodes[bg]+10), 10))
	b.WriteByte('m')
}

// RenderBorder draws a box around the render area on the sides where the
// terminal is larger than the canvas.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1
	hasV := c.offsetRow >= 1
	if !hasH && !hasV {
		return
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	bar := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	if hasV {
		for _, row := range []int{top, bottom} {
			if hasH {
				corners := "┌┐"
				if row == bottom {
					corners = "└┘"
				}
				r := []rune(corners)
				buf.WriteString("\033[" + strconv.Itoa(row) + ";" + strconv.Itoa(left) + "H")
				buf.WriteRune(r[0])
				buf.WriteString(bar)
				buf.WriteRune(r[1])
			} else {
				buf.WriteString("\033[" + strconv.Itoa(row) + ";" + strconv.Itoa(left+1) + "H" + bar)
			}
		}
	}
	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			r := strconv.Itoa(row)
			buf.WriteString("\033[" + r + ";" + strconv.Itoa(left) + "H│\033[" + r + ";" + strconv.Itoa(right) + "H│")
		}
	}
	io.WriteString(w, buf.String())
}

// LogicalWidth returns the logical width.
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height.
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the render area width in columns.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the render area height in rows.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// TerminalToLogical maps a 1-based terminal cell (as reported by the mouse)
// to the logical coordinates of the cell's center. The offset is removed first.
func (c *Canvas) TerminalToLogical(col, row int) (x, y float64) {
	if c.scaleX == 0 || c.scaleY == 0 {
		return 0, 0
	}
	cx := float64(col-1-c.offsetCol) + 0.5
	cy := float64(row-1-c.offsetRow) + 0.5
	return cx / c.scaleX, cy * 2 / c.scaleY
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
