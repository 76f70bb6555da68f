package draw

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/tomz197/invaders/internal/physics"
)

// Canvas is a pixel buffer rendered with half-block characters, so each
// terminal cell holds two vertically stacked sub-pixels. Callers draw in
// logical playfield coordinates; the canvas scales them to sub-pixels.
type Canvas struct {
	cols, rows int    // Terminal cells covered by the canvas
	subRows    int    // rows * 2
	pixels     []bool // Row-major sub-pixels, subRows x cols

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // cols / logicalWidth
	scaleY        float64 // subRows / logicalHeight

	// 0-based terminal cells skipped before the canvas starts, for letterboxing.
	offsetCol int
	offsetRow int

	// Scratch space reused between frames.
	renderBuf  strings.Builder
	scaled     []physics.Vec
	crossings  []float64
	polygonBuf []physics.Vec
}

// NewScaledCanvas creates a canvas of cols x rows terminal cells showing a
// logical area of logicalWidth x logicalHeight. Non-positive sizes become one cell.
func NewScaledCanvas(cols, rows int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{logicalWidth: logicalWidth, logicalHeight: logicalHeight}
	c.Resize(cols, rows)
	return c
}

// Resize changes the terminal size covered by the canvas. The logical size is kept.
func (c *Canvas) Resize(cols, rows int) {
	cols, rows = max(cols, 1), max(rows, 1)
	if cols != c.cols || rows != c.rows {
		c.cols, c.rows, c.subRows = cols, rows, rows*2
		c.pixels = make([]bool, c.subRows*c.cols)
	}
	c.scaleX = float64(c.cols) / c.logicalWidth
	c.scaleY = float64(c.subRows) / c.logicalHeight
}

// SetOffset places the canvas at terminal cell (col+1, row+1).
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol, c.offsetRow = col, row
}

// OffsetCol returns the number of terminal columns left of the canvas.
func (c *Canvas) OffsetCol() int { return c.offsetCol }

// OffsetRow returns the number of terminal rows above the canvas.
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// Clear unsets every pixel.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

func (c *Canvas) setPixel(x, y int) {
	if x >= 0 && x < c.cols && y >= 0 && y < c.subRows {
		c.pixels[y*c.cols+x] = true
	}
}

// toPixel scales a logical point to the nearest sub-pixel.
func (c *Canvas) toPixel(p physics.Vec) (x, y int) {
	return int(math.Round(p.X * c.scaleX)), int(math.Round(p.Y * c.scaleY))
}

// DrawLine plots a Bresenham line between two logical points.
func (c *Canvas) DrawLine(from, to physics.Vec) {
	x, y := c.toPixel(from)
	x2, y2 := c.toPixel(to)

	dx, dy := abs(x2-x), abs(y2-y)
	sx, sy := 1, 1
	if x > x2 {
		sx = -1
	}
	if y > y2 {
		sy = -1
	}

	e := dx - dy
	for {
		c.setPixel(x, y)
		if x == x2 && y == y2 {
			return
		}
		e2 := 2 * e
		if e2 > -dy {
			e -= dy
			x += sx
		}
		if e2 < dx {
			e += dx
			y += sy
		}
	}
}

// DrawPolygon outlines a closed polygon, filling it first when filled is set.
func (c *Canvas) DrawPolygon(points []physics.Vec, filled bool) {
	if len(points) < 3 {
		return
	}
	if filled {
		c.fillPolygon(points)
	}
	for i, p := range points {
		c.DrawLine(p, points[(i+1)%len(points)])
	}
}

// fillPolygon scanline-fills points in sub-pixel space, sampling each row at its center.
func (c *Canvas) fillPolygon(points []physics.Vec) {
	c.scaled = c.scaled[:0]
	top, bottom := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		sp := physics.Vec{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
		c.scaled = append(c.scaled, sp)
		top, bottom = min(top, sp.Y), max(bottom, sp.Y)
	}

	n := len(c.scaled)
	for y := int(math.Floor(top)); y <= int(math.Ceil(bottom)); y++ {
		scan := float64(y) + 0.5

		c.crossings = c.crossings[:0]
		for i := range n {
			a, b := c.scaled[i], c.scaled[(i+1)%n]
			if (a.Y <= scan) == (b.Y <= scan) {
				continue
			}
			t := (scan - a.Y) / (b.Y - a.Y)
			c.crossings = append(c.crossings, a.X+t*(b.X-a.X))
		}
		slices.Sort(c.crossings)

		for i := 0; i+1 < len(c.crossings); i += 2 {
			for x := int(math.Ceil(c.crossings[i])); x <= int(math.Floor(c.crossings[i+1])); x++ {
				c.setPixel(x, y)
			}
		}
	}
}

// FillRect fills an axis-aligned rectangle given in logical coordinates.
func (c *Canvas) FillRect(r physics.Rect) {
	r = r.Normalized()
	x0, y0 := c.toPixel(physics.Vec{X: r.X, Y: r.Y})
	x1, y1 := c.toPixel(physics.Vec{X: r.Right(), Y: r.Bottom()})
	for y := max(y0, 0); y <= min(y1, c.subRows-1); y++ {
		for x := max(x0, 0); x <= min(x1, c.cols-1); x++ {
			c.pixels[y*c.cols+x] = true
		}
	}
}

// Pixel reports whether the sub-pixel at column x and sub-row y is set.
func (c *Canvas) Pixel(x, y int) bool {
	if x < 0 || x >= c.cols || y < 0 || y >= c.subRows {
		return false
	}
	return c.pixels[y*c.cols+x]
}

// maxChunkSize keeps each write under a typical 1500 byte MTU so frames
// stream smoothly over SSH.
const maxChunkSize = 1400

// Render writes every non-empty cell as a positioned half-block character.
func (c *Canvas) Render(w io.Writer) error {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.cols * c.rows * 12)

	for row := range c.rows {
		upper := c.pixels[2*row*c.cols : (2*row+1)*c.cols]
		lower := c.pixels[(2*row+1)*c.cols : (2*row+2)*c.cols]
		for col := range c.cols {
			var ch rune
			switch {
			case upper[col] && lower[col]:
				ch = BlockFull
			case upper[col]:
				ch = BlockUpperHalf
			case lower[col]:
				ch = BlockLowerHalf
			default:
				continue
			}
			fmt.Fprintf(&c.renderBuf, "\033[%d;%dH%c", row+1+c.offsetRow, col+1+c.offsetCol, ch)
		}
	}

	return writeChunked(w, c.renderBuf.String())
}

// writeChunked writes data in pieces of at most maxChunkSize bytes.
func writeChunked(w io.Writer, data string) error {
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := io.WriteString(w, data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// RenderBorder frames a letterboxed canvas: horizontal bars when there is room
// above and below it, vertical bars when there is room beside it, and corners
// when both apply.
func (c *Canvas) RenderBorder(w io.Writer) error {
	sides := c.offsetCol >= 1
	bars := c.offsetRow >= 1
	if !sides && !bars {
		return nil
	}

	left, right := c.offsetCol, c.offsetCol+c.cols+1
	top, bottom := c.offsetRow, c.offsetRow+c.rows+1
	line := strings.Repeat("─", c.cols)

	var buf strings.Builder
	if bars {
		if sides {
			fmt.Fprintf(&buf, "\033[%d;%dH┌%s┐", top, left, line)
			fmt.Fprintf(&buf, "\033[%d;%dH└%s┘", bottom, left, line)
		} else {
			fmt.Fprintf(&buf, "\033[%d;%dH%s", top, c.offsetCol+1, line)
			fmt.Fprintf(&buf, "\033[%d;%dH%s", bottom, c.offsetCol+1, line)
		}
	}
	if sides {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.rows; row++ {
			fmt.Fprintf(&buf, "\033[%d;%dH│\033[%d;%dH│", row, left, row, right)
		}
	}

	_, err := io.WriteString(w, buf.String())
	return err
}

// LogicalWidth returns the width of the logical area shown.
func (c *Canvas) LogicalWidth() float64 { return c.logicalWidth }

// LogicalHeight returns the height of the logical area shown.
func (c *Canvas) LogicalHeight() float64 { return c.logicalHeight }

// TerminalWidth returns the number of terminal columns the canvas covers.
func (c *Canvas) TerminalWidth() int { return c.cols }

// TerminalHeight returns the number of terminal rows the canvas covers.
func (c *Canvas) TerminalHeight() int { return c.rows }

// LogicalToTerminal converts a logical point to a 1-based cell inside the
// canvas, ignoring the offset. Text overlays use it to line up with sprites.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px, py := c.toPixel(physics.Vec{X: x, Y: y})
	return px + 1, py/2 + 1
}

// BorrowPoints returns a scratch slice of n points, valid until the next call.
func (c *Canvas) BorrowPoints(n int) []physics.Vec {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]physics.Vec, n)
	}
	return c.polygonBuf[:n]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
