package draw

import (
	"math"
	"unicode/utf8"

	"github.com/tomz197/invaders/internal/game"
	"github.com/tomz197/invaders/internal/physics"
)

// textItem is a text overlay placed after the canvas is rendered.
type textItem struct {
	text  string
	x, y  float64
	style game.TextStyle
}

// Surface is a game.Surface backed by a terminal canvas. Sprites rasterize into
// the canvas; text is written as characters on top of it.
type Surface struct {
	canvas *Canvas
	texts  []textItem
}

var _ game.Surface = (*Surface)(nil)

// NewSurface creates a surface mapping a logical screen of width x height onto
// a terminal of cols x rows cells.
func NewSurface(cols, rows int, width, height float64) *Surface {
	s := &Surface{canvas: NewScaledCanvas(cols, rows, width, height)}
	s.Resize(cols, rows)
	return s
}

// Canvas returns the underlying canvas.
func (s *Surface) Canvas() *Canvas {
	return s.canvas
}

// Resize adapts the surface to new terminal dimensions. The canvas keeps the
// logical aspect ratio and is centered, leaving margins for the border.
func (s *Surface) Resize(cols, rows int) {
	w, h := fit(cols, rows, s.canvas.LogicalWidth()/s.canvas.LogicalHeight())
	s.canvas.Resize(w, h)
	s.canvas.SetOffset(max(cols-w, 0)/2, max(rows-h, 0)/2)
}

// fit returns the largest cols x rows area with the given logical aspect.
// A cell is two sub-pixels tall, so one row spans as much as two columns.
func fit(cols, rows int, aspect float64) (w, h int) {
	w, h = cols, rows
	if float64(cols) > aspect*float64(2*rows) {
		w = int(math.Round(aspect * float64(2*rows)))
	} else {
		h = int(math.Round(float64(cols) / aspect / 2))
	}
	return max(min(w, cols), 1), max(min(h, rows), 1)
}

// Clear drops everything drawn since the last frame.
func (s *Surface) Clear() {
	s.canvas.Clear()
	s.texts = s.texts[:0]
}

// DrawSprite draws the first frame of sprite sp into r.
func (s *Surface) DrawSprite(sp game.Sprite, r physics.Rect) {
	drawShapes(s.canvas, spriteShapes(sp, 0), r)
}

// DrawFrame draws animation frame of sprite sheet sp into r.
func (s *Surface) DrawFrame(sp game.Sprite, frame int, r physics.Rect) {
	drawShapes(s.canvas, spriteShapes(sp, frame), r)
}

// DrawText queues text anchored at logical (x, y). Font size is not expressible in a terminal.
func (s *Surface) DrawText(text string, x, y float64, style game.TextStyle) {
	s.texts = append(s.texts, textItem{text: text, x: x, y: y, style: style})
}

// Render writes the frame to cw: the canvas first, then the text overlays.
// The caller flushes cw.
func (s *Surface) Render(cw *ChunkWriter) error {
	if err := s.canvas.Render(cw); err != nil {
		return err
	}
	for _, t := range s.texts {
		col, row := s.canvas.LogicalToTerminal(t.x, t.y)
		n := utf8.RuneCountInString(t.text)
		switch t.style.Align {
		case game.AlignCenter:
			col -= n / 2
		case game.AlignRight:
			col -= n
		}
		col = max(col, 1)

		cw.MoveCursor(col+s.canvas.OffsetCol(), row+s.canvas.OffsetRow())
		if t.style.Color.A != 0 {
			cw.WriteString(fgColor(t.style.Color))
			cw.WriteString(t.text)
			cw.WriteString(resetColor)
		} else {
			cw.WriteString(t.text)
		}
	}
	return nil
}
