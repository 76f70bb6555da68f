package draw

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/tomz197/invaders/internal/game"
	"github.com/tomz197/invaders/internal/physics"
)

func TestLogicalToTerminal(t *testing.T) {
	c := NewScaledCanvas(120, 32, 1200, 640)

	col, row := c.LogicalToTerminal(600, 320)

	if col != 61 || row != 17 {
		t.Errorf("LogicalToTerminal(600, 320) = (%d, %d), want (61, 17)", col, row)
	}
}

func TestFillRectSetsScaledPixels(t *testing.T) {
	c := NewScaledCanvas(120, 32, 1200, 640)

	c.FillRect(physics.Rect{X: 100, Y: 100, W: 50, H: 50})

	// 10 logical px per column, 10 logical px per sub-row.
	if !c.Pixel(10, 10) || !c.Pixel(15, 15) {
		t.Error("rect interior not set")
	}
	if c.Pixel(9, 10) || c.Pixel(16, 10) || c.Pixel(10, 16) {
		t.Error("pixels outside the rect are set")
	}
}

func TestFillRectClipsToCanvas(t *testing.T) {
	c := NewScaledCanvas(10, 5, 100, 100)

	c.FillRect(physics.Rect{X: -50, Y: -50, W: 500, H: 500})

	if !c.Pixel(0, 0) || !c.Pixel(9, 9) {
		t.Error("visible part of an oversized rect not filled")
	}
}

func TestResizeGuardsZeroSize(t *testing.T) {
	c := NewScaledCanvas(0, 0, 100, 100)
	if c.TerminalWidth() != 1 || c.TerminalHeight() != 1 {
		t.Errorf("canvas = %dx%d, want 1x1", c.TerminalWidth(), c.TerminalHeight())
	}
	c.Resize(-3, 4)
	if c.TerminalWidth() != 1 || c.TerminalHeight() != 4 {
		t.Errorf("canvas = %dx%d, want 1x4", c.TerminalWidth(), c.TerminalHeight())
	}
}

func TestSurfaceDrawsSpritesAndText(t *testing.T) {
	s := NewSurface(120, 32, 1200, 640)
	var out bytes.Buffer
	cw := NewChunkWriter(&out)

	s.Clear()
	s.DrawSprite(game.Sprite{Kind: game.SpriteInvader}, physics.Rect{X: 100, Y: 100, W: 48, H: 48})
	s.DrawFrame(game.Sprite{Kind: game.SpriteRocket, Skin: 1}, 2, physics.Rect{X: 300, Y: 300, W: 48, H: 64})
	s.DrawText("Paused", 600, 320, game.TextStyle{Align: game.AlignCenter, Color: color.RGBA{R: 255, A: 255}})

	if err := s.Render(cw); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if err := cw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	got := out.String()
	if !strings.ContainsAny(got, "█▀▄") {
		t.Error("no block characters rendered")
	}
	// Centered: column 61 minus half of 6 runes.
	if !strings.Contains(got, "\033[17;58H\033[38;2;255;0;0mPaused\033[0m") {
		t.Errorf("centered colored text not found in %q", got)
	}
}

func TestSurfaceClearDropsText(t *testing.T) {
	s := NewSurface(40, 10, 400, 200)
	s.DrawText("Lives: 3", 10, 10, game.TextStyle{})
	s.Clear()

	var out bytes.Buffer
	cw := NewChunkWriter(&out)
	if err := s.Render(cw); err != nil {
		t.Fatal(err)
	}
	_ = cw.Flush()

	if strings.Contains(out.String(), "Lives") {
		t.Error("text survived Clear")
	}
}

func TestRightAlignedTextEndsAtAnchor(t *testing.T) {
	s := NewSurface(120, 32, 1200, 640)
	s.DrawText("Score", 1150, 320, game.TextStyle{Align: game.AlignRight})

	var out bytes.Buffer
	cw := NewChunkWriter(&out)
	_ = s.Render(cw)
	_ = cw.Flush()

	// Anchor column 116, text starts 5 columns to the left.
	if !strings.Contains(out.String(), "\033[17;111HScore") {
		t.Errorf("right aligned text misplaced: %q", out.String())
	}
}

type countingWriter struct {
	writes []int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes = append(w.writes, len(p))
	return len(p), nil
}

func TestWriteChunked(t *testing.T) {
	w := &countingWriter{}

	if err := writeChunked(w, strings.Repeat("x", maxChunkSize*2+10)); err != nil {
		t.Fatal(err)
	}

	want := []int{maxChunkSize, maxChunkSize, 10}
	if len(w.writes) != len(want) {
		t.Fatalf("writes = %v, want %v", w.writes, want)
	}
	for i := range want {
		if w.writes[i] != want[i] {
			t.Errorf("write %d = %d bytes, want %d", i, w.writes[i], want[i])
		}
	}
}

func TestSpriteShapesFallBackForUnknownSkin(t *testing.T) {
	got := spriteShapes(game.Sprite{Kind: game.SpriteShip, Skin: 99}, 0)
	if len(got) != len(shipShapes[0]) {
		t.Errorf("unknown skin resolved to %d shapes, want the default ship", len(got))
	}
	if spriteShapes(game.Sprite{Kind: game.SpriteKind(42)}, 0) != nil {
		t.Error("unknown sprite kind should draw nothing")
	}
}

func TestSurfaceLetterboxesWideTerminal(t *testing.T) {
	s := NewSurface(100, 20, 400, 200)
	c := s.Canvas()

	// 20 rows hold 80 columns at a 2:1 logical aspect.
	if c.TerminalWidth() != 80 || c.TerminalHeight() != 20 {
		t.Fatalf("canvas = %dx%d, want 80x20", c.TerminalWidth(), c.TerminalHeight())
	}
	if c.OffsetCol() != 10 || c.OffsetRow() != 0 {
		t.Errorf("offset = (%d, %d), want (10, 0)", c.OffsetCol(), c.OffsetRow())
	}

	var out bytes.Buffer
	if err := c.RenderBorder(&out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "\033[1;10H│\033[1;91H│") {
		t.Errorf("side bars missing: %q", out.String())
	}
}

func TestSurfaceLetterboxesTallTerminal(t *testing.T) {
	s := NewSurface(60, 20, 1200, 640)
	c := s.Canvas()

	if c.TerminalWidth() != 60 || c.TerminalHeight() != 16 || c.OffsetRow() != 2 {
		t.Fatalf("canvas = %dx%d at row offset %d, want 60x16 at 2",
			c.TerminalWidth(), c.TerminalHeight(), c.OffsetRow())
	}

	s.DrawText("Hi", 0, 0, game.TextStyle{})
	var out bytes.Buffer
	cw := NewChunkWriter(&out)
	if err := s.Render(cw); err != nil {
		t.Fatal(err)
	}
	if err := c.RenderBorder(cw); err != nil {
		t.Fatal(err)
	}
	_ = cw.Flush()

	got := out.String()
	if !strings.Contains(got, "\033[3;1HHi") {
		t.Errorf("text not shifted below the top margin: %q", got)
	}
	if !strings.Contains(got, "\033[2;1H"+strings.Repeat("─", 60)) {
		t.Errorf("top bar missing: %q", got)
	}
}

func TestSurfaceMatchingAspectHasNoBorder(t *testing.T) {
	s := NewSurface(120, 32, 1200, 640)

	var out bytes.Buffer
	if err := s.Canvas().RenderBorder(&out); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("border drawn for an exact fit: %q", out.String())
	}
}

func TestInvaderDrawnFromBlocks(t *testing.T) {
	s := NewSurface(120, 32, 1200, 640)

	// 10 logical px per column and per sub-row, so the sprite spans pixels 10..30.
	s.DrawSprite(game.Sprite{Kind: game.SpriteInvader}, physics.Rect{X: 100, Y: 100, W: 200, H: 200})
	c := s.Canvas()

	if !c.Pixel(10, 20) || !c.Pixel(20, 20) || !c.Pixel(30, 20) {
		t.Error("body blocks not filled")
	}
	if c.Pixel(17, 20) || c.Pixel(23, 20) {
		t.Error("eye gaps filled")
	}
	if !c.Pixel(12, 28) || c.Pixel(20, 28) {
		t.Error("legs drawn wrong")
	}
}

func TestBombIsSolidBlock(t *testing.T) {
	s := NewSurface(120, 32, 1200, 640)
	s.DrawSprite(game.Sprite{Kind: game.SpriteBomb}, physics.Rect{X: 100, Y: 100, W: 50, H: 50})

	for y := 10; y <= 15; y++ {
		if !s.Canvas().Pixel(12, y) {
			t.Errorf("bomb pixel (12, %d) not set", y)
		}
	}
}
