package window

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tomz197/invaders/internal/game"
	"github.com/tomz197/invaders/internal/physics"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// part is one filled block of a sprite in unit coordinates of its rect.
type part struct {
	x, y, w, h float32
	clr        color.RGBA
}

var (
	background = color.RGBA{A: 0xff}
	bombColor  = color.RGBA{R: 0xff, G: 0x60, B: 0x40, A: 0xff}
	flameColor = color.RGBA{R: 0xff, G: 0xa0, B: 0x20, A: 0xff}
	alienColor = color.RGBA{R: 0x60, G: 0xff, B: 0x60, A: 0xff}
	boomColor  = color.RGBA{R: 0xff, G: 0xd0, B: 0x40, A: 0xff}
)

// skinColors tints the ship and rocket per skin.
var skinColors = []color.RGBA{
	{R: 0xe0, G: 0xe0, B: 0xff, A: 0xff},
	{R: 0x40, G: 0xc0, B: 0xff, A: 0xff},
	{R: 0xff, G: 0x70, B: 0xd0, A: 0xff},
}

func skinColor(skin int) color.RGBA {
	if skin < 0 || skin >= len(skinColors) {
		skin = 0
	}
	return skinColors[skin]
}

func shipParts(skin int) []part {
	c := skinColor(skin)
	return []part{
		{0.05, 0.55, 0.9, 0.45, c}, // hull
		{0.35, 0.25, 0.3, 0.35, c}, // cabin
		{0.46, 0, 0.08, 0.3, c},    // cannon
	}
}

var invaderParts = []part{
	{0.2, 0.1, 0.6, 0.5, alienColor},
	{0, 0.3, 0.2, 0.3, alienColor},
	{0.8, 0.3, 0.2, 0.3, alienColor},
	{0.1, 0.6, 0.2, 0.3, alienColor},
	{0.7, 0.6, 0.2, 0.3, alienColor},
	{0.3, 0.25, 0.1, 0.1, background}, // eyes
	{0.6, 0.25, 0.1, 0.1, background},
}

var bombParts = []part{
	{0.25, 0, 0.5, 0.8, bombColor},
	{0, 0.8, 1, 0.2, bombColor},
}

func rocketParts(skin, frame int) []part {
	flame := float32(0.15) + float32(frame%2)*0.1
	return []part{
		{0.3, 0, 0.4, 0.75, skinColor(skin)},
		{0.35, 0.75, 0.3, flame, flameColor},
	}
}

// Surface is a game.Surface that draws onto an ebiten image, set before each frame.
type Surface struct {
	dst  *ebiten.Image
	face font.Face
}

var _ game.Surface = (*Surface)(nil)

// NewSurface returns a surface using the basic bitmap font.
func NewSurface() *Surface {
	return &Surface{face: basicfont.Face7x13}
}

// Target sets the image the next draw calls go to.
func (s *Surface) Target(dst *ebiten.Image) {
	s.dst = dst
}

// Clear fills the target with the background.
func (s *Surface) Clear() {
	s.dst.Fill(background)
}

// DrawSprite draws the still image of sp into r.
func (s *Surface) DrawSprite(sp game.Sprite, r physics.Rect) {
	s.DrawFrame(sp, 0, r)
}

// DrawFrame draws animation frame of sp into r.
func (s *Surface) DrawFrame(sp game.Sprite, frame int, r physics.Rect) {
	r = r.Normalized()
	switch sp.Kind {
	case game.SpriteShip:
		s.drawParts(shipParts(sp.Skin), r)
	case game.SpriteInvader:
		s.drawParts(invaderParts, r)
	case game.SpriteBomb:
		s.drawParts(bombParts, r)
	case game.SpriteRocket:
		s.drawParts(rocketParts(sp.Skin, frame), r)
	case game.SpriteExplosion:
		s.drawExplosion(frame, r)
	}
}

func (s *Surface) drawParts(parts []part, r physics.Rect) {
	x, y, w, h := float32(r.X), float32(r.Y), float32(r.W), float32(r.H)
	for _, p := range parts {
		vector.DrawFilledRect(s.dst, x+p.x*w, y+p.y*h, p.w*w, p.h*h, p.clr, false)
	}
}

// drawExplosion draws rings that widen with each frame.
func (s *Surface) drawExplosion(frame int, r physics.Rect) {
	cx, cy := float32(r.X+r.W/2), float32(r.Y+r.H/2)
	for i := 0; i <= frame; i++ {
		grow := float32(i+1) / float32(frame+1)
		w, h := float32(r.W)*grow, float32(r.H)*grow
		vector.StrokeRect(s.dst, cx-w/2, cy-h/2, w, h, 2, boomColor, false)
	}
}

// DrawText draws text with its baseline at y. Size is ignored by the bitmap font.
func (s *Surface) DrawText(str string, x, y float64, style game.TextStyle) {
	clr := style.Color
	if clr.A == 0 {
		clr = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}

	px := int(x)
	switch style.Align {
	case game.AlignCenter:
		px -= text.BoundString(s.face, str).Dx() / 2
	case game.AlignRight:
		px -= text.BoundString(s.face, str).Dx()
	}
	text.Draw(s.dst, str, s.face, px, int(y), clr)
}
