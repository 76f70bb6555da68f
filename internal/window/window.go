// Package window runs the game in a desktop window on ebiten.
package window

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tomz197/invaders/internal/game"
)

// bindings maps physical keys to game controls.
var bindings = map[ebiten.Key]game.Key{
	ebiten.KeyArrowLeft:  game.KeyLeft,
	ebiten.KeyA:          game.KeyLeft,
	ebiten.KeyArrowRight: game.KeyRight,
	ebiten.KeyD:          game.KeyRight,
	ebiten.KeySpace:      game.KeyFire,
	ebiten.KeyP:          game.KeyPause,
	ebiten.KeyEscape:     game.KeyPause,
	ebiten.KeyM:          game.KeyMute,
}

var quitKeys = []ebiten.Key{ebiten.KeyQ}

// keyboard reports key edges for the current tick.
type keyboard interface {
	JustPressed(k ebiten.Key) bool
	JustReleased(k ebiten.Key) bool
	Pressed(k ebiten.Key) bool
}

type ebitenKeyboard struct{}

func (ebitenKeyboard) JustPressed(k ebiten.Key) bool  { return inpututil.IsKeyJustPressed(k) }
func (ebitenKeyboard) JustReleased(k ebiten.Key) bool { return inpututil.IsKeyJustReleased(k) }
func (ebitenKeyboard) Pressed(k ebiten.Key) bool      { return ebiten.IsKeyPressed(k) }

// Game adapts a game.Machine to ebiten.Game. Ebiten's tick rate is the
// simulation rate, so run it with ebiten.SetTPS(cfg.FPS).
type Game struct {
	m       *game.Machine
	keys    keyboard
	surface *Surface
}

var _ ebiten.Game = (*Game)(nil)

// New wraps m for ebiten.RunGame.
func New(m *game.Machine) *Game {
	return &Game{m: m, keys: ebitenKeyboard{}, surface: NewSurface()}
}

// Update forwards this tick's key edges and advances the machine one tick.
func (g *Game) Update() error {
	for _, k := range quitKeys {
		if g.keys.JustPressed(k) {
			return ebiten.Termination
		}
	}

	for phys, k := range bindings {
		switch {
		case g.keys.JustPressed(phys):
			g.m.KeyDown(k)
		case g.keys.JustReleased(phys) && !g.stillHeld(k):
			g.m.KeyUp(k)
		}
	}
	g.m.Update()
	return nil
}

// stillHeld reports whether another binding for k is down.
func (g *Game) stillHeld(k game.Key) bool {
	for phys, bound := range bindings {
		if bound == k && g.keys.Pressed(phys) {
			return true
		}
	}
	return false
}

// Draw renders the active state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.surface.Target(screen)
	g.surface.Clear()
	g.m.Draw(g.surface)
}

// Layout keeps the logical screen size regardless of the window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	cfg := g.m.Config()
	return int(cfg.ScreenWidth), int(cfg.ScreenHeight)
}
