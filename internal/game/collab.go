package game

import (
	"image/color"
	"time"

	"github.com/tomz197/invaders/internal/physics"
)

// SpriteKind identifies a drawable image or sprite sheet.
type SpriteKind int

const (
	SpriteShip      SpriteKind = iota // Player ship, one image per skin
	SpriteExplosion                   // Ship explosion sheet, one frame per phase
	SpriteInvader
	SpriteRocket // Rocket sheet, animated
	SpriteBomb
)

func (k SpriteKind) String() string {
	switch k {
	case SpriteShip:
		return "ship"
	case SpriteExplosion:
		return "explosion"
	case SpriteInvader:
		return "invader"
	case SpriteRocket:
		return "rocket"
	case SpriteBomb:
		return "bomb"
	default:
		return "unknown"
	}
}

// Sprite is a sprite kind in a given skin variant. Skin only matters for ships and rockets.
type Sprite struct {
	Kind SpriteKind
	Skin int
}

// Align is the horizontal anchor of a text draw request.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// TextStyle describes how text should look. Surfaces may ignore what they cannot express.
type TextStyle struct {
	Size  float64 // Nominal font size in logical pixels
	Align Align
	Color color.RGBA
}

// Surface receives draw requests in logical playfield coordinates.
type Surface interface {
	Clear()
	DrawSprite(s Sprite, r physics.Rect)
	DrawFrame(s Sprite, frame int, r physics.Rect)
	DrawText(text string, x, y float64, style TextStyle)
}

// Sound names emitted by the game.
const (
	SoundShoot     = "shoot"
	SoundBang      = "bang"
	SoundExplosion = "explosion"
)

// Sounds plays named sounds. Playing a sound that is not loaded yet must be a no-op.
type Sounds interface {
	Load(name string)
	Play(name string)
	SetMuted(muted bool)
	Muted() bool
}

// Preferences exposes the player's persisted choices.
type Preferences interface {
	// Skin returns the selected ship/rocket skin, or 0 when unset.
	Skin() int
}

// Clock is the wall-clock source used for the fire cooldown.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// NopSounds discards every sound request.
type NopSounds struct {
	muted bool
}

func (*NopSounds) Load(string) {}

func (*NopSounds) Play(string) {}

func (n *NopSounds) SetMuted(m bool) { n.muted = m }

func (n *NopSounds) Muted() bool { return n.muted }

// DefaultPreferences always selects the first skin.
type DefaultPreferences struct{}

// Skin returns 0.
func (DefaultPreferences) Skin() int { return 0 }

// Text colors used by the screens.
var (
	colorWhite     = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	colorHighlight = color.RGBA{R: 0xe9, G: 0xf9, B: 0x79, A: 0xff}
)
