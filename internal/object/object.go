// Package object defines the game entities: ship, invaders, rockets and bombs.
// Entities are plain records; the play simulation owns and mutates them.
package object

import "github.com/tomz197/invaders/internal/physics"

// Entity sizes in logical pixels.
const (
	ShipWidth     = 76
	ShipHeight    = 76
	InvaderWidth  = 48
	InvaderHeight = 48
	RocketWidth   = 48
	RocketHeight  = 64
	BombWidth     = 18
	BombHeight    = 18
)

// noseOffset is how far below the ship's top edge rockets are launched.
const noseOffset = 20

// Destructible is implemented by entities that are removed in a compaction pass.
type Destructible interface {
	// MarkDestroyed marks the entity for removal at the end of the tick.
	MarkDestroyed()
	// IsDestroyed returns true if the entity is marked for removal.
	IsDestroyed() bool
}

// Compact returns items without the destroyed entries, reusing the backing array.
func Compact[T Destructible](items []T) []T {
	kept := items[:0]
	for _, it := range items {
		if !it.IsDestroyed() {
			kept = append(kept, it)
		}
	}
	clear(items[len(kept):])
	return kept
}

// Invader is one member of the formation.
type Invader struct {
	X, Y      float64 // Top-left corner
	Rank      int     // Row, higher is closer to the player
	File      int     // Column
	destroyed bool
}

// NewInvader creates an invader at the given grid slot.
func NewInvader(x, y float64, rank, file int) *Invader {
	return &Invader{X: x, Y: y, Rank: rank, File: file}
}

// Rect returns the invader's bounding box.
func (i *Invader) Rect() physics.Rect {
	return physics.Rect{X: i.X, Y: i.Y, W: InvaderWidth, H: InvaderHeight}
}

// Hitbox returns the center-based box used against the ship.
func (i *Invader) Hitbox() physics.Rect {
	return physics.CenterRect(i.X, i.Y, InvaderWidth, InvaderHeight)
}

// MarkDestroyed marks the invader for removal.
func (i *Invader) MarkDestroyed() {
	i.destroyed = true
}

// IsDestroyed returns true if the invader was hit this tick.
func (i *Invader) IsDestroyed() bool {
	return i.destroyed
}
