package object

import "github.com/tomz197/invaders/internal/physics"

// Rocket is fired upward by the ship.
type Rocket struct {
	X, Y      float64 // Top-left corner
	Velocity  float64 // Upward speed magnitude
	Ticks     int     // Ticks in flight
	Frame     int     // Current sprite-sheet frame
	destroyed bool
}

// NewRocket creates a rocket whose bottom-center sits at the ship's nose.
func NewRocket(noseX, noseY, velocity float64) *Rocket {
	if velocity < 0 {
		velocity = -velocity
	}
	return &Rocket{
		X:        noseX - RocketWidth/2,
		Y:        noseY - RocketHeight,
		Velocity: velocity,
	}
}

// Advance moves the rocket up and steps its animation every interval ticks.
func (r *Rocket) Advance(dt float64, frames, interval int) {
	r.Y -= r.Velocity * dt
	r.Ticks++
	if interval > 0 && frames > 0 && r.Ticks%interval == 0 {
		r.Frame = (r.Frame + 1) % frames
	}
}

// Rect returns the rocket's bounding box.
func (r *Rocket) Rect() physics.Rect {
	return physics.Rect{X: r.X, Y: r.Y, W: RocketWidth, H: RocketHeight}
}

// MarkDestroyed marks the rocket for removal.
func (r *Rocket) MarkDestroyed() {
	r.destroyed = true
}

// IsDestroyed returns true if the rocket hit something or left the screen.
func (r *Rocket) IsDestroyed() bool {
	return r.destroyed
}

// Bomb is dropped downward by a front-rank invader.
type Bomb struct {
	X, Y      float64 // Top-left corner
	Velocity  float64 // Downward speed magnitude
	destroyed bool
}

// NewBomb creates a bomb whose top-center sits at (x, y).
func NewBomb(x, y, velocity float64) *Bomb {
	if velocity < 0 {
		velocity = -velocity
	}
	return &Bomb{X: x - BombWidth/2, Y: y, Velocity: velocity}
}

// Advance moves the bomb down.
func (b *Bomb) Advance(dt float64) {
	b.Y += b.Velocity * dt
}

// Rect returns the bomb's bounding box.
func (b *Bomb) Rect() physics.Rect {
	return physics.Rect{X: b.X, Y: b.Y, W: BombWidth, H: BombHeight}
}

// MarkDestroyed marks the bomb for removal.
func (b *Bomb) MarkDestroyed() {
	b.destroyed = true
}

// IsDestroyed returns true if the bomb hit the ship or left the screen.
func (b *Bomb) IsDestroyed() bool {
	return b.destroyed
}

// Anchor returns the bomb's top-center point, the part that strikes the ship.
func (b *Bomb) Anchor() (x, y float64) {
	return b.X + BombWidth/2, b.Y
}
