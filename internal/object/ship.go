package object

import "github.com/tomz197/invaders/internal/physics"

// ShipPhase is the ship's life-cycle phase.
type ShipPhase int

const (
	ShipAlive      ShipPhase = iota // Controllable and vulnerable
	ShipExploding                   // Playing the explosion frames
	ShipRefreshing                  // Respawned, blinking and invulnerable
)

func (p ShipPhase) String() string {
	switch p {
	case ShipAlive:
		return "alive"
	case ShipExploding:
		return "exploding"
	case ShipRefreshing:
		return "refreshing"
	default:
		return "unknown"
	}
}

// ShipTiming configures the explosion and refresh sequences, in ticks.
type ShipTiming struct {
	ExplosionPhases int // Explosion frames, one every other tick
	RefreshTicks    int // Duration of the invulnerable blink
	BlinkInterval   int // Ticks between visibility toggles
}

// Ship is the player-controlled cannon.
type Ship struct {
	X, Y           float64 // Top-left draw anchor
	Phase          ShipPhase
	ExplosionFrame int  // Current explosion frame while exploding
	Ticks          int  // Tick counter for the current phase
	Visible        bool // Blink flag while refreshing
	Skin           int  // Skin variant from the preference store
}

// NewShip creates an alive ship centered on cx and resting on bottom.
func NewShip(cx, bottom float64, skin int) *Ship {
	s := &Ship{Skin: skin}
	s.Reset(cx, bottom)
	s.Phase = ShipAlive
	return s
}

// Reset moves the ship back to its spawn point.
func (s *Ship) Reset(cx, bottom float64) {
	s.X = cx - ShipWidth/2
	s.Y = bottom - ShipHeight
	s.Visible = true
}

// Rect returns the ship's draw rectangle.
func (s *Ship) Rect() physics.Rect {
	return physics.Rect{X: s.X, Y: s.Y, W: ShipWidth, H: ShipHeight}
}

// Hitbox returns the center-based box used for bomb and invader collisions.
func (s *Ship) Hitbox() physics.Rect {
	return physics.CenterRect(s.X, s.Y, ShipWidth, ShipHeight)
}

// Nose returns where rockets are launched from.
func (s *Ship) Nose() (x, y float64) {
	return s.X + ShipWidth/2, s.Y + noseOffset
}

// Alive reports whether the ship can fire and be bombed.
func (s *Ship) Alive() bool {
	return s.Phase == ShipAlive
}

// CanMove reports whether movement input applies. Only the explosion freezes the ship.
func (s *Ship) CanMove() bool {
	return s.Phase != ShipExploding
}

// Explode starts the explosion sequence. It has no effect unless the ship is alive.
func (s *Ship) Explode() bool {
	if s.Phase != ShipAlive {
		return false
	}
	s.Phase = ShipExploding
	s.ExplosionFrame = 0
	s.Ticks = 0
	return true
}

// Advance steps the explosion and refresh sequences by one tick.
// It returns true on the tick the explosion finishes and the ship should respawn.
func (s *Ship) Advance(t ShipTiming) (respawn bool) {
	switch s.Phase {
	case ShipExploding:
		s.Ticks++
		if s.Ticks%2 != 0 {
			return false
		}
		if s.ExplosionFrame < t.ExplosionPhases {
			s.ExplosionFrame++
			return false
		}
		// The refresh countdown starts on the next tick, so this one only respawns.
		s.ExplosionFrame = 0
		s.Ticks = 0
		s.Phase = ShipRefreshing
		return true

	case ShipRefreshing:
		if s.Ticks <= t.RefreshTicks {
			s.Ticks++
			if t.BlinkInterval > 0 && s.Ticks%t.BlinkInterval == 0 {
				s.Visible = !s.Visible
			}
			return false
		}
		s.Ticks = 0
		s.Visible = true
		s.Phase = ShipAlive
	}
	return false
}
