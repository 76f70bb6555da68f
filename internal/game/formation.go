package game

import (
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/physics"
)

// formation is the shared motion of every invader. It alternates between
// sweeping horizontally and dropping by a fixed distance after touching a wall.
type formation struct {
	speed    float64     // Current horizontal speed magnitude
	velocity physics.Vec // Velocity applied this tick
	next     physics.Vec // Velocity resumed once the drop completes
	dropping bool
	dropped  float64 // Distance dropped so far
}

// edgeHits records which bounds the formation reached during a tick.
type edgeHits struct {
	left, right, bottom bool
}

func (h edgeHits) any() bool {
	return h.left || h.right || h.bottom
}

func newFormation(speed float64) formation {
	return formation{
		speed:    speed,
		velocity: physics.Vec{X: -speed},
	}
}

// formationSlots lays out the starting grid. Files are spread over spread
// pixels around cx, ranks stacked downward from top.
func formationSlots(ranks, files int, fileSpan, cx, top, spread, rankSpacing float64) []*object.Invader {
	invaders := make([]*object.Invader, 0, ranks*files)
	for rank := 0; rank < ranks; rank++ {
		for file := 0; file < files; file++ {
			x := cx + (fileSpan/2-float64(file))*spread/fileSpan
			y := top + float64(rank)*rankSpacing
			invaders = append(invaders, object.NewInvader(x, y, rank, file))
		}
	}
	return invaders
}

// step moves the invaders one tick and updates the formation velocity.
//
// Every candidate position is checked first. If any invader would leave the
// bounds no invader moves this tick. A wall hit speeds the formation up and
// starts a drop, unless the ship is down, in which case it reverses at once.
func (f *formation) step(invaders []*object.Invader, bounds physics.Rect, dt, accel, dropDistance float64, shipAlive bool) edgeHits {
	var hits edgeHits
	for _, inv := range invaders {
		next := physics.Step(physics.Vec{X: inv.X, Y: inv.Y}, f.velocity, dt)
		switch {
		case !hits.left && next.X < bounds.X:
			hits.left = true
		case !hits.right && next.X > bounds.Right():
			hits.right = true
		case !hits.bottom && next.Y > bounds.Bottom():
			hits.bottom = true
		}
	}

	if !hits.any() {
		for _, inv := range invaders {
			inv.X += f.velocity.X * dt
			inv.Y += f.velocity.Y * dt
		}
	}

	if f.dropping {
		f.dropped += f.velocity.Y * dt
		if f.dropped >= dropDistance {
			f.dropping = false
			f.velocity = f.next
			f.dropped = 0
		}
	}

	if hits.left {
		f.turn(1, accel, shipAlive)
	}
	if hits.right {
		f.turn(-1, accel, shipAlive)
	}
	return hits
}

// turn accelerates and heads the formation in direction dir (+1 right, -1 left).
func (f *formation) turn(dir, accel float64, shipAlive bool) {
	f.speed += accel
	f.next = physics.Vec{X: dir * f.speed}
	if shipAlive {
		f.velocity = physics.Vec{Y: f.speed}
		f.dropping = true
		f.dropped = 0
		return
	}
	f.velocity = f.next
	f.dropping = false
}
