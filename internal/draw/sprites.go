package draw

import (
	"math"

	"github.com/tomz197/invaders/internal/game"
	"github.com/tomz197/invaders/internal/physics"
)

// shape is a polygon in unit coordinates: (0,0) is the top-left corner of the
// sprite rect and (1,1) the bottom-right. A box is a filled rectangle between
// its two points.
type shape struct {
	points []physics.Vec
	filled bool
	box    bool
}

func box(x0, y0, x1, y1 float64) shape {
	return shape{points: []physics.Vec{{X: x0, Y: y0}, {X: x1, Y: y1}}, box: true}
}

// Ship outlines, one per skin.
var shipShapes = [][]shape{
	{ // Arrowhead
		{points: []physics.Vec{{X: 0.5, Y: 0}, {X: 1, Y: 1}, {X: 0.5, Y: 0.75}, {X: 0, Y: 1}}, filled: true},
	},
	{ // Saucer with cockpit
		{points: []physics.Vec{{X: 0, Y: 0.7}, {X: 0.2, Y: 0.45}, {X: 0.8, Y: 0.45}, {X: 1, Y: 0.7}, {X: 0.8, Y: 0.95}, {X: 0.2, Y: 0.95}}, filled: true},
		{points: []physics.Vec{{X: 0.35, Y: 0.45}, {X: 0.5, Y: 0.1}, {X: 0.65, Y: 0.45}}},
	},
	{ // Twin-hull cannon
		{points: []physics.Vec{{X: 0.4, Y: 0}, {X: 0.6, Y: 0}, {X: 0.6, Y: 1}, {X: 0.4, Y: 1}}, filled: true},
		{points: []physics.Vec{{X: 0, Y: 0.5}, {X: 0.4, Y: 0.6}, {X: 0.4, Y: 1}, {X: 0, Y: 1}}},
		{points: []physics.Vec{{X: 1, Y: 0.5}, {X: 0.6, Y: 0.6}, {X: 0.6, Y: 1}, {X: 1, Y: 1}}},
	},
}

// Crab: a blocky body with eye gaps, two antennae and two legs.
var invaderShapes = []shape{
	box(0.25, 0, 0.35, 0.15),
	box(0.65, 0, 0.75, 0.15),
	box(0.15, 0.15, 0.85, 0.3),
	box(0, 0.3, 0.25, 0.65),
	box(0.4, 0.3, 0.6, 0.65),
	box(0.75, 0.3, 1, 0.65),
	box(0.1, 0.65, 0.9, 0.75),
	box(0.1, 0.75, 0.25, 1),
	box(0.75, 0.75, 0.9, 1),
}

var bombShapes = []shape{
	box(0.2, 0, 0.8, 1),
}

// rocketShapes returns the rocket body, wider for higher skins, and a flame
// that flickers with the animation frame.
func rocketShapes(skin, frame int) []shape {
	width := 0.15 + 0.05*float64(skin%3)
	body := shape{points: []physics.Vec{
		{X: 0.5, Y: 0}, {X: 0.5 + width, Y: 0.2}, {X: 0.5 + width, Y: 0.7}, {X: 0.5 - width, Y: 0.7}, {X: 0.5 - width, Y: 0.2},
	}, filled: true}
	tail := 0.8 + 0.05*float64(frame%4)
	flame := shape{points: []physics.Vec{{X: 0.5 - width/2, Y: 0.7}, {X: 0.5 + width/2, Y: 0.7}, {X: 0.5, Y: tail}}}
	return []shape{body, flame}
}

// explosionShape is a star whose spikes grow with each explosion frame.
func explosionShape(frame int) shape {
	const spikes = 8
	outer := 0.2 + 0.07*float64(frame)
	if outer > 0.5 {
		outer = 0.5
	}
	inner := outer / 2
	pts := make([]physics.Vec, 0, spikes*2)
	for i := 0; i < spikes*2; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := float64(i) * math.Pi / spikes
		pts = append(pts, physics.Vec{X: 0.5 + r*math.Cos(a), Y: 0.5 + r*math.Sin(a)})
	}
	return shape{points: pts}
}

// spriteShapes resolves the outlines for a sprite and animation frame.
func spriteShapes(s game.Sprite, frame int) []shape {
	switch s.Kind {
	case game.SpriteShip:
		skin := s.Skin
		if skin < 0 || skin >= len(shipShapes) {
			skin = 0
		}
		return shipShapes[skin]
	case game.SpriteInvader:
		return invaderShapes
	case game.SpriteBomb:
		return bombShapes
	case game.SpriteRocket:
		return rocketShapes(s.Skin, frame)
	case game.SpriteExplosion:
		return []shape{explosionShape(frame)}
	default:
		return nil
	}
}

// drawShapes scales each unit shape into r and draws it on the canvas.
func drawShapes(c *Canvas, shapes []shape, r physics.Rect) {
	for _, sh := range shapes {
		if sh.box {
			a, b := sh.points[0], sh.points[1]
			c.FillRect(physics.Rect{X: r.X + a.X*r.W, Y: r.Y + a.Y*r.H, W: (b.X - a.X) * r.W, H: (b.Y - a.Y) * r.H})
			continue
		}
		pts := c.BorrowPoints(len(sh.points))
		for i, p := range sh.points {
			pts[i] = physics.Vec{X: r.X + p.X*r.W, Y: r.Y + p.Y*r.H}
		}
		c.DrawPolygon(pts, sh.filled)
	}
}
