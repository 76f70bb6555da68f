// Package physics provides straight-line motion and axis-aligned collision utilities.
package physics

import "math"

// Vec is a 2D vector in logical pixels (or pixels per second for velocities).
type Vec struct {
	X, Y float64
}

// Rect is an axis-aligned box anchored at its top-left corner.
type Rect struct {
	X, Y float64
	W, H float64
}

// CenterRect builds a rect of size w x h centered on (cx, cy).
func CenterRect(cx, cy, w, h float64) Rect {
	return Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Overlaps reports whether two rects intersect. Touching edges count as overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X <= o.Right() && o.X <= r.Right() &&
		r.Y <= o.Bottom() && o.Y <= r.Bottom()
}

// OverlapsStrict reports whether two rects share interior area. Touching edges do not count.
func (r Rect) OverlapsStrict(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Contains reports whether the point lies inside the rect, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.Right() && y >= r.Y && y <= r.Bottom()
}

// Normalized returns the rect with negative sizes flipped so W and H are non-negative.
// Malformed geometry is corrected instead of rejected.
func (r Rect) Normalized() Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// Step integrates position p by velocity v over dt seconds.
func Step(p, v Vec, dt float64) Vec {
	return Vec{X: p.X + v.X*dt, Y: p.Y + v.Y*dt}
}

// Clamp restricts val to [lo, hi].
func Clamp(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Finite reports whether both components are real numbers.
func Finite(p Vec) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}
