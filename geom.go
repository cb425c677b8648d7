package main

import "math"

// Rect is an axis-aligned rectangle in world coordinates.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge (y grows downward).
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Contains reports whether the point lies within the rectangle, edges inclusive.
func (r Rect) Contains(px, py float64) bool {
	return px >= r.X && px <= r.X+r.W && py >= r.Y && py <= r.Y+r.H
}

// Overlaps reports whether two rectangles intersect.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && r.X+r.W > o.X && r.Y < o.Y+o.H && r.Y+r.H > o.Y
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClosestPointOnRect returns the point on (or in) the rectangle nearest to (px, py):
// a component-wise clamp of the point into the rectangle's span.
func ClosestPointOnRect(px, py float64, r Rect) (float64, float64) {
	return Clamp(px, r.X, r.X+r.W), Clamp(py, r.Y, r.Y+r.H)
}

// CircleRectHit reports whether a circle at (cx,cy) with the given radius
// overlaps the rectangle.
func CircleRectHit(cx, cy, radius float64, r Rect) bool {
	nx, ny := ClosestPointOnRect(cx, cy, r)
	dx := cx - nx
	dy := cy - ny
	return dx*dx+dy*dy < radius*radius
}

// CircleRectGap returns the distance from the circle's surface to the
// rectangle. Negative values mean overlap.
func CircleRectGap(cx, cy, radius float64, r Rect) float64 {
	nx, ny := ClosestPointOnRect(cx, cy, r)
	dx := cx - nx
	dy := cy - ny
	return math.Sqrt(dx*dx+dy*dy) - radius
}

// ResolveCircleRect pushes a circle out of a rectangle and reflects the
// velocity component along the contact normal, scaled by (1 + restitution).
// Returns the corrected position/velocity and whether a collision occurred.
//
// When the circle center lies exactly inside the rectangle the closest-point
// normal degenerates to zero length; in that case the push-out axis is chosen
// by the shallowest penetration among the four sides.
func ResolveCircleRect(cx, cy, vx, vy, radius float64, r Rect, restitution float64) (float64, float64, float64, float64, bool) {
	nx, ny := ClosestPointOnRect(cx, cy, r)
	dx := cx - nx
	dy := cy - ny
	dist2 := dx*dx + dy*dy

	if dist2 >= radius*radius {
		return cx, cy, vx, vy, false
	}

	if dist2 == 0 {
		// Center inside the rectangle. Penetration depth per side:
		left := cx - r.X
		right := r.X + r.W - cx
		top := cy - r.Y
		bottom := r.Y + r.H - cy

		minPen := left
		pushX, pushY := -1.0, 0.0
		if right < minPen {
			minPen = right
			pushX, pushY = 1.0, 0.0
		}
		if top < minPen {
			minPen = top
			pushX, pushY = 0.0, -1.0
		}
		if bottom < minPen {
			minPen = bottom
			pushX, pushY = 0.0, 1.0
		}

		cx += pushX * (minPen + radius)
		cy += pushY * (minPen + radius)
		if vx*pushX+vy*pushY < 0 {
			dot := vx*pushX + vy*pushY
			vx -= (1 + restitution) * dot * pushX
			vy -= (1 + restitution) * dot * pushY
		}
		return cx, cy, vx, vy, true
	}

	dist := math.Sqrt(dist2)
	ux := dx / dist
	uy := dy / dist
	pen := radius - dist

	cx += ux * pen
	cy += uy * pen

	// Reflect only when moving into the surface.
	dot := vx*ux + vy*uy
	if dot < 0 {
		vx -= (1 + restitution) * dot * ux
		vy -= (1 + restitution) * dot * uy
	}
	return cx, cy, vx, vy, true
}
