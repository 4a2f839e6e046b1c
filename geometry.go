package main

import "math"

// Rect is an axis-aligned bounding box in board space
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// GapDistance returns the distance between the edges of two circular
// entities: euclidean center distance minus the sum of radii.
// A value <= 0 means the circles overlap.
func GapDistance(a, b Entity) float64 {
	ax, ay := a.Center()
	bx, by := b.Center()
	dx := bx - ax
	dy := by - ay
	return math.Sqrt(dx*dx+dy*dy) - (a.Radius() + b.Radius())
}

// CirclesOverlap is the gameplay collision test (ship-asteroid,
// ship-ship, ship-gem, laser-asteroid, laser-ship)
func CirclesOverlap(a, b Entity) bool {
	return GapDistance(a, b) <= 0
}

// spansOverlap checks whether [aMin,aMax] and [bMin,bMax] intersect:
// either boundary of b falls inside a, or b contains a
func spansOverlap(aMin, aMax, bMin, bMax float64) bool {
	if bMin >= aMin && bMin <= aMax {
		return true
	}
	if bMax >= aMin && bMax <= aMax {
		return true
	}
	return aMin >= bMin && aMax <= bMax
}

// RectsOverlap checks whether two axis-aligned rectangles intersect on
// both axes. Used for sector membership and coarse spawn placement.
func RectsOverlap(a, b Rect) bool {
	return spansOverlap(a.MinX, a.MaxX, b.MinX, b.MaxX) &&
		spansOverlap(a.MinY, a.MaxY, b.MinY, b.MaxY)
}

// InBoard reports whether the bounds lie fully inside the game board
func InBoard(b Rect) bool {
	return b.MinX >= 0 && b.MinY >= 0 && b.MaxX <= BoardWidth && b.MaxY <= BoardHeight
}
