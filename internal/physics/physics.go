// Package physics provides hit testing and distance utilities.
package physics

import "math"

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Sqrt(DistanceSquared(x1, y1, x2, y2))
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// ClosestOnSegment returns the point of segment (x1,y1)-(x2,y2) nearest to (px,py).
// The projection parameter is clamped to [0,1]. A zero-length segment yields its start.
func ClosestOnSegment(px, py, x1, y1, x2, y2 float64) (float64, float64) {
	dx := x2 - x1
	dy := y2 - y1
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return x1, y1
	}

	t := ((px-x1)*dx + (py-y1)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return x1 + t*dx, y1 + t*dy
}

// PointSegmentDistance returns the distance from (px,py) to segment (x1,y1)-(x2,y2).
func PointSegmentDistance(px, py, x1, y1, x2, y2 float64) float64 {
	cx, cy := ClosestOnSegment(px, py, x1, y1, x2, y2)
	return Distance(px, py, cx, cy)
}

// SegmentHits reports whether a circle at (cx,cy) is strictly within radius of the segment.
func SegmentHits(cx, cy, radius, x1, y1, x2, y2 float64) bool {
	nx, ny := ClosestOnSegment(cx, cy, x1, y1, x2, y2)
	return DistanceSquared(cx, cy, nx, ny) < radius*radius
}

// ClampLength scales (dx,dy) down so its length does not exceed max.
func ClampLength(dx, dy, max float64) (float64, float64) {
	d := math.Hypot(dx, dy)
	if d <= max || d == 0 {
		return dx, dy
	}
	k := max / d
	return dx * k, dy * k
}
