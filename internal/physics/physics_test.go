package physics

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestPointSegmentDistance(t *testing.T) {
	tests := []struct {
		name           string
		px, py         float64
		x1, y1, x2, y2 float64
		want           float64
	}{
		{"perpendicular above middle", 5, 100, 0, 0, 10, 0, 100},
		{"before start clamps to start", -5, 0, 0, 0, 10, 0, 5},
		{"past end clamps to end", 13, 4, 0, 0, 10, 0, 5},
		{"on segment", 3, 0, 0, 0, 10, 0, 0},
		{"zero length segment", 3, 4, 0, 0, 0, 0, 5},
		{"diagonal", 0, 10, 0, 0, 10, 10, math.Sqrt(50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PointSegmentDistance(tt.px, tt.py, tt.x1, tt.y1, tt.x2, tt.y2)
			if math.Abs(got-tt.want) > eps {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSegmentHitsIsStrict(t *testing.T) {
	// Exactly on the radius is a miss.
	if SegmentHits(5, 40, 40, 0, 0, 10, 0) {
		t.Error("distance == radius counted as a hit")
	}
	if !SegmentHits(5, 39.9, 40, 0, 0, 10, 0) {
		t.Error("distance < radius not counted as a hit")
	}
	// Zero-length ray tests against the origin only.
	if !SegmentHits(1, 1, 2, 0, 0, 0, 0) {
		t.Error("zero-length ray missed nearby point")
	}
}

func TestClampLength(t *testing.T) {
	dx, dy := ClampLength(30, 40, 20)
	if math.Abs(math.Hypot(dx, dy)-20) > eps {
		t.Errorf("clamped length = %v", math.Hypot(dx, dy))
	}
	if math.Abs(dx/dy-0.75) > eps {
		t.Errorf("direction changed: %v,%v", dx, dy)
	}

	dx, dy = ClampLength(3, 4, 20)
	if dx != 3 || dy != 4 {
		t.Errorf("short vector modified: %v,%v", dx, dy)
	}
	dx, dy = ClampLength(0, 0, 20)
	if dx != 0 || dy != 0 {
		t.Errorf("zero vector modified: %v,%v", dx, dy)
	}
}
