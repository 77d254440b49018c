package object

import (
	"math"
	"time"

	"github.com/tomz197/lasereye/internal/physics"
)

// Beam is a fired laser, drawn from the eye toward the pointer.
type Beam struct {
	OriginX, OriginY float64
	Length           float64
	AngleDeg         float64 // Screen angle, 0 = right, clockwise positive
	Duration         time.Duration
}

// NewBeam builds the beam from origin (ox,oy) to target (tx,ty).
func NewBeam(ox, oy, tx, ty float64, d time.Duration) Beam {
	return Beam{
		OriginX:  ox,
		OriginY:  oy,
		Length:   physics.Distance(ox, oy, tx, ty),
		AngleDeg: math.Atan2(ty-oy, tx-ox) * 180 / math.Pi,
		Duration: d,
	}
}

// End returns the beam's far endpoint.
func (b Beam) End() (float64, float64) {
	rad := b.AngleDeg * math.Pi / 180
	return b.OriginX + math.Cos(rad)*b.Length, b.OriginY + math.Sin(rad)*b.Length
}
