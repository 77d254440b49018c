package object

import "github.com/tomz197/lasereye/internal/physics"

// MaxIrisOffset is how far the iris may drift from the eye center, in pixels.
const MaxIrisOffset = 20.0

// Reticle is the player's eye: a fixed origin whose iris follows the pointer.
type Reticle struct {
	EyeX, EyeY         float64 // Beam origin
	PointerX, PointerY float64
	IrisX, IrisY       float64 // Iris offset from the eye center
}

// PlaceEye moves the eye center, keeping the iris aimed at the last pointer position.
func (r *Reticle) PlaceEye(x, y float64) {
	r.EyeX = x
	r.EyeY = y
	r.Track(r.PointerX, r.PointerY)
}

// Track aims the iris at the pointer.
func (r *Reticle) Track(x, y float64) {
	r.PointerX = x
	r.PointerY = y
	r.IrisX, r.IrisY = physics.ClampLength(x-r.EyeX, y-r.EyeY, MaxIrisOffset)
}
