package game

import "time"

// Game rule constants.
// Per-kind tuning lives in the target table; these are the fixed rules.

// Power ability
const (
	PowerMinScore         = 10
	PowerCost             = 5
	PowerCooldownDuration = 20 * time.Second
)

// Power activation sequence, as offsets from activation.
const (
	powerMarkerAt   time.Duration = 0
	powerFlashAt                  = 1000 * time.Millisecond
	powerDestroyAt                = 1500 * time.Millisecond
	powerCleanupAt                = 3000 * time.Millisecond
	powerFlashLasts               = 2000 * time.Millisecond
)

// Power hint: the indicator shows charging for one cooldown after this delay.
const PowerHintDelay = time.Second

// Beam
const BeamDuration = 150 * time.Millisecond

// Frame bookkeeping
const (
	DefaultPowerEvalInterval   = time.Second
	DefaultMaintenanceInterval = 5 * time.Second
	fpsWindow                  = time.Second
)

// Layout
const (
	DefaultCloudCount = 5
	DefaultOriginX    = 0.5  // Eye position as a fraction of viewport width
	DefaultOriginY    = 0.85 // and height
)
