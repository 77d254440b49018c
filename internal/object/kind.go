package object

import (
	"fmt"
	"time"
)

// Kind tags a target variant.
type Kind int

const (
	KindCloud Kind = iota
	KindAirplane
	KindRobot

	KindCount = 3
)

// Kinds lists every kind in hit-test priority order.
var Kinds = [KindCount]Kind{KindCloud, KindAirplane, KindRobot}

var kindNames = [KindCount]string{"cloud", "airplane", "robot"}

func (k Kind) String() string {
	if k < 0 || int(k) >= KindCount {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown target kind %q", name)
}

// Profile holds the tuning shared by every target of one kind.
type Profile struct {
	Kind      Kind
	HitRadius float64
	Points    int

	SpeedMin, SpeedMax float64 // px/s, or px per tick for clouds
	BandMin, BandMax   float64 // vertical band as a fraction of viewport height

	StartX     float64
	ExitMargin float64 // culling (airplane, robot) or wrap (cloud) distance past the right edge

	WaveAmplitude float64
	WaveFrequency float64

	// RemovalDelay is the pool-return delay after destruction, or the re-arm delay for clouds.
	RemovalDelay time.Duration
}

// Wavy reports whether targets of this profile oscillate vertically.
func (p Profile) Wavy() bool {
	return p.WaveAmplitude != 0
}
