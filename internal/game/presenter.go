package game

import (
	"time"

	"github.com/tomz197/lasereye/internal/object"
)

// PowerIndicator is what the HUD shows for the power ability.
type PowerIndicator int

const (
	IndicatorIdle PowerIndicator = iota
	IndicatorReady
	IndicatorCharging
)

var indicatorNames = [...]string{"idle", "ready", "charging"}

func (p PowerIndicator) String() string {
	if p < 0 || int(p) >= len(indicatorNames) {
		return "unknown"
	}
	return indicatorNames[p]
}

// Presenter receives everything the engine wants drawn or played.
// Calls are made on the goroutine that drives the engine.
type Presenter interface {
	RenderTargetPosition(kind object.Kind, slot int, x, y, rotationOrWave float64)
	SetTargetVisualState(kind object.Kind, slot int, state object.VisualState)
	RenderBeam(beam object.Beam)
	PlayEffect(kind object.EffectKind, x, y float64, d time.Duration)
	UpdateScoreDisplay(score int)
	UpdatePowerIndicator(indicator PowerIndicator)
	RenderReticle(pointerX, pointerY, irisX, irisY float64)
}

// NopPresenter discards every call. Useful for headless engines.
type NopPresenter struct{}

func (NopPresenter) RenderTargetPosition(object.Kind, int, float64, float64, float64) {}
func (NopPresenter) SetTargetVisualState(object.Kind, int, object.VisualState)        {}
func (NopPresenter) RenderBeam(object.Beam)                                           {}
func (NopPresenter) PlayEffect(object.EffectKind, float64, float64, time.Duration)    {}
func (NopPresenter) UpdateScoreDisplay(int)                                           {}
func (NopPresenter) UpdatePowerIndicator(PowerIndicator)                              {}
func (NopPresenter) RenderReticle(float64, float64, float64, float64)                 {}
