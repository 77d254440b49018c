// Package audio synthesizes the game's sound cues and plays them through the speaker.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/tomz197/lasereye/internal/config"
	"github.com/tomz197/lasereye/internal/scene"
	"go.uber.org/zap"
)

const sampleRate = beep.SampleRate(44100)

// maxVoices caps concurrently playing cues; extra cues are dropped.
const maxVoices = 16

// Player plays scene cues through a shared mixer.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	enabled     bool
	initialized bool
	log         *zap.Logger
}

var _ scene.SoundPlayer = (*Player)(nil)

// NewPlayer creates a player. It is silent until Initialize succeeds.
func NewPlayer(cfg config.AudioConfig, log *zap.Logger) *Player {
	if log == nil {
		log = zap.NewNop()
	}
	return &Player{
		mixer:   &beep.Mixer{},
		volume:  cfg.Volume,
		enabled: cfg.Enabled,
		log:     log,
	}
}

// Initialize opens the speaker. A disabled player does nothing.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled || p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	p.log.Debug("audio initialized", zap.Int("sample_rate", int(sampleRate)), zap.Float64("volume", p.volume))
	return nil
}

// Close stops all sounds and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}

// PlayCue starts a cue without waiting for it.
func (p *Player) PlayCue(c scene.Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	s := CueStreamer(c, p.volume)
	if s == nil {
		return
	}
	speaker.Lock()
	if p.mixer.Len() < maxVoices {
		p.mixer.Add(s)
	}
	speaker.Unlock()
}

// CueStreamer synthesizes a finite streamer for a cue at the given volume (0-1).
func CueStreamer(c scene.Cue, volume float64) beep.Streamer {
	var s beep.Streamer
	switch c {
	case scene.CueBeam:
		s = newSweep(sampleRate, 1800, 500, 150*time.Millisecond, WaveSine)
	case scene.CueImpact:
		s = newNoise(sampleRate, 60*time.Millisecond, 40)
	case scene.CueDestruction:
		s = beep.Mix(
			level(newNoise(sampleRate, 400*time.Millisecond, 8), 0.5),
			level(newSweep(sampleRate, 120, 40, 400*time.Millisecond, WaveSaw), 0.5),
		)
	case scene.CuePowerMarker:
		s = level(newSweep(sampleRate, 200, 900, time.Second, WaveSquare), 0.6)
	case scene.CueScreenFlash:
		s = beep.Mix(
			level(newNoise(sampleRate, 600*time.Millisecond, 4), 0.6),
			level(newSweep(sampleRate, 60, 30, 600*time.Millisecond, WaveSine), 0.4),
		)
	default:
		return nil
	}
	return level(s, volume)
}

// level scales a streamer linearly. math.Log2(0) is -Inf, so zero is silent.
func level(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
