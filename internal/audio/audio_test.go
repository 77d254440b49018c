package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/tomz197/lasereye/internal/config"
	"github.com/tomz197/lasereye/internal/scene"
)

// drain streams s to the end and returns the sample count and peak amplitude.
func drain(t *testing.T, s beep.Streamer) (n int, peak float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	for range 1000 {
		m, ok := s.Stream(buf)
		for i := range m {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		n += m
		if !ok {
			return n, peak
		}
	}
	t.Fatal("streamer never ended")
	return n, peak
}

func TestCueStreamersAreFinite(t *testing.T) {
	tests := []struct {
		cue  scene.Cue
		want time.Duration
	}{
		{scene.CueBeam, 150 * time.Millisecond},
		{scene.CueImpact, 60 * time.Millisecond},
		{scene.CueDestruction, 400 * time.Millisecond},
		{scene.CuePowerMarker, time.Second},
		{scene.CueScreenFlash, 600 * time.Millisecond},
	}
	for _, tt := range tests {
		s := CueStreamer(tt.cue, 1)
		if s == nil {
			t.Fatalf("cue %d has no streamer", tt.cue)
		}
		n, peak := drain(t, s)
		if n != sampleRate.N(tt.want) {
			t.Errorf("cue %d: %d samples, want %d", tt.cue, n, sampleRate.N(tt.want))
		}
		if peak == 0 || peak > 1 {
			t.Errorf("cue %d: peak %v outside (0,1]", tt.cue, peak)
		}
	}
}

func TestCueStreamerSilentAtZeroVolume(t *testing.T) {
	_, peak := drain(t, CueStreamer(scene.CueDestruction, 0))
	if peak != 0 {
		t.Errorf("peak = %v, want silence", peak)
	}
}

func TestUnknownCue(t *testing.T) {
	if CueStreamer(scene.Cue(99), 1) != nil {
		t.Error("unknown cue produced a streamer")
	}
}

func TestSweepWaveforms(t *testing.T) {
	for _, w := range []Wave{WaveSine, WaveSquare, WaveSaw} {
		_, peak := drain(t, newSweep(sampleRate, 440, 440, 20*time.Millisecond, w))
		if peak <= 0 || peak > 1 {
			t.Errorf("wave %d peak = %v", w, peak)
		}
	}
}

// A player that was never initialized must ignore cues without touching the speaker.
func TestUninitializedPlayerIsSilent(t *testing.T) {
	p := NewPlayer(config.AudioConfig{Enabled: false, Volume: 1}, nil)
	if err := p.Initialize(); err != nil {
		t.Fatal(err)
	}
	p.PlayCue(scene.CueBeam)
	if p.mixer.Len() != 0 {
		t.Error("disabled player queued a cue")
	}
	p.Close()
}
