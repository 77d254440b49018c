package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Wave is an oscillator waveform.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
)

// sweep is an oscillator whose frequency moves linearly from 'from' to 'to'
// over its lifetime, with a linear fade-out.
type sweep struct {
	rate     beep.SampleRate
	from, to float64
	wave     Wave
	pos      int
	total    int
	phase    float64
}

// newSweep returns a finite tone of duration d.
func newSweep(rate beep.SampleRate, from, to float64, d time.Duration, wave Wave) *sweep {
	return &sweep{rate: rate, from: from, to: to, wave: wave, total: rate.N(d)}
}

func (g *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.total {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.total {
			return i, true
		}
		frac := float64(g.pos) / float64(g.total)
		freq := g.from + (g.to-g.from)*frac
		g.phase += freq / float64(g.rate)
		g.phase -= math.Floor(g.phase)

		var v float64
		switch g.wave {
		case WaveSquare:
			v = 1
			if g.phase >= 0.5 {
				v = -1
			}
		case WaveSaw:
			v = 2*g.phase - 1
		default:
			v = math.Sin(2 * math.Pi * g.phase)
		}
		v *= 1 - frac

		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *sweep) Err() error { return nil }

// noise is white noise with an exponential decay.
type noise struct {
	rate  beep.SampleRate
	decay float64 // per second
	pos   int
	total int
	seed  uint32
}

func newNoise(rate beep.SampleRate, d time.Duration, decay float64) *noise {
	return &noise{rate: rate, decay: decay, total: rate.N(d), seed: 0x9e3779b9}
}

func (g *noise) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.total {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.total {
			return i, true
		}
		// xorshift32
		g.seed ^= g.seed << 13
		g.seed ^= g.seed >> 17
		g.seed ^= g.seed << 5
		white := float64(g.seed)/float64(math.MaxUint32)*2 - 1

		t := float64(g.pos) / float64(g.rate)
		v := white * math.Exp(-t*g.decay)
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *noise) Err() error { return nil }
