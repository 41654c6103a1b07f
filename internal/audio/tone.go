// Package audio turns simulation events into short synthesized cues.
package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Wave selects an oscillator shape
type Wave int

const (
	Sine Wave = iota
	Square
	Saw
	Noise
)

type oscillator struct {
	freq  float64
	sweep float64 // frequency change per second
	phase float64
	pos   int
	total int
	wave  Wave
	rate  beep.SampleRate
	rng   *rand.Rand
}

// NewTone returns a finite oscillator. A non-zero sweep glides the pitch
// linearly over the tone's lifetime.
func NewTone(freq, sweep float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:  freq,
		sweep: sweep,
		total: rate.N(d),
		wave:  wave,
		rate:  rate,
		rng:   rand.New(rand.NewSource(int64(freq*1000) + int64(d))),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (int, bool) {
	if o.pos >= o.total {
		return 0, false
	}
	for i := range samples {
		if o.pos >= o.total {
			return i, true
		}
		var v float64
		switch o.wave {
		case Sine:
			v = math.Sin(2 * math.Pi * o.phase)
		case Square:
			v = -1
			if o.phase < 0.5 {
				v = 1
			}
		case Saw:
			v = 2 * (o.phase - 0.5)
		case Noise:
			v = o.rng.Float64()*2 - 1
		}
		samples[i][0], samples[i][1] = v, v

		f := o.freq + o.sweep*float64(o.pos)/float64(o.rate)
		if f < 0 {
			f = 0
		}
		o.phase += f / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.pos++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and release
type envelope struct {
	s       beep.Streamer
	pos     int
	attack  int
	release int
	total   int
}

// Shape wraps s with a linear attack/release envelope of total length d
func Shape(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		s:       s,
		attack:  rate.N(attack),
		release: rate.N(release),
		total:   rate.N(d),
	}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.s.Stream(samples)
	releaseStart := e.total - e.release
	if releaseStart < e.attack {
		releaseStart = e.attack
	}
	for i := 0; i < n; i++ {
		if e.pos >= e.total {
			return i, i > 0
		}
		vol := 1.0
		switch {
		case e.pos < e.attack && e.attack > 0:
			vol = float64(e.pos) / float64(e.attack)
		case e.pos >= releaseStart && e.release > 0:
			vol = math.Max(0, float64(e.total-e.pos)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }

// gain scales s linearly; zero or less mutes it
func gain(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
