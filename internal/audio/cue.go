package audio

import (
	"time"

	"dogfight-arena/internal/event"
	"dogfight-arena/internal/game"

	"github.com/gopxl/beep"
)

// Cue is one kind of sound effect
type Cue int

const (
	CueNone Cue = iota
	CueFire
	CueNuke
	CueImpact
	CueDestroy
	CuePickup
	CueRoundStart
	CueRoundEnd
	cueCount
)

var cueNames = [cueCount]string{"none", "fire", "nuke", "impact", "destroy", "pickup", "round_start", "round_end"}

func (c Cue) String() string {
	if c >= 0 && c < cueCount {
		return cueNames[c]
	}
	return "unknown"
}

// CueFor maps an event to a cue. Fire and pickup cues only play for the
// focused ship so a crowded arena does not drown the player's own shots.
func CueFor(e event.Event, focus int) Cue {
	switch e.Kind {
	case event.ProjectileFired:
		if e.ShipID != focus {
			return CueNone
		}
		if e.ProjectileKind == game.NuclearMissile.String() {
			return CueNuke
		}
		return CueFire
	case event.ProjectileImpact:
		return CueImpact
	case event.ShipDestroyed:
		return CueDestroy
	case event.PickupCollected:
		if e.ShipID == focus {
			return CuePickup
		}
	case event.RoundStarted:
		return CueRoundStart
	case event.RoundEnded:
		return CueRoundEnd
	}
	return CueNone
}

// Cues reduces a batch to distinct cues in first-seen order
func Cues(batch []event.Event, focus int) []Cue {
	var seen [cueCount]bool
	var out []Cue
	for _, e := range batch {
		c := CueFor(e, focus)
		if c == CueNone || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// Sound builds a fresh streamer for c at unity gain, or nil for CueNone
func Sound(c Cue, rate beep.SampleRate) beep.Streamer {
	ms := time.Millisecond
	switch c {
	case CueFire:
		return Shape(NewTone(1200, -6000, 60*ms, Square, rate), 60*ms, 2*ms, 40*ms, rate)
	case CueNuke:
		return Shape(NewTone(180, -120, 400*ms, Saw, rate), 400*ms, 20*ms, 250*ms, rate)
	case CueImpact:
		return Shape(NewTone(0, 0, 90*ms, Noise, rate), 90*ms, 1*ms, 80*ms, rate)
	case CueDestroy:
		return beep.Mix(
			gain(Shape(NewTone(0, 0, 500*ms, Noise, rate), 500*ms, 5*ms, 450*ms, rate), 0.7),
			gain(Shape(NewTone(110, -150, 500*ms, Sine, rate), 500*ms, 5*ms, 400*ms, rate), 0.3),
		)
	case CuePickup:
		return beep.Seq(
			Shape(NewTone(987.77, 0, 70*ms, Square, rate), 70*ms, 2*ms, 20*ms, rate),
			Shape(NewTone(1318.51, 0, 140*ms, Square, rate), 140*ms, 2*ms, 100*ms, rate),
		)
	case CueRoundStart:
		return beep.Seq(
			Shape(NewTone(440, 0, 120*ms, Sine, rate), 120*ms, 5*ms, 40*ms, rate),
			Shape(NewTone(880, 0, 200*ms, Sine, rate), 200*ms, 5*ms, 120*ms, rate),
		)
	case CueRoundEnd:
		return beep.Seq(
			Shape(NewTone(880, 0, 150*ms, Sine, rate), 150*ms, 5*ms, 50*ms, rate),
			Shape(NewTone(660, 0, 150*ms, Sine, rate), 150*ms, 5*ms, 50*ms, rate),
			Shape(NewTone(440, 0, 300*ms, Sine, rate), 300*ms, 5*ms, 200*ms, rate),
		)
	}
	return nil
}
