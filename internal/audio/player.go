package audio

import (
	"sync"
	"sync/atomic"
	"time"

	"dogfight-arena/internal/event"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"
)

// SampleRate is the output rate handed to the speaker
const SampleRate = beep.SampleRate(48000)

// MaxVoices bounds how many cues may overlap in the mixer
const MaxVoices = 8

// Player is an event.Sink that plays cues through the default speaker.
// Every method is a no-op until Init succeeds, so a host without an
// audio device keeps running silently.
type Player struct {
	mu          sync.Mutex
	log         *zap.Logger
	mixer       *beep.Mixer
	volume      float64
	initialized bool
	focus       atomic.Int64
	muted       atomic.Bool
	played      atomic.Uint64
	skipped     atomic.Uint64
}

// NewPlayer creates a player with linear volume vol in [0,1]
func NewPlayer(log *zap.Logger, vol float64) *Player {
	if vol < 0 {
		vol = 0
	}
	if vol > 1 {
		vol = 1
	}
	return &Player{
		log:    log.Named("audio"),
		mixer:  &beep.Mixer{},
		volume: vol,
	}
}

// Init opens the speaker. Calling it twice is harmless.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	p.log.Debug("speaker ready", zap.Int("rate", int(SampleRate)))
	return nil
}

// Close silences and releases the speaker
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.initialized = false
}

// Focus selects the ship whose own shots and pickups are audible
func (p *Player) Focus(shipID int) { p.focus.Store(int64(shipID)) }

// SetMuted silences new cues without releasing the speaker
func (p *Player) SetMuted(m bool) { p.muted.Store(m) }

// Publish implements event.Sink
func (p *Player) Publish(batch []event.Event) {
	if p.muted.Load() {
		return
	}
	cues := Cues(batch, int(p.focus.Load()))
	if len(cues) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.enqueue(cues)
	speaker.Unlock()
}

// enqueue adds cues to the mixer, skipping those past the voice limit.
// Callers hold the speaker lock when the mixer is live.
func (p *Player) enqueue(cues []Cue) {
	for _, c := range cues {
		if p.mixer.Len() >= MaxVoices {
			p.skipped.Add(1)
			continue
		}
		p.mixer.Add(gain(Sound(c, SampleRate), p.volume))
		p.played.Add(1)
	}
}

// Stats reports how many cues were played and skipped
func (p *Player) Stats() (played, skipped uint64) {
	return p.played.Load(), p.skipped.Load()
}
