package radar

import (
	"context"
	"time"

	"dogfight-arena/internal/game"
	"dogfight-arena/internal/protocol"
	"dogfight-arena/internal/round"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

// Arena is the round surface the terminal drives
type Arena interface {
	State() round.State
	Snapshot() *protocol.GameState
	HandleIntent(k game.IntentKey, pressed bool)
	StartBattle(mode round.Mode) error
	Restart() error
	ReturnToMenu() error
}

// Listener receives focus and mute changes, typically the audio player
type Listener interface {
	Focus(shipID int)
	SetMuted(bool)
}

// App runs the terminal front end
type App struct {
	arena  Arena
	screen tcell.Screen
	radar  *Radar
	keys   *KeyTable
	holds  *Holds
	sound  Listener
	log    *zap.Logger
	frame  time.Duration
}

// NewApp wires a terminal front end. sound may be nil.
func NewApp(arena Arena, screen tcell.Screen, sound Listener, log *zap.Logger, fps int) *App {
	if fps <= 0 {
		fps = 30
	}
	return &App{
		arena:  arena,
		screen: screen,
		radar:  New(screen),
		keys:   DefaultKeyTable(),
		holds:  NewHolds(),
		sound:  sound,
		log:    log.Named("tty"),
		frame:  time.Second / time.Duration(fps),
	}
}

// Radar exposes the renderer
func (a *App) Radar() *Radar { return a.radar }

// HandleKey applies one key event and reports whether to quit
func (a *App) HandleKey(ev *tcell.EventKey, now time.Time) bool {
	return a.Apply(a.keys.Lookup(ev.Key(), ev.Rune()), now)
}

// Apply performs act and reports whether to quit
func (a *App) Apply(act Action, now time.Time) bool {
	state := a.arena.State()
	switch act.Kind {
	case ActQuit:
		return true
	case ActMute:
		a.radar.Muted = !a.radar.Muted
		if a.sound != nil {
			a.sound.SetMuted(a.radar.Muted)
		}
	case ActSelectMode:
		if state == round.Menu {
			a.radar.Mode = act.Mode
		}
	case ActConfirm:
		switch state {
		case round.Menu:
			a.report("start", a.arena.StartBattle(a.radar.Mode))
		case round.Ended:
			a.report("restart", a.arena.Restart())
		}
	case ActBack:
		switch state {
		case round.Menu:
			return true
		case round.Ended:
			a.report("menu", a.arena.ReturnToMenu())
		}
	case ActIntent:
		if state != round.Battle {
			return false
		}
		if act.Intent.OneShot() {
			a.arena.HandleIntent(act.Intent, true)
			a.arena.HandleIntent(act.Intent, false)
			return false
		}
		if a.holds.Press(act.Intent, now) {
			a.arena.HandleIntent(act.Intent, true)
		}
	}
	return false
}

func (a *App) report(what string, err error) {
	if err != nil {
		a.log.Debug("action rejected", zap.String("action", what), zap.Error(err))
	}
}

// Frame releases lapsed holds and redraws
func (a *App) Frame(now time.Time) {
	gs := a.arena.Snapshot()
	if gs.State != round.Battle.String() {
		a.holds.Reset()
	}
	for _, k := range a.holds.Expire(now) {
		a.arena.HandleIntent(k, false)
	}
	if a.sound != nil {
		if s, ok := humanShip(gs); ok {
			a.sound.Focus(s.ID)
		} else {
			a.sound.Focus(0)
		}
	}
	a.radar.Draw(gs)
}

// Run polls input and redraws at the frame rate until ctx ends or the
// user quits. The caller owns the screen and finalizes it afterwards.
func (a *App) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(a.frame)
	defer ticker.Stop()
	a.Frame(time.Now())

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if a.HandleKey(ev, time.Now()) {
					a.log.Info("quit requested")
					return nil
				}
			case *tcell.EventResize:
				a.screen.Sync()
			}
		case now := <-ticker.C:
			a.Frame(now)
		}
	}
}
