// Package radar is a terminal front end: a top-down tcell radar of the
// arena and keyboard control of the human ship.
package radar

import (
	"time"

	"dogfight-arena/internal/game"
	"dogfight-arena/internal/round"

	"github.com/gdamore/tcell/v2"
)

// ActionKind classifies what a key does
type ActionKind uint8

const (
	ActNone ActionKind = iota
	ActIntent
	ActSelectMode
	ActConfirm // start from the menu, replay after a round
	ActBack    // menu after a round, quit from the menu
	ActQuit
	ActMute
)

// Action is the decoded meaning of a key event
type Action struct {
	Kind   ActionKind
	Intent game.IntentKey
	Mode   round.Mode
}

// KeyTable maps keys to actions
type KeyTable struct {
	Special map[tcell.Key]Action
	Runes   map[rune]Action
}

func intent(k game.IntentKey) Action { return Action{Kind: ActIntent, Intent: k} }

// DefaultKeyTable returns the default bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		Special: map[tcell.Key]Action{
			tcell.KeyUp:     intent(game.ThrustUp),
			tcell.KeyDown:   intent(game.ThrustDown),
			tcell.KeyLeft:   intent(game.YawLeft),
			tcell.KeyRight:  intent(game.YawRight),
			tcell.KeyEnter:  {Kind: ActConfirm},
			tcell.KeyEscape: {Kind: ActBack},
			tcell.KeyCtrlC:  {Kind: ActQuit},
		},
		Runes: map[rune]Action{
			' ': intent(game.Fire),
			'b': intent(game.Boost),
			'B': intent(game.Boost), // shift
			'e': intent(game.SpecialFire),
			'q': intent(game.SwitchWeapon),
			'1': {Kind: ActSelectMode, Mode: round.ModeAI},
			'2': {Kind: ActSelectMode, Mode: round.ModePlayer},
			'3': {Kind: ActSelectMode, Mode: round.ModeMixed},
			'm': {Kind: ActMute},
		},
	}
}

// Lookup decodes a key event's key and rune
func (t *KeyTable) Lookup(k tcell.Key, r rune) Action {
	if k == tcell.KeyRune {
		return t.Runes[r]
	}
	return t.Special[k]
}

// Terminals report key repeats but never releases, so a held control is
// modelled as pressed until its repeats stop arriving. The first window
// covers the typical auto-repeat delay, later ones the repeat interval.
const (
	FirstHold  = 550 * time.Millisecond
	RepeatHold = 120 * time.Millisecond
)

// Holds turns key repeats into press/release levels
type Holds struct {
	until map[game.IntentKey]time.Time
}

// NewHolds creates an empty tracker
func NewHolds() *Holds {
	return &Holds{until: make(map[game.IntentKey]time.Time)}
}

// Press records k at now and reports whether it was not already held
func (h *Holds) Press(k game.IntentKey, now time.Time) bool {
	if _, held := h.until[k]; held {
		h.until[k] = now.Add(RepeatHold)
		return false
	}
	h.until[k] = now.Add(FirstHold)
	return true
}

// Expire releases every key whose window has passed
func (h *Holds) Expire(now time.Time) []game.IntentKey {
	var out []game.IntentKey
	for k, t := range h.until {
		if !now.Before(t) {
			out = append(out, k)
			delete(h.until, k)
		}
	}
	return out
}

// Held reports whether k is currently held
func (h *Holds) Held(k game.IntentKey) bool {
	_, ok := h.until[k]
	return ok
}

// Reset releases everything and returns what was held
func (h *Holds) Reset() []game.IntentKey {
	var out []game.IntentKey
	for k := range h.until {
		out = append(out, k)
	}
	clear(h.until)
	return out
}
