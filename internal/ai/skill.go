package ai

import (
	"errors"
	"fmt"

	"dogfight-arena/internal/data"
)

// ErrUnknownTier is returned for a difficulty name missing from the tables
var ErrUnknownTier = errors.New("unknown difficulty tier")

// ProfileFor resolves the skill profile every AI pilot in a round shares
func ProfileFor(tables *data.AITables, tier string) (data.SkillTier, error) {
	s, ok := tables.Tier(tier)
	if !ok {
		return data.SkillTier{}, fmt.Errorf("%w: %q", ErrUnknownTier, tier)
	}
	return s, nil
}

// State is the pilot's top-level behavior
type State int

const (
	Searching State = iota
	Attacking
	Evading
)

func (s State) String() string {
	switch s {
	case Attacking:
		return "attacking"
	case Evading:
		return "evading"
	default:
		return "searching"
	}
}

// Mode is the tactical posture; it only changes attack parameters
type Mode int

const (
	Adaptive Mode = iota
	Aggressive
	Defensive
	Hunter
)

func (m Mode) String() string {
	switch m {
	case Aggressive:
		return "aggressive"
	case Defensive:
		return "defensive"
	case Hunter:
		return "hunter"
	default:
		return "adaptive"
	}
}

// OptimalRange is the distance the pilot tries to hold from its target
func (m Mode) OptimalRange() float64 {
	switch m {
	case Aggressive:
		return 200
	case Hunter:
		return 250
	case Defensive:
		return 350
	default:
		return 300
	}
}

const (
	lowHealthFrac  = 0.3
	highHealthFrac = 0.8
)

// modeFor picks the posture from combined health and the live enemy count
func modeFor(healthFrac float64, enemies int) Mode {
	switch {
	case healthFrac < lowHealthFrac:
		return Defensive
	case enemies == 1:
		return Aggressive
	case healthFrac > highHealthFrac:
		return Hunter
	default:
		return Adaptive
	}
}
