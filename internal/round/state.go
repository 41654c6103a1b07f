package round

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned for a state change the round does not allow
var ErrInvalidTransition = errors.New("invalid round transition")

// State is the round lifecycle state
type State int

const (
	Menu State = iota
	Battle
	Ended
)

func (s State) String() string {
	switch s {
	case Battle:
		return "battle"
	case Ended:
		return "ended"
	default:
		return "menu"
	}
}

// allowed lists every reachable transition
var allowed = map[State][]State{
	Menu:   {Battle},
	Battle: {Ended},
	Ended:  {Menu, Battle},
}

// CanTransition reports whether from -> to is a legal move
func CanTransition(from, to State) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

func transitionErr(from, to State) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// Mode selects who flies in a round
type Mode string

const (
	ModeAI     Mode = "ai"     // autonomous, restarts by itself
	ModePlayer Mode = "player" // one human ship plus AI
	ModeMixed  Mode = "mixed"  // as player, renderers follow the AI camera
)

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeAI, ModePlayer, ModeMixed:
		return m, nil
	}
	return "", fmt.Errorf("unknown round mode %q", s)
}

// HasHuman reports whether the mode spawns a human ship
func (m Mode) HasHuman() bool {
	return m == ModePlayer || m == ModeMixed
}

// End reasons reported in RoundStats
const (
	ReasonLastStanding = "last_standing"
	ReasonTimeUp       = "time_up"
	ReasonHumanDown    = "player_destroyed"
)
