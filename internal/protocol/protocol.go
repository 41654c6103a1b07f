// Package protocol defines the messages exchanged with arena adapters:
// JSON envelopes for commands and events, msgpack for state snapshots.
package protocol

import (
	"encoding/json"
	"fmt"

	"dogfight-arena/internal/event"
	"dogfight-arena/internal/game"
	"dogfight-arena/internal/vec"

	"github.com/vmihailenco/msgpack/v5"
)

// Client -> Server message types
const (
	MsgIntent  = "intent"
	MsgStart   = "start"   // start a battle from the menu
	MsgRestart = "restart" // replay after a round ended
	MsgMenu    = "menu"    // back to the menu after a round ended
)

// Server -> Client message types
const (
	MsgWelcome = "welcome"
	MsgEvents  = "events"
	MsgState   = "state" // sent as a binary msgpack frame
	MsgError   = "error"
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string `json:"t"`
	Data any    `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// IntentMsg presses or releases one control
type IntentMsg struct {
	Key     string `json:"key"`
	Pressed bool   `json:"pressed"`
}

// Parse resolves the control key
func (m IntentMsg) Parse() (game.IntentKey, error) {
	k, ok := game.ParseIntentKey(m.Key)
	if !ok {
		return 0, fmt.Errorf("unknown intent %q", m.Key)
	}
	return k, nil
}

// StartMsg selects the battle mode
type StartMsg struct {
	Mode string `json:"mode"`
}

// WelcomeMsg is sent on connect
type WelcomeMsg struct {
	RoundID string `json:"rid"`
	State   string `json:"state"`
	Mode    string `json:"mode"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// ShipState is the broadcast view of one ship
type ShipState struct {
	ID        int      `msgpack:"id" json:"id"`
	Name      string   `msgpack:"n" json:"n"`
	Human     bool     `msgpack:"hu,omitempty" json:"hu,omitempty"`
	Pos       vec.Vec3 `msgpack:"p" json:"p"`
	Vel       vec.Vec3 `msgpack:"v" json:"v"`
	Facing    vec.Vec3 `msgpack:"f" json:"f"`
	Health    float64  `msgpack:"hp" json:"hp"`
	MaxHealth float64  `msgpack:"mhp" json:"mhp"`
	Shield    float64  `msgpack:"sh" json:"sh"`
	MaxShield float64  `msgpack:"msh" json:"msh"`
	Alive     bool     `msgpack:"a" json:"a"`
	Score     int      `msgpack:"sc" json:"sc"`
	Kills     int      `msgpack:"k" json:"k"`
	Weapon    string   `msgpack:"w" json:"w"`
	Target    int      `msgpack:"t,omitempty" json:"t,omitempty"`
	Boost     float64  `msgpack:"b,omitempty" json:"b,omitempty"`
	Boosting  bool     `msgpack:"bo,omitempty" json:"bo,omitempty"`
	SpecialIn float64  `msgpack:"sp,omitempty" json:"sp,omitempty"` // seconds until the special is ready
	AIState   string   `msgpack:"as,omitempty" json:"as,omitempty"`
	AIMode    string   `msgpack:"am,omitempty" json:"am,omitempty"`
}

// ProjectileState is broadcast per projectile
type ProjectileState struct {
	ID    int      `msgpack:"id" json:"id"`
	Kind  string   `msgpack:"k" json:"k"`
	Owner int      `msgpack:"o" json:"o"`
	Pos   vec.Vec3 `msgpack:"p" json:"p"`
	Vel   vec.Vec3 `msgpack:"v" json:"v"`
}

// PickupState is broadcast per pickup
type PickupState struct {
	ID   int      `msgpack:"id" json:"id"`
	Type string   `msgpack:"t" json:"t"`
	Pos  vec.Vec3 `msgpack:"p" json:"p"`
}

// GameState is the full state broadcast
type GameState struct {
	RoundID     string            `msgpack:"rid" json:"rid"`
	State       string            `msgpack:"st" json:"st"`
	Mode        string            `msgpack:"m" json:"m"`
	Tick        uint64            `msgpack:"tick" json:"tick"`
	TimeLeft    float64           `msgpack:"tl" json:"tl"`
	RestartIn   float64           `msgpack:"ri,omitempty" json:"ri,omitempty"`
	ArenaSize   float64           `msgpack:"as" json:"as"`
	Ships       []ShipState       `msgpack:"s" json:"s"`
	Projectiles []ProjectileState `msgpack:"pr" json:"pr"`
	Pickups     []PickupState     `msgpack:"pk" json:"pk"`
	Result      *event.RoundStats `msgpack:"r,omitempty" json:"r,omitempty"`
}

// Ship returns the state of ship id
func (g *GameState) Ship(id int) (ShipState, bool) {
	for _, s := range g.Ships {
		if s.ID == id {
			return s, true
		}
	}
	return ShipState{}, false
}

// EncodeState packs a snapshot for a binary frame
func EncodeState(gs *GameState) ([]byte, error) {
	b, err := msgpack.Marshal(gs)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return b, nil
}

// DecodeState unpacks a binary state frame
func DecodeState(b []byte) (*GameState, error) {
	var gs GameState
	if err := msgpack.Unmarshal(b, &gs); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &gs, nil
}

// MarshalEnvelope encodes a typed JSON message
func MarshalEnvelope(t string, data any) ([]byte, error) {
	b, err := json.Marshal(Envelope{T: t, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", t, err)
	}
	return b, nil
}
