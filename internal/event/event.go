package event

import "dogfight-arena/internal/vec"

// Kind identifies a lifecycle event
type Kind string

const (
	ShipSpawned      Kind = "ship_spawned"
	ShipDestroyed    Kind = "ship_destroyed"
	WreckSpawned     Kind = "wreck_spawned"
	ProjectileFired  Kind = "projectile_fired"
	ProjectileImpact Kind = "projectile_impact"
	PickupSpawned    Kind = "pickup_spawned"
	PickupCollected  Kind = "pickup_collected"
	RoundStarted     Kind = "round_started"
	RoundEnded       Kind = "round_ended"
	WeaponSwitched   Kind = "weapon_switched"
)

// RoundStats summarises a finished round for the winner announcement
type RoundStats struct {
	WinnerID     int     `json:"winner_id" msgpack:"w"`
	WinnerName   string  `json:"winner_name" msgpack:"n"`
	Kills        int     `json:"kills" msgpack:"k"`
	Score        int     `json:"score" msgpack:"s"`
	Health       float64 `json:"health" msgpack:"h"`
	SurvivalTime float64 `json:"survival_time" msgpack:"t"` // seconds
	Reason       string  `json:"reason" msgpack:"r"`
}

// Event is one notification for presentation, audio and HUD consumers.
// Fields not meaningful for a Kind are left zero.
type Event struct {
	Kind           Kind        `json:"kind" msgpack:"k"`
	Tick           uint64      `json:"tick" msgpack:"t"`
	ShipID         int         `json:"ship,omitempty" msgpack:"s,omitempty"`
	OtherID        int         `json:"other,omitempty" msgpack:"o,omitempty"` // killer, owner or collector
	Pos            vec.Vec3    `json:"pos" msgpack:"p"`
	Dir            vec.Vec3    `json:"dir,omitempty" msgpack:"d,omitempty"`
	ProjectileKind string      `json:"projectile,omitempty" msgpack:"pk,omitempty"`
	PickupType     string      `json:"pickup,omitempty" msgpack:"pu,omitempty"`
	Weapon         string      `json:"weapon,omitempty" msgpack:"wp,omitempty"`
	Stats          *RoundStats `json:"stats,omitempty" msgpack:"st,omitempty"`
}

// Sink consumes drained event batches. Publish must not block the caller.
type Sink interface {
	Publish(batch []Event)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(batch []Event)

func (f SinkFunc) Publish(batch []Event) { f(batch) }

// Queue is a bounded append-only buffer the simulation emits into.
// It is not safe for concurrent use; the owner serializes access.
type Queue struct {
	buf     []Event
	cap     int
	dropped uint64
}

// NewQueue creates a queue holding at most capacity events between drains
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{buf: make([]Event, 0, capacity), cap: capacity}
}

// Emit appends e, dropping it silently when full
func (q *Queue) Emit(e Event) {
	if len(q.buf) >= q.cap {
		q.dropped++
		return
	}
	q.buf = append(q.buf, e)
}

// Drain returns the buffered events and resets the queue
func (q *Queue) Drain() []Event {
	if len(q.buf) == 0 {
		return nil
	}
	out := make([]Event, len(q.buf))
	copy(out, q.buf)
	q.buf = q.buf[:0]
	return out
}

// Len returns the number of buffered events
func (q *Queue) Len() int { return len(q.buf) }

// Dropped returns how many events were discarded since creation
func (q *Queue) Dropped() uint64 { return q.dropped }
