package game

import (
	"math"

	"dogfight-arena/internal/event"
	"dogfight-arena/internal/vec"
)

const (
	PickupRadius      = 50.0
	PickupLifetime    = 600 // ticks
	PickupHeal        = 30.0
	PickupScore       = 25 // every collection
	PickupWeaponScore = 50 // weapon pickup collected by an AI ship
)

// PickupType identifies the pickup effect
type PickupType int

const (
	PickupHealth PickupType = iota
	PickupShield
	PickupWeapon
	PickupBoost
	pickupTypeCount
)

var pickupNames = [pickupTypeCount]string{"health", "shield", "weapon", "boost"}

func (t PickupType) String() string {
	if t >= 0 && t < pickupTypeCount {
		return pickupNames[t]
	}
	return "unknown"
}

// Pickup is a collectible floating in the arena
type Pickup struct {
	ID        int
	Type      PickupType
	Pos       vec.Vec3
	Age       int // ticks
	MaxAge    int
	Collected bool
	Alive     bool
}

// NewPickup creates an uncollected pickup at pos
func NewPickup(t PickupType, pos vec.Vec3) *Pickup {
	return &Pickup{
		Type:   t,
		Pos:    pos,
		MaxAge: PickupLifetime,
		Alive:  true,
	}
}

// Update hands the pickup to the first live ship in range (roster order),
// otherwise ages it and expires it at MaxAge
func (p *Pickup) Update(w *World) {
	if !p.Alive {
		return
	}
	for _, s := range w.Ships {
		if s.Alive && SpheresOverlap(p.Pos, PickupRadius, s.Pos, 0) {
			p.Collect(w, s)
			return
		}
	}
	p.Age++
	if p.Age >= p.MaxAge {
		p.Alive = false
	}
}

// Collect applies the effect to s exactly once and retires the pickup
func (p *Pickup) Collect(w *World, s *Ship) bool {
	if !p.Alive || p.Collected || !s.Alive {
		return false
	}
	p.Collected = true
	p.Alive = false

	switch p.Type {
	case PickupHealth:
		s.Heal(PickupHeal)
	case PickupShield:
		s.Shield = s.MaxShield
	case PickupWeapon:
		if s.Kind == Human {
			s.SwitchWeapon(w)
		} else {
			s.Score += PickupWeaponScore
		}
	case PickupBoost:
		s.BoostEnergy = w.Cfg.Ships.BoostMax
	}
	s.Score += PickupScore

	w.Emit(event.Event{
		Kind:       event.PickupCollected,
		ShipID:     s.ID,
		Pos:        p.Pos,
		PickupType: p.Type.String(),
	})
	return true
}

// RandomPickupPosition draws a spawn point within 0.75 of the arena
// horizontally and between 50 and 250 altitude, clamped to the height bounds
func RandomPickupPosition(w *World) vec.Vec3 {
	span := w.Cfg.Arena.Size * 0.75
	y := 50 + w.Rng.Float64()*200
	y = math.Max(w.Cfg.Arena.MinHeight, math.Min(w.Cfg.Arena.MaxHeight, y))
	return vec.Vec3{
		X: (w.Rng.Float64()*2 - 1) * span,
		Y: y,
		Z: (w.Rng.Float64()*2 - 1) * span,
	}
}
