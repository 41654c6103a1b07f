package game

import (
	"dogfight-arena/internal/event"
	"dogfight-arena/internal/vec"
)

// Damage applies amount to target on behalf of sourceID (0 = environment)
// and runs destruction side effects if the hit was lethal. Returns true
// when this call killed the target.
func (w *World) Damage(target *Ship, amount float64, sourceID int) bool {
	if target == nil || !target.TakeDamage(amount) {
		return false
	}
	w.destroyed(target, sourceID)
	return true
}

// destroyed emits the death events, credits the killer and rolls a drop
func (w *World) destroyed(s *Ship, killerID int) {
	s.DiedAt = w.Now
	s.KilledBy = killerID
	w.Emit(event.Event{Kind: event.ShipDestroyed, ShipID: s.ID, OtherID: killerID, Pos: s.Pos})
	w.Emit(event.Event{Kind: event.WreckSpawned, ShipID: s.ID, Pos: s.Pos})

	// stale or self sources get no credit
	if killer := w.Ship(killerID); killer != nil && killer != s {
		killer.Kills++
		killer.Score += KillScore
	}

	if w.Rng.Float64() < w.Cfg.Combat.DropChance {
		w.AddPickup(NewPickup(w.randomPickupType(), s.Pos))
	}
}

// Blast applies falloff damage and knockback around center to every live
// ship except ownerID. Damage and impulse scale by (1 - d/radius); ships at
// or beyond radius are untouched.
func (w *World) Blast(center vec.Vec3, h Warhead, ownerID int) {
	if h.BlastRadius <= 0 {
		return
	}
	for _, s := range w.Ships {
		if !s.Alive || s.ID == ownerID {
			continue
		}
		d := s.Pos.Dist(center)
		if d >= h.BlastRadius {
			continue
		}
		factor := 1 - d/h.BlastRadius
		w.Damage(s, factor*h.BlastDamage, ownerID)
		if h.Knockback > 0 && s.Alive {
			dir := s.Pos.Sub(center).Normalize()
			s.Vel = s.Vel.Add(dir.Scale(factor * h.Knockback))
		}
	}
}
