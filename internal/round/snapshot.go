package round

import (
	"dogfight-arena/internal/game"
	"dogfight-arena/internal/protocol"
)

// Snapshot copies the round into a broadcastable state
func (c *Controller) Snapshot() *protocol.GameState {
	c.mu.Lock()
	defer c.mu.Unlock()

	w := c.world
	gs := &protocol.GameState{
		State:       c.state.String(),
		Mode:        string(c.mode),
		Tick:        w.Tick,
		TimeLeft:    c.timeLeft,
		ArenaSize:   c.cfg.Arena.Size,
		Ships:       make([]protocol.ShipState, 0, len(w.Ships)),
		Projectiles: make([]protocol.ProjectileState, 0, len(w.Projectiles)),
		Pickups:     make([]protocol.PickupState, 0, len(w.Pickups)),
	}
	if c.state != Menu {
		gs.RoundID = c.roundID.String()
	}
	if c.state == Ended && c.mode == ModeAI {
		gs.RestartIn = max(0, c.restartIn)
	}
	if c.result != nil {
		r := *c.result
		gs.Result = &r
	}

	for _, s := range w.Ships {
		st := protocol.ShipState{
			ID:        s.ID,
			Name:      s.Name,
			Human:     s.Kind == game.Human,
			Pos:       s.Pos,
			Vel:       s.Vel,
			Facing:    s.Facing,
			Health:    s.Health,
			MaxHealth: s.MaxHealth,
			Shield:    s.Shield,
			MaxShield: s.MaxShield,
			Alive:     s.Alive,
			Score:     s.Score,
			Kills:     s.Kills,
			Weapon:    s.Weapon.String(),
			Target:    s.TargetID,
		}
		if s.Kind == game.Human {
			st.Boost = s.BoostEnergy
			st.Boosting = s.Boosting
			st.SpecialIn = s.Special.Remaining(w.Now)
		}
		if p, ok := c.pilots[s.ID]; ok {
			st.AIState = p.State().String()
			st.AIMode = p.Mode().String()
		}
		gs.Ships = append(gs.Ships, st)
	}
	for _, p := range w.Projectiles {
		gs.Projectiles = append(gs.Projectiles, protocol.ProjectileState{
			ID:    p.ID,
			Kind:  p.Kind.String(),
			Owner: p.OwnerID,
			Pos:   p.Pos,
			Vel:   p.Vel,
		})
	}
	for _, p := range w.Pickups {
		gs.Pickups = append(gs.Pickups, protocol.PickupState{
			ID:   p.ID,
			Type: p.Type.String(),
			Pos:  p.Pos,
		})
	}
	return gs
}
