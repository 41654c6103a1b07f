package game

import (
	"math/rand"

	"dogfight-arena/internal/config"
	"dogfight-arena/internal/event"
	"dogfight-arena/internal/vec"
)

const (
	maxEventsPerTick = 1024
	timeEpsilon      = 1e-9 // tolerance for accumulated tick time in cooldown checks
)

// ShipView is the read-only picture of a ship as of the start of the tick
type ShipView struct {
	ID     int
	Kind   PilotKind
	Pos    vec.Vec3
	Vel    vec.Vec3
	Health float64
	Shield float64
	Alive  bool
}

// ProjectileView is the read-only picture of a projectile as of the start of the tick
type ProjectileView struct {
	ID      int
	OwnerID int
	Kind    ProjectileKind
	Pos     vec.Vec3
	Vel     vec.Vec3
}

// View is the roster snapshot pilots read during a tick
type View struct {
	Ships       []ShipView
	Projectiles []ProjectileView
}

// Ship returns the snapshot of ship id
func (v *View) Ship(id int) (ShipView, bool) {
	for _, s := range v.Ships {
		if s.ID == id {
			return s, true
		}
	}
	return ShipView{}, false
}

// World owns every entity of one round. It is not safe for concurrent use;
// the round controller serializes access.
type World struct {
	Cfg    *config.Config
	Rng    *rand.Rand
	Events *event.Queue

	Now  float64 // simulation seconds since the round started
	Tick uint64

	Ships       []*Ship
	Projectiles []*Projectile
	Pickups     []*Pickup

	byID   map[int]*Ship
	nextID int
	view   View
	grid   *SpatialGrid
	refBuf []int

	DroppedProjectiles uint64
	DroppedPickups     uint64
}

// NewWorld creates an empty world for cfg
func NewWorld(cfg *config.Config, rng *rand.Rand) *World {
	extent := cfg.Arena.Size * ProjectileRangeFactor
	return &World{
		Cfg:    cfg,
		Rng:    rng,
		Events: event.NewQueue(maxEventsPerTick),
		byID:   make(map[int]*Ship),
		grid:   NewSpatialGrid(extent, SpatialCellSize),
	}
}

// Reset drops every entity and rewinds the clock
func (w *World) Reset() {
	w.Ships = nil
	w.Projectiles = nil
	w.Pickups = nil
	w.byID = make(map[int]*Ship)
	w.nextID = 0
	w.Now = 0
	w.Tick = 0
	w.view = View{}
	w.Events.Drain()
}

func (w *World) newID() int {
	w.nextID++
	return w.nextID
}

// Emit records an event stamped with the current tick
func (w *World) Emit(e event.Event) {
	e.Tick = w.Tick
	w.Events.Emit(e)
}

// AddShip appends s to the roster, assigning its ID
func (w *World) AddShip(s *Ship) *Ship {
	s.ID = w.newID()
	s.SpawnedAt = w.Now
	w.Ships = append(w.Ships, s)
	w.byID[s.ID] = s
	w.Emit(event.Event{Kind: event.ShipSpawned, ShipID: s.ID, Pos: s.Pos, Dir: s.Facing})
	return s
}

// Ship looks up a ship by ID; stale IDs return nil
func (w *World) Ship(id int) *Ship {
	return w.byID[id]
}

// Human returns the human-controlled ship, if any
func (w *World) Human() *Ship {
	for _, s := range w.Ships {
		if s.Kind == Human {
			return s
		}
	}
	return nil
}

// AliveShips counts live ships
func (w *World) AliveShips() int {
	n := 0
	for _, s := range w.Ships {
		if s.Alive {
			n++
		}
	}
	return n
}

// AddProjectile appends p unless the live cap is reached
func (w *World) AddProjectile(p *Projectile) bool {
	if len(w.Projectiles) >= w.Cfg.Combat.MaxProjectiles {
		w.DroppedProjectiles++
		return false
	}
	p.ID = w.newID()
	w.Projectiles = append(w.Projectiles, p)
	w.Emit(event.Event{
		Kind:           event.ProjectileFired,
		ShipID:         p.OwnerID,
		Pos:            p.Pos,
		Dir:            p.Vel.Normalize(),
		ProjectileKind: p.Kind.String(),
	})
	return true
}

// AddPickup appends p unless the live cap is reached
func (w *World) AddPickup(p *Pickup) bool {
	if len(w.Pickups) >= w.Cfg.Combat.MaxPickups {
		w.DroppedPickups++
		return false
	}
	p.ID = w.newID()
	w.Pickups = append(w.Pickups, p)
	w.Emit(event.Event{Kind: event.PickupSpawned, Pos: p.Pos, PickupType: p.Type.String()})
	return true
}

// View returns the roster snapshot taken at the start of the current tick
func (w *World) View() *View {
	return &w.view
}

func (w *World) snapshot() {
	w.view.Ships = w.view.Ships[:0]
	for _, s := range w.Ships {
		w.view.Ships = append(w.view.Ships, ShipView{
			ID:     s.ID,
			Kind:   s.Kind,
			Pos:    s.Pos,
			Vel:    s.Vel,
			Health: s.Health,
			Shield: s.Shield,
			Alive:  s.Alive,
		})
	}
	w.view.Projectiles = w.view.Projectiles[:0]
	for _, p := range w.Projectiles {
		if !p.Alive {
			continue
		}
		w.view.Projectiles = append(w.view.Projectiles, ProjectileView{
			ID:      p.ID,
			OwnerID: p.OwnerID,
			Kind:    p.Kind,
			Pos:     p.Pos,
			Vel:     p.Vel,
		})
	}
}

// Step advances every entity by one tick of dt seconds: clock, snapshot,
// ships in roster order, projectiles, then pickups.
func (w *World) Step(dt float64) {
	w.Now += dt
	w.Tick++
	w.snapshot()

	for _, s := range w.Ships {
		s.Update(w, dt)
	}
	w.UpdateProjectiles()
	w.UpdatePickups()
}

// UpdateProjectiles moves projectiles, resolves hits and evicts dead ones
func (w *World) UpdateProjectiles() {
	w.indexShips()
	for _, p := range w.Projectiles {
		p.Update(w)
	}
	live := w.Projectiles[:0]
	for _, p := range w.Projectiles {
		if p.Alive {
			live = append(live, p)
		}
	}
	clear(w.Projectiles[len(live):])
	w.Projectiles = live
}

// UpdatePickups resolves collection and expiry and evicts spent pickups
func (w *World) UpdatePickups() {
	for _, p := range w.Pickups {
		p.Update(w)
	}
	live := w.Pickups[:0]
	for _, p := range w.Pickups {
		if p.Alive {
			live = append(live, p)
		}
	}
	clear(w.Pickups[len(live):])
	w.Pickups = live
}

func (w *World) indexShips() {
	w.grid.Clear()
	for i, s := range w.Ships {
		if s.Alive {
			w.grid.Insert(s.Pos.X, s.Pos.Z, i)
		}
	}
}

// randomPickupType draws uniformly over the four pickup types
func (w *World) randomPickupType() PickupType {
	return PickupType(w.Rng.Intn(int(pickupTypeCount)))
}

// SpawnRandomPickup places a pickup of random type somewhere in the arena
func (w *World) SpawnRandomPickup() bool {
	return w.AddPickup(NewPickup(w.randomPickupType(), RandomPickupPosition(w)))
}
