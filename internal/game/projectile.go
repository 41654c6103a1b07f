package game

import (
	"dogfight-arena/internal/event"
	"dogfight-arena/internal/vec"
)

const (
	ProjectileHitRadius   = 40.0
	ProjectileRangeFactor = 1.5 // max distance from centre, in arena sizes
	LaserLifetime         = 120 // ticks
	RocketLifetime        = 240
	NukeLifetime          = 300

	RocketBlastRadius = 100.0
	RocketBlastDamage = 30.0

	NukeBlastRadius   = 400.0
	NukeBlastDamage   = 200.0
	NukeKnockback     = 30.0
	NukeTurnRate      = 0.02 // slerp fraction per tick
	NukeProximity     = 50.0
	NukeFloorAltitude = 10.0
)

// ProjectileKind identifies the projectile variant
type ProjectileKind int

const (
	Laser ProjectileKind = iota
	Rocket
	NuclearMissile
)

func (k ProjectileKind) String() string {
	switch k {
	case Rocket:
		return "rocket"
	case NuclearMissile:
		return "nuclear_missile"
	default:
		return "laser"
	}
}

// Warhead is the damage profile applied when a projectile detonates
type Warhead struct {
	DirectDamage float64 // to the ship struck
	BlastRadius  float64 // 0 = no area pass
	BlastDamage  float64 // at the centre, falling off linearly
	Knockback    float64 // impulse at the centre, falling off linearly
}

// Homing is the guidance profile of a steered projectile
type Homing struct {
	TurnRate        float64 // slerp fraction per tick
	Proximity       float64 // detonates within this of any live non-owner
	FloorAltitude   float64 // detonates below this altitude
	DetonateOnTimer bool    // detonates rather than fizzles at MaxAge
}

// Projectile is a shot in flight
type Projectile struct {
	ID       int
	Kind     ProjectileKind
	OwnerID  int
	Pos      vec.Vec3
	Vel      vec.Vec3
	Speed    float64
	Age      int // ticks lived
	MaxAge   int
	TargetID int // homing target, weak reference
	Warhead  Warhead
	Homing   *Homing
	Alive    bool
}

// NewLaser creates a laser bolt
func NewLaser(ownerID int, pos, dir vec.Vec3, speed, damage float64) *Projectile {
	return &Projectile{
		Kind:    Laser,
		OwnerID: ownerID,
		Pos:     pos,
		Vel:     dir.Normalize().Scale(speed),
		Speed:   speed,
		MaxAge:  LaserLifetime,
		Warhead: Warhead{DirectDamage: damage},
		Alive:   true,
	}
}

// NewRocket creates a rocket with an area blast on impact
func NewRocket(ownerID int, pos, dir vec.Vec3, speed, damage float64) *Projectile {
	return &Projectile{
		Kind:    Rocket,
		OwnerID: ownerID,
		Pos:     pos,
		Vel:     dir.Normalize().Scale(speed),
		Speed:   speed,
		MaxAge:  RocketLifetime,
		Warhead: Warhead{
			DirectDamage: damage,
			BlastRadius:  RocketBlastRadius,
			BlastDamage:  RocketBlastDamage,
		},
		Alive: true,
	}
}

// NewNuclearMissile creates a homing missile
func NewNuclearMissile(ownerID int, pos, dir vec.Vec3, speed float64) *Projectile {
	return &Projectile{
		Kind:    NuclearMissile,
		OwnerID: ownerID,
		Pos:     pos,
		Vel:     dir.Normalize().Scale(speed),
		Speed:   speed,
		MaxAge:  NukeLifetime,
		Warhead: Warhead{
			BlastRadius: NukeBlastRadius,
			BlastDamage: NukeBlastDamage,
			Knockback:   NukeKnockback,
		},
		Homing: &Homing{
			TurnRate:        NukeTurnRate,
			Proximity:       NukeProximity,
			FloorAltitude:   NukeFloorAltitude,
			DetonateOnTimer: true,
		},
		Alive: true,
	}
}

// Update moves the projectile one tick and resolves its fate
func (p *Projectile) Update(w *World) {
	if !p.Alive {
		return
	}
	if p.Homing != nil {
		p.steer(w)
	}

	prev := p.Pos
	p.Pos = p.Pos.Add(p.Vel)
	p.Age++

	if hit := p.firstHit(w, prev); hit != nil {
		p.Detonate(w, hit)
		return
	}
	if h := p.Homing; h != nil {
		if p.Pos.Y < h.FloorAltitude || p.nearEnemy(w, h.Proximity) {
			p.Detonate(w, nil)
			return
		}
	} else if p.Pos.Y < 0 {
		p.Detonate(w, nil)
		return
	}

	if p.Age >= p.MaxAge {
		if p.Homing != nil && p.Homing.DetonateOnTimer {
			p.Detonate(w, nil)
			return
		}
		p.Alive = false
		return
	}
	if p.Pos.Len() > w.Cfg.Arena.Size*ProjectileRangeFactor {
		p.Alive = false
	}
}

// steer re-acquires a target when needed and turns toward it
func (p *Projectile) steer(w *World) {
	target := w.Ship(p.TargetID)
	if target == nil || !target.Alive || target.ID == p.OwnerID {
		target = p.nearest(w)
		p.TargetID = 0
		if target != nil {
			p.TargetID = target.ID
		}
	}
	if target == nil {
		return
	}
	want := target.Pos.Sub(p.Pos)
	if want.IsZero() {
		return
	}
	dir := vec.Slerp(p.Vel, want, p.Homing.TurnRate)
	p.Vel = dir.Scale(p.Speed)
}

func (p *Projectile) nearest(w *World) *Ship {
	var best *Ship
	bestD := 0.0
	for _, s := range w.Ships {
		if !s.Alive || s.ID == p.OwnerID {
			continue
		}
		d := s.Pos.DistSq(p.Pos)
		if best == nil || d < bestD {
			best, bestD = s, d
		}
	}
	return best
}

// firstHit returns the lowest roster-order live non-owner ship the
// segment prev→Pos passes within the hit radius of
func (p *Projectile) firstHit(w *World, prev vec.Vec3) *Ship {
	mid := prev.Lerp(p.Pos, 0.5)
	reach := ProjectileHitRadius + prev.Dist(p.Pos)/2
	w.refBuf = w.grid.QueryBuf(mid.X, mid.Z, reach, w.refBuf[:0])

	bestIdx := -1
	for _, idx := range w.refBuf {
		if bestIdx >= 0 && idx >= bestIdx {
			continue
		}
		s := w.Ships[idx]
		if !s.Alive || s.ID == p.OwnerID {
			continue
		}
		if SegmentHitsSphere(prev, p.Pos, s.Pos, ProjectileHitRadius) {
			bestIdx = idx
		}
	}
	if bestIdx < 0 {
		return nil
	}
	return w.Ships[bestIdx]
}

func (p *Projectile) nearEnemy(w *World, radius float64) bool {
	for _, s := range w.Ships {
		if s.Alive && s.ID != p.OwnerID && SpheresOverlap(p.Pos, radius, s.Pos, 0) {
			return true
		}
	}
	return false
}

// Detonate applies the warhead at the current position and retires the
// projectile. hit is the ship struck directly, or nil.
func (p *Projectile) Detonate(w *World, hit *Ship) {
	if !p.Alive {
		return
	}
	p.Alive = false
	ev := event.Event{
		Kind:           event.ProjectileImpact,
		OtherID:        p.OwnerID,
		Pos:            p.Pos,
		ProjectileKind: p.Kind.String(),
	}
	if hit != nil {
		ev.ShipID = hit.ID
	}
	w.Emit(ev)

	if hit != nil {
		w.Damage(hit, p.Warhead.DirectDamage, p.OwnerID)
	}
	w.Blast(p.Pos, p.Warhead, p.OwnerID)
}
