package game

import (
	"math"

	"dogfight-arena/internal/event"
	"dogfight-arena/internal/vec"
)

const (
	Damping         = 0.95 // velocity decay per tick
	BoundBounce     = 0.8  // velocity kept (and reversed) at a wall
	AISpeedFactor   = 1.2  // AI max speed relative to the base speed
	KillScore       = 100
	MuzzleOffset    = 5.0
	HumanPitchLimit = math.Pi / 4
	HumanPitchRate  = 0.02  // radians per tick
	HumanYawRate    = 0.025 // radians per tick
)

// PilotKind identifies who flies a ship
type PilotKind int

const (
	AI PilotKind = iota
	Human
)

func (k PilotKind) String() string {
	if k == Human {
		return "human"
	}
	return "ai"
}

// Pilot steers an AI ship. Control runs once per tick, reads the world's
// start-of-tick View and mutates only the ship it is given.
type Pilot interface {
	Control(w *World, s *Ship)
}

// Ship is one combatant
type Ship struct {
	ID   int
	Name string
	Kind PilotKind

	Health    float64
	MaxHealth float64
	Shield    float64
	MaxShield float64
	Alive     bool

	Pos    vec.Vec3
	Vel    vec.Vec3
	Facing vec.Vec3 // unit vector
	Yaw    float64  // human orientation
	Pitch  float64

	TargetID int // weak reference, may be stale or 0
	LastShot float64
	Score    int
	Kills    int

	Weapon         WeaponType
	WeaponSwitchAt float64 // earliest time the next switch is allowed
	BoostEnergy    float64
	Boosting       bool
	Special        Special

	SpawnedAt float64
	DiedAt    float64
	KilledBy  int

	Pilot  Pilot
	Intent Intent
}

// NewShip creates a live ship at pos facing dir with full health and shield
func NewShip(w *World, name string, kind PilotKind, pos, dir vec.Vec3) *Ship {
	s := &Ship{
		Name:        name,
		Kind:        kind,
		Health:      w.Cfg.Ships.HP,
		MaxHealth:   w.Cfg.Ships.HP,
		Shield:      w.Cfg.Ships.ShieldHP,
		MaxShield:   w.Cfg.Ships.ShieldHP,
		Alive:       true,
		Pos:         pos,
		LastShot:    math.Inf(-1),
		Weapon:      WeaponCannon,
		BoostEnergy: w.Cfg.Ships.BoostMax,
		Special:     Special{Cooldown: NukeCooldown},
	}
	if kind == Human {
		s.Weapon = WeaponPlasma
	}
	s.SetFacing(dir)
	return s
}

// SetFacing points the ship along dir, keeping yaw/pitch in sync
func (s *Ship) SetFacing(dir vec.Vec3) {
	d := dir.Normalize()
	if d.IsZero() {
		d = vec.Forward(0, 0)
	}
	s.Facing = d
	s.Yaw, s.Pitch = vec.YawPitch(d)
}

// MaxSpeed returns the per-kind speed limit for this tick
func (s *Ship) MaxSpeed(w *World) float64 {
	if s.Kind == Human {
		if s.Boosting {
			return w.Cfg.Ships.BoostSpeed
		}
		return w.Cfg.Ships.Speed
	}
	return w.Cfg.Ships.Speed * AISpeedFactor
}

// Update advances the ship one tick. Dead ships are untouched.
func (s *Ship) Update(w *World, dt float64) {
	if !s.Alive {
		return
	}
	if s.Kind == Human {
		s.flyHuman(w)
	} else if s.Pilot != nil {
		s.Pilot.Control(w, s)
	}
	s.integrate(w)
}

func (s *Ship) flyHuman(w *World) {
	in := &s.Intent
	if in.Held(ThrustUp) {
		s.Pitch = math.Min(s.Pitch+HumanPitchRate, HumanPitchLimit)
	}
	if in.Held(ThrustDown) {
		s.Pitch = math.Max(s.Pitch-HumanPitchRate, -HumanPitchLimit)
	}
	if in.Held(YawLeft) {
		s.Yaw = vec.NormalizeAngle(s.Yaw + HumanYawRate)
	}
	if in.Held(YawRight) {
		s.Yaw = vec.NormalizeAngle(s.Yaw - HumanYawRate)
	}
	s.Facing = vec.Forward(s.Yaw, s.Pitch)

	cfg := w.Cfg.Ships
	s.Boosting = in.Held(Boost) && s.BoostEnergy > 0
	if s.Boosting {
		s.BoostEnergy = math.Max(0, s.BoostEnergy-cfg.BoostDrain)
	} else {
		s.BoostEnergy = math.Min(cfg.BoostMax, s.BoostEnergy+cfg.BoostRecharge)
	}
	s.Vel = s.Facing.Scale(s.MaxSpeed(w))

	if in.Held(Fire) {
		s.Fire(w)
	}
	if in.Consume(SpecialFire) {
		s.FireSpecial(w)
	}
	if in.Consume(SwitchWeapon) && w.Now+timeEpsilon >= s.WeaponSwitchAt {
		s.SwitchWeapon(w)
		s.WeaponSwitchAt = w.Now + WeaponSwitchCooldown
	}
}

// integrate clamps speed, moves, damps and applies arena bounds
func (s *Ship) integrate(w *World) {
	s.Vel = s.Vel.ClampLen(s.MaxSpeed(w))
	s.Pos = s.Pos.Add(s.Vel)
	s.Vel = s.Vel.Scale(Damping)

	size := w.Cfg.Arena.Size
	if math.Abs(s.Pos.X) > size {
		s.Pos.X = math.Copysign(size, s.Pos.X)
		s.Vel.X *= -BoundBounce
	}
	if math.Abs(s.Pos.Z) > size {
		s.Pos.Z = math.Copysign(size, s.Pos.Z)
		s.Vel.Z *= -BoundBounce
	}
	if s.Pos.Y < w.Cfg.Arena.MinHeight {
		s.Pos.Y = w.Cfg.Arena.MinHeight
		s.Vel.Y = math.Abs(s.Vel.Y) * BoundBounce
	}
	if s.Pos.Y > w.Cfg.Arena.MaxHeight {
		s.Pos.Y = w.Cfg.Arena.MaxHeight
		s.Vel.Y = -math.Abs(s.Vel.Y) * BoundBounce
	}
}

// CanFire reports whether the equipped weapon's cooldown has elapsed
func (s *Ship) CanFire(w *World) bool {
	return s.Alive && w.Now-s.LastShot+timeEpsilon >= s.Weapon.Def(w).Cooldown
}

// Fire shoots the equipped weapon along the facing vector.
// Returns false (no-op) on cooldown or when the projectile cap is reached.
func (s *Ship) Fire(w *World) bool {
	return s.FireSpread(w, 0)
}

// FireSpread fires with the facing yawed by spread radians
func (s *Ship) FireSpread(w *World, spread float64) bool {
	if !s.CanFire(w) {
		return false
	}
	dir := s.Facing
	if spread != 0 {
		yaw, pitch := vec.YawPitch(dir)
		dir = vec.Forward(yaw+spread, pitch)
	}
	def := s.Weapon.Def(w)
	origin := s.Pos.Add(dir.Scale(MuzzleOffset))
	var p *Projectile
	if def.Projectile == Rocket {
		p = NewRocket(s.ID, origin, dir, def.Speed, def.Damage)
	} else {
		p = NewLaser(s.ID, origin, dir, def.Speed, def.Damage)
	}
	if !w.AddProjectile(p) {
		return false
	}
	s.LastShot = w.Now
	return true
}

// FireSpecial launches a nuclear missile if the special is recharged
func (s *Ship) FireSpecial(w *World) bool {
	if !s.Alive || !s.Special.Ready(w.Now) {
		return false
	}
	speed := w.Cfg.Combat.LaserSpeed * NukeSpeedFactor
	p := NewNuclearMissile(s.ID, s.Pos.Add(s.Facing.Scale(MuzzleOffset)), s.Facing, speed)
	if !w.AddProjectile(p) {
		return false
	}
	s.Special.Trigger(w.Now)
	return true
}

// SwitchWeapon cycles a human ship to its next weapon
func (s *Ship) SwitchWeapon(w *World) {
	s.Weapon = nextHumanWeapon(s.Weapon)
	w.Emit(event.Event{Kind: event.WeaponSwitched, ShipID: s.ID, Pos: s.Pos, Weapon: s.Weapon.String()})
}

// TakeDamage applies amount, shield first. Negative or NaN amounts have
// no effect. Returns true only on the call that kills the ship.
func (s *Ship) TakeDamage(amount float64) bool {
	if !s.Alive || !(amount > 0) {
		return false
	}
	s.Shield -= amount
	if s.Shield < 0 {
		s.Health += s.Shield
		s.Shield = 0
	}
	if s.Health <= 0 {
		s.Health = 0
		s.Alive = false
		s.Vel = vec.Zero
		s.Intent.Clear()
		return true
	}
	return false
}

// Heal adds amount to health, clamped to max
func (s *Ship) Heal(amount float64) {
	if !s.Alive || !(amount > 0) {
		return
	}
	s.Health = math.Min(s.MaxHealth, s.Health+amount)
}

// CombinedHealth returns (health+shield)/(maxHealth+maxShield)
func (s *Ship) CombinedHealth() float64 {
	total := s.MaxHealth + s.MaxShield
	if total <= 0 {
		return 0
	}
	return (s.Health + s.Shield) / total
}
