package game

// WeaponType identifies a primary weapon
type WeaponType int

const (
	WeaponCannon WeaponType = iota // AI gun
	WeaponPlasma
	WeaponLaser
	WeaponRockets
)

var weaponNames = [...]string{"CANNON", "PLASMA", "LASER", "ROCKETS"}

func (t WeaponType) String() string {
	if t >= 0 && int(t) < len(weaponNames) {
		return weaponNames[t]
	}
	return "UNKNOWN"
}

// WeaponDef holds the stats for a weapon
type WeaponDef struct {
	Damage     float64
	Cooldown   float64 // seconds between rounds
	Speed      float64 // units/tick, 0 = arena laser speed
	Projectile ProjectileKind
}

// Cannon rounds take their damage from config; Speed 0 selects the
// configured laser speed.
var weaponDefs = [...]WeaponDef{
	WeaponCannon:  {Damage: -1, Cooldown: 0.05, Speed: 0, Projectile: Laser},
	WeaponPlasma:  {Damage: 20, Cooldown: 0.2, Speed: 25, Projectile: Laser},
	WeaponLaser:   {Damage: 10, Cooldown: 0.1, Speed: 40, Projectile: Laser},
	WeaponRockets: {Damage: 50, Cooldown: 0.8, Speed: 15, Projectile: Rocket},
}

// humanWeapons is the switch cycle for the human pilot
var humanWeapons = []WeaponType{WeaponPlasma, WeaponLaser, WeaponRockets}

const (
	WeaponSwitchCooldown = 0.3  // seconds
	NukeCooldown         = 10.0 // seconds
	NukeSpeedFactor      = 0.6  // fraction of laser speed
)

// Def returns the resolved definition for t under w's config
func (t WeaponType) Def(w *World) WeaponDef {
	if t < 0 || int(t) >= len(weaponDefs) {
		t = WeaponCannon
	}
	def := weaponDefs[t]
	if def.Damage < 0 {
		def.Damage = w.Cfg.Combat.Damage
	}
	if def.Speed == 0 {
		def.Speed = w.Cfg.Combat.LaserSpeed
	}
	return def
}

// nextHumanWeapon returns the weapon after t in the human cycle
func nextHumanWeapon(t WeaponType) WeaponType {
	for i, w := range humanWeapons {
		if w == t {
			return humanWeapons[(i+1)%len(humanWeapons)]
		}
	}
	return humanWeapons[0]
}

// Special tracks the recharge of a ship's special weapon
type Special struct {
	Cooldown float64 // seconds
	ReadyAt  float64 // simulation time it becomes available
}

// Ready reports whether the special can fire at now
func (s *Special) Ready(now float64) bool {
	return now+timeEpsilon >= s.ReadyAt
}

// Trigger starts the recharge and returns true on success
func (s *Special) Trigger(now float64) bool {
	if !s.Ready(now) {
		return false
	}
	s.ReadyAt = now + s.Cooldown
	return true
}

// Remaining returns seconds until ready
func (s *Special) Remaining(now float64) float64 {
	if r := s.ReadyAt - now; r > 0 {
		return r
	}
	return 0
}
