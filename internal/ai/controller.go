// Package ai flies computer-controlled ships. A Controller is the
// game.Pilot for one ship; every Controller in a round shares the same
// skill profile and lookup tables.
package ai

import (
	"math"

	"dogfight-arena/internal/data"
	"dogfight-arena/internal/game"
	"dogfight-arena/internal/vec"
)

const (
	ThreatRadius       = 200.0 // hostile projectiles closer than this force evasion
	ImpactTicks        = 6.0   // time-to-impact that triggers a table dodge
	DodgeCooldown      = 0.2   // seconds between table dodges
	BaseDodgeInterval  = 0.5   // seconds between random dodge headings
	BaseDodgeImpulse   = 0.8
	TargetSwitchDelay  = 3.0 // seconds
	RangeBand          = 50.0
	ApproachImpulse    = 0.6
	RetreatImpulse     = 0.4
	StrafeImpulse      = 3.0
	WeaveImpulse       = 0.3
	SearchImpulse      = 0.3
	SearchAngularSpeed = 0.5 // radians per second of the search drift
	BurstSpread        = 0.01
	TargetHealthScale  = 100.0
	TargetDistScale    = 1000.0
)

// Controller is the per-ship AI pilot
type Controller struct {
	tables *data.AITables
	skill  data.SkillTier

	state    State
	mode     Mode
	targetID int

	lastTargetSwitch float64
	lastDecision     float64
	lastDodge        float64
	lastBaseDodge    float64
	baseDodgeDir     vec.Vec3

	maneuver Maneuver
	progress float64

	burstLeft int
	burstLen  int

	mem *memory
}

// NewController creates a pilot with the given tables and skill profile
func NewController(tables *data.AITables, skill data.SkillTier) *Controller {
	inf := math.Inf(-1)
	return &Controller{
		tables:           tables,
		skill:            skill,
		lastTargetSwitch: inf,
		lastDecision:     inf,
		lastDodge:        inf,
		lastBaseDodge:    inf,
		mem:              newMemory(),
	}
}

func (c *Controller) State() State { return c.state }
func (c *Controller) Mode() Mode { return c.mode }
func (c *Controller) TargetID() int { return c.targetID }
func (c *Controller) Maneuver() Maneuver { return c.maneuver }
func (c *Controller) Skill() data.SkillTier { return c.skill }

// Control runs one tick of decision making for s. Other ships and
// projectiles are read from the start-of-tick view only.
func (c *Controller) Control(w *game.World, s *game.Ship) {
	view := w.View()

	c.observe(view, s.ID)
	c.mode = modeFor(s.CombinedHealth(), c.enemies(view, s.ID))
	c.selectTarget(w, view, s)
	s.TargetID = c.targetID

	threats := c.threatened(view, s)
	target, hasTarget := view.Ship(c.targetID)
	switch {
	case threats:
		c.state = Evading
	case hasTarget && target.Alive:
		c.state = Attacking
	default:
		c.state = Searching
	}

	switch c.state {
	case Evading:
		c.evade(w, view, s)
	case Attacking:
		c.attack(w, s, target)
	default:
		c.search(w, s)
	}

	if c.state != Searching && hasTarget && target.Alive {
		c.shoot(w, s, target)
	} else {
		c.burstLeft = 0
		c.turnToward(s, s.Vel)
	}
}

func (c *Controller) observe(view *game.View, self int) {
	for _, o := range view.Ships {
		if o.ID == self || !o.Alive {
			continue
		}
		c.mem.record(o.ID, o.Vel)
	}
	c.mem.prune()
}

func (c *Controller) enemies(view *game.View, self int) int {
	n := 0
	for _, o := range view.Ships {
		if o.ID != self && o.Alive {
			n++
		}
	}
	return n
}

// selectTarget re-scores candidates once the switch delay has elapsed or
// the current target is gone. Weak and close ships score highest.
func (c *Controller) selectTarget(w *game.World, view *game.View, s *game.Ship) {
	cur, ok := view.Ship(c.targetID)
	valid := ok && cur.Alive
	if valid && w.Now-c.lastTargetSwitch < TargetSwitchDelay {
		return
	}

	best, bestScore := 0, math.Inf(-1)
	for _, o := range view.Ships {
		if o.ID == s.ID || !o.Alive {
			continue
		}
		score := 0.5*(1-o.Health/TargetHealthScale) + 0.5*(1-s.Pos.Dist(o.Pos)/TargetDistScale)
		if score > bestScore {
			best, bestScore = o.ID, score
		}
	}
	if best != c.targetID {
		c.burstLeft = 0
	}
	c.targetID = best
	c.lastTargetSwitch = w.Now
}

// threatened reports whether any hostile projectile is within ThreatRadius
func (c *Controller) threatened(view *game.View, s *game.Ship) bool {
	for _, p := range view.Projectiles {
		if p.OwnerID == s.ID {
			continue
		}
		if p.Pos.DistSq(s.Pos) < ThreatRadius*ThreatRadius {
			return true
		}
	}
	return false
}

// imminent returns true when a hostile projectile is closing on s and
// will arrive within ImpactTicks
func (c *Controller) imminent(view *game.View, s *game.Ship) bool {
	for _, p := range view.Projectiles {
		if p.OwnerID == s.ID {
			continue
		}
		rel := s.Pos.Sub(p.Pos)
		d := rel.Len()
		if d >= ThreatRadius {
			continue
		}
		speed := p.Vel.Len()
		if speed == 0 || rel.Dot(p.Vel) <= 0 {
			continue
		}
		if d/speed < ImpactTicks {
			return true
		}
	}
	return false
}

func (c *Controller) evade(w *game.World, view *game.View, s *game.Ship) {
	if c.imminent(view, s) && w.Now-c.lastDodge > DodgeCooldown {
		if d, ok := c.tables.BestDodge(); ok {
			a := d.Angle * math.Pi / 180
			k := d.Speed * c.skill.Evasiveness
			s.Vel = s.Vel.Add(vec.New(
				math.Cos(a)*k*10,
				math.Sin(a)*k*5,
				math.Sin(a+math.Pi/2)*k*10,
			))
			c.lastDodge = w.Now
			c.maneuver = BarrelRoll
			c.progress = 0
		}
	}

	if w.Now-c.lastBaseDodge > BaseDodgeInterval || c.baseDodgeDir.IsZero() {
		c.baseDodgeDir = vec.New(
			(w.Rng.Float64()-0.5)*2,
			w.Rng.Float64()-0.5,
			(w.Rng.Float64()-0.5)*2,
		).Normalize()
		c.lastBaseDodge = w.Now
	}
	s.Vel = s.Vel.Add(c.baseDodgeDir.Scale(BaseDodgeImpulse))
}

func (c *Controller) attack(w *game.World, s *game.Ship, target game.ShipView) {
	c.runManeuver(w, s)

	to := target.Pos.Sub(s.Pos)
	dist := to.Len()
	dir := to.Normalize()
	opt := c.mode.OptimalRange()
	switch {
	case dist > opt+RangeBand:
		s.Vel = s.Vel.Add(dir.Scale(ApproachImpulse))
	case dist < opt-RangeBand:
		s.Vel = s.Vel.Sub(dir.Scale(RetreatImpulse))
	}

	if len(c.mem.samples(target.ID)) > strafeMinSamples {
		last, _ := c.mem.last(target.ID)
		s.Vel = s.Vel.Add(vec.New(-last.Z, 0, last.X).Normalize().Scale(StrafeImpulse))
	} else {
		s.Vel = s.Vel.Add(vec.Right(dir).Scale(math.Sin(w.Now) * WeaveImpulse))
	}
}

func (c *Controller) runManeuver(w *game.World, s *game.Ship) {
	if c.maneuver == NoManeuver || c.progress >= 1 {
		c.maneuver = pickManeuver(w.Rng, c.tables.Maneuvers, c.skill.Aggressiveness)
		c.progress = 0
	}
	c.progress = math.Min(1, c.progress+ManeuverProgressStep)
	s.Vel = s.Vel.Add(c.maneuver.impulse(c.progress, s.Facing))
}

func (c *Controller) search(w *game.World, s *game.Ship) {
	a := w.Now * SearchAngularSpeed
	s.Vel.X += math.Cos(a) * SearchImpulse
	s.Vel.Z += math.Sin(a) * SearchImpulse
}

// shoot aims at the predicted intercept point and fires bursts
func (c *Controller) shoot(w *game.World, s *game.Ship, target game.ShipView) {
	dist := s.Pos.Dist(target.Pos)
	aimAt := c.predict(w, s, target, dist)
	aimDir := aimAt.Sub(s.Pos).Normalize()
	c.turnToward(s, aimDir)

	if dist >= c.tables.MaxAttackRange() {
		c.burstLeft = 0
		return
	}
	if c.burstLeft > 0 {
		c.continueBurst(w, s)
		return
	}
	if w.Now-c.lastDecision < c.skill.ReactionTime {
		return
	}
	tier, _ := c.tables.AttackFor(dist)
	c.lastDecision = w.Now
	if s.Facing.Dot(aimDir) <= c.skill.AimStrictness*tier.Accuracy {
		return
	}
	c.burstLen = max(1, int(math.Floor(c.skill.Accuracy*3)))
	c.burstLeft = c.burstLen
	c.continueBurst(w, s)
}

// continueBurst fires the next round of a burst once the weapon is ready
func (c *Controller) continueBurst(w *game.World, s *game.Ship) {
	if !s.CanFire(w) {
		return
	}
	i := c.burstLen - c.burstLeft
	spread := (float64(i) - float64(c.burstLen)/2) * BurstSpread
	if s.FireSpread(w, spread) {
		c.burstLeft--
	}
}

// predict leads the target by its mean recent velocity, or its current
// velocity when the memory is short
func (c *Controller) predict(w *game.World, s *game.Ship, target game.ShipView, dist float64) vec.Vec3 {
	tier, ok := c.tables.AttackFor(dist)
	if !ok {
		tier = c.tables.Attacks[len(c.tables.Attacks)-1]
	}
	speed := s.Weapon.Def(w).Speed
	if speed <= 0 {
		return target.Pos
	}
	ticks := dist / speed * tier.LeadTime * c.skill.Prediction
	v, ok := c.mem.meanVelocity(target.ID)
	if !ok {
		v = target.Vel
	}
	return target.Pos.Add(v.Scale(ticks))
}

// turnToward rotates the facing at most TurnRate radians toward dir
func (c *Controller) turnToward(s *game.Ship, dir vec.Vec3) {
	dir = dir.Normalize()
	if dir.IsZero() {
		return
	}
	angle := math.Acos(vec.Clamp(s.Facing.Dot(dir), -1, 1))
	if angle <= c.skill.TurnRate || angle == 0 {
		s.SetFacing(dir)
		return
	}
	s.SetFacing(vec.Slerp(s.Facing, dir, c.skill.TurnRate/angle))
}
