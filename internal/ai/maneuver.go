package ai

import (
	"math"
	"math/rand"

	"dogfight-arena/internal/data"
	"dogfight-arena/internal/vec"
)

// ManeuverProgressStep is how far a maneuver advances per tick
const ManeuverProgressStep = 0.02

// Maneuver is a scripted flight pattern run while attacking
type Maneuver int

const (
	NoManeuver Maneuver = iota
	Spiral
	Zigzag
	VerticalLoop
	BarrelRoll
	SplitS
	Immelmann
)

var maneuverNames = [...]string{"", "spiral", "zigzag", "vertical_loop", "barrel_roll", "split_s", "immelmann"}

func (m Maneuver) String() string {
	if m >= 0 && int(m) < len(maneuverNames) {
		return maneuverNames[m]
	}
	return ""
}

// ParseManeuver maps a table name to a Maneuver
func ParseManeuver(name string) (Maneuver, bool) {
	for i, n := range maneuverNames {
		if i > 0 && n == name {
			return Maneuver(i), true
		}
	}
	return NoManeuver, false
}

// pickManeuver draws a maneuver weighted by effectiveness. Aggressive
// pilots sharpen the weights toward the best-rated patterns.
func pickManeuver(rng *rand.Rand, table []data.Maneuver, aggressiveness float64) Maneuver {
	exp := 1 + 4*aggressiveness
	weights := make([]float64, len(table))
	var total float64
	for i, m := range table {
		if _, ok := ParseManeuver(m.Name); !ok || m.Effectiveness <= 0 {
			continue
		}
		weights[i] = math.Pow(m.Effectiveness, exp)
		total += weights[i]
	}
	if total <= 0 {
		return NoManeuver
	}
	r := rng.Float64() * total
	for i, w := range weights {
		if w == 0 {
			continue
		}
		r -= w
		if r <= 0 {
			m, _ := ParseManeuver(table[i].Name)
			return m
		}
	}
	// float slop: fall back to the last weighted entry
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			m, _ := ParseManeuver(table[i].Name)
			return m
		}
	}
	return NoManeuver
}

// impulse returns the velocity change for maneuver m at progress p
func (m Maneuver) impulse(p float64, facing vec.Vec3) vec.Vec3 {
	switch m {
	case Spiral:
		a := p * math.Pi * 4
		return vec.New(math.Cos(a)*2, math.Sin(a*2)*1.5, math.Sin(a)*2)
	case Zigzag:
		side := math.Sin(p*math.Pi*8) * 5
		return facing.Scale(3).Add(vec.Right(facing).Scale(side))
	case VerticalLoop:
		a := p * math.Pi * 2
		out := vec.New(0, math.Cos(a)*8, 0)
		if p > 0.5 {
			out.Z = math.Sin(a) * 5
		}
		return out
	case BarrelRoll:
		a := p * math.Pi * 2
		return vec.New(math.Sin(a)*3, math.Cos(a)*2, 0)
	case SplitS:
		if p < 0.5 {
			return vec.New(0, -10, 0)
		}
		return vec.New(0, -5, 0)
	case Immelmann:
		if p < 0.5 {
			return vec.New(0, 10, 0)
		}
		return vec.New(0, 5, 0)
	}
	return vec.Zero
}
