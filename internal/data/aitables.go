package data

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed ai_tables.yaml
var defaultAITables []byte

// SkillTier is one difficulty level's pilot profile.
type SkillTier struct {
	Tier           string  `yaml:"tier"`
	Accuracy       float64 `yaml:"accuracy"`        // burst length factor
	AimStrictness  float64 `yaml:"aim_strictness"`  // base alignment threshold
	ReactionTime   float64 `yaml:"reaction_time"`   // seconds between shot decisions
	Aggressiveness float64 `yaml:"aggressiveness"`  // sharpens maneuver selection
	Evasiveness    float64 `yaml:"evasiveness"`     // scales dodge impulses
	Prediction     float64 `yaml:"prediction"`      // scales lead time
	TurnRate       float64 `yaml:"turn_rate"`       // max facing change per tick, radians
}

// DodgePattern is a candidate evasive vector.
type DodgePattern struct {
	Angle   float64 `yaml:"angle"` // degrees
	Speed   float64 `yaml:"speed"`
	Success float64 `yaml:"success"`
}

// AttackPattern is one range tier of the shooting table.
type AttackPattern struct {
	Range    float64 `yaml:"range"`
	Accuracy float64 `yaml:"accuracy"`
	LeadTime float64 `yaml:"lead_time"`
}

// Maneuver is a named maneuver pattern with its selection weight.
type Maneuver struct {
	Name          string  `yaml:"name"`
	Effectiveness float64 `yaml:"effectiveness"`
}

// AITables holds every lookup table the AI pilot consults.
type AITables struct {
	tiers     map[string]SkillTier
	Dodges    []DodgePattern
	Attacks   []AttackPattern
	Maneuvers []Maneuver
}

// Tier returns the skill tier by name.
func (t *AITables) Tier(name string) (SkillTier, bool) {
	s, ok := t.tiers[name]
	return s, ok
}

// TierCount returns the number of tiers loaded.
func (t *AITables) TierCount() int {
	return len(t.tiers)
}

// BestDodge returns the dodge entry with the highest success rating.
// Ties keep the earlier entry.
func (t *AITables) BestDodge() (DodgePattern, bool) {
	if len(t.Dodges) == 0 {
		return DodgePattern{}, false
	}
	best := t.Dodges[0]
	for _, d := range t.Dodges[1:] {
		if d.Success > best.Success {
			best = d
		}
	}
	return best, true
}

// AttackFor returns the tightest range tier covering dist.
func (t *AITables) AttackFor(dist float64) (AttackPattern, bool) {
	for _, a := range t.Attacks {
		if dist < a.Range {
			return a, true
		}
	}
	return AttackPattern{}, false
}

// MaxAttackRange returns the widest range tier.
func (t *AITables) MaxAttackRange() float64 {
	if len(t.Attacks) == 0 {
		return 0
	}
	return t.Attacks[len(t.Attacks)-1].Range
}

// --- YAML loading ---

type aiTablesFile struct {
	Tiers     []SkillTier     `yaml:"skill_tiers"`
	Dodges    []DodgePattern  `yaml:"dodge_patterns"`
	Attacks   []AttackPattern `yaml:"attack_patterns"`
	Maneuvers []Maneuver      `yaml:"maneuvers"`
}

// DefaultAITables returns the built-in tables.
func DefaultAITables() *AITables {
	t, err := parseAITables(defaultAITables)
	if err != nil {
		// embedded file is part of the build
		panic(fmt.Sprintf("embedded ai tables: %v", err))
	}
	return t
}

// LoadAITables loads AI tables from YAML. An empty path yields the defaults.
func LoadAITables(path string) (*AITables, error) {
	if path == "" {
		return DefaultAITables(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ai tables: %w", err)
	}
	t, err := parseAITables(raw)
	if err != nil {
		return nil, fmt.Errorf("ai tables %s: %w", path, err)
	}
	return t, nil
}

func parseAITables(raw []byte) (*AITables, error) {
	var f aiTablesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse ai tables: %w", err)
	}
	if len(f.Tiers) == 0 {
		return nil, fmt.Errorf("no skill tiers")
	}
	if len(f.Attacks) == 0 {
		return nil, fmt.Errorf("no attack patterns")
	}
	if len(f.Maneuvers) == 0 {
		return nil, fmt.Errorf("no maneuvers")
	}

	t := &AITables{
		tiers:     make(map[string]SkillTier, len(f.Tiers)),
		Dodges:    f.Dodges,
		Attacks:   f.Attacks,
		Maneuvers: f.Maneuvers,
	}
	for _, s := range f.Tiers {
		t.tiers[s.Tier] = s
	}
	sort.SliceStable(t.Attacks, func(i, j int) bool {
		return t.Attacks[i].Range < t.Attacks[j].Range
	})
	return t, nil
}
