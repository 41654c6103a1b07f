package ai

import (
	"testing"

	"dogfight-arena/internal/data"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileFor(t *testing.T) {
	tables := data.DefaultAITables()
	s, err := ProfileFor(tables, "HARD")
	require.NoError(t, err)
	assert.Equal(t, "HARD", s.Tier)

	_, err = ProfileFor(tables, "NIGHTMARE")
	assert.ErrorIs(t, err, ErrUnknownTier)
}

func TestModeFor(t *testing.T) {
	cases := []struct {
		name    string
		health  float64
		enemies int
		want    Mode
	}{
		{"low health beats lone enemy", 0.2, 1, Defensive},
		{"lone enemy", 0.5, 1, Aggressive},
		{"healthy in a crowd", 0.9, 3, Hunter},
		{"middling in a crowd", 0.5, 3, Adaptive},
		{"exactly high threshold", 0.8, 2, Adaptive},
		{"exactly low threshold", 0.3, 2, Adaptive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, modeFor(tc.health, tc.enemies))
		})
	}
}

func TestOptimalRangeOrdering(t *testing.T) {
	assert.Less(t, Aggressive.OptimalRange(), Hunter.OptimalRange())
	assert.Less(t, Hunter.OptimalRange(), Adaptive.OptimalRange())
	assert.Less(t, Adaptive.OptimalRange(), Defensive.OptimalRange())
}
