package ai

import (
	"math/rand"
	"testing"

	"dogfight-arena/internal/config"
	"dogfight-arena/internal/data"
	"dogfight-arena/internal/game"
	"dogfight-arena/internal/vec"

	"github.com/stretchr/testify/require"
)

const dt = 1.0 / 60

func newWorld(t *testing.T) *game.World {
	t.Helper()
	cfg := config.Default()
	cfg.Combat.DropChance = 0
	return game.NewWorld(cfg, rand.New(rand.NewSource(3)))
}

func newPilot(t *testing.T, tier string) *Controller {
	t.Helper()
	tables := data.DefaultAITables()
	skill, err := ProfileFor(tables, tier)
	require.NoError(t, err)
	return NewController(tables, skill)
}

// addPiloted adds an AI ship flown by c, facing dir
func addPiloted(w *game.World, c *Controller, pos, dir vec.Vec3) *game.Ship {
	s := game.NewShip(w, "pilot", game.AI, pos, dir)
	s.Pilot = c
	return w.AddShip(s)
}

// addDummy adds a ship with no pilot; it only drifts and damps
func addDummy(w *game.World, pos vec.Vec3) *game.Ship {
	return w.AddShip(game.NewShip(w, "dummy", game.AI, pos, vec.Forward(0, 0)))
}

func firedBy(w *game.World, id int) int {
	n := 0
	for _, p := range w.Projectiles {
		if p.OwnerID == id {
			n++
		}
	}
	return n
}
