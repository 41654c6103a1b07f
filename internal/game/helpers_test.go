package game

import (
	"math/rand"
	"testing"

	"dogfight-arena/internal/config"
	"dogfight-arena/internal/vec"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	cfg := config.Default()
	cfg.Combat.DropChance = 0
	return NewWorld(cfg, rand.New(rand.NewSource(1)))
}

func addShip(w *World, kind PilotKind, pos vec.Vec3) *Ship {
	return w.AddShip(NewShip(w, "test", kind, pos, vec.Forward(0, 0)))
}

// fourShips mirrors the default round: four AI ships around the centre
func fourShips(w *World) []*Ship {
	return []*Ship{
		addShip(w, AI, vec.New(450, 150, 0)),
		addShip(w, AI, vec.New(0, 200, 450)),
		addShip(w, AI, vec.New(-450, 250, 0)),
		addShip(w, AI, vec.New(0, 150, -450)),
	}
}

// stepFor advances only the clock, keeping ships frozen in place
func stepFor(w *World, seconds float64) {
	w.Now += seconds
	w.Tick++
}
