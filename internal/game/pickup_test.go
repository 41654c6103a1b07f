package game

import (
	"testing"

	"dogfight-arena/internal/event"
	"dogfight-arena/internal/vec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthPickupClamps(t *testing.T) {
	cases := []struct {
		name   string
		health float64
		want   float64
	}{
		{"from fifty", 50, 80},
		{"near full", 90, 100},
		{"full", 100, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := newTestWorld(t)
			s := addShip(w, AI, vec.New(0, 100, 0))
			s.Health = tc.health
			p := NewPickup(PickupHealth, s.Pos)
			require.True(t, p.Collect(w, s))
			assert.Equal(t, tc.want, s.Health)
			assert.Equal(t, PickupScore, s.Score)
		})
	}
}

func TestPickupEffects(t *testing.T) {
	w := newTestWorld(t)
	ai := addShip(w, AI, vec.New(0, 100, 0))
	human := addShip(w, Human, vec.New(200, 100, 0))

	ai.Shield = 3
	NewPickup(PickupShield, ai.Pos).Collect(w, ai)
	assert.Equal(t, ai.MaxShield, ai.Shield)

	NewPickup(PickupWeapon, ai.Pos).Collect(w, ai)
	assert.Equal(t, 2*PickupScore+PickupWeaponScore, ai.Score)
	assert.Equal(t, WeaponCannon, ai.Weapon)

	NewPickup(PickupWeapon, human.Pos).Collect(w, human)
	assert.Equal(t, WeaponLaser, human.Weapon)
	assert.Equal(t, PickupScore, human.Score)

	human.BoostEnergy = 10
	NewPickup(PickupBoost, human.Pos).Collect(w, human)
	assert.Equal(t, w.Cfg.Ships.BoostMax, human.BoostEnergy)
}

func TestPickupCollectedOnce(t *testing.T) {
	w := newTestWorld(t)
	a := addShip(w, AI, vec.New(0, 100, 0))
	b := addShip(w, AI, vec.New(10, 100, 0))
	a.Health, b.Health = 50, 50

	require.True(t, w.AddPickup(NewPickup(PickupHealth, vec.New(5, 100, 0))))
	w.UpdatePickups()

	// first in roster order wins
	assert.Equal(t, 80.0, a.Health)
	assert.Equal(t, 50.0, b.Health)
	assert.Empty(t, w.Pickups)

	var collected []event.Event
	for _, e := range w.Events.Drain() {
		if e.Kind == event.PickupCollected {
			collected = append(collected, e)
		}
	}
	require.Len(t, collected, 1)
	assert.Equal(t, a.ID, collected[0].ShipID)
	assert.Equal(t, "health", collected[0].PickupType)
}

func TestPickupExpires(t *testing.T) {
	w := newTestWorld(t)
	addShip(w, AI, vec.New(400, 100, 400))
	require.True(t, w.AddPickup(NewPickup(PickupShield, vec.New(0, 100, 0))))

	for i := 1; i < PickupLifetime; i++ {
		w.UpdatePickups()
		require.Len(t, w.Pickups, 1, "tick %d", i)
	}
	w.UpdatePickups()
	assert.Empty(t, w.Pickups)
}

func TestDeadShipCannotCollect(t *testing.T) {
	w := newTestWorld(t)
	s := addShip(w, AI, vec.New(0, 100, 0))
	s.TakeDamage(1000)
	require.True(t, w.AddPickup(NewPickup(PickupHealth, s.Pos)))
	w.UpdatePickups()
	assert.Len(t, w.Pickups, 1)
	assert.Equal(t, 0.0, s.Health)
}

func TestPickupCap(t *testing.T) {
	w := newTestWorld(t)
	for i := 0; i < w.Cfg.Combat.MaxPickups+3; i++ {
		w.AddPickup(NewPickup(PickupBoost, RandomPickupPosition(w)))
	}
	assert.Len(t, w.Pickups, w.Cfg.Combat.MaxPickups)
	assert.Equal(t, uint64(3), w.DroppedPickups)
}

func TestRandomPickupPosition(t *testing.T) {
	w := newTestWorld(t)
	span := w.Cfg.Arena.Size * 0.75
	for i := 0; i < 200; i++ {
		p := RandomPickupPosition(w)
		require.LessOrEqual(t, p.X, span)
		require.GreaterOrEqual(t, p.X, -span)
		require.LessOrEqual(t, p.Z, span)
		require.GreaterOrEqual(t, p.Z, -span)
		require.GreaterOrEqual(t, p.Y, 50.0)
		require.LessOrEqual(t, p.Y, 250.0)
	}
}

func TestDeathDropsPickup(t *testing.T) {
	w := newTestWorld(t)
	w.Cfg.Combat.DropChance = 1
	killer := addShip(w, AI, vec.New(-300, 100, 0))
	victim := addShip(w, AI, vec.New(0, 100, 0))

	require.True(t, w.Damage(victim, 1000, killer.ID))
	require.Len(t, w.Pickups, 1)
	assert.Equal(t, victim.Pos, w.Pickups[0].Pos)
	assert.Equal(t, killer.ID, victim.KilledBy)

	kinds := map[event.Kind]bool{}
	for _, e := range w.Events.Drain() {
		kinds[e.Kind] = true
	}
	assert.True(t, kinds[event.ShipDestroyed])
	assert.True(t, kinds[event.WreckSpawned])
	assert.True(t, kinds[event.PickupSpawned])
}

func TestSpawnRandomPickupCoversAllTypes(t *testing.T) {
	w := newTestWorld(t)
	w.Cfg.Combat.MaxPickups = 1000
	seen := map[PickupType]bool{}
	for i := 0; i < 200; i++ {
		require.True(t, w.SpawnRandomPickup())
	}
	for _, p := range w.Pickups {
		seen[p.Type] = true
	}
	assert.Len(t, seen, int(pickupTypeCount))
}
