package round

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"dogfight-arena/internal/ai"
	"dogfight-arena/internal/config"
	"dogfight-arena/internal/data"
	"dogfight-arena/internal/event"
	"dogfight-arena/internal/game"
	"dogfight-arena/internal/vec"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) Publish(batch []event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, batch...)
}

func (r *recorder) kinds(k event.Kind) []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event.Event
	for _, e := range r.events {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

func TestNewResolvesTierFromTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ai.yaml")
	body := `
skill_tiers:
  - { tier: VETERAN, accuracy: 0.8, aim_strictness: 0.95, reaction_time: 0.2, turn_rate: 0.1 }
attack_patterns:
  - { range: 400, accuracy: 0.9, lead_time: 1 }
maneuvers:
  - { name: zigzag, effectiveness: 1 }
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	tables, err := data.LoadAITables(path)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.AI.Difficulty = "VETERAN"
	_, err = New(cfg, tables, zaptest.NewLogger(t))
	require.NoError(t, err)

	// the default tables carry no such tier
	_, err = New(cfg, data.DefaultAITables(), zaptest.NewLogger(t))
	assert.ErrorIs(t, err, ai.ErrUnknownTier)

	// and the custom table lacks the default one
	_, err = New(testConfig(), tables, zaptest.NewLogger(t))
	assert.ErrorIs(t, err, ai.ErrUnknownTier)
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Round.Seed = 1
	cfg.Combat.DropChance = 0
	return cfg
}

func newController(t *testing.T, cfg *config.Config) (*Controller, *recorder) {
	t.Helper()
	c, err := New(cfg, data.DefaultAITables(), zaptest.NewLogger(t))
	require.NoError(t, err)
	rec := &recorder{}
	c.AddSink(rec)
	return c, rec
}

func TestTransitionTable(t *testing.T) {
	states := []State{Menu, Battle, Ended}
	legal := map[[2]State]bool{
		{Menu, Battle}:  true,
		{Battle, Ended}: true,
		{Ended, Menu}:   true,
		{Ended, Battle}: true,
	}
	for _, from := range states {
		for _, to := range states {
			t.Run(from.String()+"->"+to.String(), func(t *testing.T) {
				assert.Equal(t, legal[[2]State{from, to}], CanTransition(from, to))
			})
		}
	}
}

func TestControllerRejectsIllegalTransitions(t *testing.T) {
	c, _ := newController(t, testConfig())
	assert.Equal(t, Menu, c.State())
	assert.ErrorIs(t, c.Restart(), ErrInvalidTransition)
	assert.ErrorIs(t, c.ReturnToMenu(), ErrInvalidTransition)

	require.NoError(t, c.StartBattle(ModeAI))
	assert.ErrorIs(t, c.StartBattle(ModeAI), ErrInvalidTransition)
	assert.ErrorIs(t, c.ReturnToMenu(), ErrInvalidTransition)
	assert.ErrorIs(t, c.Restart(), ErrInvalidTransition)
	assert.Equal(t, Battle, c.State())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Arena.Size = 0
	_, err := New(cfg, data.DefaultAITables(), zaptest.NewLogger(t))
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestStartBattleValidatesConfig(t *testing.T) {
	cfg := testConfig()
	c, _ := newController(t, cfg)
	cfg.Ships.HP = 0
	assert.ErrorIs(t, c.StartBattle(ModePlayer), config.ErrInvalid)
	assert.Equal(t, Menu, c.State())
	assert.Error(t, c.StartBattle(Mode("arcade")))
}

func TestStartBattleSpawnLayout(t *testing.T) {
	c, rec := newController(t, testConfig())
	require.NoError(t, c.StartBattle(ModePlayer))

	gs := c.Snapshot()
	require.Len(t, gs.Ships, 5)
	assert.Equal(t, "battle", gs.State)
	assert.Equal(t, 600.0, gs.TimeLeft)
	assert.NotEmpty(t, gs.RoundID)

	human := gs.Ships[0]
	assert.True(t, human.Human)
	assert.Equal(t, HumanSpawn, human.Pos)
	assert.Equal(t, "PLASMA", human.Weapon)

	want := []vec.Vec3{
		vec.New(450, 150, 0),
		vec.New(0, 200, 450),
		vec.New(-450, 250, 0),
		vec.New(0, 150, -450),
	}
	for i, p := range want {
		s := gs.Ships[i+1]
		assert.False(t, s.Human)
		assert.InDelta(t, p.X, s.Pos.X, 1e-9, "ship %d", i)
		assert.InDelta(t, p.Y, s.Pos.Y, 1e-9, "ship %d", i)
		assert.InDelta(t, p.Z, s.Pos.Z, 1e-9, "ship %d", i)
		// facing the centre
		assert.Less(t, s.Facing.Dot(s.Pos), 0.0)
	}

	assert.Len(t, rec.kinds(event.RoundStarted), 1)
	assert.Len(t, rec.kinds(event.ShipSpawned), 5)
}

func TestDuelSpawn(t *testing.T) {
	cfg := testConfig()
	cfg.Ships.Count = 2
	c, _ := newController(t, cfg)
	require.NoError(t, c.StartBattle(ModeAI))
	gs := c.Snapshot()
	require.Len(t, gs.Ships, 2)
	assert.Equal(t, vec.New(-300, 200, 0), gs.Ships[0].Pos)
	assert.Equal(t, vec.New(300, 200, 0), gs.Ships[1].Pos)
}

func TestTimerReachesZeroAfterExactTicks(t *testing.T) {
	cfg := testConfig()
	cfg.Combat.Damage = 0
	c, rec := newController(t, cfg)
	require.NoError(t, c.StartBattle(ModeAI))

	for i := 1; i < 600; i++ {
		c.Tick(1)
		require.Equal(t, Battle, c.State(), "ended early at tick %d", i)
	}
	c.Tick(1)
	assert.Equal(t, Ended, c.State())

	res := c.Result()
	require.NotNil(t, res)
	assert.Equal(t, ReasonTimeUp, res.Reason)
	assert.Equal(t, 0.0, c.Snapshot().TimeLeft)

	ended := rec.kinds(event.RoundEnded)
	require.Len(t, ended, 1)
	assert.Equal(t, ReasonTimeUp, ended[0].Stats.Reason)
	assert.Equal(t, 600.0, ended[0].Stats.SurvivalTime)
}

func TestLastStandingEndsRound(t *testing.T) {
	cfg := testConfig()
	cfg.Ships.Count = 2
	c, rec := newController(t, cfg)
	require.NoError(t, c.StartBattle(ModeAI))

	c.mu.Lock()
	first := c.world.Ships[0]
	c.world.Damage(c.world.Ships[1], 1000, first.ID)
	c.mu.Unlock()

	c.Tick(1.0 / 60)
	require.Equal(t, Ended, c.State())
	res := c.Result()
	require.NotNil(t, res)
	assert.Equal(t, ReasonLastStanding, res.Reason)
	assert.Equal(t, first.ID, res.WinnerID)
	assert.Equal(t, "AI-1", res.WinnerName)
	assert.Equal(t, 1, res.Kills)
	assert.Equal(t, game.KillScore, res.Score)
	assert.Len(t, rec.kinds(event.ShipDestroyed), 1)
}

func TestAllDeadFallsBackToFirstShip(t *testing.T) {
	cfg := testConfig()
	cfg.Ships.Count = 3
	c, _ := newController(t, cfg)
	require.NoError(t, c.StartBattle(ModeAI))

	c.mu.Lock()
	for _, s := range c.world.Ships {
		s.TakeDamage(1000)
	}
	firstID := c.world.Ships[0].ID
	c.mu.Unlock()

	c.Tick(1.0 / 60)
	res := c.Result()
	require.NotNil(t, res)
	assert.Equal(t, firstID, res.WinnerID)
	assert.Equal(t, 0.0, res.Health)
}

func TestHumanDeathEndsRoundAndWaits(t *testing.T) {
	cfg := testConfig()
	c, _ := newController(t, cfg)
	require.NoError(t, c.StartBattle(ModePlayer))

	c.mu.Lock()
	c.world.Human().TakeDamage(1000)
	c.mu.Unlock()

	c.Tick(1.0 / 60)
	require.Equal(t, Ended, c.State())
	res := c.Result()
	assert.Equal(t, ReasonHumanDown, res.Reason)
	assert.Equal(t, "AI-1", res.WinnerName)

	// human modes never restart on their own
	for i := 0; i < 20; i++ {
		c.Tick(1)
	}
	assert.Equal(t, Ended, c.State())

	require.NoError(t, c.Restart())
	assert.Equal(t, Battle, c.State())
	assert.Equal(t, ModePlayer, c.Mode())
	assert.Nil(t, c.Result())
}

func TestReturnToMenuClearsRosters(t *testing.T) {
	c, _ := newController(t, testConfig())
	require.NoError(t, c.StartBattle(ModePlayer))
	c.mu.Lock()
	c.world.Human().TakeDamage(1000)
	c.mu.Unlock()
	c.Tick(1.0 / 60)

	require.NoError(t, c.ReturnToMenu())
	gs := c.Snapshot()
	assert.Equal(t, "menu", gs.State)
	assert.Empty(t, gs.Ships)
	assert.Empty(t, gs.Projectiles)
	assert.Empty(t, gs.Pickups)
	assert.Empty(t, gs.RoundID)
	assert.Equal(t, uuid.Nil, c.RoundID())

	// ticks in the menu never touch the world
	c.Tick(1)
	assert.Equal(t, uint64(0), c.Snapshot().Tick)
}

func TestAIModeAutoRestarts(t *testing.T) {
	cfg := testConfig()
	cfg.Ships.Count = 2
	c, rec := newController(t, cfg)
	require.NoError(t, c.StartBattle(ModeAI))
	firstRound := c.RoundID()

	c.mu.Lock()
	c.world.Ships[1].TakeDamage(1000)
	c.mu.Unlock()
	c.Tick(1)
	require.Equal(t, Ended, c.State())
	assert.Equal(t, 5.0, c.Snapshot().RestartIn)

	for i := 0; i < 4; i++ {
		c.Tick(1)
		require.Equal(t, Ended, c.State(), "restarted early after %d ticks", i+1)
	}
	c.Tick(1)
	assert.Equal(t, Battle, c.State())
	assert.NotEqual(t, firstRound, c.RoundID())
	assert.Len(t, rec.kinds(event.RoundStarted), 2)

	gs := c.Snapshot()
	for _, s := range gs.Ships {
		assert.True(t, s.Alive)
	}
}

func TestHandleIntentDrivesHuman(t *testing.T) {
	c, rec := newController(t, testConfig())
	// ignored in the menu
	c.HandleIntent(game.Fire, true)

	require.NoError(t, c.StartBattle(ModePlayer))
	c.HandleIntent(game.SwitchWeapon, true)
	c.Tick(1.0 / 60)

	gs := c.Snapshot()
	assert.Equal(t, "LASER", gs.Ships[0].Weapon)
	assert.Len(t, rec.kinds(event.WeaponSwitched), 1)

	c.HandleIntent(game.SwitchWeapon, false)
	c.HandleIntent(game.Fire, true)
	c.Tick(1.0 / 60)
	var humanShots int
	for _, e := range rec.kinds(event.ProjectileFired) {
		if e.ShipID == gs.Ships[0].ID {
			humanShots++
		}
	}
	assert.Equal(t, 1, humanShots)
}

func TestSnapshotReportsPilots(t *testing.T) {
	c, _ := newController(t, testConfig())
	require.NoError(t, c.StartBattle(ModeAI))
	c.Tick(1.0 / 60)
	gs := c.Snapshot()
	for _, s := range gs.Ships {
		assert.NotEmpty(t, s.AIState)
		assert.NotEmpty(t, s.AIMode)
		assert.NotZero(t, s.Target)
	}
}

func TestPeriodicPickupSpawns(t *testing.T) {
	cfg := testConfig()
	cfg.Combat.Damage = 0
	cfg.Round.PickupSpawnInterval = 1
	c, rec := newController(t, cfg)
	require.NoError(t, c.StartBattle(ModeAI))

	for i := 0; i < 300; i++ {
		c.Tick(1)
		require.LessOrEqual(t, len(c.Snapshot().Pickups), PickupSpawnCap)
	}
	assert.NotEmpty(t, rec.kinds(event.PickupSpawned))
}

func TestRunTicksUntilCancelled(t *testing.T) {
	c, _ := newController(t, testConfig())
	require.NoError(t, c.StartBattle(ModeAI))

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	assert.NoError(t, c.Run(ctx))
	assert.Greater(t, c.Snapshot().Tick, uint64(0))
}
