// Package round runs the battle lifecycle: it owns the World, advances it
// at the configured tick rate and publishes drained events to sinks.
package round

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"dogfight-arena/internal/ai"
	"dogfight-arena/internal/config"
	"dogfight-arena/internal/data"
	"dogfight-arena/internal/event"
	"dogfight-arena/internal/game"
	"dogfight-arena/internal/vec"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const (
	HumanName        = "PLAYER"
	SpawnRadiusFrac  = 0.9
	SpawnBaseHeight  = 150.0
	SpawnHeightStep  = 50.0
	DuelSpawnX       = 300.0
	DuelSpawnHeight  = 200.0
	PickupSpawnCap   = 3   // periodic spawns stop at this many live pickups
	PickupSpawnOdds  = 0.1 // chance per spawn roll
	timeEpsilon      = 1e-9
)

// HumanSpawn is where the human ship enters the arena
var HumanSpawn = vec.New(0, 150, 300)

// Controller serializes every access to the round and its World
type Controller struct {
	mu      sync.Mutex
	cfg     *config.Config
	tables  *data.AITables
	skill   data.SkillTier
	log     *zap.Logger
	metrics *metrics
	world   *game.World

	state         State
	mode          Mode
	roundID       uuid.UUID
	timeLeft      float64
	nextSpawnRoll float64
	restartIn     float64
	result        *event.RoundStats
	pilots        map[int]*ai.Controller

	seenDropped uint64 // projectile, pickup and event drops already counted

	sinkMu sync.RWMutex
	sinks  []event.Sink
}

// New creates a controller in the menu state. The config is validated
// here and again whenever a battle starts.
func New(cfg *config.Config, tables *data.AITables, log *zap.Logger) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	skill, err := ai.ProfileFor(tables, cfg.AI.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("%w (tables define %d tiers)", err, tables.TierCount())
	}
	mode, err := ParseMode(cfg.Round.Mode)
	if err != nil {
		return nil, err
	}
	m, err := newMetrics()
	if err != nil {
		return nil, err
	}
	seed := cfg.Round.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Controller{
		cfg:     cfg,
		tables:  tables,
		skill:   skill,
		log:     log,
		metrics: m,
		world:   game.NewWorld(cfg, rand.New(rand.NewSource(seed))),
		mode:    mode,
		pilots:  make(map[int]*ai.Controller),
	}, nil
}

// AddSink registers a consumer for event batches
func (c *Controller) AddSink(s event.Sink) {
	c.sinkMu.Lock()
	defer c.sinkMu.Unlock()
	c.sinks = append(c.sinks, s)
}

// State returns the current lifecycle state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Mode returns the mode of the current or last battle
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// RoundID identifies the current battle; zero in the menu
func (c *Controller) RoundID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roundID
}

// Result returns the stats of the last finished round, if any
func (c *Controller) Result() *event.RoundStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return nil
	}
	r := *c.result
	return &r
}

// StartBattle leaves the menu (or a finished round) for a new battle
func (c *Controller) StartBattle(mode Mode) error {
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}
	c.mu.Lock()
	if !CanTransition(c.state, Battle) {
		err := transitionErr(c.state, Battle)
		c.mu.Unlock()
		return err
	}
	if err := c.cfg.Validate(); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("start battle: %w", err)
	}
	c.mode = mode
	c.startLocked()
	batch := c.world.Events.Drain()
	c.mu.Unlock()

	c.publish(batch)
	return nil
}

// Restart replays the last mode after a round ended
func (c *Controller) Restart() error {
	c.mu.Lock()
	if c.state != Ended {
		err := transitionErr(c.state, Battle)
		c.mu.Unlock()
		return err
	}
	mode := c.mode
	c.mu.Unlock()
	return c.StartBattle(mode)
}

// ReturnToMenu clears every entity. Only a finished round may return.
func (c *Controller) ReturnToMenu() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !CanTransition(c.state, Menu) {
		return transitionErr(c.state, Menu)
	}
	c.world.Reset()
	clear(c.pilots)
	c.state = Menu
	c.roundID = uuid.Nil
	c.result = nil
	c.log.Info("returned to menu")
	return nil
}

// HandleIntent presses or releases a control on the human ship. It is
// ignored outside battle or when no live human ship exists.
func (c *Controller) HandleIntent(k game.IntentKey, pressed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Battle {
		return
	}
	h := c.world.Human()
	if h == nil || !h.Alive {
		return
	}
	if pressed {
		h.Intent.Press(k)
	} else {
		h.Intent.Release(k)
	}
}

// Tick advances the round by dt seconds
func (c *Controller) Tick(dt float64) {
	start := time.Now()
	c.mu.Lock()
	switch c.state {
	case Battle:
		c.stepLocked(dt)
	case Ended:
		if c.mode == ModeAI {
			c.restartIn -= dt
			if c.restartIn <= timeEpsilon {
				if err := c.cfg.Validate(); err != nil {
					c.log.Error("auto restart refused", zap.Error(err))
				} else {
					c.startLocked()
				}
			}
		}
	}
	batch := c.world.Events.Drain()
	dropped := c.world.DroppedProjectiles + c.world.DroppedPickups + c.world.Events.Dropped()
	newlyDropped := dropped - c.seenDropped
	c.seenDropped = dropped
	battle := c.state == Battle
	c.mu.Unlock()

	ctx := context.Background()
	if newlyDropped > 0 {
		c.metrics.dropped.Add(ctx, int64(newlyDropped))
		c.log.Debug("entities dropped at cap", zap.Uint64("count", newlyDropped))
	}
	if battle {
		c.metrics.ticks.Add(ctx, 1)
	}
	c.metrics.tickTime.Record(ctx, float64(time.Since(start).Microseconds())/1000)
	c.publish(batch)
}

// Run ticks at the configured rate until ctx is done
func (c *Controller) Run(ctx context.Context) error {
	rate := c.cfg.Round.TickRate
	dt := 1.0 / float64(rate)
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	c.log.Info("round loop started", zap.Int("tick_rate", rate))
	for {
		select {
		case <-ctx.Done():
			c.log.Info("round loop stopped")
			return nil
		case <-ticker.C:
			c.Tick(dt)
		}
	}
}

func (c *Controller) startLocked() {
	c.world.Reset()
	clear(c.pilots)
	c.roundID = uuid.New()
	c.timeLeft = c.cfg.Round.BattleTime
	c.nextSpawnRoll = c.cfg.Round.PickupSpawnInterval
	c.result = nil
	c.restartIn = 0
	c.spawnShips()
	c.state = Battle
	c.world.Emit(event.Event{Kind: event.RoundStarted})
	c.log.Info("battle started",
		zap.String("round", c.roundID.String()),
		zap.String("mode", string(c.mode)),
		zap.Int("ships", len(c.world.Ships)),
		zap.String("difficulty", c.skill.Tier))
}

func (c *Controller) spawnShips() {
	w := c.world
	if c.mode.HasHuman() {
		w.AddShip(game.NewShip(w, HumanName, game.Human, HumanSpawn, vec.New(0, 0, -1)))
	}
	n := c.cfg.Ships.Count
	for i := 0; i < n; i++ {
		pos := c.aiSpawn(i, n)
		s := game.NewShip(w, fmt.Sprintf("AI-%d", i+1), game.AI, pos, vec.New(-pos.X, 0, -pos.Z))
		p := ai.NewController(c.tables, c.skill)
		s.Pilot = p
		w.AddShip(s)
		c.pilots[s.ID] = p
	}
}

// aiSpawn places AI ship i of n: a duel faces off across the centre,
// larger rounds spread on a circle at staggered heights
func (c *Controller) aiSpawn(i, n int) vec.Vec3 {
	a := c.cfg.Arena
	var pos vec.Vec3
	if n == 2 {
		x := math.Min(DuelSpawnX, a.Size)
		if i == 0 {
			x = -x
		}
		pos = vec.New(x, DuelSpawnHeight, 0)
	} else {
		angle := 2 * math.Pi * float64(i) / float64(n)
		r := a.Size * SpawnRadiusFrac
		pos = vec.New(math.Cos(angle)*r, SpawnBaseHeight+float64(i%3)*SpawnHeightStep, math.Sin(angle)*r)
	}
	pos.Y = vec.Clamp(pos.Y, a.MinHeight, a.MaxHeight)
	return pos
}

func (c *Controller) stepLocked(dt float64) {
	w := c.world
	w.Step(dt)
	c.timeLeft -= dt

	if w.Now+timeEpsilon >= c.nextSpawnRoll {
		c.nextSpawnRoll += c.cfg.Round.PickupSpawnInterval
		if len(w.Pickups) < PickupSpawnCap && w.Rng.Float64() < PickupSpawnOdds {
			w.SpawnRandomPickup()
		}
	}

	if reason, over := c.overLocked(); over {
		c.endLocked(reason)
	}
}

// overLocked evaluates the win conditions in order
func (c *Controller) overLocked() (string, bool) {
	w := c.world
	if w.AliveShips() <= 1 {
		return ReasonLastStanding, true
	}
	if c.timeLeft <= timeEpsilon {
		return ReasonTimeUp, true
	}
	if c.mode.HasHuman() {
		if h := w.Human(); h != nil && !h.Alive {
			return ReasonHumanDown, true
		}
	}
	return "", false
}

func (c *Controller) endLocked(reason string) {
	w := c.world
	c.state = Ended
	c.timeLeft = math.Max(0, c.timeLeft)
	c.restartIn = c.cfg.Round.RestartDelay

	var winner *game.Ship
	for _, s := range w.Ships {
		if s.Alive {
			winner = s
			break
		}
	}
	if winner == nil && len(w.Ships) > 0 {
		winner = w.Ships[0]
	}
	stats := &event.RoundStats{Reason: reason}
	if winner != nil {
		end := w.Now
		if !winner.Alive {
			end = winner.DiedAt
		}
		stats.WinnerID = winner.ID
		stats.WinnerName = winner.Name
		stats.Kills = winner.Kills
		stats.Score = winner.Score
		stats.Health = winner.Health
		stats.SurvivalTime = end - winner.SpawnedAt
	}
	c.result = stats
	w.Emit(event.Event{Kind: event.RoundEnded, ShipID: stats.WinnerID, Stats: stats})

	c.metrics.rounds.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("reason", reason), attribute.String("mode", string(c.mode))))
	c.log.Info("round ended",
		zap.String("round", c.roundID.String()),
		zap.String("reason", reason),
		zap.String("winner", stats.WinnerName),
		zap.Int("kills", stats.Kills),
		zap.Int("score", stats.Score),
		zap.Float64("survival", stats.SurvivalTime),
		zap.Uint64("tick", w.Tick))
}

func (c *Controller) publish(batch []event.Event) {
	if len(batch) == 0 {
		return
	}
	kills := 0
	for _, e := range batch {
		if e.Kind == event.ShipDestroyed {
			kills++
		}
	}
	if kills > 0 {
		c.metrics.kills.Add(context.Background(), int64(kills))
	}

	c.sinkMu.RLock()
	defer c.sinkMu.RUnlock()
	for _, s := range c.sinks {
		s.Publish(batch)
	}
	c.metrics.published.Add(context.Background(), int64(len(batch)*len(c.sinks)))
}
