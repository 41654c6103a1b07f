package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "ARENA_CONFIG"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Arena   ArenaConfig   `toml:"arena"`
	Ships   ShipsConfig   `toml:"ships"`
	Combat  CombatConfig  `toml:"combat"`
	Round   RoundConfig   `toml:"round"`
	AI      AIConfig      `toml:"ai"`
	Gateway GatewayConfig `toml:"gateway"`
	Logging LoggingConfig `toml:"logging"`
}

type ArenaConfig struct {
	Size      float64 `toml:"size"`       // half-extent of the horizontal bounds
	MinHeight float64 `toml:"min_height"` // altitude floor
	MaxHeight float64 `toml:"max_height"` // altitude ceiling
}

type ShipsConfig struct {
	Count         int     `toml:"count"`          // AI ships per round
	Speed         float64 `toml:"speed"`          // base max speed, units/tick
	BoostSpeed    float64 `toml:"boost_speed"`    // human max speed while boosting
	HP            float64 `toml:"hp"`             // max health
	ShieldHP      float64 `toml:"shield_hp"`      // max shield
	BoostMax      float64 `toml:"boost_max"`      // boost energy capacity
	BoostDrain    float64 `toml:"boost_drain"`    // energy per tick while boosting
	BoostRecharge float64 `toml:"boost_recharge"` // energy per tick otherwise
}

type CombatConfig struct {
	LaserSpeed     float64 `toml:"laser_speed"`     // units/tick
	Damage         float64 `toml:"damage"`          // AI cannon damage
	MaxProjectiles int     `toml:"max_projectiles"` // live projectile cap
	MaxPickups     int     `toml:"max_pickups"`     // live pickup cap
	DropChance     float64 `toml:"drop_chance"`     // pickup drop probability on death
}

type RoundConfig struct {
	BattleTime          float64       `toml:"battle_time"`           // seconds
	Mode                string        `toml:"mode"`                  // ai, player, mixed
	TickRate            int           `toml:"tick_rate"`             // ticks per wall-clock second
	PickupSpawnInterval float64       `toml:"pickup_spawn_interval"` // seconds between spawn rolls
	RestartDelay        float64       `toml:"restart_delay"`         // autonomous mode countdown, seconds
	Seed                int64         `toml:"seed"`                  // 0 = time based
	ShutdownTimeout     time.Duration `toml:"shutdown_timeout"`
}

type AIConfig struct {
	Difficulty string `toml:"difficulty"` // EASY, MEDIUM, HARD, EXTREME
	TablesPath string `toml:"tables_path"` // optional YAML override
}

type GatewayConfig struct {
	Enabled       bool          `toml:"enabled"`
	BindAddress   string        `toml:"bind_address"`
	BroadcastRate int           `toml:"broadcast_rate"` // snapshots per second
	MaxConns      int           `toml:"max_conns"`
	MaxConnsPerIP int           `toml:"max_conns_per_ip"`
	WriteTimeout  time.Duration `toml:"write_timeout"`
	PongTimeout   time.Duration `toml:"pong_timeout"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // console or json
}

// Load reads a TOML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve picks the config path: an explicit flag wins over the env var.
func Resolve(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	return os.Getenv(EnvPath)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Arena: ArenaConfig{
			Size:      500,
			MinHeight: 20,
			MaxHeight: 300,
		},
		Ships: ShipsConfig{
			Count:         4,
			Speed:         8,
			BoostSpeed:    15,
			HP:            100,
			ShieldHP:      50,
			BoostMax:      100,
			BoostDrain:    1,
			BoostRecharge: 0.5,
		},
		Combat: CombatConfig{
			LaserSpeed:     25,
			Damage:         20,
			MaxProjectiles: 500,
			MaxPickups:     8,
			DropChance:     0.3,
		},
		Round: RoundConfig{
			BattleTime:          600,
			Mode:                "ai",
			TickRate:            60,
			PickupSpawnInterval: 5,
			RestartDelay:        5,
			ShutdownTimeout:     5 * time.Second,
		},
		AI: AIConfig{
			Difficulty: "EXTREME",
		},
		Gateway: GatewayConfig{
			Enabled:       true,
			BindAddress:   "127.0.0.1:8080",
			BroadcastRate: 20,
			MaxConns:      64,
			MaxConnsPerIP: 5,
			WriteTimeout:  10 * time.Second,
			PongTimeout:   60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

var validModes = []string{"ai", "player", "mixed"}

// Validate reports every violation at once, each wrapped with ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if !(v > 0) {
			errs = append(errs, fmt.Errorf("%w: %s must be positive, got %v", ErrInvalid, name, v))
		}
	}
	nonNegative := func(name string, v float64) {
		if !(v >= 0) {
			errs = append(errs, fmt.Errorf("%w: %s must be non-negative, got %v", ErrInvalid, name, v))
		}
	}

	positive("arena.size", c.Arena.Size)
	positive("arena.max_height", c.Arena.MaxHeight)
	nonNegative("arena.min_height", c.Arena.MinHeight)
	if c.Arena.MinHeight >= c.Arena.MaxHeight {
		errs = append(errs, fmt.Errorf("%w: arena.min_height %v must be below max_height %v",
			ErrInvalid, c.Arena.MinHeight, c.Arena.MaxHeight))
	}

	positive("ships.count", float64(c.Ships.Count))
	positive("ships.speed", c.Ships.Speed)
	positive("ships.boost_speed", c.Ships.BoostSpeed)
	positive("ships.hp", c.Ships.HP)
	positive("ships.shield_hp", c.Ships.ShieldHP)
	positive("ships.boost_max", c.Ships.BoostMax)
	nonNegative("ships.boost_drain", c.Ships.BoostDrain)
	nonNegative("ships.boost_recharge", c.Ships.BoostRecharge)

	positive("combat.laser_speed", c.Combat.LaserSpeed)
	nonNegative("combat.damage", c.Combat.Damage)
	positive("combat.max_projectiles", float64(c.Combat.MaxProjectiles))
	positive("combat.max_pickups", float64(c.Combat.MaxPickups))
	if c.Combat.DropChance < 0 || c.Combat.DropChance > 1 {
		errs = append(errs, fmt.Errorf("%w: combat.drop_chance must be within [0,1], got %v", ErrInvalid, c.Combat.DropChance))
	}

	positive("round.battle_time", c.Round.BattleTime)
	positive("round.tick_rate", float64(c.Round.TickRate))
	positive("round.pickup_spawn_interval", c.Round.PickupSpawnInterval)
	nonNegative("round.restart_delay", c.Round.RestartDelay)
	positive("round.shutdown_timeout", c.Round.ShutdownTimeout.Seconds())
	if !contains(validModes, c.Round.Mode) {
		errs = append(errs, fmt.Errorf("%w: round.mode %q not one of %s", ErrInvalid, c.Round.Mode, strings.Join(validModes, ", ")))
	}
	if c.AI.Difficulty == "" {
		errs = append(errs, fmt.Errorf("%w: ai.difficulty must name a tier", ErrInvalid))
	}

	if c.Gateway.Enabled {
		positive("gateway.broadcast_rate", float64(c.Gateway.BroadcastRate))
		positive("gateway.max_conns", float64(c.Gateway.MaxConns))
		positive("gateway.max_conns_per_ip", float64(c.Gateway.MaxConnsPerIP))
		positive("gateway.write_timeout", c.Gateway.WriteTimeout.Seconds())
		positive("gateway.pong_timeout", c.Gateway.PongTimeout.Seconds())
	}

	return errors.Join(errs...)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
