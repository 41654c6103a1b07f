package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 4, cfg.Ships.Count)
	assert.Equal(t, 500.0, cfg.Arena.Size)
	assert.Equal(t, 600.0, cfg.Round.BattleTime)
	assert.Equal(t, "EXTREME", cfg.AI.Difficulty)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arena.toml")
	body := `
[arena]
size = 800

[ships]
count = 6

[round]
mode = "player"
shutdown_timeout = "2s"

[ai]
difficulty = "HARD"

[logging]
format = "json"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 800.0, cfg.Arena.Size)
	assert.Equal(t, 6, cfg.Ships.Count)
	assert.Equal(t, "player", cfg.Round.Mode)
	assert.Equal(t, 2*time.Second, cfg.Round.ShutdownTimeout)
	assert.Equal(t, "HARD", cfg.AI.Difficulty)
	assert.Equal(t, "json", cfg.Logging.Format)
	// untouched keys keep defaults
	assert.Equal(t, 25.0, cfg.Combat.LaserSpeed)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[arena]\nsize = -1\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero arena", func(c *Config) { c.Arena.Size = 0 }, "arena.size"},
		{"zero ships", func(c *Config) { c.Ships.Count = 0 }, "ships.count"},
		{"negative speed", func(c *Config) { c.Ships.Speed = -3 }, "ships.speed"},
		{"zero hp", func(c *Config) { c.Ships.HP = 0 }, "ships.hp"},
		{"negative damage", func(c *Config) { c.Combat.Damage = -1 }, "combat.damage"},
		{"height inverted", func(c *Config) { c.Arena.MinHeight = 400 }, "min_height"},
		{"bad mode", func(c *Config) { c.Round.Mode = "coop" }, "round.mode"},
		{"no tier", func(c *Config) { c.AI.Difficulty = "" }, "ai.difficulty"},
		{"zero pong timeout", func(c *Config) { c.Gateway.PongTimeout = 0 }, "gateway.pong_timeout"},
		{"negative write timeout", func(c *Config) { c.Gateway.WriteTimeout = -time.Second }, "gateway.write_timeout"},
		{"zero shutdown timeout", func(c *Config) { c.Round.ShutdownTimeout = 0 }, "round.shutdown_timeout"},
		{"drop chance", func(c *Config) { c.Combat.DropChance = 1.5 }, "drop_chance"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestGatewayTimeoutsIgnoredWhenDisabled(t *testing.T) {
	cfg := Default()
	cfg.Gateway.Enabled = false
	cfg.Gateway.PongTimeout = 0
	assert.NoError(t, cfg.Validate())
}

func TestCustomTierNamePasses(t *testing.T) {
	cfg := Default()
	cfg.AI.Difficulty = "VETERAN"
	assert.NoError(t, cfg.Validate())
}

func TestZeroDamageIsAllowed(t *testing.T) {
	cfg := Default()
	cfg.Combat.Damage = 0
	assert.NoError(t, cfg.Validate())
}

func TestValidateReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Arena.Size = 0
	cfg.Ships.Speed = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arena.size")
	assert.Contains(t, err.Error(), "ships.speed")
}

func TestResolve(t *testing.T) {
	t.Setenv(EnvPath, "/etc/arena.toml")
	assert.Equal(t, "/etc/arena.toml", Resolve(""))
	assert.Equal(t, "local.toml", Resolve("local.toml"))
}

func TestNewLogger(t *testing.T) {
	cases := []struct {
		name  string
		cfg   LoggingConfig
		debug bool
	}{
		{"console debug", LoggingConfig{Level: "debug", Format: "console"}, true},
		{"json warn", LoggingConfig{Level: "warn", Format: "json"}, false},
		{"bad level falls back to info", LoggingConfig{Level: "loud"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "arena.log")
			log, err := NewLogger(tc.cfg, out)
			require.NoError(t, err)
			assert.Equal(t, tc.debug, log.Core().Enabled(zapcore.DebugLevel))
			log.Error("probe")
			require.NoError(t, log.Sync())

			b, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.Contains(t, string(b), "probe")
		})
	}
}
