package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 240*time.Millisecond, cfg.Server.StepDelay)
	assert.Equal(t, 16, cfg.Game.BoardSize)
	assert.Equal(t, 6, cfg.Game.MaxEventLog)
	assert.True(t, cfg.Game.GoalMultiplier.Equal(decimal.NewFromInt(1)))
	assert.True(t, cfg.Game.BoostFallback.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, "X-Username", cfg.Auth.TrustedHeader)
	assert.Empty(t, cfg.Schedule.DigestCron)

	rules := cfg.Rules()
	assert.Equal(t, 1, rules.Events.DownsizeTurns)
	assert.True(t, rules.Events.BoostRate.Equal(decimal.RequireFromString("0.25")))

	ranges := cfg.Ranges()
	assert.True(t, ranges.BigDeal.Max.Equal(decimal.NewFromInt(8000)))
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
  step_delay: 0s
game:
  goal_multiplier: 1.5
  max_event_log: 10
database:
  sqlite_path: memory
`)
	t.Setenv("SERVER_ADDR", ":9100")
	t.Setenv("DOWNSIZE_TURNS", "2")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":9100", cfg.Server.Addr, "env wins over file")
	assert.Equal(t, 2, cfg.Game.DownsizeTurns)
	assert.Equal(t, 10, cfg.Game.MaxEventLog)
	assert.Zero(t, cfg.Server.StepDelay, "animation can be disabled")
	assert.True(t, cfg.Game.GoalMultiplier.Equal(decimal.RequireFromString("1.5")))
	assert.Equal(t, MemoryDatabase, cfg.Database.SQLitePath)
}

func TestLoad_ZeroTuningIsKept(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
game:
  downsize_turns: 0
  boost_rate: 0
  boost_fallback: 0
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	rules := cfg.Rules()
	assert.Zero(t, rules.Events.DownsizeTurns)
	assert.True(t, rules.Events.BoostRate.IsZero())
	assert.True(t, rules.Events.BoostFallback.IsZero())
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"non-positive goal", func(c *Config) { c.Game.GoalMultiplier = decimal.NewFromInt(-1) }},
		{"inverted range", func(c *Config) { c.Game.BigDealMin = decimal.NewFromInt(9000) }},
		{"negative step delay", func(c *Config) { c.Server.StepDelay = -time.Second }},
		{"remote token without url", func(c *Config) { c.Remote.AuthToken = "x" }},
		{"issuer without secret", func(c *Config) { c.Auth.Issuer = "ecovest" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
