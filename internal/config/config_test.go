package config

import (
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/crapsdice/internal/craps"
	"github.com/lox/crapsdice/internal/stratlang"
)

const sample = `
settings {
  log_level      = "debug"
  seed           = 42
  workers        = 4
  max_complexity = 200
}

table "vegas" {
  bankroll     = "62.5"
  field_twelve = 3
}

strategy "pass" {
  source = "builtin:pass"
}

strategy "mine" {
  source = "strategies/mine.cdc"
}

simulation "nightly" {
  strategy        = "pass"
  games           = 500
  weights         = [1, 1, 1, 1, 1, 2]
  stop_when_broke = true
  timeout         = "30s"
}
`

func TestParse(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(sample), "sample.hcl")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "debug", cfg.Settings.LogLevel)
	assert.Equal(t, int64(42), cfg.Settings.Seed)
	assert.Equal(t, 4, cfg.Settings.Workers)
	assert.Equal(t, stratlang.Options{MaxComplexity: 200}, cfg.StrategyOptions())

	table := cfg.Table("vegas")
	require.NotNil(t, table)
	bankroll, err := table.StartingBankroll()
	require.NoError(t, err)
	assert.Zero(t, bankroll.Cmp(big.NewRat(125, 2)))
	assert.Equal(t, craps.TableRules{FieldTwo: 2, FieldTwelve: 3}, table.Rules())

	assert.Equal(t, "builtin:pass", cfg.Strategy("pass").Source)
	assert.Nil(t, cfg.Strategy("nope"))

	sim := cfg.Simulation("nightly")
	require.NotNil(t, sim)
	assert.Equal(t, "vegas", sim.Table)
	assert.Equal(t, 500, sim.Games)
	assert.Equal(t, defaultRolls, sim.Rolls)
	assert.True(t, sim.StopWhenBroke)
	weights, err := sim.DieWeights()
	require.NoError(t, err)
	assert.Equal(t, [6]float64{1, 1, 1, 1, 1, 2}, weights)
	timeout, err := sim.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout)
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.Settings.LogLevel)
	assert.Equal(t, stratlang.DefaultMaxComplexity, cfg.Settings.MaxComplexity)
	require.Len(t, cfg.Tables, 1)
	assert.Equal(t, craps.DefaultTableRules(), cfg.Tables[0].Rules())
	assert.Empty(t, cfg.Strategies)
	require.NotNil(t, cfg.Strategy("martingale-field"))
	assert.Equal(t, "builtin:martingale-field", cfg.Strategy("martingale-field").Source)

	sim := cfg.Simulation("default")
	require.NotNil(t, sim)
	assert.Equal(t, defaultTable, sim.Table)
	assert.Equal(t, defaultGames, sim.Games)
	weights, err := sim.DieWeights()
	require.NoError(t, err)
	assert.Equal(t, [6]float64{}, weights)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	path := filepath.Join(dir, "craps.hcl")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.NotNil(t, cfg.Simulation("nightly"))

	require.NoError(t, os.WriteFile(path, []byte("table {"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "failed to parse HCL file")

	require.NoError(t, os.WriteFile(path, []byte(`strategy "x" {}`), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "failed to decode HCL")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"log level", `settings { log_level = "loud" }`, "invalid log level"},
		{"workers", `settings { workers = -1 }`, "workers"},
		{"bankroll", `table "t" { bankroll = "lots" }`, "invalid bankroll"},
		{"field", `table "t" { field_two = -1 }`, "field multipliers"},
		{"unknown table", `
strategy "s" { source = "builtin:pass" }
simulation "x" {
  table    = "nope"
  strategy = "s"
}`, "unknown table"},
		{"unknown strategy", `simulation "x" { strategy = "nope" }`, "unknown strategy"},
		{"weights", `
strategy "s" { source = "builtin:pass" }
simulation "x" {
  strategy = "s"
  weights  = [1, 2, 3]
}`, "6 faces"},
		{"negative weight", `
strategy "s" { source = "builtin:pass" }
simulation "x" {
  strategy = "s"
  weights  = [1, 1, 1, 1, 1, -1]
}`, "negative"},
		{"timeout", `
strategy "s" { source = "builtin:pass" }
simulation "x" {
  strategy = "s"
  timeout  = "soon"
}`, "invalid timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := Parse([]byte(tt.src), "test.hcl")
			require.NoError(t, err)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLogger(t *testing.T) {
	t.Parallel()

	level, err := ParseLogLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, log.WarnLevel, level)

	_, err = ParseLogLevel("chatty")
	assert.Error(t, err)

	var buf strings.Builder
	logger := (&Settings{LogLevel: "error"}).NewLogger(&buf)
	logger.Info("hidden")
	logger.Error("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
