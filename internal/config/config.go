// Package config loads craps tool configuration from HCL.
package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"slices"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/crapsdice/internal/craps"
	"github.com/lox/crapsdice/internal/strategy"
	"github.com/lox/crapsdice/internal/stratlang"
)

// Config represents the complete configuration file
type Config struct {
	Settings    *Settings          `hcl:"settings,block"`
	Tables      []TableConfig      `hcl:"table,block"`
	Strategies  []StrategyConfig   `hcl:"strategy,block"`
	Simulations []SimulationConfig `hcl:"simulation,block"`
}

// Settings holds tool-wide options
type Settings struct {
	LogLevel      string `hcl:"log_level,optional"`
	Seed          int64  `hcl:"seed,optional"`
	Workers       int    `hcl:"workers,optional"`
	MaxComplexity int    `hcl:"max_complexity,optional"`
}

// TableConfig defines the house rules and starting bankroll of a table
type TableConfig struct {
	Name string `hcl:"name,label"`
	// Bankroll is a decimal or fraction, e.g. "200" or "62.5".
	Bankroll    string `hcl:"bankroll,optional"`
	FieldTwo    int64  `hcl:"field_two,optional"`
	FieldTwelve int64  `hcl:"field_twelve,optional"`
}

// StrategyConfig names a strategy program
type StrategyConfig struct {
	Name string `hcl:"name,label"`
	// Source is a file path or builtin:<name>.
	Source string `hcl:"source"`
}

// SimulationConfig describes a batch of simulated games
type SimulationConfig struct {
	Name          string    `hcl:"name,label"`
	Table         string    `hcl:"table,optional"`
	Strategy      string    `hcl:"strategy"`
	Games         int       `hcl:"games,optional"`
	Rolls         int       `hcl:"rolls,optional"`
	Weights       []float64 `hcl:"weights,optional"`
	StopWhenBroke bool      `hcl:"stop_when_broke,optional"`
	Timeout       string    `hcl:"timeout,optional"`
}

const (
	defaultLogLevel   = "info"
	defaultSimulation = "default"
	defaultStrategy   = "pass"
	defaultTable      = "default"
	defaultBankroll   = "1000"
	defaultGames      = 1000
	defaultRolls      = 100
)

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load loads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and applies defaults.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Settings == nil {
		c.Settings = &Settings{}
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaultLogLevel
	}
	if c.Settings.MaxComplexity == 0 {
		c.Settings.MaxComplexity = stratlang.DefaultMaxComplexity
	}

	if len(c.Tables) == 0 {
		c.Tables = []TableConfig{{Name: defaultTable}}
	}
	for i := range c.Tables {
		t := &c.Tables[i]
		if t.Bankroll == "" {
			t.Bankroll = defaultBankroll
		}
		if t.FieldTwo == 0 {
			t.FieldTwo = craps.DefaultFieldMultiplier
		}
		if t.FieldTwelve == 0 {
			t.FieldTwelve = craps.DefaultFieldMultiplier
		}
	}

	if len(c.Simulations) == 0 {
		c.Simulations = []SimulationConfig{{Name: defaultSimulation, Strategy: defaultStrategy}}
	}
	for i := range c.Simulations {
		s := &c.Simulations[i]
		if s.Table == "" {
			s.Table = c.Tables[0].Name
		}
		if s.Games == 0 {
			s.Games = defaultGames
		}
		if s.Rolls == 0 {
			s.Rolls = defaultRolls
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := ParseLogLevel(c.Settings.LogLevel); err != nil {
		return err
	}
	if c.Settings.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Settings.Workers)
	}

	for _, t := range c.Tables {
		if _, err := t.StartingBankroll(); err != nil {
			return fmt.Errorf("table %s: %w", t.Name, err)
		}
		if t.FieldTwo < 1 || t.FieldTwelve < 1 {
			return fmt.Errorf("table %s: field multipliers must be at least 1", t.Name)
		}
	}

	for _, s := range c.Strategies {
		if s.Source == "" {
			return fmt.Errorf("strategy %s: source is required", s.Name)
		}
	}

	for _, s := range c.Simulations {
		if c.Table(s.Table) == nil {
			return fmt.Errorf("simulation %s: unknown table %s", s.Name, s.Table)
		}
		if c.Strategy(s.Strategy) == nil {
			return fmt.Errorf("simulation %s: unknown strategy %s", s.Name, s.Strategy)
		}
		if s.Games < 0 || s.Rolls < 0 {
			return fmt.Errorf("simulation %s: games and rolls must not be negative", s.Name)
		}
		if _, err := s.DieWeights(); err != nil {
			return fmt.Errorf("simulation %s: %w", s.Name, err)
		}
		if _, err := s.TimeoutDuration(); err != nil {
			return fmt.Errorf("simulation %s: %w", s.Name, err)
		}
	}
	return nil
}

// Table returns a table configuration by name
func (c *Config) Table(name string) *TableConfig {
	i := slices.IndexFunc(c.Tables, func(t TableConfig) bool { return t.Name == name })
	if i < 0 {
		return nil
	}
	return &c.Tables[i]
}

// Strategy returns a strategy configuration by name. Built-in strategies
// are available under their own names unless a block overrides them.
func (c *Config) Strategy(name string) *StrategyConfig {
	i := slices.IndexFunc(c.Strategies, func(s StrategyConfig) bool { return s.Name == name })
	if i >= 0 {
		return &c.Strategies[i]
	}
	if slices.Contains(strategy.BuiltinNames(), name) {
		return &StrategyConfig{Name: name, Source: strategy.BuiltinPrefix + name}
	}
	return nil
}

// Simulation returns a simulation configuration by name
func (c *Config) Simulation(name string) *SimulationConfig {
	i := slices.IndexFunc(c.Simulations, func(s SimulationConfig) bool { return s.Name == name })
	if i < 0 {
		return nil
	}
	return &c.Simulations[i]
}

// StrategyOptions returns the compile options implied by the settings.
func (c *Config) StrategyOptions() stratlang.Options {
	return stratlang.Options{MaxComplexity: c.Settings.MaxComplexity}
}

// StartingBankroll parses the bankroll as an exact amount.
func (t TableConfig) StartingBankroll() (*big.Rat, error) {
	r, ok := new(big.Rat).SetString(t.Bankroll)
	if !ok {
		return nil, fmt.Errorf("invalid bankroll %q", t.Bankroll)
	}
	return r, nil
}

// Rules returns the craps table rules.
func (t TableConfig) Rules() craps.TableRules {
	return craps.TableRules{FieldTwo: t.FieldTwo, FieldTwelve: t.FieldTwelve}
}

// DieWeights returns the six face weights, all zero when unset.
func (s SimulationConfig) DieWeights() ([6]float64, error) {
	var w [6]float64
	switch len(s.Weights) {
	case 0:
		return w, nil
	case 6:
		copy(w[:], s.Weights)
		for i, v := range w {
			if v < 0 {
				return w, fmt.Errorf("weight for face %d is negative", i+1)
			}
		}
		return w, nil
	}
	return w, fmt.Errorf("weights must list 6 faces, got %d", len(s.Weights))
}

// TimeoutDuration parses the timeout; empty means none.
func (s SimulationConfig) TimeoutDuration() (time.Duration, error) {
	if s.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout: %w", err)
	}
	return d, nil
}
