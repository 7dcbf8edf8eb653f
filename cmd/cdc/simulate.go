package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/lox/crapsdice/internal/craps"
	"github.com/lox/crapsdice/internal/dice"
	"github.com/lox/crapsdice/internal/fileutil"
	"github.com/lox/crapsdice/internal/randutil"
	"github.com/lox/crapsdice/internal/simulator"
	"github.com/lox/crapsdice/internal/statistics"
)

type SimulateCmd struct {
	Rollseries SimulateRollseriesCmd `cmd:"" help:"Roll weighted dice and write a plain-text roll series"`
	Games      SimulateGamesCmd      `cmd:"" help:"Play a strategy through many seeded games"`
}

type SimulateRollseriesCmd struct {
	Input      string `short:"i" help:"Statistics whose die counts weight the dice ('-' for stdin); fair dice when unset"`
	Output     string `short:"o" default:"-" help:"Where to write the roll series ('-' for stdout)"`
	Iterations int    `short:"n" default:"100000" help:"How many times to roll the dice"`
	PerLine    int    `default:"20" help:"Rolls per output line"`
}

func (c *SimulateRollseriesCmd) Run(app *App) error {
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d", c.Iterations)
	}
	weights := randutil.FairDieWeights
	if c.Input != "" {
		stats, err := readStats(app, c.Input)
		if err != nil {
			return err
		}
		weights = stats.DieWeights()
	}

	rolls, err := simulator.RollSeries(weights, app.Seed, c.Iterations)
	if err != nil {
		return err
	}
	header := []string{
		fmt.Sprintf("cdc simulation run at %s", app.Clock.Now().Format(time.RFC3339)),
		fmt.Sprintf("simulating %d dice rolls", c.Iterations),
		fmt.Sprintf("weights: %v", weights),
		fmt.Sprintf("seed: %d", app.Seed),
	}
	return app.output(c.Output, func(w io.Writer) error {
		return dice.WriteSeries(w, header, rolls, c.PerLine)
	})
}

type SimulateGamesCmd struct {
	Simulation    string        `short:"s" default:"default" help:"Named simulation from the config file"`
	Strategy      string        `help:"Strategy name, builtin:<name> or file (overrides config)"`
	Games         int           `short:"n" help:"Number of games (overrides config)"`
	Rolls         int           `help:"Rolls per game (overrides config)"`
	Workers       int           `short:"w" help:"Worker goroutines (overrides config)"`
	Bankroll      string        `help:"Starting bankroll (overrides the table)"`
	StopWhenBroke bool          `help:"End a game once the bankroll is gone"`
	Timeout       time.Duration `help:"Abort the run after this long (overrides config)"`
	Output        string        `short:"o" default:"-" help:"Where to write the report ('-' for stdout)"`
	Format        string        `short:"f" default:"text" enum:"text,json" help:"Output format: text or json"`
	Stats         string        `help:"Also write the combined roll statistics to this file"`
}

// gamesRecord is the json output of a simulation.
type gamesRecord struct {
	RunID      string                `json:"run_id"`
	Strategy   string                `json:"strategy"`
	Seed       int64                 `json:"seed"`
	Games      int                   `json:"games"`
	Mean       float64               `json:"mean"`
	Median     float64               `json:"median"`
	StdDev     float64               `json:"std_dev"`
	CI95       [2]float64            `json:"ci95"`
	Winners    int                   `json:"winners"`
	Losers     int                   `json:"losers"`
	Rolls      int                   `json:"rolls"`
	Placed     int                   `json:"bets_placed"`
	Rejected   int                   `json:"bets_rejected"`
	Errors     int                   `json:"errors"`
	DurationMS int64                 `json:"duration_ms"`
	RollStats  *statistics.RollStats `json:"roll_stats"`
}

func (c *SimulateGamesCmd) config(app *App) (simulator.Config, error) {
	sim := app.Config.Simulation(c.Simulation)
	if sim == nil {
		return simulator.Config{}, fmt.Errorf("unknown simulation %s", c.Simulation)
	}
	table, err := app.table(sim.Table)
	if err != nil {
		return simulator.Config{}, err
	}
	start, err := bankroll(table, c.Bankroll)
	if err != nil {
		return simulator.Config{}, err
	}

	name := sim.Strategy
	if c.Strategy != "" {
		name = c.Strategy
	}
	strat, err := app.loadStrategy(name)
	if err != nil {
		return simulator.Config{}, err
	}

	weights, err := sim.DieWeights()
	if err != nil {
		return simulator.Config{}, err
	}
	timeout, err := sim.TimeoutDuration()
	if err != nil {
		return simulator.Config{}, err
	}

	cfg := simulator.Config{
		Games:         sim.Games,
		Rolls:         sim.Rolls,
		Seed:          app.Seed,
		Workers:       app.Config.Settings.Workers,
		Bankroll:      start,
		Rules:         table.Rules(),
		Weights:       weights,
		Strategy:      strat,
		StopWhenBroke: sim.StopWhenBroke || c.StopWhenBroke,
		Timeout:       timeout,
		Clock:         app.Clock,
		Logger:        app.Logger,
	}
	if c.Games > 0 {
		cfg.Games = c.Games
	}
	if c.Rolls > 0 {
		cfg.Rolls = c.Rolls
	}
	if c.Workers > 0 {
		cfg.Workers = c.Workers
	}
	if c.Timeout > 0 {
		cfg.Timeout = c.Timeout
	}
	return cfg, nil
}

func (c *SimulateGamesCmd) Run(app *App) error {
	cfg, err := c.config(app)
	if err != nil {
		return err
	}
	app.Logger.Info("Starting simulation",
		"strategy", cfg.Strategy.Name,
		"games", cfg.Games,
		"rolls", cfg.Rolls,
		"bankroll", craps.FormatAmount(cfg.Bankroll),
		"seed", cfg.Seed)

	res, err := simulator.New(cfg).Run(app.Context)
	if err != nil {
		return err
	}
	if err := res.Games.Validate(); err != nil && res.Games.Games > 0 {
		app.Logger.Warn("statistics failed validation", "error", err)
	}

	if c.Stats != "" {
		if err := fileutil.WriteAtomic(c.Stats, 0o644, res.Rolls.WriteJSON); err != nil {
			return err
		}
	}

	return app.output(c.Output, func(w io.Writer) error {
		if c.Format == "text" {
			app.printer(w).Simulation(res)
			return nil
		}
		s := res.Games
		low, high := s.ConfidenceInterval95()
		return json.NewEncoder(w).Encode(gamesRecord{
			RunID:      res.RunID,
			Strategy:   res.Strategy,
			Seed:       res.Seed,
			Games:      s.Games,
			Mean:       s.Mean(),
			Median:     s.Median(),
			StdDev:     s.StdDev(),
			CI95:       [2]float64{low, high},
			Winners:    s.Winners,
			Losers:     s.Losers,
			Rolls:      s.Rolls,
			Placed:     s.Placed,
			Rejected:   s.Rejected,
			Errors:     s.Errors,
			DurationMS: res.Duration.Milliseconds(),
			RollStats:  res.Rolls,
		})
	})
}
