package main

import (
	"io"

	"github.com/lox/crapsdice/internal/rollevent"
	"github.com/lox/crapsdice/internal/statistics"
)

type StatisticsCmd struct {
	Input  string `short:"i" default:"-" help:"From where to read roll events, one per line ('-' for stdin)"`
	Output string `short:"o" default:"-" help:"Where to write statistics ('-' for stdout)"`
	Format string `short:"f" default:"json" enum:"json,text" help:"Output format: json or text"`
}

func (c *StatisticsCmd) Run(app *App) error {
	in, err := app.open(c.Input)
	if err != nil {
		return err
	}
	defer in.Close()

	stats, err := statistics.FromEvents(rollevent.Decode(in))
	if err != nil {
		return err
	}
	app.Logger.Debug("statistics computed", "rolls", stats.NumRolls.Overall)
	return app.output(c.Output, func(w io.Writer) error {
		if c.Format == "text" {
			app.printer(w).RollStats(stats)
			return nil
		}
		return stats.WriteJSON(w)
	})
}

type CombineCmd struct {
	Inputs []string `arg:"" help:"Statistics files to add together ('-' for stdin)"`
	Output string   `short:"o" default:"-" help:"Where to write the combined statistics ('-' for stdout)"`
}

func (c *CombineCmd) Run(app *App) error {
	var all []*statistics.RollStats
	for _, path := range c.Inputs {
		stats, err := readStats(app, path)
		if err != nil {
			return err
		}
		all = append(all, stats)
	}
	combined := statistics.Combine(all...)
	app.Logger.Debug("statistics combined", "files", len(all), "rolls", combined.NumRolls.Overall)
	return app.output(c.Output, combined.WriteJSON)
}

func readStats(app *App, path string) (*statistics.RollStats, error) {
	in, err := app.open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	return statistics.ReadRollStats(in)
}
