package main

import (
	"encoding/json"
	"io"
	"iter"

	"github.com/lox/crapsdice/internal/dice"
	"github.com/lox/crapsdice/internal/rollevent"
	"github.com/lox/crapsdice/internal/statistics"
)

type ParseCmd struct {
	Rollseries ParseRollseriesCmd `cmd:"" help:"Read a plain-text roll series and convert it to another format"`
}

type ParseRollseriesCmd struct {
	Input     string `short:"i" default:"-" help:"From where to read rolls ('-' for stdin)"`
	Output    string `short:"o" default:"-" help:"Where to write the result ('-' for stdout)"`
	OutFormat string `short:"f" name:"out-format" required:"" enum:"counts,chrono" help:"Output format: counts or chrono"`
	Label     string `help:"Add this label to counts output"`
}

// countsRecord is the counts output: totals per roll value and per hard way.
type countsRecord struct {
	Label      *string       `json:"label"`
	Counts     map[int]int64 `json:"counts"`
	CountsHard map[int]int64 `json:"counts_hard"`
}

func (c *ParseRollseriesCmd) Run(app *App) error {
	if c.Label != "" && c.OutFormat != "counts" {
		app.Logger.Warn("label will be ignored", "label", c.Label, "format", c.OutFormat)
	}

	in, err := app.open(c.Input)
	if err != nil {
		return err
	}
	defer in.Close()

	events := rollevent.Classify(dice.ReadSeries(in), rollevent.NoPoint)
	return app.output(c.Output, func(w io.Writer) error {
		if c.OutFormat == "chrono" {
			return writeChrono(w, events)
		}
		stats, err := statistics.FromEvents(events)
		if err != nil {
			return err
		}
		rec := countsRecord{Counts: stats.Counts, CountsHard: stats.CountsHard}
		if c.Label != "" {
			rec.Label = &c.Label
		}
		return json.NewEncoder(w).Encode(rec)
	})
}

// writeChrono writes one event per line, in roll order.
func writeChrono(w io.Writer, events iter.Seq2[rollevent.RollEvent, error]) error {
	enc := rollevent.NewEncoder(w)
	for ev, err := range events {
		if err != nil {
			return err
		}
		if err := enc.Encode(ev); err != nil {
			return err
		}
	}
	return nil
}
