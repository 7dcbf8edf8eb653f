package main

import (
	"fmt"
	"iter"
	"math/big"

	"github.com/lox/crapsdice/internal/craps"
	"github.com/lox/crapsdice/internal/dice"
	"github.com/lox/crapsdice/internal/simulator"
	"github.com/lox/crapsdice/internal/strategy"
)

type PlayCmd struct {
	Strategy string `arg:"" help:"Strategy name, builtin:<name> location or file"`
	Input    string `short:"i" help:"Roll series to play ('-' for stdin); random fair rolls when unset"`
	Rolls    int    `short:"n" default:"20" help:"Number of random rolls when no input is given"`
	Table    string `short:"t" help:"Table from the config file"`
	Bankroll string `help:"Starting bankroll (overrides the table)"`
	Quiet    bool   `short:"q" help:"Only print the final result"`
}

func (c *PlayCmd) Run(app *App) error {
	s, err := app.loadStrategy(c.Strategy)
	if err != nil {
		return err
	}
	table, err := app.table(c.Table)
	if err != nil {
		return err
	}
	start, err := bankroll(table, c.Bankroll)
	if err != nil {
		return err
	}

	var rolls iter.Seq2[dice.Roll, error]
	if c.Input != "" {
		in, err := app.open(c.Input)
		if err != nil {
			return err
		}
		defer in.Close()
		rolls = dice.ReadSeries(in)
	} else {
		seq, err := simulator.RollSeries([6]float64{}, app.Seed, c.Rolls)
		if err != nil {
			return err
		}
		rolls = withoutErrors(seq)
	}

	game := craps.NewGame(craps.Options{
		Bankroll: start,
		Rules:    table.Rules(),
		Clock:    app.Clock,
		Logger:   app.Logger,
	})
	player := strategy.NewPlayer(s, game, app.Logger)
	printer := app.printer(app.Stdout)

	n := 0
	for r, err := range rolls {
		if err != nil {
			return err
		}
		if err := app.Context.Err(); err != nil {
			return err
		}
		n++
		turn, events := player.Play(r)
		if !c.Quiet {
			printer.Turn(n, r, turn, events, game.Bankroll())
		}
	}

	net := new(big.Rat).Sub(game.Bankroll(), start)
	sign := ""
	if net.Sign() > 0 {
		sign = "+"
	}
	fmt.Fprintf(app.Stdout, "%s: %d rolls, bankroll %s (%s%s), %d bets still on the table\n",
		s.Name, n, craps.FormatAmount(game.Bankroll()), sign, craps.FormatAmount(net), len(game.Bets()))
	return nil
}

func withoutErrors[T any](seq iter.Seq[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for v := range seq {
			if !yield(v, nil) {
				return
			}
		}
	}
}
