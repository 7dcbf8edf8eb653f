package main

import (
	"fmt"
	"slices"

	"github.com/lox/crapsdice/internal/strategy"
)

type StrategyCmd struct {
	Check StrategyCheckCmd `cmd:"" help:"Compile strategies and print them in canonical form"`
	List  StrategyListCmd  `cmd:"" help:"List configured and built-in strategies"`
}

type StrategyCheckCmd struct {
	Strategies []string `arg:"" help:"Strategy names, builtin:<name> locations or files"`
	Quiet      bool     `short:"q" help:"Only report failures"`
}

func (c *StrategyCheckCmd) Run(app *App) error {
	failed := 0
	for _, name := range c.Strategies {
		s, err := app.loadStrategy(name)
		if err != nil {
			app.Logger.Error("strategy failed to compile", "strategy", name, "error", err)
			failed++
			continue
		}
		app.Logger.Debug("strategy compiled", "strategy", name, "complexity", s.Program.Complexity())
		if !c.Quiet {
			app.printer(app.Stdout).Strategy(s)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d strategies failed to compile", failed, len(c.Strategies))
	}
	return nil
}

type StrategyListCmd struct{}

func (c *StrategyListCmd) Run(app *App) error {
	var names []string
	for _, sc := range app.Config.Strategies {
		fmt.Fprintf(app.Stdout, "%-20s %s\n", sc.Name, sc.Source)
		names = append(names, sc.Name)
	}
	for _, name := range strategy.BuiltinNames() {
		if slices.Contains(names, name) {
			continue
		}
		fmt.Fprintf(app.Stdout, "%-20s %s%s\n", name, strategy.BuiltinPrefix, name)
	}
	return nil
}
