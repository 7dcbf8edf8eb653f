package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/coder/quartz"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Parse      ParseCmd      `cmd:"" help:"Convert plain-text roll series data"`
	Statistics StatisticsCmd `cmd:"" help:"Compute roll statistics from roll events"`
	Combine    CombineCmd    `cmd:"" help:"Add statistics files together"`
	Simulate   SimulateCmd   `cmd:"" help:"Simulate dice rolls or strategy games"`
	Strategy   StrategyCmd   `cmd:"" help:"Inspect strategy programs"`
	Play       PlayCmd       `cmd:"" help:"Play a strategy roll by roll"`
}

type Globals struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Config   string           `short:"c" default:"cdc.hcl" help:"Path to HCL configuration file"`
	Seed     *int64           `help:"Seed the RNG with this value for reproducible results"`
	LogLevel string           `short:"l" help:"Log level: debug, info, warn or error (overrides config)"`
	NoColor  bool             `help:"Disable coloured output"`
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, quartz.NewReal()); err != nil {
		fmt.Fprintf(os.Stderr, "cdc: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, clock quartz.Clock) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("cdc"),
		kong.Description("Craps dice analysis and strategy simulation"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	app, err := newApp(&cli.Globals, stdin, stdout, stderr, clock)
	if err != nil {
		return err
	}
	ctx, stop := signalContext(app.Logger)
	defer stop()
	app.Context = ctx

	return kctx.Run(app)
}
