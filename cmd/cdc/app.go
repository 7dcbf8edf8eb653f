package main

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/crapsdice/internal/config"
	"github.com/lox/crapsdice/internal/fileutil"
	"github.com/lox/crapsdice/internal/report"
	"github.com/lox/crapsdice/internal/strategy"
)

// App carries what every command needs once flags and config are resolved.
type App struct {
	Context context.Context
	Config  *config.Config
	Logger  *log.Logger
	Stdin   io.Reader
	Stdout  io.Writer
	Clock   quartz.Clock
	Seed    int64
	Color   bool
}

func newApp(g *Globals, stdin io.Reader, stdout, stderr io.Writer, clock quartz.Clock) (*App, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if g.LogLevel != "" {
		cfg.Settings.LogLevel = g.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var seed int64
	switch {
	case g.Seed != nil:
		seed = *g.Seed
	case cfg.Settings.Seed != 0:
		seed = cfg.Settings.Seed
	default:
		seed = clock.Now().UnixNano()
	}

	logger := cfg.Settings.NewLogger(stderr)
	logger.Debug("configuration loaded", "config", g.Config, "seed", seed)

	return &App{
		Context: context.Background(),
		Config:  cfg,
		Logger:  logger,
		Stdin:   stdin,
		Stdout:  stdout,
		Clock:   clock,
		Seed:    seed,
		Color:   !g.NoColor,
	}, nil
}

// open returns the named input, stdin for "" or "-".
func (a *App) open(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(a.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, nil
}

func (a *App) output(path string, write func(w io.Writer) error) error {
	return fileutil.Output(path, a.Stdout, write)
}

func (a *App) printer(w io.Writer) *report.Printer {
	return report.New(w, a.Color)
}

// loadStrategy resolves a configured or built-in strategy name, falling
// back to a builtin: location or a file path.
func (a *App) loadStrategy(name string) (*strategy.Strategy, error) {
	opts := a.Config.StrategyOptions()
	if sc := a.Config.Strategy(name); sc != nil {
		s, err := strategy.Load(sc.Source, opts)
		if err != nil {
			return nil, err
		}
		s.Name = name
		return s, nil
	}
	return strategy.Load(name, opts)
}

// table returns the named table, or the first configured one.
func (a *App) table(name string) (*config.TableConfig, error) {
	if name == "" {
		return &a.Config.Tables[0], nil
	}
	t := a.Config.Table(name)
	if t == nil {
		return nil, fmt.Errorf("unknown table %s", name)
	}
	return t, nil
}

// bankroll returns override when set, otherwise the table's bankroll.
func bankroll(t *config.TableConfig, override string) (*big.Rat, error) {
	if override == "" {
		return t.StartingBankroll()
	}
	r, ok := new(big.Rat).SetString(override)
	if !ok {
		return nil, fmt.Errorf("invalid bankroll %q", override)
	}
	return r, nil
}

// signalContext creates a context that is cancelled on interrupt signals
func signalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Received signal, shutting down", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
