// Package simulator plays a strategy through many independent, seeded craps
// games and aggregates the outcomes.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"math/big"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/crapsdice/internal/craps"
	"github.com/lox/crapsdice/internal/dice"
	"github.com/lox/crapsdice/internal/randutil"
	"github.com/lox/crapsdice/internal/rollevent"
	"github.com/lox/crapsdice/internal/runid"
	"github.com/lox/crapsdice/internal/statistics"
	"github.com/lox/crapsdice/internal/strategy"
)

// ErrTimeout is returned when a run exceeds Config.Timeout.
var ErrTimeout = errors.New("simulation timed out")

// Config holds configuration for running simulations
type Config struct {
	Games int
	// Rolls is the number of rolls in each game.
	Rolls int
	Seed  int64
	// Workers defaults to the number of CPUs.
	Workers  int
	Bankroll *big.Rat
	Rules    craps.TableRules
	// Weights are the relative face weights of each die; all zero means fair.
	Weights  [6]float64
	Strategy *strategy.Strategy
	// StopWhenBroke ends a game early once the bankroll is gone and no bets
	// remain on the table.
	StopWhenBroke bool
	Timeout       time.Duration
	Clock         quartz.Clock
	Logger        *log.Logger
}

// Result is the outcome of a run.
type Result struct {
	RunID    string
	Strategy string
	Seed     int64
	Games    *statistics.Statistics
	Rolls    *statistics.RollStats
	Started  time.Time
	Duration time.Duration
}

// Simulator runs craps games for a strategy
type Simulator struct {
	config Config
	clock  quartz.Clock
	logger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	clock := config.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if config.Weights == ([6]float64{}) {
		config.Weights = randutil.FairDieWeights
	}
	if config.Bankroll == nil {
		config.Bankroll = new(big.Rat)
	}
	return &Simulator{config: config, clock: clock, logger: logger.WithPrefix("simulator")}
}

func (s *Simulator) validate() error {
	switch {
	case s.config.Strategy == nil:
		return errors.New("no strategy configured")
	case s.config.Games < 0:
		return fmt.Errorf("games must not be negative, got %d", s.config.Games)
	case s.config.Rolls <= 0:
		return fmt.Errorf("rolls per game must be positive, got %d", s.config.Rolls)
	}
	_, err := randutil.NewDie(s.config.Weights)
	return err
}

func (s *Simulator) workers() int {
	n := s.config.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > s.config.Games {
		n = s.config.Games
	}
	return max(n, 1)
}

// partial is one worker's share of the run.
type partial struct {
	games *statistics.Statistics
	rolls *statistics.RollStats
}

// Run plays every game and returns the merged results. Game i always uses
// the seed derived from (Seed, i), and partials are merged in game order, so
// the result does not depend on the number of workers.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	id, err := runid.New()
	if err != nil {
		return nil, err
	}

	started := s.clock.Now()
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	if s.config.Timeout > 0 {
		timer := s.clock.AfterFunc(s.config.Timeout, func() { cancel(ErrTimeout) })
		defer timer.Stop()
	}

	workers := s.workers()
	parts := make([]partial, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * s.config.Games / workers
		hi := (w + 1) * s.config.Games / workers
		g.Go(func() error {
			p, err := s.runGames(gctx, lo, hi)
			if err != nil {
				return err
			}
			parts[w] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if cause := context.Cause(ctx); cause != nil {
			return nil, cause
		}
		return nil, err
	}

	res := &Result{
		RunID:    id,
		Strategy: s.config.Strategy.Name,
		Seed:     s.config.Seed,
		Games:    &statistics.Statistics{},
		Rolls:    statistics.NewRollStats(),
		Started:  started,
	}
	for _, p := range parts {
		res.Games.Merge(p.games)
		res.Rolls.Merge(p.rolls)
	}
	res.Duration = s.clock.Since(started)

	s.logger.Info("simulation complete",
		"run", id,
		"strategy", res.Strategy,
		"games", res.Games.Games,
		"mean", res.Games.Mean(),
		"duration", res.Duration)
	return res, nil
}

func (s *Simulator) runGames(ctx context.Context, lo, hi int) (partial, error) {
	p := partial{games: &statistics.Statistics{}, rolls: statistics.NewRollStats()}
	for i := lo; i < hi; i++ {
		if err := ctx.Err(); err != nil {
			return partial{}, err
		}
		result, err := s.playGame(i, p.rolls)
		if err != nil {
			return partial{}, fmt.Errorf("game %d: %w", i, err)
		}
		p.games.Add(result)
	}
	return p, nil
}

// playGame plays game n to completion, recording each roll into rolls.
func (s *Simulator) playGame(n int, rolls *statistics.RollStats) (statistics.GameResult, error) {
	seed := randutil.Derive(s.config.Seed, n)
	src, err := dice.NewWeightedSource(s.config.Weights, seed)
	if err != nil {
		return statistics.GameResult{}, err
	}
	game := craps.NewGame(craps.Options{
		Bankroll: s.config.Bankroll,
		Rules:    s.config.Rules,
		Clock:    s.clock,
		Logger:   s.logger,
	})
	player := strategy.NewPlayer(s.config.Strategy, game, s.logger)
	classifier := rollevent.NewClassifier(rollevent.NoPoint)

	result := statistics.GameResult{Seed: seed}
	for result.Rolls < s.config.Rolls {
		if s.config.StopWhenBroke && game.Bankroll().Sign() <= 0 && len(game.Bets()) == 0 {
			break
		}
		r := src.Next()
		turn, _ := player.Play(r)
		rolls.Add(classifier.Next(r))
		result.Rolls++
		result.BetsPlaced += len(turn.Placed)
		for _, err := range turn.Errors {
			if isRejection(err) {
				result.BetsRejected++
			} else {
				result.Errors++
			}
		}
	}

	net := new(big.Rat).Sub(game.Bankroll(), s.config.Bankroll)
	result.Net, _ = net.Float64()
	s.logger.Debug("game finished", "game", n, "seed", seed, "rolls", result.Rolls, "net", craps.FormatAmount(net))
	return result, nil
}

func isRejection(err error) bool {
	var illegal *craps.IllegalBetError
	var change *craps.IllegalBetChangeError
	return errors.As(err, &illegal) || errors.As(err, &change)
}

// RollSeries returns n rolls of two dice sharing the given face weights.
func RollSeries(weights [6]float64, seed int64, n int) (iter.Seq[dice.Roll], error) {
	if weights == ([6]float64{}) {
		weights = randutil.FairDieWeights
	}
	src, err := dice.NewWeightedSource(weights, seed)
	if err != nil {
		return nil, err
	}
	return dice.Take(src, n), nil
}
