package report

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/crapsdice/internal/craps"
	"github.com/lox/crapsdice/internal/dice"
	"github.com/lox/crapsdice/internal/rollevent"
	"github.com/lox/crapsdice/internal/simulator"
	"github.com/lox/crapsdice/internal/statistics"
	"github.com/lox/crapsdice/internal/strategy"
	"github.com/lox/crapsdice/internal/stratlang"
)

func rollStats(t *testing.T, rolls ...dice.Roll) *statistics.RollStats {
	t.Helper()
	stats, err := statistics.FromEvents(rollevent.Classify(dice.FromRolls(rolls), rollevent.NoPoint))
	require.NoError(t, err)
	return stats
}

func TestSimulation(t *testing.T) {
	t.Parallel()

	games := &statistics.Statistics{}
	games.Add(statistics.GameResult{Net: 10, Rolls: 4, BetsPlaced: 2})
	games.Add(statistics.GameResult{Net: -5, Rolls: 2, BetsPlaced: 1, BetsRejected: 1})

	res := &simulator.Result{
		RunID:    "01h455vb4pex5vsknk084sn02q",
		Strategy: "pass",
		Seed:     7,
		Games:    games,
		Rolls:    rollStats(t, dice.MustNew(4, 4), dice.MustNew(3, 4), dice.MustNew(6, 5)),
		Duration: 2 * time.Second,
	}

	var out strings.Builder
	New(&out, false).Simulation(res)
	text := out.String()

	assert.Contains(t, text, "Simulation of pass")
	assert.Contains(t, text, "Run: 01h455vb4pex5vsknk084sn02q (seed 7)")
	assert.Contains(t, text, "Games: 2")
	assert.Contains(t, text, "Mean: +2.5000 per game")
	assert.Contains(t, text, "Winners: 1 (50.0%)")
	assert.Contains(t, text, "Rolls per game: 3.0")
	assert.Contains(t, text, "Bets rejected: 1")
	assert.Contains(t, text, "=== POINTS ===")
	assert.Contains(t, text, "RSR: 3.000")
	assert.NotContains(t, text, "LEDGER MISMATCH")
	assert.NotContains(t, text, "\x1b[", "no escape codes without colour")
}

func TestRollStatsNoSevens(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	New(&out, false).RollStats(rollStats(t, dice.MustNew(2, 2), dice.MustNew(1, 1)))
	text := out.String()

	assert.Contains(t, text, "Rolls: 2 (1 with a point on)")
	assert.Contains(t, text, statistics.ErrNoSevens.Error())
}

func TestStrategy(t *testing.T) {
	t.Parallel()

	s, err := strategy.Builtin("pass", stratlang.Options{})
	require.NoError(t, err)

	var out strings.Builder
	New(&out, false).Strategy(s)
	text := out.String()

	assert.Contains(t, text, "pass")
	assert.Contains(t, text, "Complexity:")
	assert.Contains(t, text, "make bet")
}

func TestTurn(t *testing.T) {
	t.Parallel()

	game := craps.NewGame(craps.Options{Bankroll: big.NewRat(100, 1)})
	s, err := strategy.Compile("field", "make bet field 5 done", stratlang.Options{})
	require.NoError(t, err)
	player := strategy.NewPlayer(s, game, nil)

	r := dice.MustNew(6, 6)
	turn, events := player.Play(r)

	var out strings.Builder
	New(&out, false).Turn(1, r, turn, events, game.Bankroll())
	text := out.String()

	assert.Contains(t, text, "#1 66")
	assert.Contains(t, text, "placed Bet<Field")
	assert.Contains(t, text, "won")
	assert.Contains(t, text, "bankroll 110")
}
