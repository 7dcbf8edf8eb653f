package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/crapsdice/internal/dice"
	"github.com/lox/crapsdice/internal/rollevent"
	"github.com/lox/crapsdice/internal/statistics"
)

type harness struct {
	t   *testing.T
	dir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{t: t, dir: t.TempDir()}
}

func (h *harness) path(name string) string {
	return filepath.Join(h.dir, name)
}

func (h *harness) write(name, content string) string {
	h.t.Helper()
	p := h.path(name)
	require.NoError(h.t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

// run executes the CLI with a missing config file, so defaults apply.
func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"--config", h.path("missing.hcl"), "--no-color", "--seed", "1"}, args...)
	err := run(args, strings.NewReader(stdin), &stdout, &stderr, quartz.NewMock(h.t))
	return stdout.String(), err
}

func (h *harness) mustRun(stdin string, args ...string) string {
	h.t.Helper()
	out, err := h.run(stdin, args...)
	require.NoError(h.t, err)
	return out
}

func TestParseRollseriesCounts(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	out := h.mustRun("# session one\n44 34\n\n66\n", "parse", "rollseries", "-f", "counts", "--label", "demo")

	var rec countsRecord
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	require.NotNil(t, rec.Label)
	assert.Equal(t, "demo", *rec.Label)
	assert.Equal(t, int64(1), rec.Counts[8])
	assert.Equal(t, int64(1), rec.Counts[7])
	assert.Equal(t, int64(1), rec.Counts[12])
	assert.Equal(t, int64(0), rec.Counts[2])
	assert.Equal(t, int64(1), rec.CountsHard[8])
}

func TestParseRollseriesErrors(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	_, err := h.run("44 3", "parse", "rollseries", "-f", "counts")
	var incomplete *dice.IncompleteRollSeriesError
	assert.ErrorAs(t, err, &incomplete)

	_, err = h.run("47", "parse", "rollseries", "-f", "chrono")
	var impossible *dice.ImpossibleDieValueError
	assert.ErrorAs(t, err, &impossible)

	_, err = h.run("44", "parse", "rollseries", "-f", "yaml")
	assert.Error(t, err)
}

func TestChronoStatisticsCombine(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	series := h.write("rolls.txt", "44 56 34 11 66\n")
	chrono := h.path("events.ndjson")
	h.mustRun("", "parse", "rollseries", "-f", "chrono", "-i", series, "-o", chrono)

	data, err := os.ReadFile(chrono)
	require.NoError(t, err)
	var kinds []rollevent.Kind
	for ev, err := range rollevent.Decode(bytes.NewReader(data)) {
		require.NoError(t, err)
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []rollevent.Kind{
		rollevent.PointEstablished,
		rollevent.Roll,
		rollevent.PointLost,
		rollevent.Craps,
		rollevent.Craps,
	}, kinds)

	statsPath := h.path("stats.json")
	h.mustRun("", "statistics", "-i", chrono, "-o", statsPath)
	f, err := os.Open(statsPath)
	require.NoError(t, err)
	stats, err := statistics.ReadRollStats(f)
	f.Close()
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.NumRolls.Overall)
	assert.Equal(t, int64(2), stats.NumRolls.Point)
	assert.Equal(t, int64(1), stats.Points.Lost[8])

	out := h.mustRun("", "combine", statsPath, statsPath)
	combined, err := statistics.ReadRollStats(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, int64(10), combined.NumRolls.Overall)
	assert.Equal(t, int64(2), combined.Points.Lost[8])

	text := h.mustRun("", "statistics", "-i", chrono, "-f", "text")
	assert.Contains(t, text, "Roll statistics")
	assert.Contains(t, text, "Rolls: 5 (2 with a point on)")
}

func TestSimulateRollseries(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	out := h.mustRun("", "simulate", "rollseries", "-n", "45")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4+3)
	for _, l := range lines[:4] {
		assert.True(t, strings.HasPrefix(l, "## "), l)
	}
	assert.Len(t, strings.Fields(lines[4]), 20)
	assert.Len(t, strings.Fields(lines[6]), 5)

	var rolls []dice.Roll
	for r, err := range dice.ReadSeries(strings.NewReader(out)) {
		require.NoError(t, err)
		rolls = append(rolls, r)
	}
	assert.Len(t, rolls, 45)

	again := h.mustRun("", "simulate", "rollseries", "-n", "45")
	assert.Equal(t, lines[1:], strings.Split(strings.TrimSpace(again), "\n")[1:])
}

func TestSimulateRollseriesWeighted(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	// Only fives were ever seen, so only fives are rolled.
	stats := h.write("fives.json", `{"counts_dice":{"1":0,"2":0,"3":0,"4":0,"5":12,"6":0}}`)
	out := h.mustRun("", "simulate", "rollseries", "-i", stats, "-n", "10")
	assert.Contains(t, out, "## weights: [0 0 0 0 12 0]")
	for r, err := range dice.ReadSeries(strings.NewReader(out)) {
		require.NoError(t, err)
		assert.Equal(t, dice.MustNew(5, 5), r)
	}

	_, err := h.run("", "simulate", "rollseries", "-n", "0")
	assert.Error(t, err)
}

func TestSimulateGames(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	statsPath := h.path("rolls.json")
	out := h.mustRun("", "simulate", "games", "--strategy", "place", "-n", "12", "--rolls", "25", "-w", "3",
		"-f", "json", "--stats", statsPath)

	var rec gamesRecord
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "place", rec.Strategy)
	assert.Equal(t, int64(1), rec.Seed)
	assert.Equal(t, 12, rec.Games)
	assert.Equal(t, 12*25, rec.Rolls)
	assert.Equal(t, int64(12*25), rec.RollStats.NumRolls.Overall)

	f, err := os.Open(statsPath)
	require.NoError(t, err)
	defer f.Close()
	stats, err := statistics.ReadRollStats(f)
	require.NoError(t, err)
	assert.Equal(t, rec.RollStats.Counts, stats.Counts)

	text := h.mustRun("", "simulate", "games", "-n", "5", "--rolls", "10")
	assert.Contains(t, text, "Simulation of pass")
	assert.Contains(t, text, "Games: 5")

	_, err = h.run("", "simulate", "games", "-s", "nightly")
	assert.ErrorContains(t, err, "unknown simulation")
}

func TestSimulateGamesFromConfig(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	strat := h.write("field.cdc", "make bet field 10 done\n")
	cfg := h.write("cdc.hcl", `
table "cheap" {
  bankroll = "10"
}

strategy "field" {
  source = "`+strat+`"
}

simulation "broke" {
  strategy        = "field"
  games           = 4
  rolls           = 50
  weights         = [0, 0, 0, 1, 0, 0]
  stop_when_broke = true
}
`)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--config", cfg, "simulate", "games", "-s", "broke", "-f", "json"},
		strings.NewReader(""), &stdout, &stderr, quartz.NewMock(t))
	require.NoError(t, err)

	var rec gamesRecord
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &rec))
	assert.Equal(t, "field", rec.Strategy)
	assert.Equal(t, 4, rec.Games)
	assert.Equal(t, 4, rec.Rolls)
	assert.Equal(t, 4, rec.Losers)
	assert.Equal(t, -10.0, rec.Mean)
}

func TestStrategyCheck(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	out := h.mustRun("", "strategy", "check", "pass", "builtin:come")
	assert.Contains(t, out, "pass")
	assert.Contains(t, out, "Complexity:")

	good := h.write("good.cdc", "make bet field 5 done\n")
	bad := h.write("bad.cdc", "make bet field done\n")
	out, err := h.run("", "strategy", "check", good, bad)
	assert.ErrorContains(t, err, "1 of 2 strategies failed")
	assert.Contains(t, out, "make bet field 5 done")

	out = h.mustRun("", "strategy", "check", "-q", good)
	assert.Empty(t, out)
}

func TestStrategyList(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	out := h.mustRun("", "strategy", "list")
	assert.Contains(t, out, "martingale-field")
	assert.Contains(t, out, "builtin:dontpass")
}

func TestPlay(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	// Pass line with odds: 44 sets the point, 51 rolls, 62 wins.
	series := h.write("rolls.txt", "44 51 62\n")
	out := h.mustRun("", "play", "pass", "-i", series, "--bankroll", "100")
	assert.Contains(t, out, "#1 44")
	assert.Contains(t, out, "placed Bet<Pass 10 on>")
	assert.Contains(t, out, "placed Bet<Odds8 10 on>")
	assert.Contains(t, out, "pass: 3 rolls, bankroll 122 (+22), 0 bets still on the table")

	out = h.mustRun("", "play", "-q", "-n", "7", "dontpass")
	assert.Contains(t, out, "dontpass: 7 rolls")
	assert.NotContains(t, out, "#1")

	_, err := h.run("", "play", "nope")
	assert.Error(t, err)
}

func TestInvalidConfig(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	cfg := h.write("cdc.hcl", `settings { log_level = "loud" }`)
	var stdout, stderr bytes.Buffer
	err := run([]string{"--config", cfg, "strategy", "list"}, strings.NewReader(""), &stdout, &stderr, quartz.NewMock(t))
	assert.ErrorContains(t, err, "invalid configuration")

	err = run([]string{"--config", h.path("none.hcl"), "--log-level", "loud", "strategy", "list"},
		strings.NewReader(""), &stdout, &stderr, quartz.NewMock(t))
	assert.ErrorContains(t, err, "invalid log level")
}
