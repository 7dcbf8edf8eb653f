package strategy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/crapsdice/internal/craps"
	"github.com/lox/crapsdice/internal/dice"
	"github.com/lox/crapsdice/internal/stratlang"
)

var opts = stratlang.Options{MaxComplexity: stratlang.DefaultMaxComplexity}

func newPlayer(t *testing.T, s *Strategy) *Player {
	t.Helper()
	return NewPlayer(s, craps.NewGame(craps.Options{}), nil)
}

func TestBuiltinsCompile(t *testing.T) {
	t.Parallel()

	names := BuiltinNames()
	assert.Equal(t, []string{"come", "dontpass", "martingale-field", "pass", "place"}, names)
	for _, name := range names {
		s, err := Builtin(name, opts)
		require.NoError(t, err, name)
		assert.Equal(t, name, s.Name)
		assert.Positive(t, s.Program.Complexity())
	}

	_, err := Builtin("nope", opts)
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.cdc")
	require.NoError(t, os.WriteFile(good, []byte("make bet field 5 done\n"), 0o644))
	bad := filepath.Join(dir, "bad.cdc")
	require.NoError(t, os.WriteFile(bad, []byte("make bet field -5 done\n"), 0o644))

	s, err := Load(good, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Program.Complexity())

	_, err = Load(bad, opts)
	var lexErr *stratlang.LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, 15, lexErr.Offset)

	_, err = Load(filepath.Join(dir, "missing.cdc"), opts)
	assert.ErrorIs(t, err, os.ErrNotExist)

	s, err = Load("builtin:place", opts)
	require.NoError(t, err)
	assert.Equal(t, "place", s.Name)
}

func TestPassWithOdds(t *testing.T) {
	t.Parallel()

	s, err := Builtin("pass", opts)
	require.NoError(t, err)
	p := newPlayer(t, s)

	turn, _ := p.Play(dice.MustNew(4, 4))
	assert.Empty(t, turn.Errors)
	require.Len(t, turn.Placed, 1)
	assert.Equal(t, craps.Pass, turn.Placed[0].Kind)

	turn, events := p.Play(dice.MustNew(4, 4))
	assert.Empty(t, turn.Errors)
	require.Len(t, turn.Placed, 1)
	assert.Equal(t, craps.Odds, turn.Placed[0].Kind)
	assert.Equal(t, 8, turn.Placed[0].Number)

	var won int
	for _, e := range events {
		if e.EventType() == craps.EventTypeBetWon {
			won++
		}
	}
	assert.Equal(t, 2, won)
	assert.Zero(t, p.Game().Bankroll().Cmp(craps.Amount(22)))
}

func TestIllegalBetsAreReported(t *testing.T) {
	t.Parallel()

	s, err := Compile("inline", "make bet come 5 done make bet field 5 done", opts)
	require.NoError(t, err)
	p := newPlayer(t, s)

	turn := p.BeforeRoll()
	require.Len(t, turn.Errors, 1)
	var illegal *craps.IllegalBetError
	assert.ErrorAs(t, turn.Errors[0], &illegal)
	require.Len(t, turn.Placed, 1)
	assert.Equal(t, craps.Field, turn.Placed[0].Kind)
	assert.Zero(t, p.Game().Bankroll().Cmp(craps.Amount(-5)))
}

func TestMartingaleField(t *testing.T) {
	t.Parallel()

	s, err := Builtin("martingale-field", opts)
	require.NoError(t, err)
	p := newPlayer(t, s)

	var stakes []int64
	for _, r := range []dice.Roll{dice.MustNew(2, 3), dice.MustNew(2, 3), dice.MustNew(1, 1), dice.MustNew(3, 4)} {
		turn, _ := p.Play(r)
		require.Empty(t, turn.Errors)
		require.Len(t, turn.Placed, 1)
		stakes = append(stakes, turn.Placed[0].Amount.Num().Int64())
	}

	assert.Equal(t, []int64{5, 10, 20, 5}, stakes)
	assert.Zero(t, p.Game().Bankroll().Cmp(craps.Amount(20)))
}
