package rollevent

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/lox/crapsdice/internal/dice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classifyAll(t *testing.T, series string) ([]RollEvent, error) {
	t.Helper()
	var out []RollEvent
	for ev, err := range Classify(dice.ReadSeries(strings.NewReader(series)), NoPoint) {
		if err != nil {
			return out, err
		}
		out = append(out, ev)
	}
	return out, nil
}

func TestComeOutClassification(t *testing.T) {
	t.Parallel()

	for _, r := range dice.All() {
		ev, next := Transition(NoPoint, r)
		assert.Equal(t, r.Value(), ev.Value())
		switch v := r.Value(); v {
		case 7, 11:
			assert.Equal(t, Natural, ev.Kind)
			assert.Equal(t, NoPoint, next)
		case 2, 3, 12:
			assert.Equal(t, Craps, ev.Kind)
			assert.Equal(t, NoPoint, next)
		default:
			assert.Equal(t, PointEstablished, ev.Kind)
			assert.Equal(t, Point(v), next)
			assert.Equal(t, Point(v), ev.Point)
		}
	}
}

func TestPointPhaseClassification(t *testing.T) {
	t.Parallel()

	for _, p := range PointNumbers {
		for _, r := range dice.All() {
			ev, next := Transition(Point(p), r)
			switch r.Value() {
			case 7:
				assert.Equal(t, PointLost, ev.Kind)
				assert.Equal(t, Point(p), ev.Point)
				assert.Equal(t, NoPoint, next)
			case p:
				assert.Equal(t, PointWon, ev.Kind)
				assert.Equal(t, Point(p), ev.Point)
				assert.Equal(t, NoPoint, next)
			default:
				assert.Equal(t, Roll, ev.Kind)
				assert.Equal(t, Point(p), next)
			}
		}
	}
}

func TestPointFlagsAreExclusive(t *testing.T) {
	t.Parallel()

	events, err := classifyAll(t, "44 44 35 61 66 55 23 55")
	require.NoError(t, err)
	for _, ev := range events {
		if !ev.Kind.IsPoint() {
			continue
		}
		n := 0
		for _, f := range []bool{ev.IsEstablished(), ev.IsWon(), ev.IsLost()} {
			if f {
				n++
			}
		}
		assert.Equal(t, 1, n, "event %s", ev)
		if ev.IsEstablished() || ev.IsWon() {
			assert.Equal(t, ev.Value(), int(ev.Point))
		}
	}
}

func TestClassifySequence(t *testing.T) {
	t.Parallel()

	events, err := classifyAll(t, "44 44")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, PointEstablished, events[0].Kind)
	assert.Equal(t, Point(8), events[0].Point)
	assert.Equal(t, PointWon, events[1].Kind)
	assert.Equal(t, Point(8), events[1].Point)

	events, err = classifyAll(t, "4416")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, PointLost, events[1].Kind)
	assert.Equal(t, Point(8), events[1].Point)
	assert.Equal(t, 7, events[1].Value())
}

func TestClassifyErrorsKeepPartialOutput(t *testing.T) {
	t.Parallel()

	events, err := classifyAll(t, "11 3")
	var inc *dice.IncompleteRollSeriesError
	require.ErrorAs(t, err, &inc)
	assert.Len(t, events, 1)

	events, err = classifyAll(t, "11 08")
	var bad *dice.ImpossibleDieValueError
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, 0, bad.Value)
	assert.Len(t, events, 1)
}

func TestClassifyRejectsUnvalidatedRolls(t *testing.T) {
	t.Parallel()

	var gotErr error
	for _, err := range Classify(dice.FromRolls([]dice.Roll{{D1: 3, D2: 9}}), NoPoint) {
		gotErr = err
	}
	var bad *dice.ImpossibleDieValueError
	require.ErrorAs(t, gotErr, &bad)
	assert.Equal(t, 9, bad.Value)
}

func TestClassifyResumesFromPoint(t *testing.T) {
	t.Parallel()

	var kinds []Kind
	for ev, err := range Classify(dice.FromRolls([]dice.Roll{dice.ForValue(6)}), Point(6)) {
		require.NoError(t, err)
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []Kind{PointWon}, kinds)
}

func TestRecordRoundTrip(t *testing.T) {
	t.Parallel()

	events := []RollEvent{
		{Kind: Craps, Dice: dice.MustNew(1, 1)},
		{Kind: Craps, Dice: dice.MustNew(6, 6)},
		{Kind: Natural, Dice: dice.MustNew(3, 4)},
		{Kind: Natural, Dice: dice.MustNew(5, 6)},
		{Kind: Roll, Dice: dice.MustNew(2, 6)},
		{Kind: PointEstablished, Dice: dice.MustNew(1, 3), Point: 4},
		{Kind: PointWon, Dice: dice.MustNew(4, 6), Point: 10},
		{Kind: PointLost, Dice: dice.MustNew(2, 5), Point: 9},
	}
	for _, ev := range events {
		data, err := json.Marshal(ev)
		require.NoError(t, err)

		var back RollEvent
		require.NoError(t, json.Unmarshal(data, &back), "record %s", data)
		assert.Equal(t, ev, back)
	}
}

func TestRecordShape(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(RollEvent{Kind: PointLost, Dice: dice.MustNew(3, 4), Point: 6})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"type":"point","dice":[3,4],"value":7,"args":{"is_established":false,"is_won":false,"is_lost":true,"point_value":6}}`,
		string(data))

	data, err = json.Marshal(RollEvent{Kind: Natural, Dice: dice.MustNew(5, 6)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"natural","dice":[5,6],"value":11,"args":{}}`, string(data))
}

func TestRecordRejectsInconsistentInput(t *testing.T) {
	t.Parallel()

	bad := []string{
		`{"type":"roll","dice":[3,4],"value":8,"args":{}}`,
		`{"type":"point","dice":[3,3],"value":6,"args":{"is_established":true,"is_won":true,"is_lost":false}}`,
		`{"type":"point","dice":[3,3],"value":6,"args":{"is_established":false,"is_won":false,"is_lost":false}}`,
		`{"type":"bogus","dice":[3,3],"value":6,"args":{}}`,
		`{"type":"roll","dice":[0,3],"value":3,"args":{}}`,
	}
	for _, in := range bad {
		var ev RollEvent
		assert.Error(t, json.Unmarshal([]byte(in), &ev), in)
	}
}

func TestNDJSONRoundTrip(t *testing.T) {
	t.Parallel()

	events, err := classifyAll(t, "11 34 22 56 13 22 61")
	require.NoError(t, err)

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	for _, ev := range events {
		require.NoError(t, enc.Encode(ev))
	}

	var back []RollEvent
	for ev, err := range Decode(&buf) {
		require.NoError(t, err)
		back = append(back, ev)
	}
	assert.Equal(t, events, back)
}
