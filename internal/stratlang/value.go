package stratlang

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/lox/crapsdice/internal/dice"
)

// ValueKind tags a runtime Value.
type ValueKind int

const (
	KindInt ValueKind = iota + 1
	KindFloat
	KindBool
	KindDice
	KindList
)

func (k ValueKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindDice:
		return "dice"
	case KindList:
		return "list"
	}
	return fmt.Sprintf("ValueKind(%d)", int(k))
}

// Value is the result of evaluating an expression.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	b    bool
	d    dice.Roll
	list []dice.Roll
}

func Int(v int64) Value            { return Value{kind: KindInt, i: v} }
func Float(v float64) Value        { return Value{kind: KindFloat, f: v} }
func Bool(v bool) Value            { return Value{kind: KindBool, b: v} }
func Dice(r dice.Roll) Value       { return Value{kind: KindDice, d: r} }
func List(rolls []dice.Roll) Value { return Value{kind: KindList, list: rolls} }

func (v Value) Kind() ValueKind { return v.kind }

// Truthy reports the boolean reading of v: non-zero numbers, any dice and
// non-empty lists are true.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindBool:
		return v.b
	case KindDice:
		return true
	case KindList:
		return len(v.list) > 0
	}
	return false
}

// AsInt returns the integer reading of ints and dice.
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindDice:
		return int64(v.d.Value()), true
	}
	return 0, false
}

// AsFloat returns the numeric reading of ints, floats and dice.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt, KindDice:
		i, _ := v.AsInt()
		return float64(i), true
	}
	return 0, false
}

// AsRat converts a numeric value to an exact amount.
func (v Value) AsRat() (*big.Rat, bool) {
	if i, ok := v.AsInt(); ok {
		return big.NewRat(i, 1), true
	}
	if v.kind == KindFloat && !math.IsNaN(v.f) && !math.IsInf(v.f, 0) {
		return new(big.Rat).SetFloat64(v.f), true
	}
	return nil, false
}

// Rolls returns the dice of a list value.
func (v Value) Rolls() []dice.Roll { return v.list }

func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindDice:
		return v.d.String()
	case KindList:
		parts := make([]string, len(v.list))
		for i, r := range v.list {
			parts[i] = r.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	}
	return "<invalid>"
}

// fromRat reads a bankroll as an int when it is whole.
func fromRat(r *big.Rat) Value {
	if r.IsInt() && r.Num().IsInt64() {
		return Int(r.Num().Int64())
	}
	f, _ := r.Float64()
	return Float(f)
}
