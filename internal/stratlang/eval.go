package stratlang

import (
	"cmp"
	"slices"

	"github.com/lox/crapsdice/internal/craps"
	"github.com/lox/crapsdice/internal/dice"
)

// Evaluator runs compiled programs against engine snapshots. It keeps the
// user variables of one game between rolls and is not safe for concurrent
// use.
type Evaluator struct {
	vars map[string]Value
}

func NewEvaluator() *Evaluator {
	return &Evaluator{vars: make(map[string]Value)}
}

// Var returns the current value of a user variable.
func (e *Evaluator) Var(name string) (Value, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Reset forgets all user variables.
func (e *Evaluator) Reset() {
	clear(e.vars)
}

// statement is the per-statement scratch space. Bets made by a statement
// only count once the whole statement evaluated cleanly.
type statement struct {
	state craps.EngineState
	bets  []craps.Bet
}

// Eval walks the program once and returns the bets it asks for, in order.
// A failing statement is reported in errs and skipped; the rest still run.
func (e *Evaluator) Eval(p *Program, state craps.EngineState) (bets []craps.Bet, errs []error) {
	stack := make([]Node, 0, len(p.stmts))
	push := func(nodes ...Node) {
		for i := len(nodes) - 1; i >= 0; i-- {
			stack = append(stack, nodes[i])
		}
	}
	push(p.stmts...)

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		st := &statement{state: state}
		switch n := n.(type) {
		case *Empty:
			continue
		case *Block:
			push(n.Stmts...)
			continue
		case *CondOp:
			cond, err := e.eval(n.Cond, st)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if cond.Truthy() {
				push(n.Then)
			} else if n.Else != nil {
				push(n.Else)
			}
		case *AssignOp:
			v, err := e.eval(n.Expr, st)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			e.vars[n.Name] = v
		default:
			if _, err := e.eval(n, st); err != nil {
				errs = append(errs, err)
				continue
			}
		}
		bets = append(bets, st.bets...)
	}
	return bets, errs
}

func (e *Evaluator) eval(n Node, st *statement) (Value, error) {
	switch n := n.(type) {
	case *IntLit:
		return Int(n.Value), nil
	case *FloatLit:
		return Float(n.Value), nil
	case *BoolLit:
		return Bool(n.Value), nil
	case *VarRef:
		return e.lookup(n, st.state)
	case *TailOp:
		rolls := historyOf(n.List, st.state)
		if len(rolls) == 0 {
			return List(nil), nil
		}
		if n.N == 1 {
			return Dice(rolls[len(rolls)-1]), nil
		}
		return List(slices.Clone(rolls[max(0, len(rolls)-n.N):])), nil
	case *LenOp:
		return Int(int64(len(historyOf(n.List, st.state)))), nil
	case *HasBet:
		number, err := e.betNumber(n, n.Bet, st)
		if err != nil {
			return Value{}, err
		}
		return Bool(st.state.HasBet(n.Bet.Kind, int(number), n.Bet.Dont)), nil
	case *MakeBet:
		bet, err := e.makeBet(n, st)
		if err != nil {
			return Value{}, err
		}
		st.bets = append(st.bets, bet)
		return Bool(true), nil
	case *BinOp:
		return e.binary(n, st)
	}
	return Value{}, evalErrorf(n, "not an expression")
}

func (e *Evaluator) lookup(n *VarRef, state craps.EngineState) (Value, error) {
	switch n.Name {
	case "point":
		return Int(int64(state.Point)), nil
	case "bankroll":
		if state.Bankroll == nil {
			return Int(0), nil
		}
		return fromRat(state.Bankroll), nil
	}
	v, ok := e.vars[n.Name]
	if !ok {
		return Value{}, evalErrorf(n, "unknown variable %s", n.Name)
	}
	return v, nil
}

func historyOf(id ListID, state craps.EngineState) []dice.Roll {
	switch id {
	case ListRolls:
		return state.Rolls
	case ListPoints:
		return state.Points
	case ListSincePoint:
		return state.SincePoint
	}
	return nil
}

func (e *Evaluator) betNumber(n Node, spec BetSpec, st *statement) (int64, error) {
	if spec.Number == nil {
		return 0, nil
	}
	v, err := e.eval(spec.Number, st)
	if err != nil {
		return 0, err
	}
	num, ok := v.AsInt()
	if !ok {
		return 0, evalErrorf(n, "bet number must be an integer, got %s", v.Kind())
	}
	if err := validateBetNumber(spec.Kind, num); err != nil {
		return 0, &EvalError{Node: n, Msg: "bad bet number", Err: err}
	}
	return num, nil
}

func (e *Evaluator) makeBet(n *MakeBet, st *statement) (craps.Bet, error) {
	number, err := e.betNumber(n, n.Bet, st)
	if err != nil {
		return craps.Bet{}, err
	}
	v, err := e.eval(n.Amount, st)
	if err != nil {
		return craps.Bet{}, err
	}
	amount, ok := v.AsRat()
	if !ok {
		return craps.Bet{}, evalErrorf(n, "bet amount must be a number, got %s", v.Kind())
	}

	var bet craps.Bet
	switch n.Bet.Kind {
	case craps.Pass:
		bet = craps.NewPass(amount)
	case craps.DontPass:
		bet = craps.NewDontPass(amount)
	case craps.Come:
		bet = craps.NewCome(amount)
	case craps.DontCome:
		bet = craps.NewDontCome(amount)
	case craps.Field:
		bet = craps.NewField(amount)
	case craps.Place:
		bet, err = craps.NewPlace(int(number), amount)
	case craps.HardWay:
		bet, err = craps.NewHardWay(int(number), amount)
	case craps.Odds:
		bet, err = craps.NewOdds(int(number), n.Bet.Dont, amount)
	default:
		return craps.Bet{}, evalErrorf(n, "unknown bet kind %s", n.Bet.Kind)
	}
	if err != nil {
		return craps.Bet{}, &EvalError{Node: n, Msg: "bad bet", Err: err}
	}
	bet.Working = !n.Off
	return bet, nil
}

func (e *Evaluator) binary(n *BinOp, st *statement) (Value, error) {
	left, err := e.eval(n.Left, st)
	if err != nil {
		return Value{}, err
	}
	switch n.Op {
	case OpAnd:
		if !left.Truthy() {
			return Bool(false), nil
		}
		right, err := e.eval(n.Right, st)
		if err != nil {
			return Value{}, err
		}
		return Bool(right.Truthy()), nil
	case OpOr:
		if left.Truthy() {
			return Bool(true), nil
		}
		right, err := e.eval(n.Right, st)
		if err != nil {
			return Value{}, err
		}
		return Bool(right.Truthy()), nil
	}

	right, err := e.eval(n.Right, st)
	if err != nil {
		return Value{}, err
	}
	if n.Op.isComparison() {
		return compare(n, left, right)
	}
	return arithmetic(n, left, right)
}

func arithmetic(n *BinOp, left, right Value) (Value, error) {
	li, lok := left.AsInt()
	ri, rok := right.AsInt()
	if lok && rok {
		switch n.Op {
		case OpAdd:
			return Int(li + ri), nil
		case OpSub:
			return Int(li - ri), nil
		case OpMul:
			return Int(li * ri), nil
		case OpDiv:
			if ri == 0 {
				return Value{}, evalErrorf(n, "division by zero")
			}
			if li%ri == 0 {
				return Int(li / ri), nil
			}
			return Float(float64(li) / float64(ri)), nil
		}
	}

	lf, lok := left.AsFloat()
	rf, rok := right.AsFloat()
	if !lok || !rok {
		return Value{}, evalErrorf(n, "cannot apply %s to %s and %s", n.Op, left.Kind(), right.Kind())
	}
	switch n.Op {
	case OpAdd:
		return Float(lf + rf), nil
	case OpSub:
		return Float(lf - rf), nil
	case OpMul:
		return Float(lf * rf), nil
	case OpDiv:
		if rf == 0 {
			return Value{}, evalErrorf(n, "division by zero")
		}
		return Float(lf / rf), nil
	}
	return Value{}, evalErrorf(n, "unknown operator %s", n.Op)
}

// compare applies a comparison. A list compared with a scalar is true only
// when every roll in it satisfies the comparison, and an empty list never
// does.
func compare(n *BinOp, left, right Value) (Value, error) {
	switch {
	case left.Kind() == KindList && right.Kind() == KindList:
		return Value{}, evalErrorf(n, "cannot compare two lists")
	case left.Kind() == KindList:
		return compareAll(left.Rolls(), func(r dice.Roll) (bool, error) { return compareScalar(n, Dice(r), right) })
	case right.Kind() == KindList:
		return compareAll(right.Rolls(), func(r dice.Roll) (bool, error) { return compareScalar(n, left, Dice(r)) })
	}
	ok, err := compareScalar(n, left, right)
	if err != nil {
		return Value{}, err
	}
	return Bool(ok), nil
}

func compareAll(rolls []dice.Roll, check func(dice.Roll) (bool, error)) (Value, error) {
	if len(rolls) == 0 {
		return Bool(false), nil
	}
	for _, r := range rolls {
		ok, err := check(r)
		if err != nil {
			return Value{}, err
		}
		if !ok {
			return Bool(false), nil
		}
	}
	return Bool(true), nil
}

func compareScalar(n *BinOp, left, right Value) (bool, error) {
	if left.Kind() == KindBool || right.Kind() == KindBool {
		if left.Kind() != right.Kind() {
			return false, evalErrorf(n, "cannot compare %s with %s", left.Kind(), right.Kind())
		}
		switch n.Op {
		case OpEq:
			return left.Truthy() == right.Truthy(), nil
		case OpNe:
			return left.Truthy() != right.Truthy(), nil
		}
		return false, evalErrorf(n, "booleans are not ordered")
	}

	if li, lok := left.AsInt(); lok {
		if ri, rok := right.AsInt(); rok {
			return applyComparison(n.Op, cmp.Compare(li, ri)), nil
		}
	}
	lf, lok := left.AsFloat()
	rf, rok := right.AsFloat()
	if !lok || !rok {
		return false, evalErrorf(n, "cannot compare %s with %s", left.Kind(), right.Kind())
	}
	return applyComparison(n.Op, cmp.Compare(lf, rf)), nil
}

func applyComparison(op Op, c int) bool {
	switch op {
	case OpEq:
		return c == 0
	case OpNe:
		return c != 0
	case OpLt:
		return c < 0
	case OpLe:
		return c <= 0
	case OpGt:
		return c > 0
	case OpGe:
		return c >= 0
	}
	return false
}
