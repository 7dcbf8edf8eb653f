package stratlang

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/crapsdice/internal/craps"
)

// Node is any element of a parsed strategy. Nodes are immutable once
// parsed and may be shared between evaluations.
type Node interface {
	String() string
	node()
}

// Op is a binary operator.
type Op int

const (
	OpAdd Op = iota + 1
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

var opNames = map[Op]string{
	OpAdd: "+",
	OpSub: "minus",
	OpMul: "*",
	OpDiv: "/",
	OpEq:  "==",
	OpNe:  "!=",
	OpLt:  "<",
	OpLe:  "<=",
	OpGt:  ">",
	OpGe:  ">=",
	OpAnd: "and",
	OpOr:  "or",
}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

func (o Op) isComparison() bool { return o >= OpEq && o <= OpGe }

// ListID names one of the roll histories a strategy can read.
type ListID int

const (
	ListRolls ListID = iota + 1
	ListPoints
	ListSincePoint
)

func (l ListID) String() string {
	switch l {
	case ListRolls:
		return "rolls"
	case ListPoints:
		return "points"
	case ListSincePoint:
		return "rolls since point established"
	}
	return fmt.Sprintf("ListID(%d)", int(l))
}

type IntLit struct{ Value int64 }

type FloatLit struct{ Value float64 }

type BoolLit struct{ Value bool }

// Empty is the statement "done" on its own.
type Empty struct{}

type BinOp struct {
	Op          Op
	Left, Right Node
}

// CondOp runs Then when Cond is truthy, otherwise Else (which may be nil).
type CondOp struct {
	Cond Node
	Then Node
	Else Node
}

// AssignOp stores the value of Expr in a user variable.
type AssignOp struct {
	Name string
	Expr Node
}

// TailOp is "last N list". N is at least one.
type TailOp struct {
	List ListID
	N    int
}

// LenOp is "length of list".
type LenOp struct {
	List ListID
}

// VarRef reads point, bankroll or a user variable.
type VarRef struct {
	Name string
}

// Block is a brace-delimited list of statements.
type Block struct {
	Stmts []Node
}

// BetSpec describes a bet for make bet and has bet. Number is nil for bets
// that take none. Dont only applies to odds; the don't line bets have
// their own kinds.
type BetSpec struct {
	Kind   craps.Kind
	Dont   bool
	Number Node
}

type MakeBet struct {
	Bet    BetSpec
	Amount Node
	Off    bool
}

type HasBet struct {
	Bet BetSpec
}

func (*IntLit) node()   {}
func (*FloatLit) node() {}
func (*BoolLit) node()  {}
func (*Empty) node()    {}
func (*BinOp) node()    {}
func (*CondOp) node()   {}
func (*AssignOp) node() {}
func (*TailOp) node()   {}
func (*LenOp) node()    {}
func (*VarRef) node()   {}
func (*Block) node()    {}
func (*MakeBet) node()  {}
func (*HasBet) node()   {}

func (n *IntLit) String() string { return strconv.FormatInt(n.Value, 10) }

func (n *FloatLit) String() string {
	s := strconv.FormatFloat(n.Value, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (n *BoolLit) String() string { return strconv.FormatBool(n.Value) }
func (n *Empty) String() string   { return "done" }

func (n *BinOp) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left, n.Op, n.Right)
}

func (n *CondOp) String() string {
	s := fmt.Sprintf("if %s then %s", n.Cond, statementString(n.Then))
	if n.Else != nil {
		s += " else " + statementString(n.Else)
	}
	return s
}

func (n *AssignOp) String() string { return fmt.Sprintf("set %s to %s done", n.Name, n.Expr) }

func (n *TailOp) String() string {
	if n.N == 1 {
		return "last " + n.List.String()
	}
	return fmt.Sprintf("last %d %s", n.N, n.List)
}

func (n *LenOp) String() string  { return "length of " + n.List.String() }
func (n *VarRef) String() string { return n.Name }

func (n *Block) String() string {
	parts := make([]string, len(n.Stmts))
	for i, s := range n.Stmts {
		parts[i] = statementString(s)
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

func (n *MakeBet) String() string {
	s := fmt.Sprintf("make bet %s %s", n.Bet, n.Amount)
	if n.Off {
		s += " off"
	}
	return s
}

func (n *HasBet) String() string { return "has bet " + n.Bet.String() }

func (b BetSpec) String() string {
	var name string
	switch b.Kind {
	case craps.Pass:
		name = "pass"
	case craps.DontPass:
		name = "dont pass"
	case craps.Come:
		name = "come"
	case craps.DontCome:
		name = "dont come"
	case craps.Field:
		name = "field"
	case craps.Place:
		name = "place"
	case craps.HardWay:
		name = "hard"
	case craps.Odds:
		name = "odds"
		if b.Dont {
			name = "dont odds"
		}
	default:
		name = b.Kind.String()
	}
	if b.Number != nil {
		name += " " + b.Number.String()
	}
	return name
}

// statementString renders n as it would appear as a statement, adding the
// trailing done that bare expressions need.
func statementString(n Node) string {
	switch n.(type) {
	case *CondOp, *AssignOp, *Block, *Empty:
		return n.String()
	}
	return n.String() + " done"
}
